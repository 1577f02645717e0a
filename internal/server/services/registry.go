package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/permissions"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/registry"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
	"github.com/google/uuid"
)

// RegistryFilters are the query parameters accepted by the registry listing.
var RegistryFilters = query.FilterSpec{
	{Param: "before", Field: registry.FieldLastModifiedDate, Comparator: query.LessThan, Kind: query.KindTime},
	{Param: "after", Field: registry.FieldLastModifiedDate, Comparator: query.GreaterThan, Kind: query.KindTime},
	{Param: "first_node", Field: registry.FieldFirstNode, Comparator: query.Exact, Kind: query.KindString},
	{Param: "object_type", Field: registry.FieldObjectType, Comparator: query.Exact, Kind: query.KindString},
}

var registryPermissions = permissions.Set{
	permissions.ModelPermissions{Model: models.ModelRegistryEntry},
}

type RegistryService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
}

func NewRegistryService(tx dbx.Transactor, m repomanager.RepositoryManager) *RegistryService {
	return &RegistryService{tx: tx, repomanager: m}
}

// List returns one page of published entries matching the filters in values.
func (s *RegistryService) List(ctx context.Context, id *models.Identity, values url.Values) (query.Result[*models.RegistryEntry], error) {
	if err := registryPermissions.Check(id, permissions.View); err != nil {
		return query.Result[*models.RegistryEntry]{}, err
	}

	q, err := listQuery(values, RegistryFilters)
	if err != nil {
		return query.Result[*models.RegistryEntry]{}, err
	}
	q.Conditions = append([]query.Condition{query.Eq(registry.FieldPublished, true)}, q.Conditions...)

	return checked(s.repomanager.Registry(s.tx.Conn()).List(ctx, q))
}

// Get looks an entry up by dpn_object_id. Unpublished entries are returned.
// UUIDs are matched in canonical form, so any letter case finds the entry.
func (s *RegistryService) Get(ctx context.Context, id *models.Identity, dpnObjectID string) (*models.RegistryEntry, error) {
	if err := registryPermissions.Check(id, permissions.View); err != nil {
		return nil, err
	}

	if u, err := uuid.Parse(dpnObjectID); err == nil {
		dpnObjectID = u.String()
	}

	e, err := s.repomanager.Registry(s.tx.Conn()).GetByObjectID(ctx, dpnObjectID)
	if err != nil {
		return nil, err
	}
	if err := registryPermissions.CheckObject(id, permissions.View, e); err != nil {
		return nil, err
	}
	return e, nil
}

// AuthorizeCreate reports whether id may add registry entries.
func (s *RegistryService) AuthorizeCreate(id *models.Identity) error {
	return registryPermissions.Check(id, permissions.Add)
}

func (s *RegistryService) Create(ctx context.Context, id *models.Identity, in serializers.RegistryEntryInput) (*models.RegistryEntry, error) {
	if err := registryPermissions.Check(id, permissions.Add); err != nil {
		return nil, err
	}

	e, err := in.Entry()
	if err != nil {
		return nil, err
	}

	firstNode := e.FirstNode
	e, err = s.repomanager.Registry(s.tx.Conn()).Create(ctx, e)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return nil, common.FieldError("dpn_object_id", "registry entry with this dpn object id already exists.")
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.FieldError("first_node", fmt.Sprintf("Node with namespace %q does not exist.", firstNode))
	case err != nil:
		return nil, fmt.Errorf("error creating registry entry: %w", err)
	}
	return e, nil
}
