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
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
)

var nodePermissions = permissions.Set{
	permissions.ModelPermissions{Model: models.ModelNode},
}

type NodeService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
}

func NewNodeService(tx dbx.Transactor, m repomanager.RepositoryManager) *NodeService {
	return &NodeService{tx: tx, repomanager: m}
}

// List returns one page of all nodes in insertion order.
func (s *NodeService) List(ctx context.Context, id *models.Identity, values url.Values) (query.Result[*models.Node], error) {
	if err := nodePermissions.Check(id, permissions.View); err != nil {
		return query.Result[*models.Node]{}, err
	}

	q, err := listQuery(values, nil)
	if err != nil {
		return query.Result[*models.Node]{}, err
	}
	return checked(s.repomanager.Nodes(s.tx.Conn()).List(ctx, q))
}

func (s *NodeService) Get(ctx context.Context, id *models.Identity, namespace string) (*models.Node, error) {
	if err := nodePermissions.Check(id, permissions.View); err != nil {
		return nil, err
	}
	return s.repomanager.Nodes(s.tx.Conn()).GetByNamespace(ctx, namespace)
}

// AuthorizeCreate reports whether id may add nodes.
func (s *NodeService) AuthorizeCreate(id *models.Identity) error {
	return nodePermissions.Check(id, permissions.Add)
}

// AuthorizeUpdate checks the change permission and that the node exists.
func (s *NodeService) AuthorizeUpdate(ctx context.Context, id *models.Identity, namespace string) error {
	if err := nodePermissions.Check(id, permissions.Change); err != nil {
		return err
	}
	_, err := s.repomanager.Nodes(s.tx.Conn()).GetByNamespace(ctx, namespace)
	return err
}

func (s *NodeService) Create(ctx context.Context, id *models.Identity, in serializers.NodeInput) (*models.Node, error) {
	if err := nodePermissions.Check(id, permissions.Add); err != nil {
		return nil, err
	}

	n, err := in.Node()
	if err != nil {
		return nil, err
	}

	n, err = s.repomanager.Nodes(s.tx.Conn()).Create(ctx, n)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return nil, common.FieldError("namespace", "node with this namespace already exists.")
	case err != nil:
		return nil, fmt.Errorf("error creating node: %w", err)
	}
	return n, nil
}

// Update applies a full (PUT) or partial (PATCH) update to the node.
func (s *NodeService) Update(ctx context.Context, id *models.Identity, namespace string, in serializers.NodeInput, partial bool) (*models.Node, error) {
	if err := nodePermissions.Check(id, permissions.Change); err != nil {
		return nil, err
	}

	var updated *models.Node
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Nodes(tx)

		current, err := repo.GetByNamespace(ctx, namespace)
		if err != nil {
			return err
		}
		n, err := in.Apply(current, partial)
		if err != nil {
			return err
		}
		updated, err = repo.Update(ctx, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
