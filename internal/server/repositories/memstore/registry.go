package memstore

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/registry"
)

type RegistryRepository struct {
	s *Store
}

var _ registry.Repository = (*RegistryRepository)(nil)

func (r *RegistryRepository) Create(ctx context.Context, e *models.RegistryEntry) (*models.RegistryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.entries {
		if x.DpnObjectID == e.DpnObjectID {
			return nil, common.ErrorAlreadyExists
		}
	}
	if !r.s.nodeExists(e.FirstNode) {
		return nil, common.ErrorNotFound
	}

	e.ID = r.s.nextID()
	stored := *e
	r.s.entries = append(r.s.entries, &stored)
	return e, nil
}

func (r *RegistryRepository) GetByObjectID(ctx context.Context, dpnObjectID string) (*models.RegistryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, x := range r.s.entries {
		if x.DpnObjectID == dpnObjectID {
			e := *x
			return &e, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *RegistryRepository) List(ctx context.Context, q query.Query) (query.Result[*models.RegistryEntry], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.RegistryEntry{}
	for _, x := range r.s.entries {
		if query.Match(q.Conditions, func(f string) any { return registryField(x, f) }) {
			e := *x
			matched = append(matched, &e)
		}
	}
	query.Sort(matched, q.Order, registryField)

	return query.Result[*models.RegistryEntry]{
		Items: query.Paginate(matched, q.Page),
		Total: len(matched),
		Page:  q.Page,
	}, nil
}

func registryField(e *models.RegistryEntry, field string) any {
	switch field {
	case registry.FieldPublished:
		return e.Published
	case registry.FieldLastModifiedDate:
		return e.LastModifiedDate
	case registry.FieldFirstNode:
		return e.FirstNode
	case registry.FieldObjectType:
		return e.ObjectType
	}
	return nil
}
