package memstore

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/transfers"
)

type TransferRepository struct {
	s *Store
}

var _ transfers.Repository = (*TransferRepository)(nil)

func (r *TransferRepository) Create(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.transfers {
		if x.EventID == t.EventID {
			return nil, common.ErrorAlreadyExists
		}
	}
	if !r.s.nodeExists(t.Node) {
		return nil, common.ErrorNotFound
	}

	t.ID = r.s.nextID()
	t.CreatedOn = r.s.now()
	t.UpdatedOn = t.CreatedOn
	r.s.transfers = append(r.s.transfers, cloneTransfer(t))
	return t, nil
}

func (r *TransferRepository) GetByEventID(ctx context.Context, eventID string) (*models.Transfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, x := range r.s.transfers {
		if x.EventID == eventID {
			return cloneTransfer(x), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *TransferRepository) Update(ctx context.Context, t *models.Transfer) (*models.Transfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.transfers {
		if x.EventID != t.EventID {
			continue
		}
		x.Status = t.Status
		x.Receipt = t.Receipt
		x.Fixity = cloneBool(t.Fixity)
		x.Valid = cloneBool(t.Valid)
		x.Error = t.Error
		x.UpdatedOn = r.s.now()
		return cloneTransfer(x), nil
	}
	return nil, common.ErrorNotFound
}

func (r *TransferRepository) List(ctx context.Context, q query.Query) (query.Result[*models.Transfer], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Transfer{}
	for _, x := range r.s.transfers {
		if query.Match(q.Conditions, func(f string) any { return transferField(x, f) }) {
			matched = append(matched, cloneTransfer(x))
		}
	}
	query.Sort(matched, q.Order, transferField)

	return query.Result[*models.Transfer]{
		Items: query.Paginate(matched, q.Page),
		Total: len(matched),
		Page:  q.Page,
	}, nil
}

func transferField(t *models.Transfer, field string) any {
	switch field {
	case transfers.FieldNode:
		return t.Node
	case transfers.FieldStatus:
		return t.Status
	case transfers.FieldFixity:
		return t.Fixity
	case transfers.FieldValid:
		return t.Valid
	case transfers.FieldCreatedOn:
		return t.CreatedOn
	case transfers.FieldUpdatedOn:
		return t.UpdatedOn
	}
	return nil
}

func cloneTransfer(t *models.Transfer) *models.Transfer {
	c := *t
	c.Fixity = cloneBool(t.Fixity)
	c.Valid = cloneBool(t.Valid)
	return &c
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
