package services

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/permissions"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
)

// TransferFilters are the equality filters accepted by the transfer listing.
var TransferFilters = query.FilterSpec{
	{Param: "status", Field: transfers.FieldStatus, Comparator: query.Exact, Kind: query.KindString},
	{Param: "fixity", Field: transfers.FieldFixity, Comparator: query.Exact, Kind: query.KindBool},
	{Param: "valid", Field: transfers.FieldValid, Comparator: query.Exact, Kind: query.KindBool},
}

// TransferOrdering lists the fields accepted by the "ordering" parameter.
var TransferOrdering = query.OrderingSpec{
	Fields: []string{transfers.FieldCreatedOn, transfers.FieldUpdatedOn},
}

// transferListPermissions is checked before the caller's node is known; it
// never looks at rows.
var transferListPermissions = permissions.Set{
	permissions.ModelPermissions{Model: models.ModelTransfer},
}

var transferPermissions = permissions.Set{
	permissions.ModelPermissions{Model: models.ModelTransfer},
	permissions.IsNodeUser{},
}

type TransferService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
}

func NewTransferService(tx dbx.Transactor, m repomanager.RepositoryManager) *TransferService {
	return &TransferService{tx: tx, repomanager: m}
}

// List returns one page of the transfers owned by the caller's node.
func (s *TransferService) List(ctx context.Context, id *models.Identity, values url.Values) (query.Result[*models.Transfer], error) {
	if err := transferListPermissions.Check(id, permissions.View); err != nil {
		return query.Result[*models.Transfer]{}, err
	}
	if !id.HasProfile() {
		return query.Result[*models.Transfer]{}, common.ErrNoProfile
	}

	q, err := listQuery(values, TransferFilters)
	if err != nil {
		return query.Result[*models.Transfer]{}, err
	}
	q.Conditions = append([]query.Condition{query.Eq(transfers.FieldNode, id.Node)}, q.Conditions...)
	q.Order = TransferOrdering.Parse(values)

	return checked(s.repomanager.Transfers(s.tx.Conn()).List(ctx, q))
}

func (s *TransferService) Get(ctx context.Context, id *models.Identity, eventID string) (*models.Transfer, error) {
	if err := transferPermissions.Check(id, permissions.View); err != nil {
		return nil, err
	}

	t, err := s.repomanager.Transfers(s.tx.Conn()).GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := transferPermissions.CheckObject(id, permissions.View, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AuthorizeUpdate runs both permission phases for an update of eventID
// without touching the payload. Handlers call it before decoding the body.
func (s *TransferService) AuthorizeUpdate(ctx context.Context, id *models.Identity, eventID string) error {
	if err := transferPermissions.Check(id, permissions.Change); err != nil {
		return err
	}

	t, err := s.repomanager.Transfers(s.tx.Conn()).GetByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	return transferPermissions.CheckObject(id, permissions.Change, t)
}

// Update applies a full (PUT) or partial (PATCH) update. The ownership
// check and the write happen in the same transaction.
func (s *TransferService) Update(ctx context.Context, id *models.Identity, eventID string, in serializers.TransferInput, partial bool) (*models.Transfer, error) {
	if err := transferPermissions.Check(id, permissions.Change); err != nil {
		return nil, err
	}

	var updated *models.Transfer
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Transfers(tx)

		current, err := repo.GetByEventID(ctx, eventID)
		if err != nil {
			return err
		}
		if err := transferPermissions.CheckObject(id, permissions.Change, current); err != nil {
			return err
		}
		t, err := in.Apply(current, partial)
		if err != nil {
			return err
		}
		updated, err = repo.Update(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
