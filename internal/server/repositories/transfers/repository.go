// Package transfers declares and implements storage for transfer records.
package transfers

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

// Logical fields accepted in query conditions and orderings.
const (
	FieldNode      = "node"
	FieldStatus    = "status"
	FieldFixity    = "fixity"
	FieldValid     = "valid"
	FieldCreatedOn = "created_on"
	FieldUpdatedOn = "updated_on"
)

type Repository interface {
	// Create inserts t. A taken event_id yields common.ErrorAlreadyExists,
	// an unknown node common.ErrorNotFound.
	Create(ctx context.Context, t *models.Transfer) (*models.Transfer, error)
	GetByEventID(ctx context.Context, eventID string) (*models.Transfer, error)
	// Update overwrites the mutable fields of the transfer named t.EventID.
	Update(ctx context.Context, t *models.Transfer) (*models.Transfer, error)
	List(ctx context.Context, q query.Query) (query.Result[*models.Transfer], error)
}
