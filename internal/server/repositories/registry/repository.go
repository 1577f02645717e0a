// Package registry declares and implements storage for registry entries.
package registry

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

// Logical fields accepted in query conditions.
const (
	FieldPublished        = "published"
	FieldLastModifiedDate = "last_modified_date"
	FieldFirstNode        = "first_node"
	FieldObjectType       = "object_type"
)

type Repository interface {
	// Create inserts e. A duplicate dpn_object_id yields
	// common.ErrorAlreadyExists; an unknown first node yields
	// common.ErrorNotFound.
	Create(ctx context.Context, e *models.RegistryEntry) (*models.RegistryEntry, error)
	// GetByObjectID looks up an entry by its external id.
	GetByObjectID(ctx context.Context, dpnObjectID string) (*models.RegistryEntry, error)
	// List returns one page of entries matching q, in insertion order.
	List(ctx context.Context, q query.Query) (query.Result[*models.RegistryEntry], error)
}
