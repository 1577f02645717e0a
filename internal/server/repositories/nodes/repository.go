// Package nodes declares and implements storage for network nodes.
package nodes

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/query"
)

type Repository interface {
	// Create inserts n; a taken namespace yields common.ErrorAlreadyExists.
	Create(ctx context.Context, n *models.Node) (*models.Node, error)
	// GetByNamespace returns common.ErrorNotFound for unknown namespaces.
	GetByNamespace(ctx context.Context, namespace string) (*models.Node, error)
	// Update overwrites the mutable fields of the node named n.Namespace.
	Update(ctx context.Context, n *models.Node) (*models.Node, error)
	// List returns one page of nodes in insertion order.
	List(ctx context.Context, q query.Query) (query.Result[*models.Node], error)
}
