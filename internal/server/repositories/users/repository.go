// Package users stores API accounts, their permission codenames and the
// profile binding each account to a node.
package users

import (
	"context"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
)

type Repository interface {
	// Create inserts u, assigning a new id when u.ID is empty.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// Permissions lists the codenames granted to the user.
	Permissions(ctx context.Context, userID string) ([]string, error)
	// Grant adds codenames to the user; already held ones are ignored.
	Grant(ctx context.Context, userID string, codenames ...string) error
	// GetProfile returns common.ErrorNotFound when the user has no profile.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// SetProfile binds the user to a node, replacing any previous binding.
	SetProfile(ctx context.Context, p *models.UserProfile) error
}
