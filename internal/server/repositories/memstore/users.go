package memstore

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/users"
	"github.com/google/uuid"
)

type UserRepository struct {
	s *Store
}

var _ users.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	for _, x := range r.s.users {
		if x.ID == u.ID || x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	stored := *u
	r.s.users = append(r.s.users, &stored)
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.UserName == userName })
}

func (r *UserRepository) find(pred func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, x := range r.s.users {
		if pred(x) {
			u := *x
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// userExists must be called with mu held.
func (r *UserRepository) userExists(id string) bool {
	for _, x := range r.s.users {
		if x.ID == id {
			return true
		}
	}
	return false
}

func (r *UserRepository) Permissions(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	codenames := []string{}
	for c := range r.s.perms[userID] {
		codenames = append(codenames, c)
	}
	slices.Sort(codenames)
	return codenames, nil
}

func (r *UserRepository) Grant(ctx context.Context, userID string, codenames ...string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.userExists(userID) {
		return common.ErrorNotFound
	}
	set, ok := r.s.perms[userID]
	if !ok {
		set = map[string]struct{}{}
		r.s.perms[userID] = set
	}
	for _, c := range codenames {
		set[c] = struct{}{}
	}
	return nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	node, ok := r.s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.UserProfile{UserID: userID, Node: node}, nil
}

func (r *UserRepository) SetProfile(ctx context.Context, p *models.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.userExists(p.UserID) || !r.s.nodeExists(p.Node) {
		return common.ErrorNotFound
	}
	r.s.profiles[p.UserID] = p.Node
	return nil
}
