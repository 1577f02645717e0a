package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/auth"
	"github.com/dmitrijs2005/dpnode/internal/server/config"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	gocache "github.com/patrickmn/go-cache"
)

// IdentityService turns API tokens into request identities and manages the
// accounts behind them.
type IdentityService struct {
	tx                          dbx.Transactor
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	// cache maps user id to *models.Identity; nil disables caching.
	cache *gocache.Cache
}

func NewIdentityService(tx dbx.Transactor, m repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	s := &IdentityService{
		tx:                          tx,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
	if cfg.IdentityCacheTTL > 0 {
		s.cache = gocache.New(cfg.IdentityCacheTTL, 2*cfg.IdentityCacheTTL)
	}
	return s
}

// Authenticate resolves the identity carried by an Authorization header.
func (s *IdentityService) Authenticate(ctx context.Context, header string) (*models.Identity, error) {
	token, err := auth.TokenFromHeader(header)
	if err != nil {
		return nil, err
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, userID)
}

// Resolve loads the user, its permission codenames and its node profile.
// Unknown and inactive users are common.ErrorUnauthorized.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (*models.Identity, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(userID); ok {
			return v.(*models.Identity), nil
		}
	}

	repo := s.repomanager.Users(s.tx.Conn())

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	codenames, err := repo.Permissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading permissions: %w", err)
	}

	id := &models.Identity{
		UserID:      user.ID,
		UserName:    user.UserName,
		IsSuperuser: user.IsSuperuser,
		Permissions: make(map[string]struct{}, len(codenames)),
	}
	for _, c := range codenames {
		id.Permissions[c] = struct{}{}
	}

	profile, err := repo.GetProfile(ctx, userID)
	switch {
	case err == nil:
		id.Node = profile.Node
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	if s.cache != nil {
		s.cache.SetDefault(userID, id)
	}
	return id, nil
}

// Invalidate drops any cached identity of the user.
func (s *IdentityService) Invalidate(userID string) {
	if s.cache != nil {
		s.cache.Delete(userID)
	}
}

// IssueToken mints an API token for the user.
func (s *IdentityService) IssueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Account describes a user to be provisioned by EnsureUser.
type Account struct {
	UserName    string
	IsSuperuser bool
	// Node binds the user to a node when not empty.
	Node      string
	Codenames []string
}

// EnsureUser creates the user when missing, grants the codenames and sets
// the profile, all in one transaction.
func (s *IdentityService) EnsureUser(ctx context.Context, a Account) (*models.User, error) {
	if a.UserName == "" {
		return nil, common.FieldError("username", "This field is required.")
	}

	var user *models.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		var err error
		user, err = repo.GetByUserName(ctx, a.UserName)
		if errors.Is(err, common.ErrorNotFound) {
			user, err = repo.Create(ctx, &models.User{UserName: a.UserName, IsActive: true, IsSuperuser: a.IsSuperuser})
		}
		if err != nil {
			return err
		}

		if err := repo.Grant(ctx, user.ID, a.Codenames...); err != nil {
			return err
		}
		if a.Node == "" {
			return nil
		}
		if err := repo.SetProfile(ctx, &models.UserProfile{UserID: user.ID, Node: a.Node}); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.FieldError("node", fmt.Sprintf("Node with namespace %q does not exist.", a.Node))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Invalidate(user.ID)
	return user, nil
}
