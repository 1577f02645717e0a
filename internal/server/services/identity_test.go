package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/config"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_EnsureUserAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "ivy_plains")

	u, err := e.identity.EnsureUser(ctx, Account{
		UserName:  "ivy",
		Node:      "ivy_plains",
		Codenames: []string{viewTransfer, changeTransfer},
	})
	require.NoError(t, err)

	token, err := e.identity.IssueToken(u.ID)
	require.NoError(t, err)

	id, err := e.identity.Authenticate(ctx, "Token "+token)
	require.NoError(t, err)
	assert.Equal(t, "ivy", id.UserName)
	assert.Equal(t, "ivy_plains", id.Node)
	assert.True(t, id.HasPermission(viewTransfer))
	assert.False(t, id.HasPermission(models.Codename("add", models.ModelNode)))

	again, err := e.identity.EnsureUser(ctx, Account{UserName: "ivy", Codenames: []string{viewNode}})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "existing users are reused")

	id, err = e.identity.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, id.HasPermission(viewNode), "EnsureUser drops the cached identity")
	assert.Equal(t, "ivy_plains", id.Node)
}

func TestIdentity_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	_, err := e.identity.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = e.identity.Authenticate(ctx, "Token not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	token, err := e.identity.IssueToken("missing-user")
	require.NoError(t, err)
	_, err = e.identity.Authenticate(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	inactive, err := e.store.Users().Create(ctx, &models.User{UserName: "gone", IsActive: false})
	require.NoError(t, err)
	_, err = e.identity.Resolve(ctx, inactive.ID)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = e.identity.EnsureUser(ctx, Account{UserName: "ivy", Node: "ghost"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestIdentity_NoProfile(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	u, err := e.identity.EnsureUser(ctx, Account{UserName: "admin", IsSuperuser: true})
	require.NoError(t, err)

	id, err := e.identity.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, id.IsSuperuser)
	assert.False(t, id.HasProfile())
}

// Grants written outside the service, as cmd/token does from its own
// process, stay invisible until the cached identity expires.
func TestIdentity_CacheHidesOutsideWrites(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	u, err := e.identity.EnsureUser(ctx, Account{UserName: "ivy"})
	require.NoError(t, err)
	_, err = e.identity.Resolve(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, e.store.Users().Grant(ctx, u.ID, viewNode))

	id, err := e.identity.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, id.HasPermission(viewNode))

	e.identity.Invalidate(u.ID)
	id, err = e.identity.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, id.HasPermission(viewNode))
}

func TestIdentity_ZeroTTLDisablesCache(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := repomanager.NewMemoryRepositoryManager(store)
	s := NewIdentityService(&dbx.LockTransactor{}, m, &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour})

	u, err := s.EnsureUser(ctx, Account{UserName: "ivy"})
	require.NoError(t, err)
	_, err = s.Resolve(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, store.Users().Grant(ctx, u.ID, viewNode))

	id, err := s.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, id.HasPermission(viewNode))
}
