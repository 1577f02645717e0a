package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/dbx"
	"github.com/dmitrijs2005/dpnode/internal/server/config"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type env struct {
	store     *memstore.Store
	registry  *RegistryService
	nodes     *NodeService
	transfers *TransferService
	identity  *IdentityService
}

func newEnv() *env {
	store := memstore.New()
	tick := base
	store.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	m := repomanager.NewMemoryRepositoryManager(store)
	tx := &dbx.LockTransactor{}
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour, IdentityCacheTTL: time.Minute}

	return &env{
		store:     store,
		registry:  NewRegistryService(tx, m),
		nodes:     NewNodeService(tx, m),
		transfers: NewTransferService(tx, m),
		identity:  NewIdentityService(tx, m, cfg),
	}
}

func (e *env) seedNodes(t require.TestingT, namespaces ...string) {
	for _, ns := range namespaces {
		_, err := e.store.Nodes().Create(context.Background(), &models.Node{Namespace: ns, Name: ns})
		require.NoError(t, err)
	}
}

func (e *env) seedTransfer(t require.TestingT, eventID, node string) *models.Transfer {
	tr, err := e.store.Transfers().Create(context.Background(), &models.Transfer{
		EventID:     eventID,
		Node:        node,
		DpnObjectID: fmt.Sprintf("obj-%s", eventID),
		Status:      models.TransferPending,
		Protocol:    models.ProtocolRsync,
	})
	require.NoError(t, err)
	return tr
}

// caller builds an identity holding the given codenames.
func caller(node string, codenames ...string) *models.Identity {
	id := &models.Identity{UserID: "u-" + node, UserName: node, Node: node, Permissions: map[string]struct{}{}}
	for _, c := range codenames {
		id.Permissions[c] = struct{}{}
	}
	return id
}

func superuser(node string) *models.Identity {
	id := caller(node)
	id.IsSuperuser = true
	return id
}
