package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/repositories/memstore"
)

func TestMemoryManager_SharesOneStore(t *testing.T) {
	store := memstore.New()
	var m RepositoryManager = NewMemoryRepositoryManager(store)

	ctx := context.Background()
	if err := m.RunMigrations(ctx, nil); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}

	if _, err := m.Nodes(nil).Create(ctx, &models.Node{Namespace: "hathi", Name: "HathiTrust"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := store.Nodes().GetByNamespace(ctx, "hathi"); err != nil {
		t.Fatalf("node not visible through the store: %v", err)
	}
}

func TestMemoryManager_NilStore(t *testing.T) {
	m := NewMemoryRepositoryManager(nil)
	if m.Registry(nil) == nil || m.Transfers(nil) == nil || m.Users(nil) == nil {
		t.Fatal("expected repositories over a fresh store")
	}
}
