package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
	"github.com/dmitrijs2005/dpnode/internal/server/serializers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	viewRegistry = models.Codename("view", models.ModelRegistryEntry)
	addRegistry  = models.Codename("add", models.ModelRegistryEntry)
	base         = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
)

func entryInput(id, firstNode string, modified time.Time, published bool) serializers.RegistryEntryInput {
	ts := modified.Format(time.RFC3339)
	objectType := models.ObjectTypeData
	fixity := "abc"
	return serializers.RegistryEntryInput{
		DpnObjectID:      &id,
		FirstNode:        &firstNode,
		ObjectType:       &objectType,
		FixityValue:      &fixity,
		CreationDate:     &ts,
		LastModifiedDate: &ts,
		Published:        &published,
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "aptrust")
	id := caller("aptrust", viewRegistry, addRegistry)

	objectID := uuid.NewString()
	created, err := e.registry.Create(ctx, id, entryInput(objectID, "aptrust", base, false))
	require.NoError(t, err)
	assert.Equal(t, objectID, created.DpnObjectID)

	got, err := e.registry.Get(ctx, id, objectID)
	require.NoError(t, err)
	assert.False(t, got.Published, "unpublished entries stay reachable by id")

	_, err = e.registry.Get(ctx, id, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRegistry_CreateValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "aptrust")
	id := caller("aptrust", addRegistry)

	objectID := uuid.NewString()
	_, err := e.registry.Create(ctx, id, entryInput(objectID, "aptrust", base, true))
	require.NoError(t, err)

	_, err = e.registry.Create(ctx, id, entryInput(objectID, "aptrust", base, true))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = e.registry.Create(ctx, id, entryInput(uuid.NewString(), "ghost", base, true))
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "first_node")

	_, err = e.registry.Create(ctx, caller("aptrust", viewRegistry), entryInput(uuid.NewString(), "aptrust", base, true))
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestRegistry_ListPagination(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "aptrust")
	id := caller("aptrust", viewRegistry, addRegistry)

	for i := 0; i < 45; i++ {
		_, err := e.registry.Create(ctx, id, entryInput(uuid.NewString(), "aptrust", base, true))
		require.NoError(t, err)
	}

	for page, want := range map[string]int{"1": 20, "2": 20, "3": 5} {
		res, err := e.registry.List(ctx, id, url.Values{"page": {page}})
		require.NoError(t, err)
		assert.Equal(t, 45, res.Total)
		assert.Len(t, res.Items, want, "page %s", page)
	}

	_, err := e.registry.List(ctx, id, url.Values{"page": {"4"}})
	assert.ErrorIs(t, err, common.ErrInvalidPage)
	_, err = e.registry.List(ctx, id, url.Values{"page": {"zero"}})
	assert.ErrorIs(t, err, common.ErrInvalidPage)
}

func TestRegistry_ListFilters(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "aptrust", "sdr")
	id := caller("aptrust", viewRegistry, addRegistry)

	for i, ns := range []string{"aptrust", "sdr", "aptrust"} {
		_, err := e.registry.Create(ctx, id, entryInput(uuid.NewString(), ns, base.AddDate(0, 0, i), true))
		require.NoError(t, err)
	}

	res, err := e.registry.List(ctx, id, url.Values{"first_node": {"aptrust"}, "unknown": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = e.registry.List(ctx, id, url.Values{"after": {"2015-01-01"}, "before": {"2015-01-03"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "sdr", res.Items[0].FirstNode)

	_, err = e.registry.List(ctx, id, url.Values{"before": {"someday"}})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = e.registry.List(ctx, caller("aptrust"), url.Values{})
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestRegistry_ListNeverShowsUnpublished(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		e := newEnv()
		e.seedNodes(rt, "aptrust")
		id := superuser("aptrust")

		n := rapid.IntRange(0, 25).Draw(rt, "n")
		published := 0
		for i := 0; i < n; i++ {
			p := rapid.Bool().Draw(rt, fmt.Sprintf("published%d", i))
			if p {
				published++
			}
			_, err := e.registry.Create(ctx, id, entryInput(uuid.NewString(), "aptrust", base, p))
			require.NoError(rt, err)
		}

		res, err := e.registry.List(ctx, id, url.Values{})
		require.NoError(rt, err)
		if res.Total != published {
			rt.Fatalf("count %d, want %d", res.Total, published)
		}
		for _, item := range res.Items {
			if !item.Published {
				rt.Fatalf("unpublished entry %s listed", item.DpnObjectID)
			}
		}
	})
}

func TestRegistry_GetMatchesAnyCase(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.seedNodes(t, "aptrust")
	id := caller("aptrust", viewRegistry, addRegistry)

	objectID := "8E0BC1A4-3D4B-4F70-9C2B-0A5A4F1E6D21"
	_, err := e.registry.Create(ctx, id, entryInput(objectID, "aptrust", base, true))
	require.NoError(t, err)

	got, err := e.registry.Get(ctx, id, objectID)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(objectID), got.DpnObjectID)

	_, err = e.registry.Get(ctx, id, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRegistry_AuthorizeCreate(t *testing.T) {
	e := newEnv()
	assert.ErrorIs(t, e.registry.AuthorizeCreate(caller("", viewRegistry)), common.ErrorForbidden)
	assert.NoError(t, e.registry.AuthorizeCreate(caller("", addRegistry)))
	assert.NoError(t, e.registry.AuthorizeCreate(superuser("")))
}
