package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/store"
)

func TestInsertThenFind(t *testing.T) {
	ctx := context.Background()
	tables := New().Collection("tables")

	created, err := tables.Insert(ctx, store.Document{"number": 5, "capacity": 4})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, 5, created["number"])

	all, err := tables.Find(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID(), all[0].ID())
}

func TestInsert_KeepsCallerID(t *testing.T) {
	ctx := context.Background()
	c := New().Collection("tenants")

	doc, err := c.Insert(ctx, store.Document{"_id": "t-1", "slug": "trattoria"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", doc.ID())
}

func TestInsert_IsolatesStoredCopy(t *testing.T) {
	ctx := context.Background()
	c := New().Collection("menuitems")

	in := store.Document{"name": "Pizza", "tags": []any{"veg"}}
	_, err := c.Insert(ctx, in)
	require.NoError(t, err)
	in["name"] = "mutated"
	in["tags"].([]any)[0] = "mutated"

	all, err := c.Find(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pizza", all[0]["name"])
	assert.Equal(t, []any{"veg"}, all[0]["tags"])
}

func TestFindByIDs_And_FindOne(t *testing.T) {
	ctx := context.Background()
	c := New().Collection("branches")
	a, _ := c.Insert(ctx, store.Document{"name": "Centro"})
	_, _ = c.Insert(ctx, store.Document{"name": "Norte"})
	b, _ := c.Insert(ctx, store.Document{"name": "Sur"})

	got, err := c.FindByIDs(ctx, []string{b.ID(), a.ID(), "missing"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Centro", got[0]["name"])
	assert.Equal(t, "Sur", got[1]["name"])

	one, err := c.FindOne(ctx, "name", "Norte")
	require.NoError(t, err)
	assert.Equal(t, "Norte", one["name"])

	_, err = c.FindOne(ctx, "name", "Oeste")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollectionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	db := New()
	_, _ = db.Collection("reviews").Insert(ctx, store.Document{"rating": 5})

	other, err := db.Collection("reservations").Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Collection("x").Find(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
