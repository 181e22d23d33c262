package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/store"
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/dal"
)

func TestAdapterFor_ResolvesByScheme(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017/pos":       "mongo",
		"mongodb+srv://u:p@cluster.example/x": "mongo",
		"postgres://u:p@localhost/pos":        "pg",
		"postgresql://localhost/pos":          "pg",
		"memory://":                           "memory",
		"MONGODB://localhost":                 "mongo",
	}
	for uri, want := range cases {
		a, err := store.AdapterFor(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, want, a.Name(), uri)
	}
}

func TestAdapterFor_Errors(t *testing.T) {
	_, err := store.AdapterFor("   ")
	assert.ErrorIs(t, err, store.ErrNotConfigured)

	_, err = store.AdapterFor("localhost:27017")
	assert.ErrorIs(t, err, store.ErrUnknownScheme)

	_, err = store.AdapterFor("mysql://u:secret@db/pos")
	require.ErrorIs(t, err, store.ErrUnknownScheme)
	assert.NotContains(t, err.Error(), "secret")
}

func TestSchemes_ListsRegistered(t *testing.T) {
	assert.Subset(t, store.Schemes(), []string{"memory", "mongodb", "mongodb+srv", "postgres", "postgresql"})
}
