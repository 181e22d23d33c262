package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered(t *testing.T) {
	names, err := Ordered()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_documents.sql", names[0])
	for _, n := range names {
		b, err := FS.ReadFile(n)
		require.NoError(t, err)
		assert.NotEmpty(t, b, n)
	}
}
