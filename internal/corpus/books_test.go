package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookID_RoundTrip(t *testing.T) {
	// Every numeric index 1-66 must map to a canonical id and back.
	seen := make(map[string]bool)
	for i := 1; i <= BookCount; i++ {
		id := BookID(i)
		require.NotEmpty(t, id, "index %d", i)
		assert.Equal(t, i, BookIndex(id))
		assert.False(t, seen[id], "duplicate book id %q", id)
		seen[id] = true
	}
}

func TestBookID_NullSentinel(t *testing.T) {
	assert.Empty(t, BookID(0))
	assert.Empty(t, BookID(-1))
	assert.Empty(t, BookID(67))
	assert.Empty(t, BookID(99))
}

func TestBookID_CanonicalEndpoints(t *testing.T) {
	assert.Equal(t, "gen", BookID(1))
	assert.Equal(t, "mal", BookID(39))
	assert.Equal(t, "mat", BookID(40))
	assert.Equal(t, "rev", BookID(66))
}

func TestIsCanonicalBook(t *testing.T) {
	assert.True(t, IsCanonicalBook("gen"))
	assert.True(t, IsCanonicalBook("3jo"))
	assert.False(t, IsCanonicalBook(""))
	assert.False(t, IsCanonicalBook("xyz"))
	assert.False(t, IsCanonicalBook("GEN"))
}
