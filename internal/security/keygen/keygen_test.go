package keygen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alnum = regexp.MustCompile(`^[A-Za-z0-9]*$`)

func TestGenerate(t *testing.T) {
	g := New()

	for _, n := range []int{0, 1, 16, 64} {
		key, err := g.Generate(n)
		require.NoError(t, err)
		assert.Len(t, key, n)
		assert.Regexp(t, alnum, key)
	}

	_, err := g.Generate(-1)
	require.Error(t, err)
}

func TestGenerate_NoCollisions(t *testing.T) {
	g := New()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		key, err := g.Generate(32)
		require.NoError(t, err)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %q", key)
		seen[key] = struct{}{}
	}
}

func TestGenerate_UsesWholeAlphabet(t *testing.T) {
	key, err := New().Generate(20000)
	require.NoError(t, err)

	counts := map[rune]int{}
	for _, r := range key {
		counts[r]++
	}
	// digits are part of the alphabet
	assert.Len(t, counts, len(alphabet))
}

func TestGenerateBetween(t *testing.T) {
	g := New()
	lengths := map[int]bool{}
	for i := 0; i < 500; i++ {
		key, err := g.GenerateBetween(4, 6)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(key), 4)
		assert.LessOrEqual(t, len(key), 6)
		lengths[len(key)] = true
	}
	assert.Len(t, lengths, 3)

	key, err := g.GenerateBetween(8, 8)
	require.NoError(t, err)
	assert.Len(t, key, 8)

	_, err = g.GenerateBetween(6, 4)
	require.Error(t, err)
}
