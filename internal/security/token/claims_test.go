package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimSet_PutReplacesExistingKey(t *testing.T) {
	var cs ClaimSet
	cs.Put(ClaimStrong, Bool(false))
	cs.Put(ClaimOwner, String("alice"))
	cs.Put(ClaimStrong, Bool(true))

	require.Equal(t, 2, cs.Len())

	all := cs.All()
	assert.Equal(t, ClaimOwner, all[0].Key)
	assert.Equal(t, ClaimStrong, all[1].Key)

	v, ok := cs.Get(ClaimStrong)
	require.True(t, ok)
	assert.Equal(t, "true", v.String())
}

func TestClaimSet_Remove(t *testing.T) {
	cs := NewClaimSet(
		Claim{Key: "a", Value: Int(1)},
		Claim{Key: "b", Value: Int(2)},
		Claim{Key: "c", Value: Int(3)},
	)
	cs.Remove("b")
	cs.Remove("missing")

	assert.Equal(t, 2, cs.Len())
	_, ok := cs.Get("b")
	assert.False(t, ok)
}

func TestClaimSet_CloneIsIndependent(t *testing.T) {
	cs := NewClaimSet(Claim{Key: "a", Value: String("x")})
	clone := cs.Clone()
	clone.Put("a", String("y"))

	v, _ := cs.Get("a")
	assert.Equal(t, "x", v.String())
}

func TestClaimValue_String(t *testing.T) {
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "-17", Int(-17).String())
	assert.Equal(t, "hello", String("hello").String())
}
