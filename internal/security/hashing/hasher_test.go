package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digestAlgorithms = []string{SHA256, SHA384, SHA512, SHA3_256, SHA3_512, BLAKE2b256}

func TestNew_UnsupportedAlgorithm(t *testing.T) {
	_, err := New("pepper", "MD5")
	require.Error(t, err)
}

func TestNew_CaseInsensitive(t *testing.T) {
	s, err := New("pepper", " sha-256 ")
	require.NoError(t, err)
	assert.Equal(t, SHA256, s.Algorithm())
}

func TestHash_ConcatenatesPasswordSaltPepper(t *testing.T) {
	s, err := New("pepper", SHA256)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("qwerty" + "salt" + "pepper"))
	assert.Equal(t, hex.EncodeToString(sum[:]), s.Hash("qwerty", "salt"))
}

func TestHash_Determinism(t *testing.T) {
	for _, alg := range append(digestAlgorithms, PBKDF2SHA256) {
		t.Run(alg, func(t *testing.T) {
			s, err := New("pepper", alg)
			require.NoError(t, err)

			assert.Equal(t, s.Hash("qwerty", "salt"), s.Hash("qwerty", "salt"))
		})
	}
}

func TestHash_Sensitivity(t *testing.T) {
	for _, alg := range digestAlgorithms {
		t.Run(alg, func(t *testing.T) {
			s, err := New("pepper", alg)
			require.NoError(t, err)
			other, err := New("other-pepper", alg)
			require.NoError(t, err)

			base := s.Hash("password1", "salt")
			assert.NotEqual(t, base, s.Hash("password2", "salt"), "password change")
			assert.NotEqual(t, base, s.Hash("password1", "salt2"), "salt change")
			assert.NotEqual(t, base, other.Hash("password1", "salt"), "pepper change")
		})
	}
}

func TestHash_LengthInvariance(t *testing.T) {
	wantLen := map[string]int{
		SHA256:     64,
		SHA384:     96,
		SHA512:     128,
		SHA3_256:   64,
		SHA3_512:   128,
		BLAKE2b256: 64,
	}
	inputs := []struct{ password, salt string }{
		{"", ""},
		{"a", "b"},
		{"qwerty", "Xk29sLq0"},
		{fmt.Sprintf("%01000d", 7), "long-password"},
	}

	for alg, n := range wantLen {
		t.Run(alg, func(t *testing.T) {
			s, err := New("pepper", alg)
			require.NoError(t, err)
			for _, in := range inputs {
				assert.Len(t, s.Hash(in.password, in.salt), n)
			}
		})
	}
}

func TestHash_Argon2id(t *testing.T) {
	if testing.Short() {
		t.Skip("argon2id is slow")
	}
	s, err := New("pepper", Argon2id)
	require.NoError(t, err)

	h := s.Hash("qwerty", "salt")
	assert.Len(t, h, 2*kdfKeyLen)
	assert.Equal(t, h, s.Hash("qwerty", "salt"))
	assert.NotEqual(t, h, s.Hash("qwerty!", "salt"))
}
