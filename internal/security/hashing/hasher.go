// Package hashing derives password digests from a password, a per-user salt
// and a process-wide pepper.
//
// Every algorithm is deterministic: the same (password, salt) pair under the
// same pepper and algorithm always yields the same lowercase hex digest, so a
// login is verified by recomputing the digest with the stored salt.
package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

// Supported algorithm names. Matching is case-insensitive.
const (
	SHA256       = "SHA-256"
	SHA384       = "SHA-384"
	SHA512       = "SHA-512"
	SHA3_256     = "SHA3-256"
	SHA3_512     = "SHA3-512"
	BLAKE2b256   = "BLAKE2B-256"
	Argon2id     = "ARGON2ID"
	PBKDF2SHA256 = "PBKDF2-SHA256"
)

const (
	kdfKeyLen = 32

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 2

	pbkdf2Iterations = 210_000
)

// Hasher hashes a password together with a salt.
type Hasher interface {
	Hash(password, salt string) string
}

// Service hashes passwords with a configured pepper and algorithm.
// It is safe for concurrent use.
type Service struct {
	pepper    string
	algorithm string
	derive    func(password, salt string) []byte
}

// New returns a Service for the given pepper and algorithm name.
func New(pepper, algorithm string) (*Service, error) {
	s := &Service{pepper: pepper, algorithm: strings.ToUpper(strings.TrimSpace(algorithm))}

	switch s.algorithm {
	case SHA256:
		s.derive = s.digest(sha256.New)
	case SHA384:
		s.derive = s.digest(sha512.New384)
	case SHA512:
		s.derive = s.digest(sha512.New)
	case SHA3_256:
		s.derive = s.digest(sha3.New256)
	case SHA3_512:
		s.derive = s.digest(sha3.New512)
	case BLAKE2b256:
		s.derive = s.digest(func() hash.Hash {
			h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
			return h
		})
	case Argon2id:
		s.derive = func(password, salt string) []byte {
			return argon2.IDKey([]byte(password), []byte(salt+s.pepper), argon2Time, argon2Memory, argon2Threads, kdfKeyLen)
		}
	case PBKDF2SHA256:
		s.derive = func(password, salt string) []byte {
			return pbkdf2.Key([]byte(password), []byte(salt+s.pepper), pbkdf2Iterations, kdfKeyLen, sha256.New)
		}
	default:
		return nil, fmt.Errorf("unsupported hashing algorithm %q", algorithm)
	}

	return s, nil
}

// Algorithm returns the normalized algorithm name.
func (s *Service) Algorithm() string {
	return s.algorithm
}

// Hash returns the lowercase hex digest of password, salt and pepper.
func (s *Service) Hash(password, salt string) string {
	return hex.EncodeToString(s.derive(password, salt))
}

func (s *Service) digest(newHash func() hash.Hash) func(password, salt string) []byte {
	return func(password, salt string) []byte {
		h := newHash()
		h.Write([]byte(password))
		h.Write([]byte(salt))
		h.Write([]byte(s.pepper))
		return h.Sum(nil)
	}
}
