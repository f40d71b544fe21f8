package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type concatHasher struct{}

func (concatHasher) Hash(password, salt string) string { return password + "|" + salt }

func TestNewUser(t *testing.T) {
	u := NewUser(Credentials{Username: "alice", Password: "qwerty"}, concatHasher{}, "NaCl")

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "NaCl", u.Salt)
	assert.Equal(t, "qwerty|NaCl", u.HashedPassword)
}

func TestSubjectType_Valid(t *testing.T) {
	assert.True(t, SubjectForeignLanguage.Valid())
	assert.True(t, SubjectOther.Valid())
	assert.False(t, SubjectType("MATH").Valid())
	assert.False(t, SubjectType("").Valid())
}
