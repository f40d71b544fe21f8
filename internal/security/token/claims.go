package token

import "strconv"

// Reserved claim keys.
const (
	ClaimStrong   = "strong"
	ClaimOwner    = "owner"
	ClaimClientID = "client_id"
)

// Kind tags the type carried by a ClaimValue.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

// ClaimValue is a string, bool or int64.
type ClaimValue struct {
	kind Kind
	s    string
	b    bool
	i    int64
}

func String(v string) ClaimValue { return ClaimValue{kind: KindString, s: v} }
func Bool(v bool) ClaimValue     { return ClaimValue{kind: KindBool, b: v} }
func Int(v int64) ClaimValue     { return ClaimValue{kind: KindInt, i: v} }

func (v ClaimValue) Kind() Kind { return v.kind }

// String renders the value: booleans as "true"/"false", integers in base 10.
func (v ClaimValue) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Claim is a single key/value pair.
type Claim struct {
	Key   string
	Value ClaimValue
}

// ClaimSet is an ordered collection of claims with unique keys.
// The zero value is an empty set.
type ClaimSet struct {
	claims []Claim
}

// NewClaimSet builds a set by calling Put for each claim in order.
func NewClaimSet(claims ...Claim) ClaimSet {
	var cs ClaimSet
	for _, c := range claims {
		cs.Put(c.Key, c.Value)
	}
	return cs
}

// Put stores key=value. An existing entry for key is removed first and the
// new one is appended, so the last write wins and moves to the end.
func (cs *ClaimSet) Put(key string, value ClaimValue) {
	cs.Remove(key)
	cs.claims = append(cs.claims, Claim{Key: key, Value: value})
}

// Remove deletes key if present.
func (cs *ClaimSet) Remove(key string) {
	for i, c := range cs.claims {
		if c.Key == key {
			cs.claims = append(cs.claims[:i:i], cs.claims[i+1:]...)
			return
		}
	}
}

// Get returns the value stored under key.
func (cs ClaimSet) Get(key string) (ClaimValue, bool) {
	for _, c := range cs.claims {
		if c.Key == key {
			return c.Value, true
		}
	}
	return ClaimValue{}, false
}

func (cs ClaimSet) Len() int { return len(cs.claims) }

// All returns a copy of the claims in insertion order.
func (cs ClaimSet) All() []Claim {
	out := make([]Claim, len(cs.claims))
	copy(out, cs.claims)
	return out
}

// Clone returns an independent copy.
func (cs ClaimSet) Clone() ClaimSet {
	return ClaimSet{claims: cs.All()}
}
