// Package token signs and verifies the HS256 bearer tokens handed to calling
// applications. Tokens come in two trust tiers: basic tokens only need a
// valid signature, audience, issuer and expiry, while strong tokens must also
// carry strong=true.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. The cause is
// kept internal.
var ErrInvalidToken = errors.New("token is not valid or has expired")

// expiryLeeway widens the parser's exp check, which truncates to whole
// seconds; Verify then checks exp to the millisecond itself.
const expiryLeeway = time.Second

// Strategy selects the verification tier.
type Strategy int

const (
	Basic Strategy = iota
	Strong
)

func (s Strategy) String() string {
	if s == Strong {
		return "strong"
	}
	return "basic"
}

var registered = map[string]struct{}{
	"iss": {}, "aud": {}, "iat": {}, "exp": {}, "nbf": {}, "sub": {}, "jti": {},
}

// Config holds the signing parameters. A nil Lifetime produces tokens
// without an expiry.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Realm    string
	Lifetime *time.Duration
}

// Codec generates and verifies tokens for one Config.
type Codec struct {
	cfg  Config
	opts []jwt.ParserOption
	now  func() time.Time
}

// NewCodec returns a Codec. The secret must not be empty.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithJSONNumber(),
		jwt.WithLeeway(expiryLeeway),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Codec{cfg: cfg, opts: opts, now: time.Now}, nil
}

// Realm is echoed in WWW-Authenticate challenges.
func (c *Codec) Realm() string { return c.cfg.Realm }

// Generate signs claims together with iss, aud, iat and, when a lifetime is
// configured, exp. Every claim value goes on the wire as its string form.
// iat is whole seconds; exp keeps millisecond precision as a fractional
// NumericDate.
func (c *Codec) Generate(claims ClaimSet) (string, error) {
	now := c.now()

	mc := jwt.MapClaims{}
	for _, cl := range claims.All() {
		if _, ok := registered[cl.Key]; ok {
			return "", fmt.Errorf("claim %q is reserved", cl.Key)
		}
		mc[cl.Key] = cl.Value.String()
	}
	mc["iss"] = c.cfg.Issuer
	if c.cfg.Audience != "" {
		mc["aud"] = c.cfg.Audience
	}
	mc["iat"] = jwt.NewNumericDate(now)
	if c.cfg.Lifetime != nil {
		mc["exp"] = millisDate(now.Add(*c.cfg.Lifetime))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks tokenString under the given strategy and returns the
// verified claims.
func (c *Codec) Verify(tokenString string, strategy Strategy) (Principal, error) {
	opts := c.opts[:len(c.opts):len(c.opts)]
	parser := jwt.NewParser(append(opts, jwt.WithTimeFunc(c.now))...)

	mc := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, mc, func(t *jwt.Token) (any, error) {
		return []byte(c.cfg.Secret), nil
	})
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	if exp, ok := mc["exp"].(json.Number); ok {
		secs, err := exp.Float64()
		if err != nil || !c.now().Before(time.UnixMilli(int64(math.Round(secs*1000)))) {
			return Principal{}, ErrInvalidToken
		}
	}

	p := Principal{claims: claimsFromMap(mc)}
	if strategy == Strong && !p.Strong() {
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

// millisDate renders t as seconds since the epoch with three decimals.
func millisDate(t time.Time) json.Number {
	ms := t.UnixMilli()
	return json.Number(fmt.Sprintf("%d.%03d", ms/1000, ms%1000))
}

func claimsFromMap(mc jwt.MapClaims) ClaimSet {
	keys := make([]string, 0, len(mc))
	for k := range mc {
		if _, ok := registered[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var cs ClaimSet
	for _, k := range keys {
		switch v := mc[k].(type) {
		case string:
			cs.Put(k, String(v))
		case bool:
			cs.Put(k, Bool(v))
		case json.Number:
			if n, err := v.Int64(); err == nil {
				cs.Put(k, Int(n))
			} else {
				cs.Put(k, String(v.String()))
			}
		default:
			// nested objects and arrays are never issued here
			b, _ := json.Marshal(v)
			cs.Put(k, String(string(b)))
		}
	}
	return cs
}

// Principal is the verified claim set of a token.
type Principal struct {
	claims ClaimSet
}

// Claim returns the rendered value of key.
func (p Principal) Claim(key string) (string, bool) {
	v, ok := p.claims.Get(key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Claims returns a copy of the verified claims.
func (p Principal) Claims() ClaimSet { return p.claims.Clone() }

// Strong reports whether the strong claim is present and exactly "true".
func (p Principal) Strong() bool {
	v, ok := p.Claim(ClaimStrong)
	return ok && v == "true"
}

func (p Principal) Owner() string {
	v, _ := p.Claim(ClaimOwner)
	return v
}

func (p Principal) ClientID() string {
	v, _ := p.Claim(ClaimClientID)
	return v
}
