package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/flashcards-service/internal/logger"
	logicv1 "github.com/duynhne/flashcards-service/internal/logic/v1"
	"github.com/duynhne/flashcards-service/internal/security/token"
	"github.com/duynhne/flashcards-service/middleware"
)

const (
	// SessionCookieName is the cookie carrying the session id.
	SessionCookieName = "session"

	tokenChallengeMessage   = "Token is not valid or has expired"
	sessionChallengeMessage = "User session is missing, invalid or expired"

	principalKey   = "auth.principal"
	sessionUserKey = "auth.session_user"
	sessionIDKey   = "auth.session_id"
)

// SessionMode tells Session whether a missing session rejects the request.
type SessionMode int

const (
	SessionRequired SessionMode = iota
	SessionOptional
)

// Gate holds the per-route authentication middleware. Routes compose
// RequireToken and Session as they need.
type Gate struct {
	codec    *token.Codec
	sessions *logicv1.SessionManager
}

func NewGate(codec *token.Codec, sessions *logicv1.SessionManager) *Gate {
	return &Gate{codec: codec, sessions: sessions}
}

// RequireToken rejects requests without a bearer token valid under
// strategy. The verified principal is available through TokenPrincipal.
func (g *Gate) RequireToken(strategy token.Strategy) gin.HandlerFunc {
	gate := "token_" + strategy.String()

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			g.rejectToken(c, gate, "missing bearer token")
			return
		}

		principal, err := g.codec.Verify(raw, strategy)
		if err != nil {
			g.rejectToken(c, gate, "token rejected")
			return
		}

		middleware.AuthDecisionsTotal.WithLabelValues(gate, "allowed").Inc()
		c.Set(principalKey, principal)
		c.Next()
	}
}

func (g *Gate) rejectToken(c *gin.Context, gate, reason string) {
	middleware.AuthDecisionsTotal.WithLabelValues(gate, "denied").Inc()
	logger.FromContext(c.Request.Context()).Debug().Str("gate", gate).Msg(reason)

	c.Header("WWW-Authenticate", fmt.Sprintf("Bearer realm=%q", g.codec.Realm()))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": tokenChallengeMessage})
}

// Session resolves the session cookie. In SessionRequired mode a missing or
// unknown session answers 401; in SessionOptional mode the request goes on
// anonymously. Store failures answer 500 in both modes.
func (g *Gate) Session(mode SessionMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := c.Cookie(SessionCookieName)
		if err == nil && id != "" {
			s, err := g.sessions.Resolve(ctx, id)
			switch {
			case err == nil:
				middleware.AuthDecisionsTotal.WithLabelValues("session", "allowed").Inc()
				c.Set(sessionUserKey, s.Username)
				c.Set(sessionIDKey, id)
				c.Next()
				return
			case !errors.Is(err, logicv1.ErrSessionNotFound):
				middleware.AuthDecisionsTotal.WithLabelValues("session", "error").Inc()
				logger.FromContext(ctx).Error().Err(err).Msg("Session lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
		}

		if mode == SessionOptional {
			middleware.AuthDecisionsTotal.WithLabelValues("session", "anonymous").Inc()
			c.Next()
			return
		}

		middleware.AuthDecisionsTotal.WithLabelValues("session", "denied").Inc()
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": sessionChallengeMessage})
	}
}

// TokenPrincipal returns the principal stored by RequireToken.
func TokenPrincipal(c *gin.Context) (token.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return token.Principal{}, false
	}
	p, ok := v.(token.Principal)
	return p, ok
}

// SessionUser returns the username stored by Session, or "" when the
// request is anonymous.
func SessionUser(c *gin.Context) string {
	return c.GetString(sessionUserKey)
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
