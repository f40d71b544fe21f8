package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/internal/logger"
	logicv1 "github.com/duynhne/flashcards-service/internal/logic/v1"
	"github.com/duynhne/flashcards-service/internal/security/token"
	"github.com/duynhne/flashcards-service/middleware"
)

// CookieConfig controls the session cookie. A nil MaxAge makes it a browser
// session cookie.
type CookieConfig struct {
	Secure bool
	MaxAge *time.Duration
}

// Handler groups HTTP handlers for the flashcards API.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth        *logicv1.AuthService
	collections *logicv1.CollectionService
	cards       *logicv1.CardService
	gate        *Gate
	cookie      CookieConfig
}

// NewHandler creates a new Handler.
func NewHandler(
	auth *logicv1.AuthService,
	collections *logicv1.CollectionService,
	cards *logicv1.CardService,
	gate *Gate,
	cookie CookieConfig,
) *Handler {
	return &Handler{
		auth:        auth,
		collections: collections,
		cards:       cards,
		gate:        gate,
		cookie:      cookie,
	}
}

// RegisterRoutes registers every API route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	strong := h.gate.RequireToken(token.Strong)
	basic := h.gate.RequireToken(token.Basic)
	session := h.gate.Session(SessionRequired)

	r.POST("/register", strong, h.gate.Session(SessionOptional), h.RegisterApplicationToken)

	v1 := r.Group("/v1")
	v1.POST("/tokens", strong, h.IssueBasicToken)

	users := v1.Group("/users")
	{
		users.POST("/register", basic, h.Register)
		users.POST("/login", basic, h.Login)
		users.POST("/logout", session, h.Logout)
		users.GET("/", session, h.GetUser)
		users.DELETE("/", session, h.DeleteUser)
	}

	collections := v1.Group("/collections", session)
	{
		collections.GET("", h.ListCollections)
		collections.POST("", h.CreateCollection)
		collections.PUT("", h.UpdateCollection)
		collections.DELETE("/:collection_id", h.DeleteCollection)

		collections.GET("/:collection_id/cards", h.ListCards)
		collections.POST("/:collection_id/cards", h.CreateCard)
		collections.PUT("/:collection_id/cards", h.UpdateCard)
		collections.DELETE("/:collection_id/cards/:card_id", h.DeleteCard)
	}
}

// startSpan opens a web-layer span and binds its context to the request.
func startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	ctx, span := middleware.StartSpan(c.Request.Context(), name, trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
	c.Request = c.Request.WithContext(ctx)
	return ctx, span
}

func (h *Handler) setSessionCookie(c *gin.Context, id string) {
	maxAge := 0
	if h.cookie.MaxAge != nil {
		maxAge = int((*h.cookie.MaxAge + time.Second - 1) / time.Second)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, id, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cookie.Secure, true)
}

// RegisterApplicationToken mints a strong token for the calling application.
// POST /register
func (h *Handler) RegisterApplicationToken(c *gin.Context) {
	ctx, span := startSpan(c, "http.register_application_token")
	defer span.End()

	caller, _ := TokenPrincipal(c)
	logger.FromContext(ctx).Debug().Str("caller_client_id", caller.ClientID()).Msg("Registering application token")
	signed, err := h.auth.RegisterApplicationToken(ctx, SessionUser(c))
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Application token registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: signed})
}

// IssueBasicToken mints a basic-tier token.
// POST /v1/tokens
func (h *Handler) IssueBasicToken(c *gin.Context) {
	ctx, span := startSpan(c, "http.issue_basic_token")
	defer span.End()

	caller, _ := TokenPrincipal(c)
	logger.FromContext(ctx).Debug().Str("caller_client_id", caller.ClientID()).Msg("Issuing basic token")
	signed, err := h.auth.IssueBasicToken(ctx, "")
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Basic token issuance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: signed})
}

// Register handles HTTP request for user registration.
// POST /v1/users/register
func (h *Handler) Register(c *gin.Context) {
	ctx, span := startSpan(c, "http.register")
	defer span.End()
	log := logger.FromContext(ctx)

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		log.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to credentials"})
		return
	}

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrBlankUsername):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "The username cannot be blank"})
		case errors.Is(err, logicv1.ErrBlankPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "The password cannot be blank"})
		case errors.Is(err, logicv1.ErrUsernameTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("The username cannot be longer than %d characters", domain.MaxUsernameLength)})
		case errors.Is(err, logicv1.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"message": "A user with this username already exists"})
		default:
			span.RecordError(err)
			log.Error().Err(err).Str("username", req.Username).Msg("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	log.Info().Str("username", user.Username).Msg("Registration successful")
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login verifies credentials and sets the session cookie.
// POST /v1/users/login
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startSpan(c, "http.login")
	defer span.End()
	log := logger.FromContext(ctx)

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		log.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to credentials"})
		return
	}

	sessionID, err := h.auth.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
			// one answer for both, so usernames cannot be probed
			log.Info().Str("username", req.Username).Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		default:
			span.RecordError(err)
			log.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	h.setSessionCookie(c, sessionID)
	log.Info().Str("username", req.Username).Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{"message": "Login was successful"})
}

// Logout invalidates the current session.
// POST /v1/users/logout
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := startSpan(c, "http.logout")
	defer span.End()

	if err := h.auth.Logout(ctx, sessionID(c)); err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "The user session was successfully deleted"})
}

// GetUser returns the account behind the session.
// GET /v1/users/
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.get_user")
	defer span.End()

	user, err := h.auth.GetUser(ctx, SessionUser(c))
	if err != nil {
		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "The user with the corresponding session does not exist"})
			return
		}
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("User lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser removes the account, its collections and its cards.
// DELETE /v1/users/
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := startSpan(c, "http.delete_user")
	defer span.End()
	username := SessionUser(c)

	if err := h.auth.DeleteUser(ctx, username, sessionID(c)); err != nil {
		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "The user with the corresponding session does not exist"})
			return
		}
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Account deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.clearSessionCookie(c)
	logger.FromContext(ctx).Info().Str("username", username).Msg("Account deleted")
	c.Status(http.StatusNoContent)
}
