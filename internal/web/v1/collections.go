package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/flashcards-service/internal/logger"
	logicv1 "github.com/duynhne/flashcards-service/internal/logic/v1"
)

// pathID parses a numeric path parameter, answering 400 when it is absent
// or not a number.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("The %q parameter is not passed or cannot be cast to number", name),
		})
		return 0, false
	}
	return id, true
}

// writeContentError maps collection and card errors to responses.
func writeContentError(c *gin.Context, err error, collectionID int64) {
	switch {
	case errors.Is(err, logicv1.ErrCollectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message": fmt.Sprintf("There is no collection with \"id\" property equal to \"%d\"", collectionID),
		})
	case errors.Is(err, logicv1.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "You cannot access someone else's collection"})
	case errors.Is(err, logicv1.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Corresponding card is not found in storage"})
	case errors.Is(err, logicv1.ErrCardCollectionMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"message": "The card must belong to the corresponding collection"})
	case errors.Is(err, logicv1.ErrInvalidCollection), errors.Is(err, logicv1.ErrInvalidCard):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, logicv1.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "The user with the corresponding session does not exist"})
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("Content request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// ListCollections returns the caller's collections.
// GET /v1/collections
func (h *Handler) ListCollections(c *gin.Context) {
	ctx, span := startSpan(c, "http.list_collections")
	defer span.End()

	list, err := h.collections.List(ctx, SessionUser(c))
	if err != nil {
		span.RecordError(err)
		writeContentError(c, err, 0)
		return
	}

	out := make([]collectionPayload, 0, len(list))
	for _, col := range list {
		out = append(out, newCollectionPayload(col))
	}
	c.JSON(http.StatusOK, out)
}

// CreateCollection stores a new collection owned by the caller.
// POST /v1/collections
func (h *Handler) CreateCollection(c *gin.Context) {
	ctx, span := startSpan(c, "http.create_collection")
	defer span.End()

	var req collectionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to a collection"})
		return
	}

	created, err := h.collections.Create(ctx, SessionUser(c), req.toDomain())
	if err != nil {
		writeContentError(c, err, 0)
		return
	}

	span.SetAttributes(attribute.Int64("collection.id", created.ID))
	c.JSON(http.StatusCreated, newCollectionPayload(*created))
}

// UpdateCollection replaces the collection named by the body id.
// PUT /v1/collections
func (h *Handler) UpdateCollection(c *gin.Context) {
	ctx, span := startSpan(c, "http.update_collection")
	defer span.End()

	var req collectionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to a collection"})
		return
	}

	updated, err := h.collections.Update(ctx, SessionUser(c), req.toDomain())
	if err != nil {
		writeContentError(c, err, req.ID)
		return
	}
	c.JSON(http.StatusOK, newCollectionPayload(*updated))
}

// DeleteCollection removes a collection and its cards.
// DELETE /v1/collections/:collection_id
func (h *Handler) DeleteCollection(c *gin.Context) {
	ctx, span := startSpan(c, "http.delete_collection")
	defer span.End()

	id, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	if err := h.collections.Delete(ctx, SessionUser(c), id); err != nil {
		writeContentError(c, err, id)
		return
	}
	c.Status(http.StatusNoContent)
}
