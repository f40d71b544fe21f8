package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GET /v1/collections/:collection_id/cards
func (h *Handler) ListCards(c *gin.Context) {
	ctx, span := startSpan(c, "http.list_cards")
	defer span.End()

	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	list, err := h.cards.List(ctx, SessionUser(c), collectionID)
	if err != nil {
		writeContentError(c, err, collectionID)
		return
	}

	out := make([]cardPayload, 0, len(list))
	for _, card := range list {
		out = append(out, newCardPayload(card))
	}
	c.JSON(http.StatusOK, out)
}

// POST /v1/collections/:collection_id/cards
func (h *Handler) CreateCard(c *gin.Context) {
	ctx, span := startSpan(c, "http.create_card")
	defer span.End()

	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	var req cardPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to a card"})
		return
	}

	created, err := h.cards.Create(ctx, SessionUser(c), collectionID, req.toDomain())
	if err != nil {
		writeContentError(c, err, collectionID)
		return
	}

	span.SetAttributes(attribute.Int64("card.id", created.ID))
	c.JSON(http.StatusCreated, newCardPayload(*created))
}

// UpdateCard stores the new state of a card, typically after a review.
// PUT /v1/collections/:collection_id/cards
func (h *Handler) UpdateCard(c *gin.Context) {
	ctx, span := startSpan(c, "http.update_card")
	defer span.End()

	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	var req cardPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"message": "The request body cannot be converted to a card"})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "The identifier of the card to be updated cannot be null"})
		return
	}

	updated, err := h.cards.Update(ctx, SessionUser(c), collectionID, req.toDomain())
	if err != nil {
		writeContentError(c, err, collectionID)
		return
	}
	c.JSON(http.StatusOK, newCardPayload(*updated))
}

// DELETE /v1/collections/:collection_id/cards/:card_id
func (h *Handler) DeleteCard(c *gin.Context) {
	ctx, span := startSpan(c, "http.delete_card")
	defer span.End()

	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}
	cardID, ok := pathID(c, "card_id")
	if !ok {
		return
	}

	if err := h.cards.Delete(ctx, SessionUser(c), collectionID, cardID); err != nil {
		writeContentError(c, err, collectionID)
		return
	}
	c.Status(http.StatusNoContent)
}
