package v1

import (
	"time"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	Username string `json:"username"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{Username: u.Username}
}

// collectionPayload is the wire form of a collection. The owner is never
// read from the body.
type collectionPayload struct {
	ID              int64   `json:"id,omitempty"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	SubjectType     string  `json:"subject_type"`
	SubjectLanguage *string `json:"subject_language,omitempty"`
	NativeLanguage  *string `json:"native_language,omitempty"`
	OwnerUsername   string  `json:"owner_username,omitempty"`
}

func (p collectionPayload) toDomain() domain.CardCollection {
	return domain.CardCollection{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		SubjectType:     domain.SubjectType(p.SubjectType),
		SubjectLanguage: p.SubjectLanguage,
		NativeLanguage:  p.NativeLanguage,
	}
}

func newCollectionPayload(c domain.CardCollection) collectionPayload {
	return collectionPayload{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		SubjectType:     string(c.SubjectType),
		SubjectLanguage: c.SubjectLanguage,
		NativeLanguage:  c.NativeLanguage,
		OwnerUsername:   c.OwnerUsername,
	}
}

type cardPayload struct {
	ID                int64     `json:"id,omitempty"`
	FrontTitle        string    `json:"front_title"`
	FrontDescription  *string   `json:"front_description,omitempty"`
	FrontExample      *string   `json:"front_example,omitempty"`
	BackTitle         string    `json:"back_title"`
	BackDescription   *string   `json:"back_description,omitempty"`
	BackExample       *string   `json:"back_example,omitempty"`
	NextTimeAt        time.Time `json:"next_time_at"`
	CurrentIntervalMs int64     `json:"current_interval_ms"`
	CollectionID      int64     `json:"collection_id,omitempty"`
}

func (p cardPayload) toDomain() domain.Card {
	return domain.Card{
		ID:                p.ID,
		FrontTitle:        p.FrontTitle,
		FrontDescription:  p.FrontDescription,
		FrontExample:      p.FrontExample,
		BackTitle:         p.BackTitle,
		BackDescription:   p.BackDescription,
		BackExample:       p.BackExample,
		NextTimeAt:        p.NextTimeAt.UTC(),
		CurrentIntervalMs: p.CurrentIntervalMs,
	}
}

func newCardPayload(c domain.Card) cardPayload {
	return cardPayload{
		ID:                c.ID,
		FrontTitle:        c.FrontTitle,
		FrontDescription:  c.FrontDescription,
		FrontExample:      c.FrontExample,
		BackTitle:         c.BackTitle,
		BackDescription:   c.BackDescription,
		BackExample:       c.BackExample,
		NextTimeAt:        c.NextTimeAt.UTC(),
		CurrentIntervalMs: c.CurrentIntervalMs,
		CollectionID:      c.CollectionID,
	}
}
