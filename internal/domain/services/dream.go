package services

import (
	"context"

	"oneiro/internal/domain/models"
)

// DreamService handles journal business logic on top of the persistence
// store and the interpretation generator.
type DreamService interface {
	// ListDreams returns entries newest-first, optionally filtered.
	ListDreams(ctx context.Context, filter ListFilter) []models.DreamEntry

	// GetDream retrieves one entry; domain.ErrNotFound when absent.
	GetDream(ctx context.Context, id string) (*models.DreamEntry, error)

	// CreateDream validates and persists a new entry.
	CreateDream(ctx context.Context, req *CreateDreamRequest) (*models.DreamEntry, error)

	// UpdateDream applies a partial update and returns the updated entry;
	// domain.ErrNotFound when absent.
	UpdateDream(ctx context.Context, id string, patch *models.DreamPatch) (*models.DreamEntry, error)

	// DeleteDream removes an entry. Deleting an unknown id is not an error.
	DeleteDream(ctx context.Context, id string) error

	// Timeline groups entries by the month of their dream date.
	Timeline(ctx context.Context) []TimelineGroup

	// Stats computes aggregates over the full collection.
	Stats(ctx context.Context) models.DreamStats

	// InterpretDream generates an interpretation for a stored entry and
	// appends it to the entry's history.
	InterpretDream(ctx context.Context, id string) (*models.Interpretation, error)

	// PreviewInterpretation generates a draft without persisting anything.
	PreviewInterpretation(ctx context.Context, req *PreviewRequest) (*models.InterpretationDraft, error)
}

// ListFilter narrows a listing. Zero values mean no filtering.
type ListFilter struct {
	Emotion models.Emotion
	Limit   int
}

// CreateDreamRequest represents a new journal entry.
type CreateDreamRequest struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Date    string         `json:"date"`
	Emotion models.Emotion `json:"emotion"`
	Tags    []string       `json:"tags,omitempty"`
}

// PreviewRequest represents an ad-hoc interpretation request.
type PreviewRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TimelineGroup is one month of entries, members in list order.
type TimelineGroup struct {
	Month  string              `json:"month"`
	Dreams []models.DreamEntry `json:"dreams"`
}
