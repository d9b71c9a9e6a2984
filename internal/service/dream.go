package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"oneiro/internal/domain"
	"oneiro/internal/domain/models"
	"oneiro/internal/domain/services"
	"oneiro/internal/interpreter"
	"oneiro/internal/store"
)

const (
	maxTitleLength   = 200
	maxContentLength = 20000
	dateLayout       = "2006-01-02"
)

// dreamService implements the DreamService interface.
type dreamService struct {
	store     *store.DreamStore
	generator *interpreter.Generator
	logger    *slog.Logger
}

// NewDreamService creates a new dream service.
func NewDreamService(
	store *store.DreamStore,
	generator *interpreter.Generator,
	logger *slog.Logger,
) services.DreamService {
	return &dreamService{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// ListDreams returns entries newest-first, filtered by emotion and capped
// at filter.Limit from the front when set.
func (s *dreamService) ListDreams(ctx context.Context, filter services.ListFilter) []models.DreamEntry {
	dreams := s.store.ListDreams(ctx)

	if filter.Emotion != "" {
		filtered := dreams[:0:0]
		for _, d := range dreams {
			if d.Emotion == filter.Emotion {
				filtered = append(filtered, d)
			}
		}
		dreams = filtered
	}

	if filter.Limit > 0 && filter.Limit < len(dreams) {
		dreams = dreams[:filter.Limit]
	}
	if dreams == nil {
		dreams = []models.DreamEntry{}
	}
	return dreams
}

// GetDream retrieves one entry by id.
func (s *dreamService) GetDream(ctx context.Context, id string) (*models.DreamEntry, error) {
	dream := s.store.GetDreamByID(ctx, id)
	if dream == nil {
		return nil, fmt.Errorf("dream %s: %w", id, domain.ErrNotFound)
	}
	return dream, nil
}

// CreateDream validates and persists a new entry.
func (s *dreamService) CreateDream(ctx context.Context, req *services.CreateDreamRequest) (*models.DreamEntry, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	dream, err := s.store.SaveDream(ctx, store.CreateDreamInput{
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Date:    req.Date,
		Emotion: req.Emotion,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dream created",
		"id", dream.ID,
		"date", dream.Date,
		"emotion", dream.Emotion,
	)
	return dream, nil
}

// UpdateDream applies a partial update and returns the updated entry.
func (s *dreamService) UpdateDream(ctx context.Context, id string, patch *models.DreamPatch) (*models.DreamEntry, error) {
	if err := s.validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The store treats an unknown id as a silent no-op; the REST surface
	// wants a 404, so existence is checked here first.
	if s.store.GetDreamByID(ctx, id) == nil {
		return nil, fmt.Errorf("dream %s: %w", id, domain.ErrNotFound)
	}

	if err := s.store.UpdateDream(ctx, id, *patch); err != nil {
		return nil, err
	}

	dream := s.store.GetDreamByID(ctx, id)
	if dream == nil {
		return nil, fmt.Errorf("dream %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("dream updated", "id", id)
	return dream, nil
}

// DeleteDream removes an entry; unknown ids are a no-op.
func (s *dreamService) DeleteDream(ctx context.Context, id string) error {
	if err := s.store.DeleteDream(ctx, id); err != nil {
		return err
	}
	s.logger.Info("dream deleted", "id", id)
	return nil
}

// Timeline groups entries by the month of their dream date, groups and
// members in list order (newest first).
func (s *dreamService) Timeline(ctx context.Context) []services.TimelineGroup {
	groups := []services.TimelineGroup{}
	index := map[string]int{}

	for _, d := range s.store.ListDreams(ctx) {
		month := monthKey(d)
		i, ok := index[month]
		if !ok {
			i = len(groups)
			index[month] = i
			groups = append(groups, services.TimelineGroup{Month: month})
		}
		groups[i].Dreams = append(groups[i].Dreams, d)
	}
	return groups
}

// Stats computes aggregates over the full collection.
func (s *dreamService) Stats(ctx context.Context) models.DreamStats {
	return s.store.DreamStats(ctx)
}

// InterpretDream generates an interpretation for a stored entry and
// appends it to the entry's history. Critical generator errors propagate
// so the caller can present the distinct error state.
func (s *dreamService) InterpretDream(ctx context.Context, id string) (*models.Interpretation, error) {
	dream := s.store.GetDreamByID(ctx, id)
	if dream == nil {
		return nil, fmt.Errorf("dream %s: %w", id, domain.ErrNotFound)
	}

	draft, err := s.generator.Interpret(ctx, dream.Title, dream.Content)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.SaveInterpretation(ctx, store.SaveInterpretationInput{
		DreamID: id,
		Draft:   draft,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("interpretation saved",
		"id", rec.ID,
		"dream_id", id,
		"mood", rec.Mood,
	)
	return rec, nil
}

// PreviewInterpretation generates a draft without persisting anything.
func (s *dreamService) PreviewInterpretation(ctx context.Context, req *services.PreviewRequest) (*models.InterpretationDraft, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, maxContentLength)),
		validation.Field(&req.Title, validation.Length(0, maxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	draft, err := s.generator.Interpret(ctx, req.Title, req.Content)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *dreamService) validateCreateRequest(req *services.CreateDreamRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&req.Content, validation.Required, validation.Length(1, maxContentLength)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Emotion, validation.In(
			models.EmotionPositive, models.EmotionNegative, models.EmotionNeutral,
		)),
	)
}

func (s *dreamService) validatePatch(patch *models.DreamPatch) error {
	if patch.Title != nil {
		if err := validation.Validate(*patch.Title, validation.Required, validation.Length(1, maxTitleLength)); err != nil {
			return fmt.Errorf("title: %v", err)
		}
	}
	if patch.Content != nil {
		if err := validation.Validate(*patch.Content, validation.Required, validation.Length(1, maxContentLength)); err != nil {
			return fmt.Errorf("content: %v", err)
		}
	}
	if patch.Date != nil {
		if err := validation.Validate(*patch.Date, validation.Required, validation.Date(dateLayout)); err != nil {
			return fmt.Errorf("date: %v", err)
		}
	}
	if patch.Emotion != nil && !models.ValidEmotion(*patch.Emotion) {
		return fmt.Errorf("emotion: must be one of positive, negative, neutral")
	}
	return nil
}

// monthKey returns the YYYY-MM group for an entry, preferring the
// user-intended dream date and falling back to the recording time when
// the date does not parse.
func monthKey(d models.DreamEntry) string {
	if t, err := time.Parse(dateLayout, d.Date); err == nil {
		return t.Format("2006-01")
	}
	return d.CreatedAt.Format("2006-01")
}
