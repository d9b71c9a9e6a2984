// Package store implements the persistence rules for dream entries and
// their interpretation records on top of a whole-document key-value
// repository. Each collection lives under one fixed key as a JSON array
// and every operation is a read-modify-write of the full document.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"oneiro/internal/domain/models"
	"oneiro/internal/domain/repositories"
)

// Fixed storage keys partitioning the store into the two collections.
const (
	dreamsKey          = "oneiro_dreams"
	interpretationsKey = "oneiro_interpretations"
)

// DreamStore is the single write path for dream entries and interpretation
// records. Read failures degrade to empty results and are only logged;
// write failures propagate unchanged to the caller.
//
// The two collections are written independently: a failure between the
// interpretation append and the dream update can leave an interpretation
// record unlinked from its dream's history. That record is additive and
// harmless, so the store does not attempt cross-key atomicity.
type DreamStore struct {
	kv     repositories.KV
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

// New creates a store over the given key-value repository.
func New(kv repositories.KV, logger *slog.Logger) *DreamStore {
	return &DreamStore{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// CreateDreamInput carries the caller-supplied fields of a new entry.
type CreateDreamInput struct {
	Title   string
	Content string
	Date    string
	Emotion models.Emotion
	Tags    []string
}

// SaveInterpretationInput carries a generated draft and the entry it
// belongs to.
type SaveInterpretationInput struct {
	DreamID string
	Draft   models.InterpretationDraft
}

// newID returns a millisecond-timestamp token, bumped when two calls land
// on the same millisecond so ids stay unique and ordered within a process.
func (s *DreamStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// ListDreams returns the full collection, newest first. It never fails:
// a missing key yields an empty slice and a decode failure is logged and
// treated as an empty store.
func (s *DreamStore) ListDreams(ctx context.Context) []models.DreamEntry {
	raw, ok, err := s.kv.Get(ctx, dreamsKey)
	if err != nil {
		s.logger.Error("read dreams collection", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var dreams []models.DreamEntry
	if err := json.Unmarshal(raw, &dreams); err != nil {
		s.logger.Error("decode dreams collection, treating store as empty", "error", err)
		return nil
	}
	return dreams
}

// GetDreamByID returns the entry with the given id, or nil when it is
// absent or the collection cannot be read.
func (s *DreamStore) GetDreamByID(ctx context.Context, id string) *models.DreamEntry {
	for _, d := range s.ListDreams(ctx) {
		if d.ID == id {
			return &d
		}
	}
	return nil
}

// SaveDream assigns identity and timestamps to the input and prepends the
// new entry to the collection. Prepending is load-bearing: consumers take
// "most recent N" from the front.
func (s *DreamStore) SaveDream(ctx context.Context, input CreateDreamInput) (*models.DreamEntry, error) {
	now := s.now()
	entry := models.DreamEntry{
		ID:        s.newID(),
		Title:     input.Title,
		Content:   input.Content,
		Date:      input.Date,
		CreatedAt: now,
		UpdatedAt: now,
		Emotion:   input.Emotion,
		Tags:      input.Tags,
	}
	if entry.Emotion == "" {
		entry.Emotion = models.EmotionNeutral
	}

	dreams := append([]models.DreamEntry{entry}, s.ListDreams(ctx)...)
	if err := s.persistDreams(ctx, dreams); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateDream applies the non-nil fields of patch to the entry with the
// given id and refreshes its UpdatedAt. An unknown id is a silent no-op.
func (s *DreamStore) UpdateDream(ctx context.Context, id string, patch models.DreamPatch) error {
	_, err := s.updateDream(ctx, id, func(d *models.DreamEntry) {
		if patch.Title != nil {
			d.Title = *patch.Title
		}
		if patch.Content != nil {
			d.Content = *patch.Content
		}
		if patch.Date != nil {
			d.Date = *patch.Date
		}
		if patch.Emotion != nil {
			d.Emotion = *patch.Emotion
		}
		if patch.Tags != nil {
			d.Tags = *patch.Tags
		}
	})
	return err
}

// DeleteDream removes the entry with the given id from the primary
// collection. Interpretation records in the secondary collection are kept;
// see the package design notes. An unknown id is a silent no-op.
func (s *DreamStore) DeleteDream(ctx context.Context, id string) error {
	dreams := s.ListDreams(ctx)
	filtered := dreams[:0:0]
	for _, d := range dreams {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	return s.persistDreams(ctx, filtered)
}

// SaveInterpretation assigns identity to the draft, appends the record to
// the global interpretations collection, then links it into the owning
// dream: the dream's history gains the record (back-filling a current
// pointer that predates history tracking) and its interpretation pointer
// is replaced. The record is returned even when the dream no longer
// exists - the global collection then simply holds an orphan.
func (s *DreamStore) SaveInterpretation(ctx context.Context, input SaveInterpretationInput) (*models.Interpretation, error) {
	rec := models.Interpretation{
		ID:        s.newID(),
		DreamID:   input.DreamID,
		Analysis:  input.Draft.Analysis,
		Symbols:   input.Draft.Symbols,
		Mood:      input.Draft.Mood,
		Themes:    input.Draft.Themes,
		CreatedAt: s.now(),
	}

	all := append(s.loadInterpretations(ctx), rec)
	if err := s.persistInterpretations(ctx, all); err != nil {
		return nil, err
	}

	dream := s.GetDreamByID(ctx, input.DreamID)
	if dream == nil {
		s.logger.Warn("interpretation saved for missing dream", "dream_id", input.DreamID)
		return &rec, nil
	}

	history := make([]models.Interpretation, 0, len(dream.InterpretationHistory)+2)
	history = append(history, dream.InterpretationHistory...)
	if dream.Interpretation != nil && !historyContains(history, dream.Interpretation.ID) {
		// Entries created before history tracking carry a current pointer
		// that never made it into the history; preserve it first.
		history = append(history, *dream.Interpretation)
	}
	history = append(history, rec)

	if _, err := s.updateDream(ctx, input.DreamID, func(d *models.DreamEntry) {
		current := rec
		d.Interpretation = &current
		d.InterpretationHistory = history
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}

// updateDream is the single mutation path for the dreams collection.
// It reports whether an entry with the given id was found.
func (s *DreamStore) updateDream(ctx context.Context, id string, apply func(*models.DreamEntry)) (bool, error) {
	dreams := s.ListDreams(ctx)
	for i := range dreams {
		if dreams[i].ID != id {
			continue
		}
		apply(&dreams[i])
		dreams[i].UpdatedAt = s.now()
		if err := s.persistDreams(ctx, dreams); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

func (s *DreamStore) loadInterpretations(ctx context.Context) []models.Interpretation {
	raw, ok, err := s.kv.Get(ctx, interpretationsKey)
	if err != nil {
		s.logger.Error("read interpretations collection", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var recs []models.Interpretation
	if err := json.Unmarshal(raw, &recs); err != nil {
		s.logger.Error("decode interpretations collection, treating store as empty", "error", err)
		return nil
	}
	return recs
}

func (s *DreamStore) persistDreams(ctx context.Context, dreams []models.DreamEntry) error {
	raw, err := json.Marshal(dreams)
	if err != nil {
		return fmt.Errorf("encode dreams collection: %w", err)
	}
	if err := s.kv.Put(ctx, dreamsKey, raw); err != nil {
		return fmt.Errorf("persist dreams collection: %w", err)
	}
	return nil
}

func (s *DreamStore) persistInterpretations(ctx context.Context, recs []models.Interpretation) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode interpretations collection: %w", err)
	}
	if err := s.kv.Put(ctx, interpretationsKey, raw); err != nil {
		return fmt.Errorf("persist interpretations collection: %w", err)
	}
	return nil
}

func historyContains(history []models.Interpretation, id string) bool {
	for _, h := range history {
		if h.ID == id {
			return true
		}
	}
	return false
}
