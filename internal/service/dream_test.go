package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneiro/internal/domain"
	"oneiro/internal/domain/models"
	"oneiro/internal/domain/services"
	"oneiro/internal/interpreter"
	"oneiro/internal/repository/kv"
	"oneiro/internal/store"
)

// stubClient satisfies interpreter.Client with canned output.
type stubClient struct {
	text string
	err  error
}

func (c *stubClient) Interpret(_ context.Context, _, _ string) (string, error) {
	return c.text, c.err
}

func newTestService(t *testing.T, client interpreter.Client) services.DreamService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rules, err := interpreter.LoadRules()
	require.NoError(t, err)
	gen := interpreter.NewGenerator(client, interpreter.NewFallbackEngine(rules), logger)

	return NewDreamService(store.New(kv.NewMemoryKV(), logger), gen, logger)
}

func mustCreate(t *testing.T, svc services.DreamService, req services.CreateDreamRequest) *models.DreamEntry {
	t.Helper()
	dream, err := svc.CreateDream(context.Background(), &req)
	require.NoError(t, err)
	return dream
}

func TestCreateDreamValidation(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  services.CreateDreamRequest
	}{
		{
			name: "missing title",
			req:  services.CreateDreamRequest{Content: "c", Date: "2026-08-01"},
		},
		{
			name: "missing content",
			req:  services.CreateDreamRequest{Title: "t", Date: "2026-08-01"},
		},
		{
			name: "malformed date",
			req:  services.CreateDreamRequest{Title: "t", Content: "c", Date: "August 1st"},
		},
		{
			name: "unknown emotion",
			req:  services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01", Emotion: "elated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDream(ctx, &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateDreamTrimsTitle(t *testing.T) {
	svc := newTestService(t, &stubClient{})

	dream := mustCreate(t, svc, services.CreateDreamRequest{
		Title: "  night swim  ", Content: "c", Date: "2026-08-01",
	})
	assert.Equal(t, "night swim", dream.Title)
	assert.Equal(t, models.EmotionNeutral, dream.Emotion, "emotion defaults to neutral")
}

func TestListDreamsFilterAndLimit(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	mustCreate(t, svc, services.CreateDreamRequest{Title: "a", Content: "c", Date: "2026-08-01", Emotion: models.EmotionPositive})
	mustCreate(t, svc, services.CreateDreamRequest{Title: "b", Content: "c", Date: "2026-08-02", Emotion: models.EmotionNegative})
	mustCreate(t, svc, services.CreateDreamRequest{Title: "c", Content: "c", Date: "2026-08-03", Emotion: models.EmotionPositive})

	all := svc.ListDreams(ctx, services.ListFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Title, "newest first")

	positive := svc.ListDreams(ctx, services.ListFilter{Emotion: models.EmotionPositive})
	require.Len(t, positive, 2)
	assert.Equal(t, "c", positive[0].Title)
	assert.Equal(t, "a", positive[1].Title)

	limited := svc.ListDreams(ctx, services.ListFilter{Limit: 2})
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].Title)

	none := svc.ListDreams(ctx, services.ListFilter{Emotion: models.EmotionNeutral})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetDreamNotFound(t *testing.T) {
	svc := newTestService(t, &stubClient{})

	_, err := svc.GetDream(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDream(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01"})

	title := "revised"
	updated, err := svc.UpdateDream(ctx, dream.ID, &models.DreamPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Title)
	assert.Equal(t, "c", updated.Content, "unpatched fields untouched")
}

func TestUpdateDreamNotFound(t *testing.T) {
	svc := newTestService(t, &stubClient{})

	title := "revised"
	_, err := svc.UpdateDream(context.Background(), "missing", &models.DreamPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDreamPatchValidation(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01"})

	empty := ""
	_, err := svc.UpdateDream(ctx, dream.ID, &models.DreamPatch{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := models.Emotion("elated")
	_, err = svc.UpdateDream(ctx, dream.ID, &models.DreamPatch{Emotion: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteDreamIdempotent(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01"})

	require.NoError(t, svc.DeleteDream(ctx, dream.ID))
	require.NoError(t, svc.DeleteDream(ctx, dream.ID), "second delete is a no-op")
	assert.Empty(t, svc.ListDreams(ctx, services.ListFilter{}))
}

func TestTimelineGroupsByMonth(t *testing.T) {
	svc := newTestService(t, &stubClient{})
	ctx := context.Background()

	mustCreate(t, svc, services.CreateDreamRequest{Title: "july", Content: "c", Date: "2026-07-15"})
	mustCreate(t, svc, services.CreateDreamRequest{Title: "early august", Content: "c", Date: "2026-08-01"})
	mustCreate(t, svc, services.CreateDreamRequest{Title: "late august", Content: "c", Date: "2026-08-20"})

	groups := svc.Timeline(ctx)
	require.Len(t, groups, 2)

	// Groups follow list order: the newest entry was created last, so its
	// month comes first.
	assert.Equal(t, "2026-08", groups[0].Month)
	require.Len(t, groups[0].Dreams, 2)
	assert.Equal(t, "late august", groups[0].Dreams[0].Title)
	assert.Equal(t, "early august", groups[0].Dreams[1].Title)

	assert.Equal(t, "2026-07", groups[1].Month)
	require.Len(t, groups[1].Dreams, 1)
}

func TestInterpretDream(t *testing.T) {
	svc := newTestService(t, &stubClient{
		text: `{"analysis":"a calm reading","symbols":[{"symbol":"water","meaning":"emotion","significance":"high"}],"mood":"positive","themes":["renewal"]}`,
	})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01"})

	rec, err := svc.InterpretDream(ctx, dream.ID)
	require.NoError(t, err)
	assert.Equal(t, dream.ID, rec.DreamID)
	assert.Equal(t, "a calm reading", rec.Analysis)

	stored, err := svc.GetDream(ctx, dream.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Interpretation)
	assert.Equal(t, rec.ID, stored.Interpretation.ID)
	assert.Len(t, stored.InterpretationHistory, 1)
}

func TestInterpretDreamNotFound(t *testing.T) {
	svc := newTestService(t, &stubClient{})

	_, err := svc.InterpretDream(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInterpretDreamCriticalErrorPropagates(t *testing.T) {
	svc := newTestService(t, &stubClient{
		err: interpreter.NewCriticalError(interpreter.ErrNotConfigured),
	})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{Title: "t", Content: "c", Date: "2026-08-01"})

	_, err := svc.InterpretDream(ctx, dream.ID)
	require.Error(t, err)
	assert.True(t, interpreter.IsCritical(err))

	stored, getErr := svc.GetDream(ctx, dream.ID)
	require.NoError(t, getErr)
	assert.Nil(t, stored.Interpretation, "nothing persisted on failure")
}

func TestInterpretDreamFallsBackOnRecoverableError(t *testing.T) {
	svc := newTestService(t, &stubClient{err: errors.New("endpoint returned 500")})
	ctx := context.Background()

	dream := mustCreate(t, svc, services.CreateDreamRequest{
		Title: "by the sea", Content: "I floated on the water", Date: "2026-08-01",
	})

	rec, err := svc.InterpretDream(ctx, dream.ID)
	require.NoError(t, err)
	require.NotEmpty(t, rec.Symbols)
	assert.Equal(t, "water", rec.Symbols[0].Symbol)
}

func TestPreviewInterpretation(t *testing.T) {
	svc := newTestService(t, &stubClient{
		text: `{"analysis":"preview reading","symbols":[],"mood":"neutral","themes":[]}`,
	})
	ctx := context.Background()

	draft, err := svc.PreviewInterpretation(ctx, &services.PreviewRequest{
		Title: "t", Content: "a short dream",
	})
	require.NoError(t, err)
	assert.Equal(t, "preview reading", draft.Analysis)

	assert.Empty(t, svc.ListDreams(ctx, services.ListFilter{}), "preview persists nothing")
}

func TestPreviewInterpretationValidation(t *testing.T) {
	svc := newTestService(t, &stubClient{})

	_, err := svc.PreviewInterpretation(context.Background(), &services.PreviewRequest{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
