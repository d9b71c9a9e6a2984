package interpreter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneiro/internal/domain/models"
)

func testRules(t *testing.T) *RuleSet {
	t.Helper()
	rules, err := LoadRules()
	require.NoError(t, err)
	return rules
}

func TestLoadRules(t *testing.T) {
	rules := testRules(t)
	assert.NotEmpty(t, rules.Symbols)
	assert.NotEmpty(t, rules.Mood.Positive)
	assert.NotEmpty(t, rules.Mood.Negative)
	assert.NotEmpty(t, rules.Themes)

	for _, s := range rules.Symbols {
		assert.NotEmpty(t, s.Meaning, "symbol %q needs a meaning", s.Symbol)
		assert.Contains(t, []models.Significance{
			models.SignificanceHigh, models.SignificanceMedium, models.SignificanceLow,
		}, s.Significance, "symbol %q has an unknown significance", s.Symbol)
	}
}

func TestFallbackSymbolMatch(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	draft := engine.Interpret("A strange night", "I stood by the water and watched it rise.")

	require.NotEmpty(t, draft.Symbols)
	assert.Equal(t, "water", draft.Symbols[0].Symbol)
	assert.Equal(t, models.EmotionNeutral, draft.Mood, "no mood keywords means neutral")
}

func TestFallbackSymbolCap(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	draft := engine.Interpret("", "water ocean flying falling house family animal road")
	assert.Len(t, draft.Symbols, 3, "at most three symbols, in table order")
	assert.Equal(t, "water", draft.Symbols[0].Symbol)
	assert.Equal(t, "ocean", draft.Symbols[1].Symbol)
	assert.Equal(t, "flying", draft.Symbols[2].Symbol)
}

func TestFallbackMoodClassification(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Emotion
	}{
		{
			name:    "more positive than negative",
			content: "a happy dream full of joy and love, though a sad moment passed",
			want:    models.EmotionPositive,
		},
		{
			name:    "more negative than positive",
			content: "scary and sad, I felt anxious despite one warm moment",
			want:    models.EmotionNegative,
		},
		{
			name:    "tie is neutral",
			content: "happy then sad",
			want:    models.EmotionNeutral,
		},
		{
			name:    "no keywords is neutral",
			content: "I wandered through an empty station",
			want:    models.EmotionNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewFallbackEngine(testRules(t))
			draft := engine.Interpret("", tt.content)
			assert.Equal(t, tt.want, draft.Mood)
		})
	}
}

func TestFallbackThemes(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	draft := engine.Interpret("", "my mother and an old friend walked to school while talking about the future and the past and work")

	assert.Len(t, draft.Themes, 3, "at most three themes, in rule order")
	assert.Equal(t, []string{"family ties", "study and growth", "relationships"}, draft.Themes)
}

func TestFallbackAnalysisAssembly(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	draft := engine.Interpret("by the water", "a happy beautiful dream about my family and the water, full of love")

	assert.True(t, strings.HasPrefix(draft.Analysis, "This dream reflects"))
	assert.Contains(t, draft.Analysis, `"water"`, "first matched symbol is referenced")
	assert.Contains(t, draft.Analysis, "family ties", "first matched theme is referenced")
	assert.Contains(t, draft.Analysis, "positive energy", "closing sentence keyed by mood")
}

func TestFallbackAnalysisWithoutMatches(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	draft := engine.Interpret("", "an unremarkable evening")

	assert.Empty(t, draft.Symbols)
	assert.Empty(t, draft.Themes)
	assert.Contains(t, draft.Analysis, "balanced state of mind")
}

func TestFallbackIsDeterministic(t *testing.T) {
	engine := NewFallbackEngine(testRules(t))

	a := engine.Interpret("title", "water and family under a bright light")
	b := engine.Interpret("title", "water and family under a bright light")
	assert.Equal(t, a, b)
}
