package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"

	"oneiro/internal/domain/models"
)

// placeholderAnalysis stands in when the model returns a shape without a
// usable analysis string.
const placeholderAnalysis = "No detailed analysis could be generated for this dream."

// Caps on the coerced shape, matching what the prompt asks for.
const (
	maxSymbols = 4
	maxThemes  = 3
)

// ParseDraft turns raw model text into a draft. It tries a direct JSON
// parse first, then extraction of an embedded object; the decoded value is
// then coerced, so a parse success always yields a fully valid draft.
func ParseDraft(text string) (models.InterpretationDraft, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		extracted := ExtractJSON(text)
		if extracted == "" {
			return models.InterpretationDraft{}, fmt.Errorf("no JSON object in response")
		}
		if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
			return models.InterpretationDraft{}, fmt.Errorf("parse extracted JSON: %w", err)
		}
	}
	return CoerceDraft(raw), nil
}

// CoerceDraft maps an untyped decoded value onto the strict draft shape.
// It is total: whatever the model sent back, the result is a valid draft.
// Running already-valid data through it is a no-op.
func CoerceDraft(raw map[string]any) models.InterpretationDraft {
	draft := models.InterpretationDraft{
		Analysis: placeholderAnalysis,
		Symbols:  []models.DreamSymbol{},
		Mood:     models.CoerceEmotion(asString(raw["mood"])),
		Themes:   []string{},
	}

	if analysis := asString(raw["analysis"]); analysis != "" {
		draft.Analysis = analysis
	}

	if symbols, ok := raw["symbols"].([]any); ok {
		for _, item := range symbols {
			if len(draft.Symbols) == maxSymbols {
				break
			}
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			symbol := asString(entry["symbol"])
			meaning := asString(entry["meaning"])
			if symbol == "" || meaning == "" {
				continue
			}
			draft.Symbols = append(draft.Symbols, models.DreamSymbol{
				Symbol:       symbol,
				Meaning:      meaning,
				Significance: models.CoerceSignificance(asString(entry["significance"])),
			})
		}
	}

	if themes, ok := raw["themes"].([]any); ok {
		for _, item := range themes {
			if len(draft.Themes) == maxThemes {
				break
			}
			theme := strings.TrimSpace(asString(item))
			if theme == "" {
				continue
			}
			draft.Themes = append(draft.Themes, theme)
		}
	}

	return draft
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
