package interpreter

import (
	"fmt"
	"strings"

	"oneiro/internal/domain/models"
)

// Fallback caps differ from the remote prompt: the rule engine keeps at
// most three symbols, matching the original behavior.
const maxFallbackSymbols = 3

// FallbackEngine produces a deterministic interpretation from the rule
// tables when the remote model is unusable.
type FallbackEngine struct {
	rules *RuleSet
}

// NewFallbackEngine creates an engine over the given rule set.
func NewFallbackEngine(rules *RuleSet) *FallbackEngine {
	return &FallbackEngine{rules: rules}
}

// Interpret runs the rule engine over title and content. The output is a
// valid draft by construction and passes CoerceDraft unchanged.
func (e *FallbackEngine) Interpret(title, content string) models.InterpretationDraft {
	text := strings.ToLower(title + " " + content)

	symbols := e.matchSymbols(text)
	mood := e.classifyMood(text)
	themes := e.matchThemes(text)

	return models.InterpretationDraft{
		Analysis: assembleAnalysis(symbols, themes, mood),
		Symbols:  symbols,
		Mood:     mood,
		Themes:   themes,
	}
}

// matchSymbols collects up to three matches in table order; first match
// wins, no scoring.
func (e *FallbackEngine) matchSymbols(text string) []models.DreamSymbol {
	symbols := []models.DreamSymbol{}
	for _, rule := range e.rules.Symbols {
		if len(symbols) == maxFallbackSymbols {
			break
		}
		if strings.Contains(text, strings.ToLower(rule.Symbol)) {
			symbols = append(symbols, models.DreamSymbol{
				Symbol:       rule.Symbol,
				Meaning:      rule.Meaning,
				Significance: rule.Significance,
			})
		}
	}
	return symbols
}

// classifyMood counts which list words appear in the text. More positive
// hits than negative yields positive, the reverse yields negative, and
// ties (including zero/zero) are neutral.
func (e *FallbackEngine) classifyMood(text string) models.Emotion {
	positive := countPresent(text, e.rules.Mood.Positive)
	negative := countPresent(text, e.rules.Mood.Negative)
	switch {
	case positive > negative:
		return models.EmotionPositive
	case negative > positive:
		return models.EmotionNegative
	default:
		return models.EmotionNeutral
	}
}

// matchThemes collects labels of firing rules in declaration order,
// capped at three.
func (e *FallbackEngine) matchThemes(text string) []string {
	themes := []string{}
	for _, rule := range e.rules.Themes {
		if len(themes) == maxThemes {
			break
		}
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				themes = append(themes, rule.Label)
				break
			}
		}
	}
	return themes
}

func countPresent(text string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(text, strings.ToLower(w)) {
			count++
		}
	}
	return count
}

// assembleAnalysis builds the templated analysis text: an empathetic
// opening, a sentence for the first symbol and theme when present, a
// mood-keyed closing and a fixed encouragement.
func assembleAnalysis(symbols []models.DreamSymbol, themes []string, mood models.Emotion) string {
	var b strings.Builder
	b.WriteString("This dream reflects your present state of mind and inner feelings. ")

	if len(symbols) > 0 {
		fmt.Fprintf(&b, "The appearance of %q suggests %s. ", symbols[0].Symbol, symbols[0].Meaning)
	}
	if len(themes) > 0 {
		fmt.Fprintf(&b, "Your current thoughts around %s seem to be surfacing in the dream. ", themes[0])
	}

	switch mood {
	case models.EmotionPositive:
		b.WriteString("Overall the dream carries a positive energy and points to a sense of inner peace. ")
	case models.EmotionNegative:
		b.WriteString("It hints at some unease or stress in your current situation. ")
	default:
		b.WriteString("It shows a balanced state of mind and a level view of your circumstances. ")
	}

	b.WriteString("Take a moment to sit with the feelings this dream brought up and listen to what they are telling you.")
	return b.String()
}
