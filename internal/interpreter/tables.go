package interpreter

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"oneiro/internal/domain/models"
)

//go:embed rules.yaml
var rulesFile []byte

// SymbolRule maps a dream-symbol keyword to its reading.
type SymbolRule struct {
	Symbol       string              `yaml:"symbol"`
	Meaning      string              `yaml:"meaning"`
	Significance models.Significance `yaml:"significance"`
}

// ThemeRule fires when any of its keywords appears in the dream text.
type ThemeRule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// MoodWords are the positive and negative keyword lists for mood
// classification.
type MoodWords struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// RuleSet is the immutable configuration the fallback engine runs on.
// The tables ship embedded in the binary so the matching algorithm can be
// tested and extended independently of any hard-coded control flow.
type RuleSet struct {
	Symbols []SymbolRule `yaml:"symbols"`
	Mood    MoodWords    `yaml:"mood"`
	Themes  []ThemeRule  `yaml:"themes"`
}

// LoadRules parses the embedded rule tables.
func LoadRules() (*RuleSet, error) {
	var rules RuleSet
	if err := yaml.Unmarshal(rulesFile, &rules); err != nil {
		return nil, fmt.Errorf("unmarshal rule tables: %w", err)
	}
	if len(rules.Symbols) == 0 || len(rules.Themes) == 0 {
		return nil, fmt.Errorf("rule tables are incomplete")
	}
	return &rules, nil
}
