package models

import (
	"time"
)

// Emotion classifies the overall feeling of a dream. The same three values
// are used for the mood of an interpretation.
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNegative Emotion = "negative"
	EmotionNeutral  Emotion = "neutral"
)

// ValidEmotion reports whether e is one of the three known values.
func ValidEmotion(e Emotion) bool {
	switch e {
	case EmotionPositive, EmotionNegative, EmotionNeutral:
		return true
	}
	return false
}

// CoerceEmotion maps an arbitrary value onto a known emotion, defaulting
// to neutral. Used when ingesting untrusted model output.
func CoerceEmotion(v string) Emotion {
	if e := Emotion(v); ValidEmotion(e) {
		return e
	}
	return EmotionNeutral
}

// Significance ranks how central a symbol is to a dream.
type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// CoerceSignificance maps an arbitrary value onto a known tier, defaulting
// to medium.
func CoerceSignificance(v string) Significance {
	switch s := Significance(v); s {
	case SignificanceHigh, SignificanceMedium, SignificanceLow:
		return s
	}
	return SignificanceMedium
}

// DreamEntry is a single journal entry. Entries are stored newest-first;
// consumers slice "most recent N" from the front of the collection.
type DreamEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Date is the user-intended dream date as an ISO calendar date
	// (YYYY-MM-DD), distinct from CreatedAt which is when the entry
	// was recorded.
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Emotion   Emotion   `json:"emotion,omitempty"`
	Tags      []string  `json:"tags,omitempty"`

	// Interpretation is the current interpretation. It is denormalized:
	// when set it is also the last element of InterpretationHistory.
	// Both fields are written only by the store's SaveInterpretation
	// path, never patched directly.
	Interpretation        *Interpretation  `json:"interpretation,omitempty"`
	InterpretationHistory []Interpretation `json:"interpretationHistory,omitempty"`
}

// Interpretation is one reading of a dream. Records are immutable once
// created; re-interpreting a dream appends a new record to the history
// rather than mutating an existing one.
type Interpretation struct {
	ID        string        `json:"id"`
	DreamID   string        `json:"dreamId"`
	Analysis  string        `json:"analysis"`
	Symbols   []DreamSymbol `json:"symbols"`
	Mood      Emotion       `json:"mood"`
	Themes    []string      `json:"themes"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DreamSymbol is a single symbolic element found in a dream.
type DreamSymbol struct {
	Symbol       string       `json:"symbol"`
	Meaning      string       `json:"meaning"`
	Significance Significance `json:"significance"`
}

// InterpretationDraft is generator output before the store assigns
// identity: an Interpretation minus ID, DreamID and CreatedAt.
type InterpretationDraft struct {
	Analysis string        `json:"analysis"`
	Symbols  []DreamSymbol `json:"symbols"`
	Mood     Emotion       `json:"mood"`
	Themes   []string      `json:"themes"`
}

// DreamPatch is a partial update. Only non-nil fields are applied.
// ID and CreatedAt are never patchable, and the interpretation pointer
// and history are deliberately absent - they have a single write path.
type DreamPatch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Date    *string   `json:"date,omitempty"`
	Emotion *Emotion  `json:"emotion,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// DreamStats are aggregates derived from the full collection, never stored.
type DreamStats struct {
	TotalDreams       int     `json:"totalDreams"`
	ThisWeek          int     `json:"thisWeek"`
	ThisMonth         int     `json:"thisMonth"`
	MostCommonEmotion Emotion `json:"mostCommonEmotion"`
	AverageLength     int     `json:"averageLength"`
}
