package store

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"oneiro/internal/domain/models"
)

// emotionPriority fixes the tie-break order for the most common emotion.
// Counts are compared with strict greater-than while walking this order,
// so an earlier emotion wins a tie.
var emotionPriority = []models.Emotion{
	models.EmotionPositive,
	models.EmotionNegative,
	models.EmotionNeutral,
}

// DreamStats derives aggregates from the current collection. An empty or
// unreadable store yields the all-zero neutral default rather than an
// error.
func (s *DreamStore) DreamStats(ctx context.Context) models.DreamStats {
	dreams := s.ListDreams(ctx)
	stats := models.DreamStats{MostCommonEmotion: models.EmotionNeutral}
	if len(dreams) == 0 {
		return stats
	}

	now := s.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	counts := make(map[models.Emotion]int)
	totalLength := 0
	for _, d := range dreams {
		if !d.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !d.CreatedAt.Before(monthAgo) {
			stats.ThisMonth++
		}
		if d.Emotion != "" {
			counts[d.Emotion]++
		}
		totalLength += utf8.RuneCountInString(d.Content)
	}

	best := 0
	for _, e := range emotionPriority {
		if counts[e] > best {
			best = counts[e]
			stats.MostCommonEmotion = e
		}
	}

	stats.TotalDreams = len(dreams)
	stats.AverageLength = int(math.Round(float64(totalLength) / float64(len(dreams))))
	return stats
}
