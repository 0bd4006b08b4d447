package services

import (
	"math"
	"sort"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/models"
)

// UnknownTopic labels results saved without a topic.
const UnknownTopic = "Unknown"

// ComputeUserStats rolls per-question results up into overall and
// per-topic accuracy. Topics are grouped by exact string match.
func ComputeUserStats(records []models.MCQResult) dto.UserStats {
	stats := dto.UserStats{ByTopic: make(map[string]dto.TopicStats)}

	for _, r := range records {
		topic := r.Topic
		if topic == "" {
			topic = UnknownTopic
		}
		ts := stats.ByTopic[topic]

		stats.Total++
		ts.Total++
		if r.IsCorrect {
			stats.Correct++
			ts.Correct++
		}
		stats.ByTopic[topic] = ts
	}

	stats.Accuracy = percent(stats.Correct, stats.Total)
	for topic, ts := range stats.ByTopic {
		ts.Accuracy = percent(ts.Correct, ts.Total)
		stats.ByTopic[topic] = ts
	}
	return stats
}

// ComputeTypeStats groups guest quizzes by source type. Every record counts
// as an attempt, but only records with TotalQuestions > 0 feed the average
// and best score. A group without such records reports 0 for both.
func ComputeTypeStats(records []models.MCQResult) []dto.TypeStats {
	type acc struct {
		attempts int
		scored   int
		sum      float64
		best     float64
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.Type]
		if !ok {
			g = &acc{}
			groups[r.Type] = g
		}
		g.attempts++
		if r.TotalQuestions <= 0 {
			continue
		}
		ratio := float64(r.Score) / float64(r.TotalQuestions)
		g.sum += ratio
		if g.scored == 0 || ratio > g.best {
			g.best = ratio
		}
		g.scored++
	}

	out := make([]dto.TypeStats, 0, len(groups))
	for typ, g := range groups {
		ts := dto.TypeStats{Type: typ, TotalAttempts: g.attempts}
		if g.scored > 0 {
			ts.AvgScore = round2(g.sum / float64(g.scored) * 100)
			ts.BestScore = round2(g.best * 100)
		}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
