package progress

import (
	"math"

	"github.com/writeflowhq/writeflow/models"
)

// Trend classification for a score delta.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendSame = "same"
)

// Delta is the signed difference between two scores on one dimension.
// Percentage is relative to the second (older) score, one decimal, and defined
// as 0 when that score is 0 so the division never blows up.
type Delta struct {
	Diff       float64 `json:"diff"`
	Trend      string  `json:"trend"`
	Percentage float64 `json:"percentage"`
}

// ComparisonResult holds per-dimension deltas between two essays: the overall
// score plus the five criteria subscores.
type ComparisonResult struct {
	Overall    Delta `json:"overall"`
	Grammar    Delta `json:"grammar"`
	Structure  Delta `json:"structure"`
	Content    Delta `json:"content"`
	Vocabulary Delta `json:"vocabulary"`
	Coherence  Delta `json:"coherence"`
}

// Compare computes score deltas of essay a relative to essay b. It is a pure
// function with no side effects: Compare(a,b).Diff == -Compare(b,a).Diff on
// every dimension.
func Compare(a, b *models.Essay) ComparisonResult {
	return ComparisonResult{
		Overall:    compareScores(a.OverallScore, b.OverallScore),
		Grammar:    compareScores(a.GrammarScore, b.GrammarScore),
		Structure:  compareScores(a.StructureScore, b.StructureScore),
		Content:    compareScores(a.ContentScore, b.ContentScore),
		Vocabulary: compareScores(a.VocabularyScore, b.VocabularyScore),
		Coherence:  compareScores(a.CoherenceScore, b.CoherenceScore),
	}
}

func compareScores(a, b float64) Delta {
	diff := a - b
	d := Delta{Diff: diff, Trend: TrendSame}
	switch {
	case diff > 0:
		d.Trend = TrendUp
	case diff < 0:
		d.Trend = TrendDown
	}
	if b > 0 {
		d.Percentage = math.Round(diff/b*1000) / 10
	}
	return d
}
