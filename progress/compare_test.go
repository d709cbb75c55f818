package progress

import (
	"testing"

	"github.com/writeflowhq/writeflow/models"
)

func TestCompareOverall(t *testing.T) {
	cases := []struct {
		name       string
		a, b       float64
		diff       float64
		trend      string
		percentage float64
	}{
		{"improvement", 90, 72, 18, TrendUp, 25.0},
		{"regression", 72, 90, -18, TrendDown, -20.0},
		{"no change", 85, 85, 0, TrendSame, 0},
		{"zero base", 40, 0, 40, TrendUp, 0},
		{"both zero", 0, 0, 0, TrendSame, 0},
		{"rounding", 50, 60, -10, TrendDown, -16.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Compare(&models.Essay{OverallScore: tc.a}, &models.Essay{OverallScore: tc.b})
			if res.Overall.Diff != tc.diff {
				t.Errorf("diff: expected %v, got %v", tc.diff, res.Overall.Diff)
			}
			if res.Overall.Trend != tc.trend {
				t.Errorf("trend: expected %s, got %s", tc.trend, res.Overall.Trend)
			}
			if res.Overall.Percentage != tc.percentage {
				t.Errorf("percentage: expected %v, got %v", tc.percentage, res.Overall.Percentage)
			}
		})
	}
}

func TestCompareCriteria(t *testing.T) {
	a := &models.Essay{
		OverallScore:    80,
		GrammarScore:    90,
		StructureScore:  70,
		ContentScore:    85,
		VocabularyScore: 60,
		CoherenceScore:  75,
	}
	b := &models.Essay{
		OverallScore:    75,
		GrammarScore:    80,
		StructureScore:  70,
		ContentScore:    90,
		VocabularyScore: 50,
		CoherenceScore:  75,
	}

	res := Compare(a, b)
	if res.Grammar.Diff != 10 || res.Grammar.Trend != TrendUp {
		t.Errorf("grammar: got %+v", res.Grammar)
	}
	if res.Structure.Diff != 0 || res.Structure.Trend != TrendSame {
		t.Errorf("structure: got %+v", res.Structure)
	}
	if res.Content.Diff != -5 || res.Content.Trend != TrendDown {
		t.Errorf("content: got %+v", res.Content)
	}
	if res.Vocabulary.Percentage != 20.0 {
		t.Errorf("vocabulary percentage: got %v", res.Vocabulary.Percentage)
	}
}

func TestCompareSymmetry(t *testing.T) {
	a := &models.Essay{OverallScore: 88, GrammarScore: 91, StructureScore: 64, ContentScore: 77, VocabularyScore: 55, CoherenceScore: 82}
	b := &models.Essay{OverallScore: 73, GrammarScore: 70, StructureScore: 64, ContentScore: 90, VocabularyScore: 61, CoherenceScore: 82}

	ab := Compare(a, b)
	ba := Compare(b, a)

	pairs := []struct {
		name   string
		x, y   Delta
	}{
		{"overall", ab.Overall, ba.Overall},
		{"grammar", ab.Grammar, ba.Grammar},
		{"structure", ab.Structure, ba.Structure},
		{"content", ab.Content, ba.Content},
		{"vocabulary", ab.Vocabulary, ba.Vocabulary},
		{"coherence", ab.Coherence, ba.Coherence},
	}
	for _, p := range pairs {
		if p.x.Diff != -p.y.Diff {
			t.Errorf("%s: diff not symmetric under swap: %v vs %v", p.name, p.x.Diff, p.y.Diff)
		}
		if (p.x.Diff == 0) != (p.x.Trend == TrendSame) {
			t.Errorf("%s: trend %q inconsistent with diff %v", p.name, p.x.Trend, p.x.Diff)
		}
	}
}
