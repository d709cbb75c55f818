package models

import "time"

// Plagiarism risk levels reported by the evaluator.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Essay is a saved submission together with the score report the evaluator
// produced for it. Rows are immutable once created; the user may only delete them.
type Essay struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	OverallScore     float64   `gorm:"not null" json:"overall_score"`
	GrammarScore     float64   `json:"grammar_score"`
	StructureScore   float64   `json:"structure_score"`
	ContentScore     float64   `json:"content_score"`
	VocabularyScore  float64   `json:"vocabulary_score"`
	CoherenceScore   float64   `json:"coherence_score"`
	PlagiarismRisk   string    `gorm:"size:8;default:'low'" json:"plagiarism_risk"`
	WordCount        int       `gorm:"not null;default:0" json:"word_count"`
	ReadabilityLevel string    `gorm:"size:64" json:"readability_level"`
	Strengths        string    `gorm:"type:text" json:"strengths"`   // JSON array of strings
	Weaknesses       string    `gorm:"type:text" json:"weaknesses"`  // JSON array of strings
	Suggestions      string    `gorm:"type:text" json:"suggestions"` // JSON array of strings
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	User             User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
