package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/writeflowhq/writeflow/config"
)

// MinEssayLength is the minimum essay size the evaluator accepts.
const MinEssayLength = 50

// ErrEssayTooShort is returned before any network call when the essay is too
// short to score meaningfully.
var ErrEssayTooShort = fmt.Errorf("essay must be at least %d characters long", MinEssayLength)

// Criteria holds the five per-dimension subscores, each within [0,100].
type Criteria struct {
	Grammar    float64 `json:"grammar"`
	Structure  float64 `json:"structure"`
	Content    float64 `json:"content"`
	Vocabulary float64 `json:"vocabulary"`
	Coherence  float64 `json:"coherence"`
}

// Report is the fixed-shape score report produced by the hosted evaluator.
// The rest of the service treats it as opaque beyond the numeric fields.
type Report struct {
	OverallScore     float64  `json:"overallScore"`
	Criteria         Criteria `json:"criteria"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Suggestions      []string `json:"suggestions"`
	PlagiarismRisk   string   `json:"plagiarismRisk"`
	WordCount        int      `json:"wordCount"`
	ReadabilityLevel string   `json:"readabilityLevel"`
}

// Client calls the external scoring service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a scoring client from configuration. When client
// credentials are configured the underlying http.Client refreshes and attaches
// service-to-service tokens transparently.
func NewClient(cfg config.AppConfig) *Client {
	timeout := time.Duration(cfg.ScoringTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	hc := &http.Client{Timeout: timeout}
	if cfg.ScoringClientID != "" && cfg.ScoringClientSecret != "" && cfg.ScoringTokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ScoringClientID,
			ClientSecret: cfg.ScoringClientSecret,
			TokenURL:     cfg.ScoringTokenURL,
		}
		hc = cc.Client(context.Background())
		hc.Timeout = timeout
	}

	return &Client{baseURL: strings.TrimRight(cfg.ScoringBaseURL, "/"), http: hc}
}

type analyzeRequest struct {
	Title string `json:"title"`
	Essay string `json:"essay"`
}

type analyzeResponse struct {
	Success  bool    `json:"success"`
	Analysis *Report `json:"analysis"`
	Error    string  `json:"error"`
}

// Analyze submits an essay for scoring and returns the evaluator's report.
func (c *Client) Analyze(ctx context.Context, title, essay string) (*Report, error) {
	if len(strings.TrimSpace(essay)) < MinEssayLength {
		return nil, ErrEssayTooShort
	}
	if title == "" {
		title = "Untitled Essay"
	}

	body, err := json.Marshal(analyzeRequest{Title: title, Essay: essay})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("scoring response read failed: %w", err)
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("scoring response decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !decoded.Success || decoded.Analysis == nil {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, errors.New("scoring service error: " + msg)
	}

	report := decoded.Analysis
	if err := validateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

func validateReport(r *Report) error {
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return fmt.Errorf("scoring service returned overall score %v outside [0,100]", r.OverallScore)
	}
	for name, v := range map[string]float64{
		"grammar":    r.Criteria.Grammar,
		"structure":  r.Criteria.Structure,
		"content":    r.Criteria.Content,
		"vocabulary": r.Criteria.Vocabulary,
		"coherence":  r.Criteria.Coherence,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("scoring service returned %s score %v outside [0,100]", name, v)
		}
	}
	if r.WordCount < 0 {
		return fmt.Errorf("scoring service returned negative word count %d", r.WordCount)
	}
	switch r.PlagiarismRisk {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("scoring service returned unknown plagiarism risk %q", r.PlagiarismRisk)
	}
	return nil
}
