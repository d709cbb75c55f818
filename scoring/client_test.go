package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/writeflowhq/writeflow/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AppConfig{ScoringBaseURL: srv.URL, ScoringTimeoutSec: 5})
}

func validReport() Report {
	return Report{
		OverallScore:     78,
		Criteria:         Criteria{Grammar: 80, Structure: 75, Content: 79, Vocabulary: 72, Coherence: 81},
		Strengths:        []string{"strong introduction"},
		Weaknesses:       []string{"weak conclusion"},
		Suggestions:      []string{"restate the thesis at the end"},
		PlagiarismRisk:   "low",
		WordCount:        340,
		ReadabilityLevel: "High School",
	}
}

var longEssay = strings.Repeat("A considered argument about the matter at hand. ", 5)

func TestAnalyzeSuccess(t *testing.T) {
	var gotPath, gotRequestID string
	var gotReq analyzeRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(analyzeResponse{Success: true, Analysis: ptr(validReport())})
	})

	report, err := client.Analyze(context.Background(), "My Essay", longEssay)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if gotPath != "/v1/score" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotRequestID == "" {
		t.Error("request is missing X-Request-ID")
	}
	if gotReq.Title != "My Essay" || gotReq.Essay != longEssay {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}
	if report.OverallScore != 78 || report.Criteria.Grammar != 80 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestAnalyzeDefaultsTitle(t *testing.T) {
	var gotReq analyzeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(analyzeResponse{Success: true, Analysis: ptr(validReport())})
	})

	if _, err := client.Analyze(context.Background(), "", longEssay); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if gotReq.Title != "Untitled Essay" {
		t.Errorf("expected default title, got %q", gotReq.Title)
	}
}

func TestAnalyzeRejectsShortEssay(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Analyze(context.Background(), "t", "short")
	if !errors.Is(err, ErrEssayTooShort) {
		t.Fatalf("expected ErrEssayTooShort, got %v", err)
	}
	if called {
		t.Error("short essay must be rejected before any network call")
	}
}

func TestAnalyzeServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(analyzeResponse{Success: false, Error: "model overloaded"})
	})

	_, err := client.Analyze(context.Background(), "t", longEssay)
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected service error to surface, got %v", err)
	}
}

func TestAnalyzeRejectsInvalidReport(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Report)
	}{
		{"overall out of range", func(r *Report) { r.OverallScore = 120 }},
		{"criterion out of range", func(r *Report) { r.Criteria.Vocabulary = -4 }},
		{"negative word count", func(r *Report) { r.WordCount = -1 }},
		{"unknown plagiarism risk", func(r *Report) { r.PlagiarismRisk = "severe" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := validReport()
			tc.mutate(&report)
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(analyzeResponse{Success: true, Analysis: &report})
			})

			if _, err := client.Analyze(context.Background(), "t", longEssay); err == nil {
				t.Error("expected validation error for malformed report")
			}
		})
	}
}

func ptr(r Report) *Report { return &r }
