package analysis

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/gemini"
	"github.com/park285/ecofy-server-go/internal/metrics"
)

const validPayload = `{
	"itemName": "Plastic Bottle",
	"material": "PET plastic",
	"category": "recycle",
	"confidence": 0.92,
	"reuse": {
		"ideas": ["planter", "bird feeder", "storage"],
		"difficulty": "Easy",
		"timeNeeded": "15 minutes",
		"environmentalBenefit": "Avoids new plastic production"
	},
	"recycle": {
		"instructions": ["rinse", "remove cap", "bin it"],
		"safetyTips": [],
		"doNot": ["do not crush with cap on"],
		"canRecycle": true
	},
	"carbonSaved": "0.5 kg CO2",
	"funFact": "PET bottles can become fleece jackets."
}`

type stubGenerator struct {
	resp    *gemini.Response
	err     error
	lastReq gemini.Request
}

func (s *stubGenerator) Generate(_ context.Context, req gemini.Request) (*gemini.Response, error) {
	s.lastReq = req
	return s.resp, s.err
}

func newTestAnalyzer(t *testing.T, stub *stubGenerator) *Analyzer {
	t.Helper()
	cfg := &config.Config{Gemini: config.GeminiConfig{
		AnalysisTemperature:     0.4,
		AnalysisMaxOutputTokens: 2048,
		TopK:                    40,
		TopP:                    0.95,
	}}
	analyzer, err := NewAnalyzer(cfg, stub, metrics.NewStore(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	return analyzer
}

func TestAnalyzeParsesModelOutput(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{
		StatusCode: http.StatusOK,
		Model:      "m1",
		Text:       "```json\n" + validPayload + "\n```",
	}}
	analyzer := newTestAnalyzer(t, stub)

	result := analyzer.Analyze(context.Background(), "aGVsbG8=")
	if result.Fallback {
		t.Fatalf("unexpected fallback: %v", result.Cause)
	}
	if result.Analysis.ItemName != "Plastic Bottle" || result.Analysis.Category != CategoryRecycle {
		t.Fatalf("unexpected analysis: %+v", result.Analysis)
	}
	if err := result.Analysis.Validate(); err != nil {
		t.Fatalf("analysis incomplete: %v", err)
	}
}

func TestAnalyzeFallsBackOnTransportError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("dial tcp: connection refused")}
	analyzer := newTestAnalyzer(t, stub)

	result := analyzer.Analyze(context.Background(), "aGVsbG8=")
	assertFallback(t, result)
}

func TestAnalyzeFallsBackOnTerminalStatus(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusInternalServerError, Model: "m1"}}
	analyzer := newTestAnalyzer(t, stub)

	result := analyzer.Analyze(context.Background(), "aGVsbG8=")
	assertFallback(t, result)
}

func TestAnalyzeFallsBackOnMalformedJSON(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: "not json at all"}}
	analyzer := newTestAnalyzer(t, stub)

	result := analyzer.Analyze(context.Background(), "aGVsbG8=")
	assertFallback(t, result)
}

func TestAnalyzeFallsBackOnIncompleteShape(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{
		StatusCode: http.StatusOK,
		Text:       `{"itemName": "Bottle", "category": "recycle"}`,
	}}
	analyzer := newTestAnalyzer(t, stub)

	result := analyzer.Analyze(context.Background(), "aGVsbG8=")
	assertFallback(t, result)
}

// 폴백 분석도 완전한 형태 계약을 만족해야 한다.
func assertFallback(t *testing.T, result Result) {
	t.Helper()
	if !result.Fallback {
		t.Fatalf("expected fallback result")
	}
	if result.Cause == nil {
		t.Fatalf("fallback must carry its cause")
	}
	if result.Analysis.Category != CategoryRecycle {
		t.Fatalf("fallback category must be recycle, got %s", result.Analysis.Category)
	}
	if result.Analysis.Confidence != 0.5 {
		t.Fatalf("fallback confidence must be 0.5, got %f", result.Analysis.Confidence)
	}
	if err := result.Analysis.Validate(); err != nil {
		t.Fatalf("fallback analysis incomplete: %v", err)
	}
}

func TestDataURLAndBareImageProduceSameRequest(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: validPayload}}
	analyzer := newTestAnalyzer(t, stub)

	analyzer.Analyze(context.Background(), "data:image/jpeg;base64,aGVsbG8=")
	withPrefix, err := json.Marshal(stub.lastReq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	analyzer.Analyze(context.Background(), "aGVsbG8=")
	bare, err := json.Marshal(stub.lastReq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(withPrefix) != string(bare) {
		t.Fatalf("outbound request differs:\n%s\n%s", withPrefix, bare)
	}
}

func TestStripImageData(t *testing.T) {
	cases := []struct {
		input    string
		wantData string
		wantMIME string
	}{
		{"aGVsbG8=", "aGVsbG8=", "image/jpeg"},
		{"data:image/png;base64,aGVsbG8=", "aGVsbG8=", "image/png"},
		{"data:;base64,aGVsbG8=", "aGVsbG8=", "image/jpeg"},
		{"data:image/webp,aGVsbG8=", "aGVsbG8=", "image/webp"},
	}
	for _, tc := range cases {
		data, mimeType := StripImageData(tc.input)
		if data != tc.wantData || mimeType != tc.wantMIME {
			t.Fatalf("StripImageData(%q) = (%q, %q), want (%q, %q)",
				tc.input, data, mimeType, tc.wantData, tc.wantMIME)
		}
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```{\"a\":1}```", "{\"a\":1}"},
		{"  ```json\n{\"a\":1}\n```  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.input); got != tc.want {
			t.Fatalf("StripCodeFences(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParsePayloadNormalizesCategoryCase(t *testing.T) {
	payload := `{
		"itemName": "Jar", "material": "Glass", "category": "Reuse", "confidence": 0.8,
		"reuse": {"ideas": ["vase"], "difficulty": "easy", "timeNeeded": "5 minutes",
			"environmentalBenefit": "Less glass waste"},
		"recycle": {"instructions": ["rinse"], "safetyTips": [], "doNot": [], "canRecycle": true},
		"carbonSaved": "0.2 kg CO2", "funFact": "Glass is endlessly recyclable."
	}`
	parsed, err := ParsePayload(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Category != CategoryReuse {
		t.Fatalf("expected normalized category, got %s", parsed.Category)
	}
}
