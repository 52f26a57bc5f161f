package analysis

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/gemini"
	"github.com/park285/ecofy-server-go/internal/metrics"
	"github.com/park285/ecofy-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

const feature = "analysis"

// Generator 는 분석기가 필요로 하는 Gemini 호출 인터페이스다.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error)
}

// Analyzer 는 이미지에서 WasteAnalysis 를 생성한다.
type Analyzer struct {
	cfg     *config.Config
	client  Generator
	metrics *metrics.Store
	logger  *slog.Logger
	system  string
	user    string
}

// NewAnalyzer 는 분석기를 생성한다.
func NewAnalyzer(cfg *config.Config, client Generator, metricsStore *metrics.Store, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if client == nil {
		return nil, errors.New("gemini client is nil")
	}

	loaded, err := prompt.LoadYAMLDir(promptsFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load analysis prompts: %w", err)
	}
	data, err := prompt.Get(loaded, "analysis", "analysis")
	if err != nil {
		return nil, err
	}
	system, err := prompt.Field(data, "system", "analysis.system")
	if err != nil {
		return nil, err
	}
	user, err := prompt.Field(data, "user", "analysis.user")
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:     cfg,
		client:  client,
		metrics: metricsStore,
		logger:  logger,
		system:  system,
		user:    user,
	}, nil
}

// Analyze 는 base64 이미지를 분석해 항상 완전한 WasteAnalysis 를 반환한다.
// 어떤 실패도 호출자에게 에러로 전파되지 않고 고정 폴백으로 대체되며,
// 원인은 Result.Cause 와 로그/메트릭에만 남는다.
func (a *Analyzer) Analyze(ctx context.Context, image string) Result {
	start := time.Now()

	data, mimeType := StripImageData(image)
	if strings.TrimSpace(data) == "" {
		return a.fallback("", errors.New("empty image payload"))
	}

	req := gemini.Request{
		Contents: gemini.BuildContents(nil, a.user, &gemini.InlineData{
			MIMEType: mimeType,
			Data:     data,
		}),
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: a.system}}},
		GenerationConfig: gemini.GenerationConfig{
			Temperature:     a.cfg.Gemini.AnalysisTemperature,
			TopK:            a.cfg.Gemini.TopK,
			TopP:            a.cfg.Gemini.TopP,
			MaxOutputTokens: a.cfg.Gemini.AnalysisMaxOutputTokens,
		},
	}

	resp, err := a.client.Generate(ctx, req)
	if err != nil {
		a.metrics.RecordError(feature, time.Since(start))
		return a.fallback("", err)
	}
	if !resp.Succeeded() {
		a.metrics.RecordError(feature, time.Since(start))
		return a.fallback(resp.Model, fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	parsed, err := ParsePayload(resp.Text)
	if err != nil {
		a.metrics.RecordError(feature, time.Since(start))
		return a.fallback(resp.Model, err)
	}

	a.metrics.RecordSuccess(feature, time.Since(start), resp.Usage)
	return Result{Analysis: parsed, Model: resp.Model}
}

func (a *Analyzer) fallback(model string, cause error) Result {
	if a.metrics != nil {
		a.metrics.RecordFallback(feature)
	}
	if a.logger != nil {
		a.logger.Warn("analysis_fallback", "model", model, "cause", cause)
	}
	return Result{Analysis: FallbackAnalysis(), Model: model, Fallback: true, Cause: cause}
}

// ParsePayload 는 모델 텍스트 출력을 WasteAnalysis 로 해석한다.
// 마크다운 코드펜스를 벗겨낸 뒤 JSON 으로 파싱하고, 전체 형태를 검증한다.
func ParsePayload(text string) (WasteAnalysis, error) {
	payload := StripCodeFences(text)
	if strings.TrimSpace(payload) == "" {
		return WasteAnalysis{}, errors.New("empty model payload")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return WasteAnalysis{}, fmt.Errorf("decode analysis payload: %w", err)
	}

	var parsed WasteAnalysis
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &parsed,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return WasteAnalysis{}, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return WasteAnalysis{}, fmt.Errorf("map analysis payload: %w", err)
	}

	category, ok := ParseCategory(string(parsed.Category))
	if !ok {
		return WasteAnalysis{}, errMissing("category")
	}
	parsed.Category = category

	if err := parsed.Validate(); err != nil {
		return WasteAnalysis{}, err
	}
	return parsed, nil
}

// StripImageData 는 data URL 접두사를 떼어내고 base64 본문과 MIME 타입을 돌려준다.
// 접두사가 없으면 image/jpeg 로 간주한다. 접두사 유무와 무관하게 동일한
// 본문이 전송되어야 한다.
func StripImageData(image string) (string, string) {
	trimmed := strings.TrimSpace(image)
	if !strings.HasPrefix(trimmed, "data:") {
		return trimmed, "image/jpeg"
	}

	comma := strings.IndexByte(trimmed, ',')
	if comma < 0 {
		return "", "image/jpeg"
	}

	header := trimmed[len("data:"):comma]
	data := trimmed[comma+1:]
	mimeType := header
	if semi := strings.IndexByte(header, ';'); semi >= 0 {
		mimeType = header[:semi]
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType
}

// StripCodeFences 는 ``` / ```json 래퍼를 제거한다.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		// ```json 처럼 언어 태그만 있는 첫 줄은 버린다.
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			trimmed = trimmed[newline+1:]
		}
	} else {
		trimmed = strings.TrimSpace(trimmed)
	}

	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
