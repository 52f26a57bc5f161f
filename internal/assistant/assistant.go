package assistant

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/gemini"
	"github.com/park285/ecofy-server-go/internal/llm"
	"github.com/park285/ecofy-server-go/internal/metrics"
	"github.com/park285/ecofy-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

const feature = "chat"

// 시스템 프롬프트에 주입되는 페르소나 이름.
const assistantName = "Ecofy"

// Generator 는 어시스턴트가 필요로 하는 Gemini 호출 인터페이스다.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error)
}

// Result 는 채팅 호출 결과다. Fallback 이면 Reply 는 고정 사과문이다.
type Result struct {
	Reply    string
	Model    string
	Usage    llm.Usage
	Fallback bool
	Cause    error
}

// Assistant 는 Ecofy 대화 기능을 담당한다.
// 호출 간 상태를 갖지 않으며 히스토리는 호출자가 소유한다.
type Assistant struct {
	cfg     *config.Config
	client  Generator
	metrics *metrics.Store
	logger  *slog.Logger
	system  string
	apology string
}

// NewAssistant 는 어시스턴트를 생성한다.
func NewAssistant(cfg *config.Config, client Generator, metricsStore *metrics.Store, logger *slog.Logger) (*Assistant, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if client == nil {
		return nil, errors.New("gemini client is nil")
	}

	loaded, err := prompt.LoadYAMLDir(promptsFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load chat prompts: %w", err)
	}
	data, err := prompt.Get(loaded, "chat", "chat")
	if err != nil {
		return nil, err
	}
	system, err := prompt.Field(data, "system", "chat.system")
	if err != nil {
		return nil, err
	}
	system, err = prompt.FormatTemplate(system, map[string]string{"assistant_name": assistantName})
	if err != nil {
		return nil, fmt.Errorf("render chat system prompt: %w", err)
	}
	apology, err := prompt.Field(data, "apology", "chat.apology")
	if err != nil {
		return nil, err
	}

	return &Assistant{
		cfg:     cfg,
		client:  client,
		metrics: metricsStore,
		logger:  logger,
		system:  system,
		apology: strings.TrimSpace(apology),
	}, nil
}

// Apology 는 폴백 사과문이다.
func (a *Assistant) Apology() string {
	return a.apology
}

// Chat 은 히스토리와 현재 메시지로 응답을 생성한다.
// 히스토리는 시간순 그대로 전송되고 현재 메시지가 마지막 user 턴이 된다.
// 실패 시 고정 사과문으로 대체하며 원인은 Result.Cause 와 로그에 남는다.
func (a *Assistant) Chat(ctx context.Context, message string, history []llm.ChatMessage) Result {
	start := time.Now()

	if strings.TrimSpace(message) == "" {
		return a.fallback("", errors.New("empty message"))
	}

	req := gemini.Request{
		Contents:          gemini.BuildContents(history, message, nil),
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: a.system}}},
		GenerationConfig: gemini.GenerationConfig{
			Temperature:     a.cfg.Gemini.ChatTemperature,
			TopK:            a.cfg.Gemini.TopK,
			TopP:            a.cfg.Gemini.TopP,
			MaxOutputTokens: a.cfg.Gemini.ChatMaxOutputTokens,
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

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		a.metrics.RecordError(feature, time.Since(start))
		return a.fallback(resp.Model, errors.New("empty model reply"))
	}

	a.metrics.RecordSuccess(feature, time.Since(start), resp.Usage)
	return Result{Reply: reply, Model: resp.Model, Usage: resp.Usage}
}

func (a *Assistant) fallback(model string, cause error) Result {
	if a.metrics != nil {
		a.metrics.RecordFallback(feature)
	}
	if a.logger != nil {
		a.logger.Warn("chat_fallback", "model", model, "cause", cause)
	}
	return Result{Reply: a.apology, Model: model, Fallback: true, Cause: cause}
}
