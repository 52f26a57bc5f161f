package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/metrics"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrModelsExhausted 는 모든 후보 모델의 재시도가 소진됐을 때 반환된다.
	ErrModelsExhausted = errors.New("all model candidates exhausted")
)

const generatePathFormat = "%s/v1beta/models/%s:generateContent?key=%s"

// Client 는 Gemini REST 호출과 모델 폴백/재시도를 담당한다.
// 호출 간 상태를 유지하지 않으며 재진입 가능하다.
type Client struct {
	cfg     *config.Config
	metrics *metrics.Store
	logger  *slog.Logger
	httpc   *http.Client

	apiKeyIdx atomic.Int64
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	return &Client{
		cfg:     cfg,
		metrics: metricsStore,
		logger:  logger,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// Generate 는 후보 모델을 우선순위대로 시도해 첫 번째 사용 가능한 응답을 반환한다.
//
// 모델당 최대 MaxRetries 회 시도하며, 429 는 지수 백오프(1s, 2s, 4s...) 후
// 같은 모델을 재시도하고, 404 는 즉시 다음 후보로 넘어간다. 그 외 상태는
// 성공이든 비재시도성 오류든 즉시 반환한다. 전부 소진되면 ErrModelsExhausted 다.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	apiKey, err := c.selectKey()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	backoffBase := time.Duration(c.cfg.Gemini.BackoffBaseMilli) * time.Millisecond
	attempts := 0
	var lastErr error

models:
	for _, model := range c.cfg.Gemini.Models {
		for retry := 0; retry < c.cfg.Gemini.MaxRetries; retry++ {
			attempts++
			status, body, err := c.post(ctx, model, apiKey, payload)
			if err != nil {
				lastErr = err
				c.metrics.RecordAttempt(model, "network_error")
				c.logAttempt(model, attempts, 0, err)
				if ctx.Err() != nil {
					break models
				}
				continue
			}

			switch status {
			case http.StatusTooManyRequests:
				lastErr = fmt.Errorf("model %s rate limited", model)
				c.metrics.RecordAttempt(model, "rate_limited")
				c.logAttempt(model, attempts, status, nil)
				if retry < c.cfg.Gemini.MaxRetries-1 {
					if err := sleepContext(ctx, backoffBase<<retry); err != nil {
						lastErr = err
						break models
					}
				}
			case http.StatusNotFound:
				lastErr = fmt.Errorf("model %s unavailable", model)
				c.metrics.RecordAttempt(model, "model_missing")
				c.logAttempt(model, attempts, status, nil)
				continue models
			default:
				c.metrics.RecordAttempt(model, "completed")
				return decodeResponse(model, attempts, status, body), nil
			}
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no model candidates configured")
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrModelsExhausted, attempts, lastErr)
}

func (c *Client) selectKey() (string, error) {
	keys := c.cfg.Gemini.APIKeys
	if len(keys) == 0 {
		return "", ErrMissingAPIKey
	}
	idx := c.apiKeyIdx.Add(1) - 1
	return keys[int(idx)%len(keys)], nil
}

func (c *Client) post(ctx context.Context, model string, apiKey string, payload []byte) (int, []byte, error) {
	url := fmt.Sprintf(generatePathFormat, c.cfg.Gemini.BaseURL, model, apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("call model %s: %w", model, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) logAttempt(model string, attempt int, status int, err error) {
	if c.logger == nil {
		return
	}
	if err != nil {
		c.logger.Warn("gemini_attempt_failed", "model", model, "attempt", attempt, "err", err)
		return
	}
	c.logger.Warn("gemini_attempt_retried", "model", model, "attempt", attempt, "status", status)
}

func decodeResponse(model string, attempts int, status int, body []byte) *Response {
	resp := &Response{
		StatusCode: status,
		Model:      model,
		Attempts:   attempts,
		Body:       body,
	}
	if status < 200 || status >= 300 {
		return resp
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// 본문 해석 실패는 빈 텍스트로 남기고 호출자가 처리한다.
		return resp
	}
	resp.Text = env.text()
	resp.Usage = env.usage()
	return resp
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
