package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/park285/ecofy-server-go/internal/llm"
)

// 폴백은 사용자에게 보이지 않으므로 운영 신호는 여기에만 남는다.
var (
	promCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecofy_ai_calls_total",
		Help: "AI upstream calls by feature and outcome.",
	}, []string{"feature", "outcome"})

	promFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecofy_ai_fallbacks_total",
		Help: "Masked AI failures served as canned fallback content.",
	}, []string{"feature"})

	promDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecofy_ai_call_duration_seconds",
		Help:    "AI upstream call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"feature"})

	promAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecofy_gemini_attempts_total",
		Help: "Gemini generate attempts by model and outcome.",
	}, []string{"model", "outcome"})
)

// Store 는 AI 호출 통계를 저장한다.
type Store struct {
	totalCalls        int64
	totalErrors       int64
	totalFallbacks    int64
	totalAttempts     int64
	totalInputTokens  int64
	totalOutputTokens int64
	totalDurationMs   int64
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	return &Store{}
}

// RecordSuccess 는 성공 호출 통계를 기록한다.
func (s *Store) RecordSuccess(feature string, duration time.Duration, usage llm.Usage) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	promCalls.WithLabelValues(feature, "success").Inc()
	promDuration.WithLabelValues(feature).Observe(duration.Seconds())
}

// RecordError 는 실패 호출 통계를 기록한다.
func (s *Store) RecordError(feature string, duration time.Duration) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())

	promCalls.WithLabelValues(feature, "error").Inc()
	promDuration.WithLabelValues(feature).Observe(duration.Seconds())
}

// RecordAttempt 는 모델 단위 시도 결과를 기록한다.
// 호출 한 건이 폴백/재시도로 여러 시도를 만들 수 있어 totalCalls 와 별도로 센다.
func (s *Store) RecordAttempt(model string, outcome string) {
	atomic.AddInt64(&s.totalAttempts, 1)
	promAttempts.WithLabelValues(model, outcome).Inc()
}

// RecordFallback 는 폴백 응답으로 가려진 실패를 기록한다.
func (s *Store) RecordFallback(feature string) {
	atomic.AddInt64(&s.totalFallbacks, 1)
	promFallbacks.WithLabelValues(feature).Inc()
}

// UsageTotals 는 누적 사용량을 반환한다.
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	return llm.Usage{
		InputTokens:  int(input),
		OutputTokens: int(output),
		TotalTokens:  int(input + output),
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	totalFallbacks := atomic.LoadInt64(&s.totalFallbacks)
	totalAttempts := atomic.LoadInt64(&s.totalAttempts)
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":         float64(totalCalls),
		"total_errors":        float64(totalErrors),
		"total_fallbacks":     float64(totalFallbacks),
		"total_attempts":      float64(totalAttempts),
		"total_input_tokens":  float64(input),
		"total_output_tokens": float64(output),
		"total_tokens":        float64(input + output),
		"total_duration_ms":   float64(durationMs),
		"avg_duration_ms":     avgDuration,
	}
}
