// Package guard 는 채팅/커뮤니티 입력의 콘텐츠 가드다.
// 프롬프트 탈취 시도와 금칙 문구를 룰팩 기반으로 걸러낸다. 기본은 비활성이다.
package guard

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/park285/ecofy-server-go/internal/cache"
	"github.com/park285/ecofy-server-go/internal/config"
)

// ContentGuard: 입력 문자열을 검사하는 가드입니다.
type ContentGuard struct {
	cfg    *config.Config
	logger *slog.Logger
	packs  []compiledPack
	cache  *cache.TTL[string, Evaluation]
	group  singleflight.Group
}

// NewGuard: 콘텐츠 가드를 생성합니다.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*ContentGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	cacheTTL := time.Duration(cfg.Guard.CacheTTLSeconds) * time.Second
	guard := &ContentGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTL[string, Evaluation](cfg.Guard.CacheMaxSize, cacheTTL),
	}

	if cfg.Guard.Enabled {
		guard.packs = loadRulepacks(cfg.Guard.RulepacksDir, logger)
		if logger != nil {
			logger.Info("guard_ready", "packs", len(guard.packs), "threshold", guard.threshold())
		}
	}

	return guard, nil
}

// Evaluate: 입력 문자열을 평가합니다. 동일 입력의 동시 평가는 singleflight 로 합쳐진다.
func (g *ContentGuard) Evaluate(input string) Evaluation {
	if g == nil || g.cfg == nil || !g.cfg.Guard.Enabled {
		return Evaluation{Threshold: math.Inf(1)}
	}
	if cached, ok := g.cache.Get(input); ok {
		return cached
	}

	value, _, _ := g.group.Do(input, func() (any, error) {
		result := g.evaluateInternal(input)
		g.cache.Set(input, result)
		return result, nil
	})

	evaluation, ok := value.(Evaluation)
	if !ok {
		return Evaluation{Threshold: g.threshold()}
	}
	return evaluation
}

// EnsureSafe: 차단 대상 입력을 오류로 반환합니다.
func (g *ContentGuard) EnsureSafe(input string) error {
	evaluation := g.Evaluate(input)
	if evaluation.Blocked() {
		return &BlockedError{Score: evaluation.Score, Threshold: evaluation.Threshold}
	}
	return nil
}

func (g *ContentGuard) threshold() float64 {
	if g.cfg != nil && g.cfg.Guard.Threshold > 0 {
		return g.cfg.Guard.Threshold
	}

	maxThreshold := 0.0
	for _, pack := range g.packs {
		if pack.Threshold > maxThreshold {
			maxThreshold = pack.Threshold
		}
	}
	if maxThreshold > 0 {
		return maxThreshold
	}
	return 0.7
}

func (g *ContentGuard) evaluateInternal(input string) Evaluation {
	threshold := g.threshold()
	normalized := collapseSpaces(normalizeText(input))
	score, hits := g.evaluatePacks(normalized)

	if score >= threshold && g.logger != nil {
		g.logger.Warn("guard_blocked", "score", score, "input", trimForLog(input))
	}
	return Evaluation{Score: score, Hits: hits, Threshold: threshold}
}

func (g *ContentGuard) evaluatePacks(text string) (float64, []Match) {
	total := 0.0
	hits := make([]Match, 0)
	textLower := strings.ToLower(text)

	for _, pack := range g.packs {
		for _, rule := range pack.RegexRules {
			if rule.Pattern.MatchString(text) {
				total += rule.Weight
				hits = append(hits, Match{ID: rule.ID, Weight: rule.Weight})
			}
		}

		if pack.PhraseMatcher == nil {
			continue
		}
		matches := pack.PhraseMatcher.MatchThreadSafe([]byte(textLower))
		for _, index := range matches {
			if index < 0 || index >= len(pack.Phrases) {
				continue
			}
			phrase := pack.Phrases[index]
			weight := pack.PhraseWeights[phrase]
			if weight <= 0 {
				continue
			}
			total += weight
			hits = append(hits, Match{ID: "phrase:" + phrase, Weight: weight})
		}
	}

	return total, hits
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 50 {
		return value
	}
	return value[:50]
}
