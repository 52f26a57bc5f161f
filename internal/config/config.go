package config

import (
	"net"
	"net/url"
	"strconv"
)

// GeminiConfig 는 Gemini 호출 설정이다.
// Models 는 우선순위 순서의 후보 모델 목록이며 앞쪽이 가장 선호된다.
type GeminiConfig struct {
	APIKeys          []string
	BaseURL          string
	Models           []string
	MaxRetries       int
	TimeoutSeconds   int
	BackoffBaseMilli int

	AnalysisMaxOutputTokens int
	AnalysisTemperature     float64
	ChatMaxOutputTokens     int
	ChatTemperature         float64
	TopK                    int
	TopP                    float64
}

// PrimaryKey 는 기본 API 키를 반환한다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// MaxAttempts 는 한 번의 논리 호출에서 허용되는 네트워크 시도 상한이다.
func (g GeminiConfig) MaxAttempts() int {
	return len(g.Models) * g.MaxRetries
}

// SessionConfig 는 세션 관련 설정이다.
type SessionConfig struct {
	MaxSessions       int
	SessionTTLMinutes int
	HistoryMaxPairs   int
}

// SessionStoreConfig 는 세션 저장소 연결 설정이다.
type SessionStoreConfig struct {
	URL          string
	Enabled      bool
	Required     bool
	DisableCache bool
}

// GuardConfig 는 사용자 작성 콘텐츠 검사 설정이다.
type GuardConfig struct {
	Enabled         bool
	RulepacksDir    string
	Threshold       float64
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig 는 로깅 설정이다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig 는 HTTP 서버 설정이다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig 는 API 키 인증 설정이다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig 는 요청 제한 설정이다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// DatabaseConfig 는 포인트/커뮤니티 DB 연결 설정이다.
type DatabaseConfig struct {
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MinPool                int
	MaxPool                int
	ConnMaxLifetimeMinutes int
	ConnMaxIdleTimeMinutes int
}

// DSN 는 DB 접속 문자열을 반환한다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// GeoConfig 는 지오코딩/경로 프록시 설정이다.
type GeoConfig struct {
	GeocodeBaseURL  string
	RouteBaseURL    string
	TimeoutSeconds  int
	CacheSize       int
	CacheTTLSeconds int
}

// PointsConfig 는 포인트/리더보드 설정이다.
type PointsConfig struct {
	LeaderboardLimit int
}

// Config 는 애플리케이션 전체 설정이다.
type Config struct {
	Gemini        GeminiConfig
	Session       SessionConfig
	SessionStore  SessionStoreConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Geo           GeoConfig
	Points        PointsConfig
}
