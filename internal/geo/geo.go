// Package geo 는 지오코딩과 경로 조회를 외부 서비스에 위임하는 프록시다.
// 결과는 TTL 캐시에 저장하고 동시 동일 요청은 singleflight 로 합친다.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/park285/ecofy-server-go/internal/cache"
	"github.com/park285/ecofy-server-go/internal/config"
)

// ErrNoResult 는 상대 서비스가 결과를 주지 않았을 때 반환된다.
var ErrNoResult = errors.New("geo: no result")

// Location 은 지오코딩 결과다.
type Location struct {
	Query       string  `json:"query"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Route 는 두 지점 사이의 주행 경로 요약이다.
type Route struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	Geometry        string  `json:"geometry"`
}

// Client 는 지오 프록시 클라이언트다.
type Client struct {
	cfg    config.GeoConfig
	logger *slog.Logger
	httpc  *http.Client

	cache  *cache.TTL[string, any]
	flight singleflight.Group
}

// NewClient 는 지오 클라이언트를 생성한다.
func NewClient(cfg config.GeoConfig, logger *slog.Logger) *Client {
	size := cfg.CacheSize
	if size <= 0 {
		size = 512
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		httpc:  &http.Client{Timeout: timeout},
		cache:  cache.NewTTL[string, any](size, ttl),
	}
}

// Geocode 는 주소 문자열을 좌표로 변환한다. 첫 번째 일치만 사용한다.
func (c *Client) Geocode(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("geo: empty query")
	}

	key := "geocode:" + strings.ToLower(query)
	if hit, ok := c.cache.Get(key); ok {
		loc := hit.(Location)
		return &loc, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		loc, err := c.fetchGeocode(ctx, query)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, *loc)
		return *loc, nil
	})
	if err != nil {
		return nil, err
	}
	loc := v.(Location)
	return &loc, nil
}

// Route 는 두 좌표 사이 주행 경로를 조회한다.
func (c *Client) Route(ctx context.Context, from, to Coord) (*Route, error) {
	key := fmt.Sprintf("route:%.5f,%.5f;%.5f,%.5f", from.Lng, from.Lat, to.Lng, to.Lat)
	if hit, ok := c.cache.Get(key); ok {
		r := hit.(Route)
		return &r, nil
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		route, err := c.fetchRoute(ctx, from, to)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, *route)
		return *route, nil
	})
	if err != nil {
		return nil, err
	}
	r := v.(Route)
	return &r, nil
}

// Coord 는 경위도 좌표다.
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParseCoord 는 "lat,lng" 문자열을 좌표로 해석한다.
func ParseCoord(s string) (Coord, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("geo: invalid coordinate %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coord{}, fmt.Errorf("geo: invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coord{}, fmt.Errorf("geo: invalid longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coord{}, fmt.Errorf("geo: coordinate out of range %q", s)
	}
	return Coord{Lat: lat, Lng: lng}, nil
}

func (c *Client) fetchGeocode(ctx context.Context, query string) (*Location, error) {
	endpoint := strings.TrimSuffix(c.cfg.GeocodeBaseURL, "/") + "/search"
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("geo: geocode url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var hits []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, fmt.Errorf("geo: decode geocode response: %w", err)
	}
	if len(hits) == 0 {
		return nil, ErrNoResult
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: geocode latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: geocode longitude: %w", err)
	}

	return &Location{
		Query:       query,
		DisplayName: hits[0].DisplayName,
		Lat:         lat,
		Lng:         lng,
	}, nil
}

func (c *Client) fetchRoute(ctx context.Context, from, to Coord) (*Route, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=full",
		strings.TrimSuffix(c.cfg.RouteBaseURL, "/"),
		from.Lng, from.Lat, to.Lng, to.Lat,
	)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry string  `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("geo: decode route response: %w", err)
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, ErrNoResult
	}

	best := payload.Routes[0]
	return &Route{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ecofy-server/1.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("geo: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Warn("geo_upstream_error", "status", resp.StatusCode, "url", rawURL)
		}
		return nil, fmt.Errorf("geo: upstream status %d", resp.StatusCode)
	}
	return body, nil
}
