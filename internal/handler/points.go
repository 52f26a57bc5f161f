package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/analysis"
	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/httperror"
	"github.com/park285/ecofy-server-go/internal/points"
)

// PointsStore 는 포인트 저장소 동작이다.
type PointsStore interface {
	RecordAction(ctx context.Context, userID string, category analysis.Category, itemName string) (*points.ActionRecord, error)
	GetStats(ctx context.Context, userID string) (*points.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]points.LeaderboardEntry, error)
	RecentActions(ctx context.Context, userID string, limit int) ([]points.EcoAction, error)
}

// PointsHandler 는 포인트 API 핸들러다.
type PointsHandler struct {
	cfg    *config.Config
	repo   PointsStore
	logger *slog.Logger
}

// NewPointsHandler 는 포인트 핸들러를 생성한다.
func NewPointsHandler(cfg *config.Config, repo PointsStore, logger *slog.Logger) *PointsHandler {
	return &PointsHandler{cfg: cfg, repo: repo, logger: logger}
}

// RecordActionRequest 는 적립 요청 본문이다.
type RecordActionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Category string `json:"category" binding:"required"`
	ItemName string `json:"item_name"`
}

// RegisterRoutes 는 포인트 라우트를 등록한다.
func (h *PointsHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/points")
	group.GET("/level", h.handleLevel)
	group.POST("/actions", h.handleRecordAction)
	group.GET("/leaderboard", h.handleLeaderboard)
	group.GET("/users/:id", h.handleUserStats)
	group.GET("/users/:id/actions", h.handleUserActions)
}

// handleLevel 은 누적 포인트에서 레벨을 파생한다. DB 를 건드리지 않는다.
func (h *PointsHandler) handleLevel(c *gin.Context) {
	raw := c.Query("total")
	if raw == "" {
		writeError(c, httperror.NewMissingField("total"))
		return
	}

	total, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, httperror.NewInvalidInput("total must be an integer"))
		return
	}

	c.JSON(http.StatusOK, points.CalculateLevel(total))
}

func (h *PointsHandler) handleRecordAction(c *gin.Context) {
	var req RecordActionRequest
	if !bindJSON(c, &req) {
		return
	}

	category, ok := analysis.ParseCategory(req.Category)
	if !ok {
		writeError(c, httperror.NewInvalidInput("unknown category: "+req.Category))
		return
	}

	record, err := h.repo.RecordAction(c.Request.Context(), req.UserID, category, req.ItemName)
	if err != nil {
		h.logger.Warn("record_action_failed", "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *PointsHandler) handleLeaderboard(c *gin.Context) {
	limit := h.cfg.Points.LeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := h.repo.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.logger.Warn("leaderboard_failed", "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *PointsHandler) handleUserStats(c *gin.Context) {
	userID := c.Param("id")

	stats, err := h.repo.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("get_stats_failed", "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"level": points.CalculateLevel(stats.TotalPoints),
	})
}

func (h *PointsHandler) handleUserActions(c *gin.Context) {
	userID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	actions, err := h.repo.RecentActions(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Warn("recent_actions_failed", "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actions": actions})
}
