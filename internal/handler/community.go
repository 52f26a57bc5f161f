package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/community"
	"github.com/park285/ecofy-server-go/internal/httperror"
)

// CommunityStore 는 커뮤니티 저장소 동작이다.
type CommunityStore interface {
	CreateTip(ctx context.Context, userID, title, content string) (*community.Tip, error)
	RecentTips(ctx context.Context, limit int) ([]community.Tip, error)
	LikeTip(ctx context.Context, tipID uint) error
	ActiveChallenges(ctx context.Context) ([]community.Challenge, error)
	JoinChallenge(ctx context.Context, challengeID uint, userID string) error
	SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (*community.FriendRequest, error)
	RespondFriendRequest(ctx context.Context, requestID uint, userID, status string) error
	Friends(ctx context.Context, userID string) ([]string, error)
	PendingRequests(ctx context.Context, userID string) ([]community.FriendRequest, error)
}

// CommunityHandler 는 팁/챌린지/친구 API 핸들러다.
type CommunityHandler struct {
	store  CommunityStore
	logger *slog.Logger
}

// NewCommunityHandler 는 커뮤니티 핸들러를 생성한다.
func NewCommunityHandler(store CommunityStore, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{store: store, logger: logger}
}

// RegisterRoutes 는 커뮤니티 라우트를 등록한다.
func (h *CommunityHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/community")
	group.GET("/tips", h.handleListTips)
	group.POST("/tips", h.handleCreateTip)
	group.POST("/tips/:id/like", h.handleLikeTip)
	group.GET("/challenges", h.handleListChallenges)
	group.POST("/challenges/:id/join", h.handleJoinChallenge)
	group.POST("/friends/requests", h.handleSendFriendRequest)
	group.POST("/friends/requests/:id/respond", h.handleRespondFriendRequest)
	group.GET("/friends", h.handleListFriends)
	group.GET("/friends/requests", h.handleListPendingRequests)
}

// CreateTipRequest 는 팁 작성 요청이다.
type CreateTipRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *CommunityHandler) handleCreateTip(c *gin.Context) {
	var req CreateTipRequest
	if !bindJSON(c, &req) {
		return
	}

	tip, err := h.store.CreateTip(c.Request.Context(), req.UserID, req.Title, req.Content)
	if err != nil {
		h.logError(c, "create_tip_failed", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tip)
}

func (h *CommunityHandler) handleListTips(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	tips, err := h.store.RecentTips(c.Request.Context(), limit)
	if err != nil {
		h.logError(c, "list_tips_failed", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

func (h *CommunityHandler) handleLikeTip(c *gin.Context) {
	tipID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.LikeTip(c.Request.Context(), tipID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": true})
}

func (h *CommunityHandler) handleListChallenges(c *gin.Context) {
	challenges, err := h.store.ActiveChallenges(c.Request.Context())
	if err != nil {
		h.logError(c, "list_challenges_failed", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// JoinChallengeRequest 는 챌린지 참여 요청이다.
type JoinChallengeRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *CommunityHandler) handleJoinChallenge(c *gin.Context) {
	challengeID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var req JoinChallengeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.store.JoinChallenge(c.Request.Context(), challengeID, req.UserID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// FriendRequestRequest 는 친구 요청 생성 요청이다.
type FriendRequestRequest struct {
	FromUserID string `json:"from_user_id" binding:"required"`
	ToUserID   string `json:"to_user_id" binding:"required"`
}

func (h *CommunityHandler) handleSendFriendRequest(c *gin.Context) {
	var req FriendRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	fr, err := h.store.SendFriendRequest(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fr)
}

// RespondFriendRequestRequest 는 친구 요청 응답이다.
type RespondFriendRequestRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h *CommunityHandler) handleRespondFriendRequest(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var req RespondFriendRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.store.RespondFriendRequest(c.Request.Context(), requestID, req.UserID, req.Status); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *CommunityHandler) handleListFriends(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		writeError(c, httperror.NewMissingField("user_id"))
		return
	}

	friends, err := h.store.Friends(c.Request.Context(), userID)
	if err != nil {
		h.logError(c, "list_friends_failed", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (h *CommunityHandler) handleListPendingRequests(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		writeError(c, httperror.NewMissingField("user_id"))
		return
	}

	requests, err := h.store.PendingRequests(c.Request.Context(), userID)
	if err != nil {
		h.logError(c, "list_pending_failed", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *CommunityHandler) logError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "path", c.FullPath(), "err", err)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, httperror.NewInvalidInput("invalid " + name + ": " + raw)
	}
	return uint(id), nil
}
