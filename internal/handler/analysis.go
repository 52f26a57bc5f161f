package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/analysis"
	"github.com/park285/ecofy-server-go/internal/points"
)

// ImageAnalyzer 는 폐기물 이미지 분석기다.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, image string) analysis.Result
}

// AnalysisHandler 는 이미지 분석 API 핸들러다.
type AnalysisHandler struct {
	analyzer ImageAnalyzer
	logger   *slog.Logger
}

// NewAnalysisHandler 는 분석 핸들러를 생성한다.
func NewAnalysisHandler(analyzer ImageAnalyzer, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer, logger: logger}
}

// AnalyzeImageRequest 는 이미지 분석 요청 본문이다.
type AnalyzeImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// AnalyzeImageResponse 는 이미지 분석 응답 본문이다.
type AnalyzeImageResponse struct {
	Analysis analysis.WasteAnalysis `json:"analysis"`
	Model    string                 `json:"model,omitempty"`
	Fallback bool                   `json:"fallback"`
	Reward   points.Reward          `json:"reward"`
}

// RegisterRoutes 는 분석 라우트를 등록한다.
func (h *AnalysisHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/analysis")
	group.POST("/image", h.handleAnalyzeImage)
}

// handleAnalyzeImage 는 이미지를 분석한다. 분석 실패 시에도 폴백 결과로 200을 준다.
func (h *AnalysisHandler) handleAnalyzeImage(c *gin.Context) {
	var req AnalyzeImageRequest
	if !bindJSON(c, &req) {
		return
	}

	result := h.analyzer.Analyze(c.Request.Context(), req.Image)

	c.JSON(http.StatusOK, AnalyzeImageResponse{
		Analysis: result.Analysis,
		Model:    result.Model,
		Fallback: result.Fallback,
		Reward:   points.RewardFor(result.Analysis.Category),
	})
}
