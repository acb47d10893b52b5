package handler

import (
	"net/http"

	"github.com/dushixiang/tradelog/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// JournalHandler 交易日志HTTP处理器
type JournalHandler struct {
	journalService *service.JournalService
	statsService   *service.StatsService
	reviewService  *service.ReviewService
	logger         *zap.Logger
}

// NewJournalHandler 创建交易日志处理器
func NewJournalHandler(
	journalService *service.JournalService,
	statsService *service.StatsService,
	reviewService *service.ReviewService,
	logger *zap.Logger,
) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		statsService:   statsService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// CreateTrade 创建交易记录
// POST /api/journal/trades
func (h *JournalHandler) CreateTrade(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "请求参数错误",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	trade, err := h.journalService.CreateTrade(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// ListTrades 获取全部交易记录
// GET /api/journal/trades
func (h *JournalHandler) ListTrades(c echo.Context) error {
	ctx := c.Request().Context()

	trades, err := h.journalService.ListTrades(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(trades),
		"trades": trades,
	})
}

// GetTrade 获取单笔交易记录
// GET /api/journal/trades/:id
func (h *JournalHandler) GetTrade(c echo.Context) error {
	ctx := c.Request().Context()

	trade, err := h.journalService.GetTrade(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// GetRecentTrades 获取最近的交易记录
// GET /api/journal/trades/recent?limit=5
func (h *JournalHandler) GetRecentTrades(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 5
	if l := c.QueryParam("limit"); l != "" {
		limit = cast.ToInt(l)
	}

	trades, err := h.statsService.RecentTrades(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(trades),
		"trades": trades,
	})
}

// GetStats 获取仪表盘统计数据
// GET /api/journal/stats
func (h *JournalHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.statsService.Snapshot(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// ReviewTrade 对指定交易执行AI复盘
// POST /api/journal/trades/:id/review
func (h *JournalHandler) ReviewTrade(c echo.Context) error {
	ctx := c.Request().Context()

	trade, err := h.reviewService.ReviewTrade(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// ClearReview 移除已附加的AI复盘结果
// DELETE /api/journal/trades/:id/review
func (h *JournalHandler) ClearReview(c echo.Context) error {
	ctx := c.Request().Context()

	trade, err := h.journalService.ClearReview(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// GetReviewLogs 查询某笔交易的复盘日志
// GET /api/journal/trades/:id/review-logs
func (h *JournalHandler) GetReviewLogs(c echo.Context) error {
	ctx := c.Request().Context()

	logs, err := h.reviewService.GetReviewLogs(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(logs),
		"logs":  logs,
	})
}

// RegisterRoutes 注册路由
func (h *JournalHandler) RegisterRoutes(g *echo.Group) {
	journal := g.Group("/journal")

	journal.POST("/trades", h.CreateTrade)
	journal.GET("/trades", h.ListTrades)
	journal.GET("/trades/recent", h.GetRecentTrades)
	journal.GET("/trades/:id", h.GetTrade)
	journal.GET("/stats", h.GetStats)

	journal.POST("/trades/:id/review", h.ReviewTrade)
	journal.DELETE("/trades/:id/review", h.ClearReview)
	journal.GET("/trades/:id/review-logs", h.GetReviewLogs)
}
