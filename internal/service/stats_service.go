package service

import (
	"context"
	"time"

	"github.com/dushixiang/tradelog/internal/models"
	"github.com/dushixiang/tradelog/internal/repo"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsService 仪表盘统计服务。
// 每次请求都直接基于当前日志内容重新计算，不做缓存。
type StatsService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TradeRepo
}

// NewStatsService 创建统计服务
func NewStatsService(db *gorm.DB, logger *zap.Logger) *StatsService {
	return &StatsService{
		logger:    logger,
		Service:   orz.NewService(db),
		TradeRepo: repo.NewTradeRepo(db),
	}
}

// Stats 仪表盘统计数据
type Stats struct {
	TodayPnl    float64 `json:"today_pnl"`
	WinRate     float64 `json:"win_rate"` // 百分比，0-100
	TotalTrades int64   `json:"total_trades"`
	AverageR    float64 `json:"average_r"`
}

// RecentTrades 按入场时间倒序返回最近的 n 笔交易，
// 入场时间相同时保持写入顺序
func (s *StatsService) RecentTrades(ctx context.Context, n int) ([]models.Trade, error) {
	if n <= 0 {
		return []models.Trade{}, nil
	}
	return s.TradeRepo.FindRecentByEntryTime(ctx, n)
}

// TodayPnL 统计出场时间落在本地当天、且盈亏不为零的交易之和。
// 盈亏恰好为零的保本交易不计入。
func (s *StatsService) TodayPnL(ctx context.Context) (float64, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	trades, err := s.TradeRepo.FindByExitTimeBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range trades {
		if trades[i].Pnl != nil && *trades[i].Pnl != 0 {
			sum += *trades[i].Pnl
		}
	}
	return sum, nil
}

// WinRate 已平仓交易中盈利笔数占比（百分比），无已平仓交易时返回 0
func (s *StatsService) WinRate(ctx context.Context) (float64, error) {
	closed, err := s.TradeRepo.FindClosed(ctx)
	if err != nil {
		return 0, err
	}
	if len(closed) == 0 {
		return 0, nil
	}

	wins := 0
	for i := range closed {
		if closed[i].Pnl != nil && *closed[i].Pnl > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(closed)) * 100, nil
}

// TotalTrades 全部交易数量，含未平仓
func (s *StatsService) TotalTrades(ctx context.Context) (int64, error) {
	return s.TradeRepo.CountAll(ctx)
}

// AverageR 已平仓交易的 R 倍数算术平均，无已平仓交易时返回 0
func (s *StatsService) AverageR(ctx context.Context) (float64, error) {
	closed, err := s.TradeRepo.FindClosed(ctx)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	count := 0
	for i := range closed {
		if closed[i].RMultiple != nil {
			sum += *closed[i].RMultiple
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// Snapshot 一次性取全部仪表盘统计数据
func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	todayPnl, err := s.TodayPnL(ctx)
	if err != nil {
		return nil, err
	}

	winRate, err := s.WinRate(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.TotalTrades(ctx)
	if err != nil {
		return nil, err
	}

	averageR, err := s.AverageR(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TodayPnl:    todayPnl,
		WinRate:     winRate,
		TotalTrades: total,
		AverageR:    averageR,
	}, nil
}
