package service

import (
	"context"
	"time"

	"github.com/dushixiang/tradelog/internal/models"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

// demoTrades 演示用的初始交易数据，派生指标由引擎重新计算
func demoTrades() []CreateTradeRequest {
	day := func(d, h, m int) time.Time {
		return time.Date(2024, time.January, d, h, m, 0, 0, time.Local)
	}

	return []CreateTradeRequest{
		{
			Instrument: "EUR/USD", Direction: models.DirectionLong,
			EntryPrice: 1.0850, StopPrice: 1.0820, TakeProfitPrice: 1.0920, Quantity: 1,
			EntryTime: day(15, 9, 30), ExitTime: day(15, 14, 45),
			Notes: "Strong bullish momentum, breakout trade", ExitPrice: floatPtr(1.0900),
		},
		{
			Instrument: "GBP/USD", Direction: models.DirectionShort,
			EntryPrice: 1.2650, StopPrice: 1.2680, TakeProfitPrice: 1.2580, Quantity: 1,
			EntryTime: day(16, 10, 15), ExitTime: day(16, 16, 30),
			Notes: "Resistance level rejection", ExitPrice: floatPtr(1.2600),
		},
		{
			Instrument: "USD/JPY", Direction: models.DirectionLong,
			EntryPrice: 150.25, StopPrice: 149.95, TakeProfitPrice: 151.05, Quantity: 1,
			EntryTime: day(17, 8, 0), ExitTime: day(17, 12, 0),
			Notes: "Trend continuation", ExitPrice: floatPtr(149.80),
		},
		{
			Instrument: "AUD/USD", Direction: models.DirectionLong,
			EntryPrice: 0.6750, StopPrice: 0.6720, TakeProfitPrice: 0.6810, Quantity: 2,
			EntryTime: day(18, 11, 20), ExitTime: day(18, 15, 10),
			Notes: "Support bounce", ExitPrice: floatPtr(0.6790),
		},
		{
			Instrument: "EUR/USD", Direction: models.DirectionShort,
			EntryPrice: 1.0880, StopPrice: 1.0910, TakeProfitPrice: 1.0830, Quantity: 1,
			EntryTime: day(19, 9, 45), ExitTime: day(19, 13, 20),
			Notes: "Failed breakout", ExitPrice: floatPtr(1.0845),
		},
	}
}

// SeedDemoTrades 日志为空时写入演示交易数据，已有数据时不做任何事
func (s *JournalService) SeedDemoTrades(ctx context.Context) error {
	count, err := s.TradeRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, req := range demoTrades() {
		if _, err := s.CreateTrade(ctx, req); err != nil {
			return err
		}
	}

	s.logger.Info("seeded demo trades", zap.Int("count", len(demoTrades())))
	return nil
}
