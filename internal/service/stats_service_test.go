package service

import (
	"context"
	"testing"
	"time"

	"github.com/dushixiang/tradelog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStatsFixture(t *testing.T) (*JournalService, *StatsService) {
	t.Helper()
	db := setupTestDB(t)
	return NewJournalService(db, zap.NewNop()), NewStatsService(db, zap.NewNop())
}

func addTrade(t *testing.T, svc *JournalService, mutate func(*CreateTradeRequest)) *models.Trade {
	t.Helper()
	req := validRequest()
	if mutate != nil {
		mutate(&req)
	}
	trade, err := svc.CreateTrade(context.Background(), req)
	require.NoError(t, err)
	return trade
}

func TestStats_EmptyJournal(t *testing.T) {
	_, stats := newStatsFixture(t)
	ctx := context.Background()

	winRate, err := stats.WinRate(ctx)
	require.NoError(t, err)
	assert.Zero(t, winRate)

	averageR, err := stats.AverageR(ctx)
	require.NoError(t, err)
	assert.Zero(t, averageR)

	todayPnl, err := stats.TodayPnL(ctx)
	require.NoError(t, err)
	assert.Zero(t, todayPnl)

	total, err := stats.TotalTrades(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	recent, err := stats.RecentTrades(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestWinRate(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	// 两胜一负，一笔未平仓不参与
	addTrade(t, journal, func(r *CreateTradeRequest) { r.ExitPrice = floatPtr(1.0900) })
	addTrade(t, journal, func(r *CreateTradeRequest) { r.ExitPrice = floatPtr(1.0880) })
	addTrade(t, journal, func(r *CreateTradeRequest) { r.ExitPrice = floatPtr(1.0800) })
	addTrade(t, journal, nil)

	winRate, err := stats.WinRate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100.0*2.0/3.0, winRate, 1e-9)

	total, err := stats.TotalTrades(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestAverageR(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	// +5/3 R 与 -5/3 R，均值为 0；未平仓不参与
	addTrade(t, journal, func(r *CreateTradeRequest) { r.ExitPrice = floatPtr(1.0900) })
	addTrade(t, journal, func(r *CreateTradeRequest) { r.ExitPrice = floatPtr(1.0800) })
	addTrade(t, journal, nil)

	averageR, err := stats.AverageR(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0, averageR, 1e-9)
}

func TestTodayPnL(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	// 今天平仓的盈利交易：计入
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = now
		r.ExitPrice = floatPtr(1.0900)
	})
	// 昨天平仓的交易：不计入
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = yesterday
		r.ExitPrice = floatPtr(1.0900)
	})
	// 今天出场时间但未平仓：不计入
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = now
	})

	todayPnl, err := stats.TodayPnL(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, todayPnl, 1e-9)
}

func TestTodayPnL_ExcludesBreakEvenTrades(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	now := time.Now()

	// 出场价等于入场价：pnl 恰好为 0，保本交易不计入当日盈亏
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = now
		r.ExitPrice = floatPtr(r.EntryPrice)
	})
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = now
		r.ExitPrice = floatPtr(1.0900)
	})

	todayPnl, err := stats.TodayPnL(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, todayPnl, 1e-9)
}

func TestRecentTrades_OrderAndLimit(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.Instrument = "EUR/USD"
		r.EntryTime = base
	})
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.Instrument = "USD/JPY"
		r.EntryTime = base.Add(48 * time.Hour)
	})
	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.Instrument = "GBP/USD"
		r.EntryTime = base.Add(24 * time.Hour)
	})

	recent, err := stats.RecentTrades(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "USD/JPY", recent[0].Instrument)
	assert.Equal(t, "GBP/USD", recent[1].Instrument)

	// n 大于总数时全部返回
	all, err := stats.RecentTrades(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// n 非正时返回空
	none, err := stats.RecentTrades(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecentTrades_StableOnEqualEntryTimes(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	entry := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	instruments := []string{"EUR/USD", "GBP/USD", "USD/JPY"}
	for _, ins := range instruments {
		addTrade(t, journal, func(r *CreateTradeRequest) {
			r.Instrument = ins
			r.EntryTime = entry
		})
	}

	recent, err := stats.RecentTrades(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	// 入场时间相同，保持写入顺序
	for i, ins := range instruments {
		assert.Equal(t, ins, recent[i].Instrument)
	}
}

func TestSnapshot(t *testing.T) {
	journal, stats := newStatsFixture(t)
	ctx := context.Background()

	addTrade(t, journal, func(r *CreateTradeRequest) {
		r.ExitTime = time.Now()
		r.ExitPrice = floatPtr(1.0900)
	})
	addTrade(t, journal, nil)

	snapshot, err := stats.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, snapshot.TodayPnl, 1e-9)
	assert.InDelta(t, 100.0, snapshot.WinRate, 1e-9)
	assert.EqualValues(t, 2, snapshot.TotalTrades)
	assert.InDelta(t, 5.0/3.0, snapshot.AverageR, 1e-9)
}
