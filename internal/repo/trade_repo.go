package repo

import (
	"context"
	"time"

	"github.com/dushixiang/tradelog/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{
		Repository: orz.NewRepository[models.Trade, string](db),
	}
}

type TradeRepo struct {
	orz.Repository[models.Trade, string]
}

// FindAllByCreation 按写入顺序返回全部交易记录
func (r TradeRepo) FindAllByCreation(ctx context.Context) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("created_at ASC, id ASC").
		Find(&trades).Error
	return trades, err
}

// FindRecentByEntryTime 按入场时间倒序获取最近的交易记录，
// 入场时间相同时按写入顺序排列
func (r TradeRepo) FindRecentByEntryTime(ctx context.Context, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("entry_time DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// FindByExitTimeBetween 查询出场时间落在 [start, end) 区间内的交易记录
func (r TradeRepo) FindByExitTimeBetween(ctx context.Context, start, end time.Time) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("exit_time >= ? AND exit_time < ?", start, end).
		Find(&trades).Error
	return trades, err
}

// FindClosed 查询全部已平仓交易（派生指标已计算）
func (r TradeRepo) FindClosed(ctx context.Context) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("pnl IS NOT NULL").
		Find(&trades).Error
	return trades, err
}

// UpdateAIReview 只更新 ai_review 字段，review 为 nil 时清除。
// 派生指标在创建时固定，此路径不会重算。
func (r TradeRepo) UpdateAIReview(ctx context.Context, id string, review *datatypes.JSONType[models.AIReview]) error {
	db := r.GetDB(ctx)
	return db.Table(r.GetTableName()).
		Where("id = ?", id).
		Update("ai_review", review).Error
}

// CountAll 统计全部交易数量（含未平仓）
func (r TradeRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).Count(&count).Error
	return count, err
}
