package repo

import (
	"context"

	"github.com/dushixiang/tradelog/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewReviewLogRepo(db *gorm.DB) *ReviewLogRepo {
	return &ReviewLogRepo{
		Repository: orz.NewRepository[models.ReviewLog, string](db),
	}
}

type ReviewLogRepo struct {
	orz.Repository[models.ReviewLog, string]
}

// FindByTradeID 根据交易ID查询全部复盘日志
func (r ReviewLogRepo) FindByTradeID(ctx context.Context, tradeID string) ([]models.ReviewLog, error) {
	var logs []models.ReviewLog
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("trade_id = ?", tradeID).
		Order("executed_at ASC").
		Find(&logs).Error
	return logs, err
}

// FindRecentLogs 获取最近的复盘日志
func (r ReviewLogRepo) FindRecentLogs(ctx context.Context, limit int) ([]models.ReviewLog, error) {
	var logs []models.ReviewLog
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("executed_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
