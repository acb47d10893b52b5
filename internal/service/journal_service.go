package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/dushixiang/tradelog/internal/models"
	"github.com/dushixiang/tradelog/internal/repo"
	"github.com/dushixiang/tradelog/internal/xe"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JournalService 交易日志核心服务：创建、查询与复盘附加。
// 价格与数量字段在创建后不可变更，派生指标只在创建时计算一次，
// 复盘附加路径只写 ai_review 字段，不会触碰派生指标。
type JournalService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TradeRepo
}

// NewJournalService 创建交易日志服务
func NewJournalService(db *gorm.DB, logger *zap.Logger) *JournalService {
	return &JournalService{
		logger:    logger,
		Service:   orz.NewService(db),
		TradeRepo: repo.NewTradeRepo(db),
	}
}

// CreateTradeRequest 创建交易记录的入参
type CreateTradeRequest struct {
	Instrument      string           `json:"instrument" validate:"required"`
	Direction       models.Direction `json:"direction" validate:"required"`
	EntryPrice      float64          `json:"entry_price" validate:"required,gt=0"`
	StopPrice       float64          `json:"stop_price" validate:"required,gt=0"`
	TakeProfitPrice float64          `json:"take_profit_price" validate:"required,gt=0"`
	Quantity        float64          `json:"quantity" validate:"required,gt=0"`
	EntryTime       time.Time        `json:"entry_time" validate:"required"`
	ExitTime        time.Time        `json:"exit_time" validate:"required"`
	Notes           string           `json:"notes"`
	ExitPrice       *float64         `json:"exit_price,omitempty"`
}

// positiveFinite 数值必须为正且有限
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (r CreateTradeRequest) validate() error {
	if strings.TrimSpace(r.Instrument) == "" {
		return xe.ErrInvalidRecord
	}
	if !r.Direction.Valid() {
		return xe.ErrInvalidRecord
	}
	for _, v := range []float64{r.EntryPrice, r.StopPrice, r.TakeProfitPrice, r.Quantity} {
		if !positiveFinite(v) {
			return xe.ErrInvalidRecord
		}
	}
	if r.ExitPrice != nil && !positiveFinite(*r.ExitPrice) {
		return xe.ErrInvalidRecord
	}
	return nil
}

// CreateTrade 创建交易记录。提供出场价时同步计算派生指标，
// 否则视为未平仓，pnl 与 r_multiple 均不落库。
func (s *JournalService) CreateTrade(ctx context.Context, req CreateTradeRequest) (*models.Trade, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	trade := &models.Trade{
		ID:              ulid.Make().String(),
		Instrument:      strings.TrimSpace(req.Instrument),
		Direction:       req.Direction,
		EntryPrice:      req.EntryPrice,
		StopPrice:       req.StopPrice,
		TakeProfitPrice: req.TakeProfitPrice,
		Quantity:        req.Quantity,
		EntryTime:       req.EntryTime,
		ExitTime:        req.ExitTime,
		Notes:           req.Notes,
	}

	if req.ExitPrice != nil {
		trade.ExitPrice = req.ExitPrice
		pnl := trade.ComputePnL()
		rMultiple := trade.ComputeRMultiple()
		trade.Pnl = &pnl
		trade.RMultiple = &rMultiple
	}

	if err := s.TradeRepo.Create(ctx, trade); err != nil {
		return nil, err
	}

	s.logger.Info("trade recorded",
		zap.String("id", trade.ID),
		zap.String("instrument", trade.Instrument),
		zap.String("direction", string(trade.Direction)),
		zap.Bool("closed", trade.Closed()))

	return trade, nil
}

// GetTrade 根据ID查询交易记录，不存在时返回 ErrTradeNotFound
func (s *JournalService) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	trade, err := s.TradeRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrTradeNotFound
		}
		return nil, err
	}
	return &trade, nil
}

// ListTrades 按写入顺序返回全部交易记录
func (s *JournalService) ListTrades(ctx context.Context) ([]models.Trade, error) {
	return s.TradeRepo.FindAllByCreation(ctx)
}

// AttachReview 附加AI复盘结果。只写 ai_review 字段，
// 价格与派生指标保持创建时的值。
func (s *JournalService) AttachReview(ctx context.Context, id string, review models.AIReview) (*models.Trade, error) {
	trade, err := s.GetTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := datatypes.NewJSONType(review)
	if err := s.TradeRepo.UpdateAIReview(ctx, trade.ID, &payload); err != nil {
		return nil, err
	}

	trade.AIReview = &payload
	return trade, nil
}

// ClearReview 移除已附加的AI复盘结果
func (s *JournalService) ClearReview(ctx context.Context, id string) (*models.Trade, error) {
	trade, err := s.GetTrade(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.TradeRepo.UpdateAIReview(ctx, trade.ID, nil); err != nil {
		return nil, err
	}

	trade.AIReview = nil
	return trade, nil
}
