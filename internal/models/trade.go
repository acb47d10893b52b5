package models

import (
	"time"

	"github.com/dushixiang/tradelog/pkg/metrics"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Direction 交易方向
type Direction string

const (
	DirectionLong  Direction = "Long"  // 多头，价格上涨获利
	DirectionShort Direction = "Short" // 空头，价格下跌获利
)

// Valid 校验方向取值
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Trade 交易日志记录
type Trade struct {
	ID              string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Instrument      string    `gorm:"type:varchar(32);not null;index" json:"instrument"`    // 交易品种，如 EUR/USD
	Direction       Direction `gorm:"type:varchar(10);not null" json:"direction"`           // Long/Short
	EntryPrice      float64   `gorm:"type:decimal(20,8);not null" json:"entry_price"`       // 入场价格
	StopPrice       float64   `gorm:"type:decimal(20,8);not null" json:"stop_price"`        // 止损价格
	TakeProfitPrice float64   `gorm:"type:decimal(20,8);not null" json:"take_profit_price"` // 止盈价格
	Quantity        float64   `gorm:"type:decimal(20,8);not null" json:"quantity"`          // 数量
	EntryTime       time.Time `gorm:"not null;index" json:"entry_time"`                     // 入场时间
	ExitTime        time.Time `gorm:"not null;index" json:"exit_time"`                      // 出场时间
	Notes           string    `gorm:"type:text" json:"notes"`                               // 交易笔记

	// 出场价格，为空表示未平仓
	ExitPrice *float64 `gorm:"type:decimal(20,8)" json:"exit_price,omitempty"`

	// 派生指标，创建时一次性计算，与 ExitPrice 同时存在或同时缺失
	Pnl       *float64 `gorm:"type:decimal(20,8)" json:"pnl,omitempty"`        // 已实现盈亏
	RMultiple *float64 `gorm:"type:decimal(20,8)" json:"r_multiple,omitempty"` // R倍数

	// AI复盘结果，事后通过复盘服务附加
	AIReview *datatypes.JSONType[AIReview] `gorm:"type:json" json:"ai_review,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Trade) TableName() string {
	return "trades"
}

// Closed 是否已平仓
func (t *Trade) Closed() bool {
	return t.ExitPrice != nil
}

// ComputePnL 计算已实现盈亏，未平仓返回 0
func (t *Trade) ComputePnL() float64 {
	if t.ExitPrice == nil {
		return 0
	}
	return metrics.PnL(t.Direction == DirectionLong, t.EntryPrice, *t.ExitPrice, t.Quantity)
}

// ComputeRMultiple 计算 R 倍数，未平仓或零风险返回 0
func (t *Trade) ComputeRMultiple() float64 {
	if t.ExitPrice == nil {
		return 0
	}
	return metrics.RMultiple(t.Direction == DirectionLong, t.EntryPrice, t.StopPrice, *t.ExitPrice, t.Quantity)
}

// AIReview AI复盘内容，所有字段均可缺省
type AIReview struct {
	Grade                string   `json:"grade,omitempty"` // A/B/C/D/F
	Summary              string   `json:"summary,omitempty"`
	Strengths            []string `json:"strengths,omitempty"`
	Mistakes             []string `json:"mistakes,omitempty"`
	RuleViolations       []string `json:"rule_violations,omitempty"`
	InvalidationTriggers []string `json:"invalidation_triggers,omitempty"`
	NextActions          []string `json:"next_actions,omitempty"`
	RiskFlags            []string `json:"risk_flags,omitempty"`
}
