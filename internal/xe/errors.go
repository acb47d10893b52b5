package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams = orz.NewError(10400, "参数无效")
	ErrInvalidRecord = orz.NewError(10401, "交易记录无效")
	ErrTradeNotFound = orz.NewError(10404, "交易记录不存在")

	ErrReviewUnavailable = orz.NewError(10500, "AI复盘服务未配置")
	ErrReviewFailed      = orz.NewError(10502, "AI复盘生成失败")
)
