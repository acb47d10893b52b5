package metrics

import "math"

// ContractMultiplier 固定的名义乘数：价格差 ×100 换算为货币盈亏。
// 不区分品种，是刻意的简化。
const ContractMultiplier = 100.0

// PnL 计算已平仓交易的已实现盈亏。
// isLong 为 true 表示多头，价格上涨获利；空头方向取反。
func PnL(isLong bool, entryPrice, exitPrice, quantity float64) float64 {
	delta := exitPrice - entryPrice
	sign := 1.0
	if !isLong {
		sign = -1.0
	}
	return delta * sign * quantity * ContractMultiplier
}

// Risk 计算初始风险额（入场价到止损价的距离换算为货币）。
func Risk(entryPrice, stopPrice, quantity float64) float64 {
	return math.Abs(entryPrice-stopPrice) * quantity * ContractMultiplier
}

// RMultiple 计算 R 倍数：盈亏相对初始风险额的倍数。
// 入场价等于止损价时风险为 0，返回 0 而不是除零。
func RMultiple(isLong bool, entryPrice, stopPrice, exitPrice, quantity float64) float64 {
	risk := Risk(entryPrice, stopPrice, quantity)
	if risk == 0 {
		return 0
	}
	return PnL(isLong, entryPrice, exitPrice, quantity) / risk
}
