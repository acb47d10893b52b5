package metrics

import (
	"math"
	"testing"
)

func TestPnL_LongEURUSD(t *testing.T) {
	// (1.0900 - 1.0850) × 1 × 100 = 0.5
	got := PnL(true, 1.0850, 1.0900, 1)
	want := (1.0900 - 1.0850) * 1 * ContractMultiplier
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected pnl %f, got %f", want, got)
	}
	if got <= 0 {
		t.Errorf("long trade closed above entry must be profitable, got %f", got)
	}
}

func TestPnL_ShortProfitsWhenPriceFalls(t *testing.T) {
	got := PnL(false, 1.2650, 1.2600, 1)
	if got <= 0 {
		t.Errorf("short trade closed below entry must be profitable, got %f", got)
	}
}

func TestPnL_MonotonicInExitPrice(t *testing.T) {
	// 多头盈亏随出场价单调递增，空头单调递减
	prev := math.Inf(-1)
	for exit := 1.00; exit <= 1.10; exit += 0.01 {
		p := PnL(true, 1.05, exit, 2)
		if p <= prev {
			t.Fatalf("long pnl not increasing at exit %f: %f <= %f", exit, p, prev)
		}
		prev = p
	}

	prev = math.Inf(1)
	for exit := 1.00; exit <= 1.10; exit += 0.01 {
		p := PnL(false, 1.05, exit, 2)
		if p >= prev {
			t.Fatalf("short pnl not decreasing at exit %f: %f >= %f", exit, p, prev)
		}
		prev = p
	}
}

func TestPnL_ScalesWithQuantity(t *testing.T) {
	single := PnL(true, 0.6750, 0.6790, 1)
	double := PnL(true, 0.6750, 0.6790, 2)
	if math.Abs(double-2*single) > 1e-9 {
		t.Errorf("pnl must scale linearly with quantity: %f vs 2×%f", double, single)
	}
}

func TestRisk(t *testing.T) {
	got := Risk(1.0850, 1.0820, 1)
	want := 0.0030 * ContractMultiplier
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected risk %f, got %f", want, got)
	}
	// 方向无关：止损在入场价上方（空头）风险相同
	if inv := Risk(1.0820, 1.0850, 1); math.Abs(inv-want) > 1e-9 {
		t.Errorf("risk must use absolute distance, got %f", inv)
	}
}

func TestRMultiple_ReferenceScenario(t *testing.T) {
	// EUR/USD Long: entry 1.0850, stop 1.0820, exit 1.0900, qty 1 → ≈1.67R
	got := RMultiple(true, 1.0850, 1.0820, 1.0900, 1)
	if math.Abs(got-5.0/3.0) > 1e-9 {
		t.Errorf("expected r-multiple ≈1.6667, got %f", got)
	}
}

func TestRMultiple_ZeroRiskSaturatesToZero(t *testing.T) {
	// 入场价等于止损价：返回 0 而不是除零
	got := RMultiple(true, 1.0850, 1.0850, 1.0900, 1)
	if got != 0 {
		t.Errorf("expected 0 for zero-risk input, got %f", got)
	}
}

func TestRMultiple_LosingTradeIsNegative(t *testing.T) {
	// USD/JPY Long: entry 150.25, stop 149.95, exit 149.80 → -1.5R
	got := RMultiple(true, 150.25, 149.95, 149.80, 1)
	if math.Abs(got-(-1.5)) > 1e-9 {
		t.Errorf("expected -1.5R, got %f", got)
	}
}

func TestPureFunctionsAreIdempotent(t *testing.T) {
	a := PnL(true, 1.0880, 1.0845, 1)
	b := PnL(true, 1.0880, 1.0845, 1)
	if a != b {
		t.Errorf("PnL not deterministic: %f vs %f", a, b)
	}

	ra := RMultiple(false, 1.0880, 1.0910, 1.0845, 1)
	rb := RMultiple(false, 1.0880, 1.0910, 1.0845, 1)
	if ra != rb {
		t.Errorf("RMultiple not deterministic: %f vs %f", ra, rb)
	}
}
