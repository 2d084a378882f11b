package service

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// roundHalfUp округляет до целого, половина всегда вверх: -5.5 -> -5, 5.5 -> 6
func roundHalfUp(d decimal.Decimal) int {
	return int(d.Add(half).Floor().IntPart())
}

// ratioPercent возвращает part/whole*100 без округления. whole должен быть больше нуля.
func ratioPercent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(hundred)
}

// cappedPercent = min(round(part/whole*100), 100); 0 при whole <= 0
func cappedPercent(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	p := roundHalfUp(ratioPercent(part, whole))
	if p > 100 {
		return 100
	}
	return p
}
