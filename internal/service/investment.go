package service

import (
	"sort"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultInflation годовая инфляция в процентах для реальной доходности
var DefaultInflation = decimal.NewFromInt(5)

// AllocationSlice доля портфеля по текущей стоимости
type AllocationSlice struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
	Share decimal.Decimal `json:"share"`
}

// InvestmentPerformance сводка по портфелю
type InvestmentPerformance struct {
	TotalInvested    decimal.Decimal    `json:"totalInvested"`
	CurrentValue     decimal.Decimal    `json:"currentValue"`
	AbsoluteReturn   decimal.Decimal    `json:"absoluteReturn"`
	PercentageReturn decimal.Decimal    `json:"percentageReturn"`
	Inflation        decimal.Decimal    `json:"inflation"`
	RealReturn       decimal.Decimal    `json:"realReturn"`
	ByType           []AllocationSlice  `json:"byType"`
	ByRisk           []AllocationSlice  `json:"byRisk"`
	Ranked           []model.Investment `json:"ranked"`
}

// EvaluateInvestments считает доходность портфеля. RealReturn = PercentageReturn - inflation.
func EvaluateInvestments(investments []model.Investment, inflation decimal.Decimal) InvestmentPerformance {
	perf := InvestmentPerformance{Inflation: inflation}
	byType := make(map[string]decimal.Decimal)
	byRisk := make(map[string]decimal.Decimal)

	for _, inv := range investments {
		perf.TotalInvested = perf.TotalInvested.Add(inv.Amount)
		perf.CurrentValue = perf.CurrentValue.Add(inv.CurrentValue)
		byType[string(inv.Type)] = byType[string(inv.Type)].Add(inv.CurrentValue)
		byRisk[string(inv.RiskLevel)] = byRisk[string(inv.RiskLevel)].Add(inv.CurrentValue)
	}

	perf.AbsoluteReturn = perf.CurrentValue.Sub(perf.TotalInvested)
	if perf.TotalInvested.IsPositive() {
		perf.PercentageReturn = ratioPercent(perf.AbsoluteReturn, perf.TotalInvested).Round(2)
	}
	perf.RealReturn = perf.PercentageReturn.Sub(inflation)
	perf.ByType = allocation(byType, perf.CurrentValue)
	perf.ByRisk = allocation(byRisk, perf.CurrentValue)

	perf.Ranked = make([]model.Investment, len(investments))
	copy(perf.Ranked, investments)
	sort.SliceStable(perf.Ranked, func(i, j int) bool {
		return perf.Ranked[i].CurrentValue.GreaterThan(perf.Ranked[j].CurrentValue)
	})
	return perf
}

func allocation(values map[string]decimal.Decimal, total decimal.Decimal) []AllocationSlice {
	slices := make([]AllocationSlice, 0, len(values))
	for key, value := range values {
		s := AllocationSlice{Key: key, Value: value}
		if total.IsPositive() {
			s.Share = ratioPercent(value, total).Round(1)
		}
		slices = append(slices, s)
	}
	sort.Slice(slices, func(i, j int) bool {
		if c := slices[i].Value.Cmp(slices[j].Value); c != 0 {
			return c > 0
		}
		return slices[i].Key < slices[j].Key
	})
	return slices
}
