package service

import (
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// BalanceSummary итог по списку транзакций. Все поля кроме CurrentBalance неотрицательны.
type BalanceSummary struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	Investments    decimal.Decimal `json:"investments"`
}

// Summarize сворачивает транзакции в итог. Порядок транзакций на результат не влияет.
func Summarize(transactions []model.Transaction) BalanceSummary {
	var s BalanceSummary
	for _, t := range transactions {
		s.add(t)
	}
	return s
}

func (s *BalanceSummary) add(t model.Transaction) {
	amount := t.Magnitude()
	switch t.Type {
	case model.Income:
		s.Income = s.Income.Add(amount)
		s.CurrentBalance = s.CurrentBalance.Add(amount)
	case model.Expense:
		s.Expenses = s.Expenses.Add(amount)
		s.CurrentBalance = s.CurrentBalance.Sub(amount)
	case model.InvestmentFlow:
		s.Investments = s.Investments.Add(amount)
		s.CurrentBalance = s.CurrentBalance.Sub(amount)
	}
}
