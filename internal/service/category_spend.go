package service

import (
	"sort"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// SpendByCategoryForMonth суммирует расходы месяца по категориям.
// Ключ - имя категории как есть в транзакции, без нормализации.
func SpendByCategoryForMonth(transactions []model.Transaction, key model.MonthKey) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != model.Expense || !key.Contains(t.Date.Time) {
			continue
		}
		spend[t.Category] = spend[t.Category].Add(t.Magnitude())
	}
	return spend
}

// SpendByMonthAndCategory суммирует расходы по месяцам и категориям
func SpendByMonthAndCategory(transactions []model.Transaction) map[model.MonthKey]map[string]decimal.Decimal {
	spend := make(map[model.MonthKey]map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != model.Expense {
			continue
		}
		key := model.MonthOf(t.Date.Time)
		byCategory, ok := spend[key]
		if !ok {
			byCategory = make(map[string]decimal.Decimal)
			spend[key] = byCategory
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Magnitude())
	}
	return spend
}

func sortedMonths[V any](byMonth map[model.MonthKey]V) []model.MonthKey {
	months := make([]model.MonthKey, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months
}

func sumValues(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}
