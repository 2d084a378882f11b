package service

import (
	"sort"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// FlowTotals суммы по направлениям движения денег внутри одного периода
type FlowTotals struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Investments decimal.Decimal `json:"investments"`
}

func (f *FlowTotals) add(t model.Transaction) {
	amount := t.Magnitude()
	switch t.Type {
	case model.Income:
		f.Income = f.Income.Add(amount)
	case model.Expense:
		f.Expenses = f.Expenses.Add(amount)
	case model.InvestmentFlow:
		f.Investments = f.Investments.Add(amount)
	}
}

// NetFlow доход минус расходы и вложения за период
func (f FlowTotals) NetFlow() decimal.Decimal {
	return f.Income.Sub(f.Expenses).Sub(f.Investments)
}

// MonthBucket итог за календарный месяц
type MonthBucket struct {
	Period model.MonthKey `json:"period"`
	FlowTotals
}

// DayBucket итог за день. Net относится только к этому дню,
// Balance накапливает Net всех дней до этого включительно.
type DayBucket struct {
	Date model.Date `json:"date"`
	FlowTotals
	Net     decimal.Decimal `json:"net"`
	Balance decimal.Decimal `json:"balance"`
}

// BucketByMonth группирует транзакции по месяцам в хронологическом порядке
func BucketByMonth(transactions []model.Transaction) []MonthBucket {
	totals := make(map[model.MonthKey]*FlowTotals)
	for _, t := range transactions {
		key := model.MonthOf(t.Date.Time)
		f, ok := totals[key]
		if !ok {
			f = &FlowTotals{}
			totals[key] = f
		}
		f.add(t)
	}

	buckets := make([]MonthBucket, 0, len(totals))
	for key, f := range totals {
		buckets = append(buckets, MonthBucket{Period: key, FlowTotals: *f})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period.Before(buckets[j].Period)
	})
	return buckets
}

// BucketByDay группирует транзакции по дням и считает нарастающий баланс.
// Дни без транзакций не выводятся.
func BucketByDay(transactions []model.Transaction) []DayBucket {
	totals := make(map[model.Date]*FlowTotals)
	for _, t := range transactions {
		day := model.DateOf(t.Date.Time)
		f, ok := totals[day]
		if !ok {
			f = &FlowTotals{}
			totals[day] = f
		}
		f.add(t)
	}

	buckets := make([]DayBucket, 0, len(totals))
	for day, f := range totals {
		buckets = append(buckets, DayBucket{Date: day, FlowTotals: *f})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date.Time)
	})

	running := decimal.Zero
	for i := range buckets {
		buckets[i].Net = buckets[i].NetFlow()
		running = running.Add(buckets[i].Net)
		buckets[i].Balance = running
	}
	return buckets
}
