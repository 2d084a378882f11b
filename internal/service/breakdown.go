package service

import (
	"sort"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryShare доля категории в общем потоке одного типа
type CategoryShare struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Share  decimal.Decimal `json:"share"`
	// Color пустой, если категория не найдена
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// CategoryBreakdown распределяет транзакции типа flow по категориям.
// lookup может быть nil. Сортировка по убыванию суммы, затем по имени.
func CategoryBreakdown(transactions []model.Transaction, flow model.TransactionType, lookup model.CategoryLookup) []CategoryShare {
	byName := make(map[string]*CategoryShare)
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type != flow {
			continue
		}
		s, ok := byName[t.Category]
		if !ok {
			s = &CategoryShare{Name: t.Category}
			if lookup != nil {
				if c, found := lookup.Lookup(t.Category); found {
					s.Color = c.Color
				}
			}
			byName[t.Category] = s
		}
		s.Amount = s.Amount.Add(t.Magnitude())
		s.Count++
		total = total.Add(t.Magnitude())
	}

	shares := make([]CategoryShare, 0, len(byName))
	for _, s := range byName {
		if total.IsPositive() {
			s.Share = ratioPercent(s.Amount, total).Round(1)
		}
		shares = append(shares, *s)
	}
	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}
