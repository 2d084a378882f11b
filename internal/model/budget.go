package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget месячный бюджет. Month хранится как "MM/YYYY", Year дублирует год.
type Budget struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Month       string          `json:"month"`
	Year        string          `json:"year"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Items       []BudgetItem    `json:"items"`
}

// BudgetItem строка бюджета. SpentAmount только снимок, трекер его не использует.
type BudgetItem struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	SpentAmount  decimal.Decimal `json:"spentAmount"`
	Month        string          `json:"month"`
	Year         string          `json:"year"`
}

// NewBudget создает бюджет на месяц; TotalBudget считается по строкам
func NewBudget(name string, key MonthKey, items []BudgetItem) Budget {
	b := Budget{
		Name:  name,
		Month: key.Padded(),
		Year:  strconv.Itoa(key.Year),
		Items: make([]BudgetItem, len(items)),
	}
	for i, item := range items {
		item.Month = b.Month
		item.Year = b.Year
		item.GenerateID()
		b.Items[i] = item
	}
	b.GenerateID()
	b.RecalculateTotal()
	return b
}

func (b *Budget) GenerateID() {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
}

func (i *BudgetItem) GenerateID() {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
}

// RecalculateTotal приводит TotalBudget к сумме строк
func (b *Budget) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.BudgetAmount)
	}
	b.TotalBudget = total
}

// Key возвращает месяц бюджета. Year, если задан, должен совпадать с годом в Month.
func (b Budget) Key() (MonthKey, error) {
	key, err := ParseMonthKey(b.Month)
	if err != nil {
		return MonthKey{}, fmt.Errorf("budget %q: %w", b.ID, err)
	}
	if b.Year != "" && b.Year != strconv.Itoa(key.Year) {
		return MonthKey{}, fmt.Errorf("%w: budget %q: year %s does not match month %s", ErrInvalidInput, b.ID, b.Year, b.Month)
	}
	return key, nil
}

func (b Budget) Validate() error {
	if _, err := b.Key(); err != nil {
		return err
	}
	for _, item := range b.Items {
		if item.BudgetAmount.IsNegative() {
			return fmt.Errorf("%w: budget line %q has negative amount %s", ErrInvalidInput, item.Category, item.BudgetAmount)
		}
	}
	return nil
}
