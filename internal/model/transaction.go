package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType направление денежного потока
type TransactionType string

const (
	Income         TransactionType = "income"
	Expense        TransactionType = "expense"
	InvestmentFlow TransactionType = "investment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, InvestmentFlow:
		return true
	}
	return false
}

// Transaction хранит сумму без знака, направление задается полем Type.
// Category ссылается на категорию по имени, а не по ID.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
}

// GenerateID генерирует новый UUID для транзакции, если он еще не установлен
func (t *Transaction) GenerateID() {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
}

// Validate проверяет транзакцию так же, как форма ввода
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidInput, t.Amount)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidInput)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	return nil
}

// Magnitude возвращает абсолютное значение суммы
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}
