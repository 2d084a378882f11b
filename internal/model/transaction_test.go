package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:   decimal.NewFromInt(100),
		Type:     Expense,
		Category: "Food",
		Date:     NewDate(2024, time.March, 1),
	}
	assert.NoError(t, good.Validate())

	bad := map[string]func(tx *Transaction){
		"zero amount":     func(tx *Transaction) { tx.Amount = decimal.Zero },
		"negative amount": func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) },
		"unknown type":    func(tx *Transaction) { tx.Type = "transfer" },
		"blank category":  func(tx *Transaction) { tx.Category = "  " },
		"no date":         func(tx *Transaction) { tx.Date = Date{} },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			tx := good
			mutate(&tx)
			assert.ErrorIs(t, tx.Validate(), ErrInvalidInput)
		})
	}
}

func TestTransactionGenerateIDKeepsExisting(t *testing.T) {
	tx := Transaction{ID: "fixed"}
	tx.GenerateID()
	assert.Equal(t, "fixed", tx.ID)

	var fresh Transaction
	fresh.GenerateID()
	assert.Len(t, fresh.ID, 36)
}

func TestTransactionFilterMatch(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	filter := TransactionFilter{StartDate: &start, EndDate: &end, Type: Expense}

	assert.True(t, filter.Match(Transaction{Type: Expense, Date: NewDate(2024, 3, 1)}))
	assert.True(t, filter.Match(Transaction{Type: Expense, Date: NewDate(2024, 3, 31)}))
	assert.False(t, filter.Match(Transaction{Type: Income, Date: NewDate(2024, 3, 10)}))
	assert.False(t, filter.Match(Transaction{Type: Expense, Date: NewDate(2024, 4, 1)}))
	assert.True(t, TransactionFilter{}.Match(Transaction{Type: InvestmentFlow}))
}
