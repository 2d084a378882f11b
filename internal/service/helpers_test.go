package service

import (
	"testing"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func day(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func income(category, amount string, date model.Date) model.Transaction {
	return model.Transaction{ID: category + date.String() + amount, Type: model.Income, Category: category, Amount: dec(amount), Date: date}
}

func expense(category, amount string, date model.Date) model.Transaction {
	return model.Transaction{ID: category + date.String() + amount, Type: model.Expense, Category: category, Amount: dec(amount), Date: date}
}

func investment(category, amount string, date model.Date) model.Transaction {
	return model.Transaction{ID: category + date.String() + amount, Type: model.InvestmentFlow, Category: category, Amount: dec(amount), Date: date}
}
