package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(category string, amount int64, typ model.TransactionType, date model.Date) *model.Transaction {
	return &model.Transaction{Category: category, Amount: decimal.NewFromInt(amount), Type: typ, Date: date}
}

func TestMemoryTransactions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	first := newTx("Food", 10, model.Expense, model.NewDate(2024, time.March, 1))
	second := newTx("Salary", 100, model.Income, model.NewDate(2024, time.March, 5))
	third := newTx("Food", 20, model.Expense, model.NewDate(2024, time.March, 1))
	for _, tx := range []*model.Transaction{first, second, third} {
		require.NoError(t, repo.CreateTransaction(ctx, 1, tx))
		assert.NotEmpty(t, tx.ID)
	}

	all, err := repo.GetTransactions(ctx, 1, model.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{second.ID, third.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.GetTransactions(ctx, 1, model.TransactionFilter{Limit: 1, Type: model.Expense})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, third.ID, limited[0].ID)

	other, err := repo.GetTransactions(ctx, 2, model.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, other, "users are isolated")

	byCategory, err := repo.GetTransactionsByCategory(ctx, 1, "Food")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	require.NoError(t, repo.CreateTransaction(ctx, 1, newTx("Food", 10, model.Expense, model.NewDate(2024, time.March, 1))))

	got, err := repo.GetTransactions(ctx, 1, model.TransactionFilter{})
	require.NoError(t, err)
	got[0].Category = "Changed"

	again, err := repo.GetTransactions(ctx, 1, model.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Food", again[0].Category)
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	tx := newTx("Food", 10, model.Expense, model.NewDate(2024, time.March, 1))
	require.NoError(t, repo.CreateTransaction(ctx, 1, tx))

	updated := *tx
	updated.Amount = decimal.NewFromInt(15)
	require.NoError(t, repo.UpdateTransaction(ctx, 1, updated))

	all, err := repo.GetTransactions(ctx, 1, model.TransactionFilter{})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(all[0].Amount))

	missing := updated
	missing.ID = "missing"
	assert.ErrorIs(t, repo.UpdateTransaction(ctx, 1, missing), model.ErrNotFound)

	require.NoError(t, repo.DeleteTransaction(ctx, tx.ID, 1))
	assert.ErrorIs(t, repo.DeleteTransaction(ctx, tx.ID, 1), model.ErrNotFound)
}

func TestMemoryBudgets(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	budget := model.NewBudget("March", model.MonthKey{Year: 2024, Month: time.March}, []model.BudgetItem{
		{Category: "Food", BudgetAmount: decimal.NewFromInt(100)},
	})
	require.NoError(t, repo.SaveBudget(ctx, 1, &budget))

	budget.Items[0].BudgetAmount = decimal.NewFromInt(999)
	stored, err := repo.GetBudgets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(stored[0].Items[0].BudgetAmount), "stored budget does not alias caller items")

	require.NoError(t, repo.SaveBudget(ctx, 1, &budget))
	stored, err = repo.GetBudgets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stored, 1, "same id replaces")
	assert.True(t, decimal.NewFromInt(999).Equal(stored[0].Items[0].BudgetAmount))

	require.NoError(t, repo.DeleteBudget(ctx, budget.ID, 1))
	stored, err = repo.GetBudgets(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMemoryImportAndSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	snapshot := model.Snapshot{
		Categories:  []model.Category{{ID: "c1", Name: "Food", Type: model.Expense}},
		Goals:       []model.FinancialGoal{{ID: "g1", Title: "Bike"}},
		Investments: []model.Investment{{ID: "i1", Name: "Fund"}},
	}
	repo.Import(7, snapshot)
	snapshot.Categories[0].Name = "Mutated"

	got, err := repo.Snapshot(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Categories[0].Name)
	assert.Len(t, got.Goals, 1)
	assert.Len(t, got.Investments, 1)
	assert.Empty(t, got.Transactions)

	require.NoError(t, repo.DeleteCategory(ctx, "c1", 7))
	require.NoError(t, repo.DeleteGoal(ctx, "g1", 7))
	require.NoError(t, repo.DeleteInvestment(ctx, "i1", 7))
	assert.ErrorIs(t, repo.UpdateGoal(ctx, 7, model.FinancialGoal{ID: "g1"}), model.ErrNotFound)
}

func TestMemoryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().GetCategories(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
