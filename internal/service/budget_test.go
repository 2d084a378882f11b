package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2024 = model.MonthKey{Year: 2024, Month: time.March}

func budgetOf(lines ...string) model.Budget {
	items := make([]model.BudgetItem, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		items = append(items, model.BudgetItem{Category: lines[i], BudgetAmount: dec(lines[i+1])})
	}
	return model.NewBudget("March", march2024, items)
}

func TestTrackBudgetLines(t *testing.T) {
	budget := budgetOf("Food", "1500", "Gifts", "0", "Leisure", "400")
	budget.Items[0].SpentAmount = dec("1") // устаревший снимок игнорируется

	txs := []model.Transaction{
		expense("Food", "1000", day(2024, time.March, 2)),
		expense("Food", "800", day(2024, time.March, 20)),
		expense("Gifts", "50", day(2024, time.March, 8)),
		expense("Leisure", "100", day(2024, time.March, 8)),
		expense("Leisure", "999", day(2024, time.February, 8)),
		income("Leisure", "999", day(2024, time.March, 8)),
		expense("Taxi", "25", day(2024, time.March, 9)),
	}

	progress, err := TrackBudget(budget, txs)
	require.NoError(t, err)
	require.Len(t, progress.Lines, 3)

	food := progress.Lines[0]
	assert.Equal(t, "Food", food.Category)
	assertDecimal(t, "1800", food.Spent)
	assert.Equal(t, 100, food.Percentage)
	assertDecimal(t, "120", food.Ratio)
	assertDecimal(t, "300", food.OverBy)
	assert.Equal(t, UtilizationCritical, food.Level)

	gifts := progress.Lines[1]
	assert.Equal(t, 0, gifts.Percentage)
	assertDecimal(t, "0", gifts.Ratio)
	assertDecimal(t, "50", gifts.OverBy)

	leisure := progress.Lines[2]
	assertDecimal(t, "100", leisure.Spent)
	assert.Equal(t, 25, leisure.Percentage)
	assertDecimal(t, "0", leisure.OverBy)
	assert.Equal(t, UtilizationOK, leisure.Level)

	assertDecimal(t, "1900", progress.TotalBudgeted)
	assertDecimal(t, "1950", progress.TotalSpent)
	assert.Equal(t, 100, progress.OverallPercentage)
	assertDecimal(t, "102.63", progress.OverallRatio)
	assert.True(t, progress.OverBudget)
	assertDecimal(t, "1975", progress.MonthSpent, "includes categories without a budget line")
	assert.Equal(t, march2024, progress.Period)
}

func TestTrackBudgetDuplicateLinesStayIndependent(t *testing.T) {
	budget := budgetOf("Food", "100", "Food", "300")
	txs := []model.Transaction{expense("Food", "150", day(2024, time.March, 2))}

	progress, err := TrackBudget(budget, txs)
	require.NoError(t, err)
	require.Len(t, progress.Lines, 2)
	assertDecimal(t, "150", progress.Lines[0].Spent)
	assertDecimal(t, "150", progress.Lines[1].Spent)
	assert.Equal(t, 100, progress.Lines[0].Percentage)
	assert.Equal(t, 50, progress.Lines[1].Percentage)
	assertDecimal(t, "300", progress.TotalSpent)
}

func TestTrackBudgetDoesNotMutate(t *testing.T) {
	budget := budgetOf("Food", "100")
	before := budget.Items[0]

	_, err := TrackBudget(budget, []model.Transaction{expense("Food", "150", day(2024, time.March, 2))})
	require.NoError(t, err)
	assert.Equal(t, before, budget.Items[0])
}

func TestTrackBudgetInvalidInput(t *testing.T) {
	negative := budgetOf("Food", "-1")
	_, err := TrackBudget(negative, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	badMonth := model.Budget{Month: "2024-03"}
	_, err = TrackBudget(badMonth, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	mismatch := budgetOf("Food", "1")
	mismatch.Year = "2023"
	_, err = TrackBudget(mismatch, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestTrackBudgetEmpty(t *testing.T) {
	progress, err := TrackBudget(budgetOf(), nil)
	require.NoError(t, err)
	assert.Empty(t, progress.Lines)
	assert.Equal(t, 0, progress.OverallPercentage)
	assert.False(t, progress.OverBudget)
}

func TestUtilizationLevel(t *testing.T) {
	tests := map[int]UtilizationLevel{
		0:   UtilizationOK,
		49:  UtilizationOK,
		50:  UtilizationModerate,
		74:  UtilizationModerate,
		75:  UtilizationWarning,
		89:  UtilizationWarning,
		90:  UtilizationCritical,
		100: UtilizationCritical,
	}
	for percentage, want := range tests {
		assert.Equal(t, want, utilizationLevel(percentage), "percentage %d", percentage)
	}
}

func TestActiveBudget(t *testing.T) {
	feb := model.NewBudget("Feb", model.MonthKey{Year: 2024, Month: time.February}, nil)
	mar := model.NewBudget("Mar", march2024, nil)
	broken := model.Budget{ID: "broken", Month: "??"}

	got, ok := ActiveBudget([]model.Budget{broken, feb, mar}, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, mar.ID, got.ID)

	got, ok = ActiveBudget([]model.Budget{feb, mar}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, feb.ID, got.ID, "falls back to the first budget")

	_, ok = ActiveBudget(nil, time.Now())
	assert.False(t, ok)
}

func TestCappedPercent(t *testing.T) {
	assert.Equal(t, 0, cappedPercent(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, 33, cappedPercent(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, 67, cappedPercent(decimal.NewFromInt(2), decimal.NewFromInt(3)))
	assert.Equal(t, 100, cappedPercent(decimal.NewFromInt(7), decimal.NewFromInt(3)))
}
