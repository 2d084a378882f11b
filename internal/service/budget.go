package service

import (
	"fmt"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// UtilizationLevel уровень заполнения строки бюджета для раскраски прогресс-бара
type UtilizationLevel string

const (
	UtilizationOK       UtilizationLevel = "ok"
	UtilizationModerate UtilizationLevel = "moderate"
	UtilizationWarning  UtilizationLevel = "warning"
	UtilizationCritical UtilizationLevel = "critical"
)

func utilizationLevel(percentage int) UtilizationLevel {
	switch {
	case percentage >= 90:
		return UtilizationCritical
	case percentage >= 75:
		return UtilizationWarning
	case percentage >= 50:
		return UtilizationModerate
	default:
		return UtilizationOK
	}
}

// BudgetLine фактическое исполнение одной строки бюджета
type BudgetLine struct {
	Category string          `json:"category"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Spent    decimal.Decimal `json:"spent"`
	// Percentage ограничен 100, Ratio - тот же процент без ограничения (2 знака)
	Percentage int              `json:"percentage"`
	Ratio      decimal.Decimal  `json:"ratio"`
	OverBy     decimal.Decimal  `json:"overBy"`
	Level      UtilizationLevel `json:"level"`
}

// BudgetProgress исполнение бюджета за его месяц
type BudgetProgress struct {
	BudgetID          string          `json:"budgetId"`
	Name              string          `json:"name"`
	Period            model.MonthKey  `json:"period"`
	Lines             []BudgetLine    `json:"lines"`
	TotalBudgeted     decimal.Decimal `json:"totalBudgeted"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	OverallPercentage int             `json:"overallPercentage"`
	OverallRatio      decimal.Decimal `json:"overallRatio"`
	OverBudget        bool            `json:"overBudget"`
	// MonthSpent все расходы месяца, включая категории без строки бюджета
	MonthSpent decimal.Decimal `json:"monthSpent"`
}

// TrackBudget пересчитывает фактические расходы по живым транзакциям,
// SpentAmount строк бюджета не используется. Строки с одинаковой категорией
// остаются независимыми и каждая видит все расходы категории.
func TrackBudget(budget model.Budget, transactions []model.Transaction) (BudgetProgress, error) {
	if err := budget.Validate(); err != nil {
		return BudgetProgress{}, fmt.Errorf("failed to track budget: %w", err)
	}
	key, err := budget.Key()
	if err != nil {
		return BudgetProgress{}, fmt.Errorf("failed to track budget: %w", err)
	}

	spend := SpendByCategoryForMonth(transactions, key)
	progress := BudgetProgress{
		BudgetID:   budget.ID,
		Name:       budget.Name,
		Period:     key,
		Lines:      make([]BudgetLine, 0, len(budget.Items)),
		MonthSpent: sumValues(spend),
	}

	for _, item := range budget.Items {
		spent := spend[item.Category]
		progress.Lines = append(progress.Lines, newBudgetLine(item.Category, item.BudgetAmount, spent))
		progress.TotalBudgeted = progress.TotalBudgeted.Add(item.BudgetAmount)
		progress.TotalSpent = progress.TotalSpent.Add(spent)
	}

	progress.OverallPercentage = cappedPercent(progress.TotalSpent, progress.TotalBudgeted)
	progress.OverallRatio = rawRatio(progress.TotalSpent, progress.TotalBudgeted)
	progress.OverBudget = progress.TotalSpent.GreaterThan(progress.TotalBudgeted)
	return progress, nil
}

func newBudgetLine(category string, budgeted, spent decimal.Decimal) BudgetLine {
	line := BudgetLine{
		Category:   category,
		Budgeted:   budgeted,
		Spent:      spent,
		Percentage: cappedPercent(spent, budgeted),
		Ratio:      rawRatio(spent, budgeted),
		OverBy:     decimal.Max(spent.Sub(budgeted), decimal.Zero),
	}
	line.Level = utilizationLevel(line.Percentage)
	return line
}

func rawRatio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return ratioPercent(part, whole).Round(2)
}

// ActiveBudget выбирает бюджет месяца asOf, иначе первый бюджет списка.
// Бюджеты с некорректным месяцем при поиске пропускаются.
func ActiveBudget(budgets []model.Budget, asOf time.Time) (model.Budget, bool) {
	if len(budgets) == 0 {
		return model.Budget{}, false
	}
	month := model.MonthOf(asOf)
	for _, b := range budgets {
		if key, err := b.Key(); err == nil && key == month {
			return b, true
		}
	}
	return budgets[0], true
}
