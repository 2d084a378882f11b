package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// GoalStatus оценка продвижения к цели для раскраски карточки
type GoalStatus string

const (
	GoalBehind GoalStatus = "behind"
	GoalFair   GoalStatus = "fair"
	GoalGood   GoalStatus = "good"
	GoalAlmost GoalStatus = "almost"
)

// dueSoonDays срок, начиная с которого оставшиеся дни подсвечиваются
const dueSoonDays = 30

func goalStatus(percent int) GoalStatus {
	switch {
	case percent >= 90:
		return GoalAlmost
	case percent >= 60:
		return GoalGood
	case percent >= 30:
		return GoalFair
	default:
		return GoalBehind
	}
}

// GoalProgress прогресс цели на дату
type GoalProgress struct {
	GoalID string `json:"goalId"`
	Title  string `json:"title"`
	// Percent ограничен 100, Ratio - процент без ограничения (2 знака)
	Percent       int             `json:"percent"`
	Ratio         decimal.Decimal `json:"ratio"`
	Remaining     decimal.Decimal `json:"remaining"`
	DaysRemaining int             `json:"daysRemaining"`
	Overdue       bool            `json:"overdue"`
	DueSoon       bool            `json:"dueSoon"`
	Status        GoalStatus      `json:"status"`
}

// ComputeGoalProgress считает процент выполнения и оставшиеся дни.
// DaysRemaining округляется вверх и может быть отрицательным.
func ComputeGoalProgress(goal model.FinancialGoal, asOf time.Time) (GoalProgress, error) {
	if !goal.TargetAmount.IsPositive() {
		return GoalProgress{}, fmt.Errorf("%w: goal %q: target amount must be positive, got %s",
			model.ErrInvalidInput, goal.ID, goal.TargetAmount)
	}

	current := goal.CurrentAmount.Abs()
	days := daysUntil(goal.EndDate.Time, asOf)
	progress := GoalProgress{
		GoalID:        goal.ID,
		Title:         goal.Title,
		Percent:       cappedPercent(current, goal.TargetAmount),
		Ratio:         ratioPercent(current, goal.TargetAmount).Round(2),
		Remaining:     decimal.Max(goal.TargetAmount.Sub(current), decimal.Zero),
		DaysRemaining: days,
		Overdue:       days < 0,
		DueSoon:       days <= dueSoonDays,
	}
	progress.Status = goalStatus(progress.Percent)
	return progress, nil
}

func daysUntil(end, asOf time.Time) int {
	return int(math.Ceil(end.Sub(asOf).Hours() / 24))
}

// SortGoalsByProgress возвращает новый список целей по убыванию
// |current|/target без ограничения 100%, как в ComputeGoalProgress. Цели с target <= 0 идут в конце.
func SortGoalsByProgress(goals []model.FinancialGoal) []model.FinancialGoal {
	sorted := make([]model.FinancialGoal, len(goals))
	copy(sorted, goals)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		aValid, bValid := a.TargetAmount.IsPositive(), b.TargetAmount.IsPositive()
		if aValid != bValid {
			return aValid
		}
		if !aValid {
			return false
		}
		return a.CurrentAmount.Abs().Div(a.TargetAmount).GreaterThan(b.CurrentAmount.Abs().Div(b.TargetAmount))
	})
	return sorted
}
