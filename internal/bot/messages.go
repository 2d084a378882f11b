package bot

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/service"
)

const welcomeText = "Добро пожаловать в бот учёта финансов! 💰\n\n" +
	"Я помогу вам отслеживать доходы, расходы и инвестиции. Вот что я умею:\n\n" +
	"• Добавлять доходы и расходы\n" +
	"• Показывать отчёты и графики\n" +
	"• Прогнозировать расходы по категориям\n" +
	"• Следить за бюджетом и целями\n\n" +
	"Выберите действие:"

var trendEmoji = map[service.Trend]string{
	service.TrendIncrease: "📈",
	service.TrendDecrease: "📉",
	service.TrendStable:   "➡️",
}

var levelEmoji = map[service.UtilizationLevel]string{
	service.UtilizationOK:       "🟢",
	service.UtilizationModerate: "🔵",
	service.UtilizationWarning:  "🟡",
	service.UtilizationCritical: "🔴",
}

var goalEmoji = map[service.GoalStatus]string{
	service.GoalAlmost: "🏁",
	service.GoalGood:   "✅",
	service.GoalFair:   "⏳",
	service.GoalBehind: "⚠️",
}

func flowEmoji(t model.TransactionType) string {
	switch t {
	case model.Income:
		return "💰"
	case model.InvestmentFlow:
		return "📈"
	default:
		return "💸"
	}
}

func formatBalance(f *format.Formatter, s service.BalanceSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💵 Баланс: %s\n\n", f.Money(s.CurrentBalance))
	fmt.Fprintf(&sb, "💰 Доходы: %s\n", f.Money(s.Income))
	fmt.Fprintf(&sb, "💸 Расходы: %s\n", f.Money(s.Expenses))
	if !s.Investments.IsZero() {
		fmt.Fprintf(&sb, "📈 Инвестиции: %s\n", f.Money(s.Investments))
	}
	return sb.String()
}

func formatShares(sb *strings.Builder, f *format.Formatter, title string, shares []service.CategoryShare) {
	if len(shares) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s\n", title)
	for _, s := range shares {
		fmt.Fprintf(sb, "• %s: %s (%s)\n", s.Name, f.Money(s.Amount), f.PercentDecimal(s.Share))
	}
}

func formatReport(f *format.Formatter, r *service.Report) string {
	var sb strings.Builder
	cur := r.Current
	fmt.Fprintf(&sb, "📊 Отчет: %s\n\n", r.Period)
	fmt.Fprintf(&sb, "💰 Доходы: %s (%s)\n", f.Money(cur.Income), f.PercentDecimal(r.Comparison.IncomeChange))
	fmt.Fprintf(&sb, "💸 Расходы: %s (%s)\n", f.Money(cur.Expenses), f.PercentDecimal(r.Comparison.ExpenseChange))
	if !cur.Investments.IsZero() {
		fmt.Fprintf(&sb, "📈 Инвестиции: %s\n", f.Money(cur.Investments))
	}
	fmt.Fprintf(&sb, "💵 Баланс: %s\n", f.SignedMoney(cur.CurrentBalance))
	fmt.Fprintf(&sb, "🏦 Норма сбережений: %s\n", f.PercentDecimal(cur.SavingsRate))
	if cur.ExpenseCount > 0 {
		fmt.Fprintf(&sb, "📅 Средний расход в день: %s\n", f.Money(cur.DailyAvgExpense))
	}
	if cur.MaxExpense != nil {
		fmt.Fprintf(&sb, "🔝 Крупнейший расход: %s, %s\n", cur.MaxExpense.Category, f.Money(cur.MaxExpense.Amount))
	}

	formatShares(&sb, f, "💸 Расходы по категориям:", cur.ExpenseCategories)
	formatShares(&sb, f, "💰 Доходы по категориям:", cur.IncomeCategories)

	if c := r.FastestGrowingExpense; c != nil {
		fmt.Fprintf(&sb, "\n📈 Быстрее всего растет: %s (+%s)\n", c.Name, f.Money(c.ChangeValue))
	}
	if c := r.LargestDropExpense; c != nil {
		fmt.Fprintf(&sb, "📉 Сильнее всего снизились: %s (%s)\n", c.Name, f.SignedMoney(c.ChangeValue))
	}
	return sb.String()
}

func formatPredictions(f *format.Formatter, predictions, alerts []service.CategoryPrediction) string {
	if len(predictions) == 0 {
		return "🔮 Недостаточно данных для прогноза. Нужны расходы минимум за два месяца."
	}
	var sb strings.Builder
	sb.WriteString("🔮 Прогноз на следующий месяц:\n\n")
	for _, p := range predictions {
		fmt.Fprintf(&sb, "%s %s: %s (сейчас %s, %s)\n",
			trendEmoji[p.Trend], p.Category, f.Money(p.PredictedAmount), f.Money(p.ActualAmount), f.Percent(p.Percentage))
	}
	if len(alerts) > 0 {
		sb.WriteString("\n⚠️ Внимание, резкий рост:\n")
		for _, a := range alerts {
			fmt.Fprintf(&sb, "• %s: +%s\n", a.Category, f.Percent(a.Percentage))
		}
	}
	return sb.String()
}

func formatBudget(f *format.Formatter, p *service.BudgetProgress) string {
	if p == nil {
		return "💼 Бюджет на этот месяц не задан. Нажмите «Добавить лимит»."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 %s\n\n", p.Name)
	for _, line := range p.Lines {
		fmt.Fprintf(&sb, "%s %s: %s из %s (%s)\n",
			levelEmoji[line.Level], line.Category, f.Money(line.Spent), f.Money(line.Budgeted), f.Percent(line.Percentage))
		if line.OverBy.IsPositive() {
			fmt.Fprintf(&sb, "   превышение на %s\n", f.Money(line.OverBy))
		}
	}
	fmt.Fprintf(&sb, "\nИтого: %s из %s (%s)\n", f.Money(p.TotalSpent), f.Money(p.TotalBudgeted), f.Percent(p.OverallPercentage))
	if p.OverBudget {
		sb.WriteString("🔴 Бюджет превышен\n")
	}
	return sb.String()
}

func formatGoals(f *format.Formatter, goals []service.GoalProgress, byID map[string]model.FinancialGoal) string {
	if len(goals) == 0 {
		return "🎯 У вас пока нет целей."
	}
	var sb strings.Builder
	sb.WriteString("🎯 Ваши цели:\n\n")
	for _, g := range goals {
		goal := byID[g.GoalID]
		fmt.Fprintf(&sb, "%s %s: %s из %s (%s)\n",
			goalEmoji[g.Status], g.Title, f.Money(goal.CurrentAmount), f.Money(goal.TargetAmount), f.Percent(g.Percent))
		switch {
		case g.Overdue:
			fmt.Fprintf(&sb, "   срок истек %s\n", f.Date(goal.EndDate))
		case g.DueSoon:
			fmt.Fprintf(&sb, "   осталось %d дн., нужно еще %s\n", g.DaysRemaining, f.Money(g.Remaining))
		default:
			fmt.Fprintf(&sb, "   до %s\n", f.Date(goal.EndDate))
		}
	}
	return sb.String()
}

func formatHistory(f *format.Formatter, transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return "🗂 Операций пока нет."
	}
	var sb strings.Builder
	sb.WriteString("🗂 Последние операции:\n\n")
	for _, t := range transactions {
		fmt.Fprintf(&sb, "%s %s %s: %s", flowEmoji(t.Type), f.Date(t.Date), t.Category, f.Money(t.Amount))
		if t.Description != "" {
			fmt.Fprintf(&sb, " (%s)", t.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatCategories(categories []model.Category) string {
	var sb strings.Builder
	sb.WriteString("📋 Ваши категории:\n")
	for _, flow := range []model.TransactionType{model.Income, model.Expense, model.InvestmentFlow} {
		fmt.Fprintf(&sb, "\n%s %s:\n", flowEmoji(flow), flowTitle(flow))
		for _, c := range categories {
			if c.Type == flow {
				fmt.Fprintf(&sb, "• %s\n", c.Name)
			}
		}
	}
	return sb.String()
}

func flowTitle(t model.TransactionType) string {
	switch t {
	case model.Income:
		return "Доходы"
	case model.InvestmentFlow:
		return "Инвестиции"
	default:
		return "Расходы"
	}
}
