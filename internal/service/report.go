package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// ReportType определяет тип отчета
type ReportType int

const (
	DailyReport ReportType = iota
	WeeklyReport
	MonthlyReport
	YearlyReport
)

func (r ReportType) String() string {
	switch r {
	case DailyReport:
		return "day"
	case WeeklyReport:
		return "week"
	case MonthlyReport:
		return "month"
	case YearlyReport:
		return "year"
	}
	return fmt.Sprintf("ReportType(%d)", int(r))
}

// ParseReportType принимает day, week, month, year
func ParseReportType(s string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return DailyReport, nil
	case "week", "weekly":
		return WeeklyReport, nil
	case "month", "monthly", "":
		return MonthlyReport, nil
	case "year", "yearly":
		return YearlyReport, nil
	}
	return 0, fmt.Errorf("%w: unknown report type %q", model.ErrInvalidInput, s)
}

var monthNames = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// PeriodStats содержит статистику за период
type PeriodStats struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	BalanceSummary
	IncomeCount       int                `json:"incomeCount"`
	ExpenseCount      int                `json:"expenseCount"`
	AvgIncome         decimal.Decimal    `json:"avgIncome"`
	AvgExpense        decimal.Decimal    `json:"avgExpense"`
	DailyAvgIncome    decimal.Decimal    `json:"dailyAvgIncome"`
	DailyAvgExpense   decimal.Decimal    `json:"dailyAvgExpense"`
	SavingsRate       decimal.Decimal    `json:"savingsRate"`
	MaxIncome         *model.Transaction `json:"maxIncome,omitempty"`
	MaxExpense        *model.Transaction `json:"maxExpense,omitempty"`
	ExpenseCategories []CategoryShare    `json:"expenseCategories"`
	IncomeCategories  []CategoryShare    `json:"incomeCategories"`
}

// PeriodComparison изменения текущего периода к предыдущему в процентах
type PeriodComparison struct {
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
	BalanceChange decimal.Decimal `json:"balanceChange"`
}

// CategoryChange изменение расходов категории между периодами
type CategoryChange struct {
	Name          string          `json:"name"`
	ChangeValue   decimal.Decimal `json:"changeValue"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// Report отчет за период со сравнением с предыдущим периодом той же длины
type Report struct {
	Type                  ReportType       `json:"-"`
	Period                string           `json:"period"`
	Current               PeriodStats      `json:"current"`
	Previous              PeriodStats      `json:"previous"`
	Comparison            PeriodComparison `json:"comparison"`
	FastestGrowingExpense *CategoryChange  `json:"fastestGrowingExpense,omitempty"`
	LargestDropExpense    *CategoryChange  `json:"largestDropExpense,omitempty"`
	Daily                 []DayBucket      `json:"daily"`
}

// ReportWindow возвращает границы периода отчета, содержащего asOf (обе включительно)
func ReportWindow(reportType ReportType, asOf time.Time) (time.Time, time.Time) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	var start, next time.Time
	switch reportType {
	case DailyReport:
		start, next = day, day.AddDate(0, 0, 1)
	case WeeklyReport:
		start, next = day.AddDate(0, 0, -6), day.AddDate(0, 0, 1)
	case YearlyReport:
		start = time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(1, 0, 0)
	default:
		start = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 1, 0)
	}
	return start, next.Add(-time.Nanosecond)
}

func previousWindow(reportType ReportType, start time.Time) (time.Time, time.Time) {
	var prevStart time.Time
	switch reportType {
	case DailyReport:
		prevStart = start.AddDate(0, 0, -1)
	case WeeklyReport:
		prevStart = start.AddDate(0, 0, -7)
	case YearlyReport:
		prevStart = start.AddDate(-1, 0, 0)
	default:
		prevStart = start.AddDate(0, -1, 0)
	}
	return prevStart, start.Add(-time.Nanosecond)
}

// BuildReport строит отчет типа reportType на дату asOf
func BuildReport(transactions []model.Transaction, reportType ReportType, asOf time.Time, lookup model.CategoryLookup) *Report {
	start, end := ReportWindow(reportType, asOf)
	prevStart, prevEnd := previousWindow(reportType, start)

	current := inWindow(transactions, start, end)
	previous := inWindow(transactions, prevStart, prevEnd)

	report := &Report{
		Type:     reportType,
		Period:   formatPeriod(reportType, start, end),
		Current:  analyzePeriod(current, start, end, lookup),
		Previous: analyzePeriod(previous, prevStart, prevEnd, lookup),
		Daily:    BucketByDay(current),
	}
	report.Comparison = PeriodComparison{
		IncomeChange:  trendPercent(report.Current.Income, report.Previous.Income),
		ExpenseChange: trendPercent(report.Current.Expenses, report.Previous.Expenses),
		BalanceChange: trendPercent(report.Current.CurrentBalance, report.Previous.CurrentBalance),
	}
	report.FastestGrowingExpense, report.LargestDropExpense = findCategoryChanges(report.Current.ExpenseCategories, report.Previous.ExpenseCategories)
	return report
}

func inWindow(transactions []model.Transaction, start, end time.Time) []model.Transaction {
	filter := model.TransactionFilter{StartDate: &start, EndDate: &end}
	result := make([]model.Transaction, 0)
	for _, t := range transactions {
		if filter.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

// analyzePeriod анализирует транзакции за период
func analyzePeriod(transactions []model.Transaction, start, end time.Time, lookup model.CategoryLookup) PeriodStats {
	stats := PeriodStats{
		Start:             start,
		End:               end,
		BalanceSummary:    Summarize(transactions),
		ExpenseCategories: CategoryBreakdown(transactions, model.Expense, lookup),
		IncomeCategories:  CategoryBreakdown(transactions, model.Income, lookup),
	}

	for i := range transactions {
		t := transactions[i]
		switch t.Type {
		case model.Income:
			stats.IncomeCount++
			if stats.MaxIncome == nil || t.Magnitude().GreaterThan(stats.MaxIncome.Magnitude()) {
				stats.MaxIncome = &t
			}
		case model.Expense:
			stats.ExpenseCount++
			if stats.MaxExpense == nil || t.Magnitude().GreaterThan(stats.MaxExpense.Magnitude()) {
				stats.MaxExpense = &t
			}
		}
	}

	days := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
	stats.DailyAvgIncome = stats.Income.Div(days).Round(2)
	stats.DailyAvgExpense = stats.Expenses.Div(days).Round(2)
	if stats.IncomeCount > 0 {
		stats.AvgIncome = stats.Income.Div(decimal.NewFromInt(int64(stats.IncomeCount))).Round(2)
	}
	if stats.ExpenseCount > 0 {
		stats.AvgExpense = stats.Expenses.Div(decimal.NewFromInt(int64(stats.ExpenseCount))).Round(2)
	}
	if stats.Income.IsPositive() {
		stats.SavingsRate = ratioPercent(stats.Income.Sub(stats.Expenses), stats.Income).Round(1)
	}
	return stats
}

// trendPercent процент изменения current относительно previous; рост с нуля = 100%
func trendPercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(1)
}

func findCategoryChanges(current, previous []CategoryShare) (growth, drop *CategoryChange) {
	prevAmounts := make(map[string]decimal.Decimal, len(previous))
	for _, s := range previous {
		prevAmounts[s.Name] = s.Amount
	}

	for _, s := range current {
		prev, ok := prevAmounts[s.Name]
		if !ok || prev.IsZero() {
			continue
		}
		change := CategoryChange{
			Name:          s.Name,
			ChangeValue:   s.Amount.Sub(prev),
			ChangePercent: trendPercent(s.Amount, prev),
		}
		if change.ChangePercent.IsPositive() && (growth == nil || change.ChangePercent.GreaterThan(growth.ChangePercent)) {
			c := change
			growth = &c
		}
		if change.ChangePercent.IsNegative() && (drop == nil || change.ChangePercent.LessThan(drop.ChangePercent)) {
			c := change
			drop = &c
		}
	}
	return growth, drop
}

func formatPeriod(reportType ReportType, start, end time.Time) string {
	switch reportType {
	case DailyReport:
		return start.Format("02.01.2006")
	case MonthlyReport:
		return fmt.Sprintf("%s %d", monthNames[start.Month()-1], start.Year())
	case YearlyReport:
		return start.Format("2006")
	default:
		return fmt.Sprintf("%s - %s", start.Format("02.01.2006"), end.Format("02.01.2006"))
	}
}
