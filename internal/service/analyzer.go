package service

import (
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Features включает необязательные модули движка
type Features struct {
	Investments bool `json:"investments"`
	Budgets     bool `json:"budgets"`
	Goals       bool `json:"goals"`
}

// AllFeatures включает все модули
func AllFeatures() Features {
	return Features{Investments: true, Budgets: true, Goals: true}
}

// topChartCategories сколько категорий прогноза рисует график трендов
const topChartCategories = 3

// Analyzer собирает все вычисления в одну панель с учетом включенных модулей
type Analyzer struct {
	features    Features
	rules       PredictionRules
	inflation   decimal.Decimal
	trendMonths int
	logger      zerolog.Logger
}

type Option func(*Analyzer)

func WithFeatures(f Features) Option {
	return func(a *Analyzer) { a.features = f }
}

func WithPredictionRules(r PredictionRules) Option {
	return func(a *Analyzer) { a.rules = r }
}

func WithInflation(inflation decimal.Decimal) Option {
	return func(a *Analyzer) { a.inflation = inflation }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func WithTrendMonths(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.trendMonths = n
		}
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		features:    AllFeatures(),
		rules:       DefaultPredictionRules(),
		inflation:   DefaultInflation,
		trendMonths: DefaultTrendMonths,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Features() Features {
	return a.features
}

func (a *Analyzer) Rules() PredictionRules {
	return a.rules
}

// WidgetError ошибка одного виджета панели; остальная панель строится
type WidgetError struct {
	Widget string
	Err    error
}

func (e *WidgetError) Error() string {
	return e.Widget + ": " + e.Err.Error()
}

func (e *WidgetError) Unwrap() error {
	return e.Err
}

func (e *WidgetError) MarshalText() ([]byte, error) {
	return []byte(e.Error()), nil
}

// Dashboard все производные данные для одного снимка
type Dashboard struct {
	AsOf          model.Date             `json:"asOf"`
	Features      Features               `json:"features"`
	Summary       BalanceSummary         `json:"summary"`
	Monthly       []MonthBucket          `json:"monthly"`
	Daily         []DayBucket            `json:"daily"`
	Expenses      []CategoryShare        `json:"expenses"`
	Income        []CategoryShare        `json:"income"`
	Predictions   []CategoryPrediction   `json:"predictions"`
	Alerts        []CategoryPrediction   `json:"alerts"`
	TrendSeries   []MonthSpend           `json:"trendSeries"`
	TopCategories []string               `json:"topCategories"`
	Budget        *BudgetProgress        `json:"budget,omitempty"`
	Goals         []GoalProgress         `json:"goals,omitempty"`
	Investments   *InvestmentPerformance `json:"investments,omitempty"`
	Errors        []*WidgetError         `json:"errors,omitempty"`
}

// Transactions отбрасывает инвестиционные транзакции, если модуль инвестиций выключен
func (a *Analyzer) Transactions(transactions []model.Transaction) []model.Transaction {
	if a.features.Investments {
		return transactions
	}
	filtered := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type != model.InvestmentFlow {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Predict прогноз и тревоги по правилам анализатора
func (a *Analyzer) Predict(transactions []model.Transaction) ([]CategoryPrediction, []CategoryPrediction) {
	predictions := a.rules.Predict(a.Transactions(transactions))
	return predictions, a.rules.Alerts(predictions)
}

// Investments сводка портфеля с инфляцией анализатора
func (a *Analyzer) Investments(investments []model.Investment) InvestmentPerformance {
	return EvaluateInvestments(investments, a.inflation)
}

// Dashboard строит панель. Ошибка бюджета или цели не прерывает построение:
// она попадает в Errors, а виджет пропускается.
func (a *Analyzer) Dashboard(snapshot model.Snapshot, asOf time.Time) *Dashboard {
	txs := a.Transactions(snapshot.Transactions)
	categories := model.NewCategoryIndex(snapshot.Categories)
	month := model.MonthOf(asOf)
	monthTxs := make([]model.Transaction, 0)
	for _, t := range txs {
		if month.Contains(t.Date.Time) {
			monthTxs = append(monthTxs, t)
		}
	}

	predictions := a.rules.Predict(txs)
	d := &Dashboard{
		AsOf:          model.DateOf(asOf),
		Features:      a.features,
		Summary:       Summarize(txs),
		Monthly:       BucketByMonth(txs),
		Daily:         BucketByDay(txs),
		Expenses:      CategoryBreakdown(monthTxs, model.Expense, categories),
		Income:        CategoryBreakdown(monthTxs, model.Income, categories),
		Predictions:   predictions,
		Alerts:        a.rules.Alerts(predictions),
		TrendSeries:   CategoryTrendSeries(txs, a.trendMonths),
		TopCategories: TopCategories(predictions, topChartCategories),
	}

	if a.features.Budgets {
		if budget, ok := ActiveBudget(snapshot.Budgets, asOf); ok {
			progress, err := TrackBudget(budget, txs)
			if err != nil {
				d.fail(a.logger, "budget", err)
			} else {
				d.Budget = &progress
			}
		}
	}

	if a.features.Goals {
		d.Goals = make([]GoalProgress, 0, len(snapshot.Goals))
		for _, goal := range SortGoalsByProgress(snapshot.Goals) {
			progress, err := ComputeGoalProgress(goal, asOf)
			if err != nil {
				d.fail(a.logger, "goal", err)
				continue
			}
			d.Goals = append(d.Goals, progress)
		}
	}

	if a.features.Investments {
		perf := a.Investments(snapshot.Investments)
		d.Investments = &perf
	}

	a.logger.Debug().
		Int("transactions", len(txs)).
		Int("predictions", len(d.Predictions)).
		Int("errors", len(d.Errors)).
		Str("as_of", d.AsOf.String()).
		Msg("dashboard computed")
	return d
}

func (d *Dashboard) fail(logger zerolog.Logger, widget string, err error) {
	logger.Warn().Err(err).Str("widget", widget).Msg("widget skipped")
	d.Errors = append(d.Errors, &WidgetError{Widget: widget, Err: err})
}
