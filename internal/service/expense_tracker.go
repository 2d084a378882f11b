package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// ExpenseTracker предоставляет методы для работы с финансовыми данными пользователя.
// Все вычисления делегируются Analyzer над снимком хранилища.
type ExpenseTracker struct {
	repo     Repository
	analyzer *Analyzer
	now      func() time.Time
}

// Repository определяет интерфейс для работы с хранилищем данных
type Repository interface {
	GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, userID int64, transaction *model.Transaction) error
	UpdateTransaction(ctx context.Context, userID int64, transaction model.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID string, userID int64) error

	GetCategories(ctx context.Context, userID int64) ([]model.Category, error)
	CreateCategory(ctx context.Context, userID int64, category *model.Category) error
	DeleteCategory(ctx context.Context, categoryID string, userID int64) error

	GetGoals(ctx context.Context, userID int64) ([]model.FinancialGoal, error)
	CreateGoal(ctx context.Context, userID int64, goal *model.FinancialGoal) error
	UpdateGoal(ctx context.Context, userID int64, goal model.FinancialGoal) error
	DeleteGoal(ctx context.Context, goalID string, userID int64) error

	GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error)
	SaveBudget(ctx context.Context, userID int64, budget *model.Budget) error

	GetInvestments(ctx context.Context, userID int64) ([]model.Investment, error)
	CreateInvestment(ctx context.Context, userID int64, investment *model.Investment) error

	Snapshot(ctx context.Context, userID int64) (model.Snapshot, error)
}

// NewExpenseTracker создает новый экземпляр ExpenseTracker. analyzer = nil означает настройки по умолчанию.
func NewExpenseTracker(repo Repository, analyzer *Analyzer) *ExpenseTracker {
	if analyzer == nil {
		analyzer = NewAnalyzer()
	}
	return &ExpenseTracker{
		repo:     repo,
		analyzer: analyzer,
		now:      time.Now,
	}
}

func (s *ExpenseTracker) Analyzer() *Analyzer {
	return s.analyzer
}

// AddTransaction добавляет транзакцию. Нулевая дата заменяется сегодняшним днем.
func (s *ExpenseTracker) AddTransaction(ctx context.Context, userID int64, transaction model.Transaction) (*model.Transaction, error) {
	if transaction.Date.IsZero() {
		transaction.Date = model.DateOf(s.now())
	}
	if err := s.checkTransaction(transaction); err != nil {
		return nil, err
	}

	transaction.GenerateID()
	if err := s.repo.CreateTransaction(ctx, userID, &transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.analyzer.logger.Debug().
		Int64("user_id", userID).
		Str("type", string(transaction.Type)).
		Str("category", transaction.Category).
		Msg("transaction added")
	return &transaction, nil
}

func (s *ExpenseTracker) UpdateTransaction(ctx context.Context, userID int64, transaction model.Transaction) error {
	if err := s.checkTransaction(transaction); err != nil {
		return err
	}
	if err := s.repo.UpdateTransaction(ctx, userID, transaction); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (s *ExpenseTracker) checkTransaction(transaction model.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	if transaction.Type == model.InvestmentFlow && !s.analyzer.features.Investments {
		return fmt.Errorf("%w: investments are disabled", model.ErrInvalidInput)
	}
	return nil
}

func (s *ExpenseTracker) DeleteTransaction(ctx context.Context, transactionID string, userID int64) error {
	return s.repo.DeleteTransaction(ctx, transactionID, userID)
}

func (s *ExpenseTracker) GetRecentTransactions(ctx context.Context, userID int64, limit int) ([]model.Transaction, error) {
	filter := model.TransactionFilter{
		Limit: limit,
	}
	return s.repo.GetTransactions(ctx, userID, filter)
}

// defaultCategories набор категорий нового пользователя
var defaultCategories = []model.Category{
	{Name: "Продукты", Type: model.Expense, Color: "#FF5252"},
	{Name: "Транспорт", Type: model.Expense, Color: "#00B0FF"},
	{Name: "Развлечения", Type: model.Expense, Color: "#7B61FF"},
	{Name: "Зарплата", Type: model.Income, Color: "#00E676"},
	{Name: "Акции", Type: model.InvestmentFlow, Color: "#FFD600"},
}

// CreateDefaultCategories создает стандартные категории, если у пользователя их еще нет
func (s *ExpenseTracker) CreateDefaultCategories(ctx context.Context, userID int64) error {
	existingCategories, err := s.repo.GetCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting existing categories: %w", err)
	}
	if len(existingCategories) > 0 {
		return nil
	}

	for _, category := range defaultCategories {
		if category.Type == model.InvestmentFlow && !s.analyzer.features.Investments {
			continue
		}
		if err := s.repo.CreateCategory(ctx, userID, &category); err != nil {
			return fmt.Errorf("error creating category %s: %w", category.Name, err)
		}
	}
	return nil
}

func (s *ExpenseTracker) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.repo.GetCategories(ctx, userID)
}

// CategoriesOf возвращает категории пользователя одного типа
func (s *ExpenseTracker) CategoriesOf(ctx context.Context, userID int64, flow model.TransactionType) ([]model.Category, error) {
	categories, err := s.repo.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == flow {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *ExpenseTracker) CreateCategory(ctx context.Context, userID int64, category *model.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	return s.repo.CreateCategory(ctx, userID, category)
}

func (s *ExpenseTracker) DeleteCategory(ctx context.Context, categoryID string, userID int64) error {
	return s.repo.DeleteCategory(ctx, categoryID, userID)
}

func (s *ExpenseTracker) AddGoal(ctx context.Context, userID int64, goal *model.FinancialGoal) error {
	if goal.Timeframe == "" {
		goal.Timeframe = timeframeFor(goal.EndDate.Time, s.now())
	}
	if err := goal.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateGoal(ctx, userID, goal); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// timeframeFor: до года - короткая цель, до пяти лет - средняя, дальше - долгая
func timeframeFor(end, now time.Time) model.Timeframe {
	switch {
	case end.Before(now.AddDate(1, 0, 0)):
		return model.ShortTerm
	case end.Before(now.AddDate(5, 0, 0)):
		return model.MediumTerm
	default:
		return model.LongTerm
	}
}

// ContributeToGoal заменяет цель копией с увеличенной накопленной суммой
func (s *ExpenseTracker) ContributeToGoal(ctx context.Context, userID int64, goalID string, amount decimal.Decimal) (*model.FinancialGoal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: contribution must be positive, got %s", model.ErrInvalidInput, amount)
	}
	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	for _, goal := range goals {
		if goal.ID != goalID {
			continue
		}
		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		if err := s.repo.UpdateGoal(ctx, userID, goal); err != nil {
			return nil, fmt.Errorf("failed to update goal: %w", err)
		}
		return &goal, nil
	}
	return nil, fmt.Errorf("goal %s: %w", goalID, model.ErrNotFound)
}

// GetGoals возвращает цели по убыванию прогресса
func (s *ExpenseTracker) GetGoals(ctx context.Context, userID int64) ([]model.FinancialGoal, error) {
	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SortGoalsByProgress(goals), nil
}

func (s *ExpenseTracker) DeleteGoal(ctx context.Context, goalID string, userID int64) error {
	return s.repo.DeleteGoal(ctx, goalID, userID)
}

// SetBudgetLimit задает лимит категории в бюджете месяца asOf.
// Бюджет месяца создается при первом лимите, TotalBudget пересчитывается.
func (s *ExpenseTracker) SetBudgetLimit(ctx context.Context, userID int64, category string, limit decimal.Decimal, asOf time.Time) (*model.Budget, error) {
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: budget limit is negative: %s", model.ErrInvalidInput, limit)
	}
	budgets, err := s.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	month := model.MonthOf(asOf)
	var budget *model.Budget
	for i := range budgets {
		if key, err := budgets[i].Key(); err == nil && key == month {
			budget = &budgets[i]
			break
		}
	}
	if budget == nil {
		b := model.NewBudget(fmt.Sprintf("Бюджет %s", formatPeriod(MonthlyReport, month.Start(), month.Start())), month, nil)
		budget = &b
	}

	updated := false
	for i := range budget.Items {
		if budget.Items[i].Category == category {
			budget.Items[i].BudgetAmount = limit
			updated = true
			break
		}
	}
	if !updated {
		item := model.BudgetItem{Category: category, BudgetAmount: limit, Month: budget.Month, Year: budget.Year}
		item.GenerateID()
		budget.Items = append(budget.Items, item)
	}
	budget.RecalculateTotal()

	if err := s.repo.SaveBudget(ctx, userID, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return budget, nil
}

func (s *ExpenseTracker) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	return s.repo.GetBudgets(ctx, userID)
}

func (s *ExpenseTracker) AddInvestment(ctx context.Context, userID int64, investment *model.Investment) error {
	if !s.analyzer.features.Investments {
		return fmt.Errorf("%w: investments are disabled", model.ErrInvalidInput)
	}
	if err := investment.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateInvestment(ctx, userID, investment); err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func (s *ExpenseTracker) GetInvestments(ctx context.Context, userID int64) ([]model.Investment, error) {
	return s.repo.GetInvestments(ctx, userID)
}

// GetReport строит отчет за период, содержащий asOf, со сравнением с предыдущим периодом
func (s *ExpenseTracker) GetReport(ctx context.Context, userID int64, reportType ReportType, asOf time.Time) (*Report, error) {
	start, end := ReportWindow(reportType, asOf)
	prevStart, _ := previousWindow(reportType, start)

	transactions, err := s.repo.GetTransactions(ctx, userID, model.TransactionFilter{
		StartDate: &prevStart,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get report transactions: %w", err)
	}
	categories, err := s.repo.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	report := BuildReport(s.analyzer.Transactions(transactions), reportType, asOf, model.NewCategoryIndex(categories))
	s.analyzer.logger.Debug().
		Int64("user_id", userID).
		Str("report", reportType.String()).
		Int("transactions", len(transactions)).
		Msg("report built")
	return report, nil
}

// Dashboard строит панель по текущему снимку пользователя
func (s *ExpenseTracker) Dashboard(ctx context.Context, userID int64, asOf time.Time) (*Dashboard, error) {
	snapshot, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s.analyzer.Dashboard(snapshot, asOf), nil
}
