package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ivanoskov/fnhub/internal/model"
)

var _ Repository = (*Memory)(nil)

type userData struct {
	transactions []model.Transaction
	categories   []model.Category
	goals        []model.FinancialGoal
	budgets      []model.Budget
	investments  []model.Investment
}

// Memory хранит данные пользователей в памяти процесса
type Memory struct {
	mu    sync.RWMutex
	users map[int64]*userData
}

func NewMemory() *Memory {
	return &Memory{users: make(map[int64]*userData)}
}

// Import заменяет данные пользователя копией снимка
func (m *Memory) Import(userID int64, snapshot model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = &userData{
		transactions: cloneSlice(snapshot.Transactions),
		categories:   cloneSlice(snapshot.Categories),
		goals:        cloneSlice(snapshot.Goals),
		budgets:      cloneBudgets(snapshot.Budgets),
		investments:  cloneSlice(snapshot.Investments),
	}
}

func (m *Memory) user(userID int64) *userData {
	u, ok := m.users[userID]
	if !ok {
		u = &userData{}
		m.users[userID] = u
	}
	return u
}

func (m *Memory) read(userID int64) *userData {
	if u, ok := m.users[userID]; ok {
		return u
	}
	return &userData{}
}

func (m *Memory) Snapshot(ctx context.Context, userID int64) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u := m.read(userID)
	return model.Snapshot{
		Transactions: cloneSlice(u.transactions),
		Categories:   cloneSlice(u.categories),
		Goals:        cloneSlice(u.goals),
		Budgets:      cloneBudgets(u.budgets),
		Investments:  cloneSlice(u.investments),
	}, nil
}

func (m *Memory) CreateCategory(ctx context.Context, userID int64, category *model.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	category.GenerateID()
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.categories = append(u.categories, *category)
	return nil
}

func (m *Memory) GetCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSlice(m.read(userID).categories), nil
}

func (m *Memory) UpdateCategory(ctx context.Context, userID int64, category model.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return replaceByID(m.user(userID).categories, category, func(c model.Category) string { return c.ID }, "category")
}

func (m *Memory) DeleteCategory(ctx context.Context, id string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	var err error
	u.categories, err = removeByID(u.categories, id, func(c model.Category) string { return c.ID }, "category")
	return err
}

func (m *Memory) CreateTransaction(ctx context.Context, userID int64, transaction *model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	transaction.GenerateID()
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.transactions = append(u.transactions, *transaction)
	return nil
}

// GetTransactions возвращает транзакции по фильтру, новые сначала.
// Для одной даты позже добавленные идут раньше.
func (m *Memory) GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.read(userID).transactions
	result := make([]model.Transaction, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if filter.Match(all[i]) {
			result = append(result, all[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date.Time)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *Memory) GetTransactionsByCategory(ctx context.Context, userID int64, category string) ([]model.Transaction, error) {
	all, err := m.GetTransactions(ctx, userID, model.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	result := make([]model.Transaction, 0)
	for _, t := range all {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *Memory) UpdateTransaction(ctx context.Context, userID int64, transaction model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return replaceByID(m.user(userID).transactions, transaction, func(t model.Transaction) string { return t.ID }, "transaction")
}

func (m *Memory) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	var err error
	u.transactions, err = removeByID(u.transactions, id, func(t model.Transaction) string { return t.ID }, "transaction")
	return err
}

func (m *Memory) CreateGoal(ctx context.Context, userID int64, goal *model.FinancialGoal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	goal.GenerateID()
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.goals = append(u.goals, *goal)
	return nil
}

func (m *Memory) GetGoals(ctx context.Context, userID int64) ([]model.FinancialGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSlice(m.read(userID).goals), nil
}

func (m *Memory) UpdateGoal(ctx context.Context, userID int64, goal model.FinancialGoal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return replaceByID(m.user(userID).goals, goal, func(g model.FinancialGoal) string { return g.ID }, "goal")
}

func (m *Memory) DeleteGoal(ctx context.Context, id string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	var err error
	u.goals, err = removeByID(u.goals, id, func(g model.FinancialGoal) string { return g.ID }, "goal")
	return err
}

// SaveBudget создает бюджет или заменяет существующий с тем же ID
func (m *Memory) SaveBudget(ctx context.Context, userID int64, budget *model.Budget) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	budget.GenerateID()
	stored := cloneBudget(*budget)
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	for i := range u.budgets {
		if u.budgets[i].ID == stored.ID {
			u.budgets[i] = stored
			return nil
		}
	}
	u.budgets = append(u.budgets, stored)
	return nil
}

func (m *Memory) GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneBudgets(m.read(userID).budgets), nil
}

func (m *Memory) DeleteBudget(ctx context.Context, id string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	var err error
	u.budgets, err = removeByID(u.budgets, id, func(b model.Budget) string { return b.ID }, "budget")
	return err
}

func (m *Memory) CreateInvestment(ctx context.Context, userID int64, investment *model.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	investment.GenerateID()
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.investments = append(u.investments, *investment)
	return nil
}

func (m *Memory) GetInvestments(ctx context.Context, userID int64) ([]model.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSlice(m.read(userID).investments), nil
}

func (m *Memory) UpdateInvestment(ctx context.Context, userID int64, investment model.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return replaceByID(m.user(userID).investments, investment, func(i model.Investment) string { return i.ID }, "investment")
}

func (m *Memory) DeleteInvestment(ctx context.Context, id string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	var err error
	u.investments, err = removeByID(u.investments, id, func(i model.Investment) string { return i.ID }, "investment")
	return err
}

func replaceByID[T any](items []T, item T, id func(T) string, kind string) error {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", kind, id(item), model.ErrNotFound)
}

func removeByID[T any](items []T, target string, id func(T) string, kind string) ([]T, error) {
	for i := range items {
		if id(items[i]) == target {
			return append(items[:i:i], items[i+1:]...), nil
		}
	}
	return items, fmt.Errorf("%s %s: %w", kind, target, model.ErrNotFound)
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func cloneBudget(b model.Budget) model.Budget {
	b.Items = cloneSlice(b.Items)
	return b
}

func cloneBudgets(budgets []model.Budget) []model.Budget {
	out := make([]model.Budget, len(budgets))
	for i, b := range budgets {
		out[i] = cloneBudget(b)
	}
	return out
}
