package repository

import (
	"context"

	"github.com/ivanoskov/fnhub/internal/model"
)

// Repository хранилище канонических списков пользователя.
// Чтение всегда возвращает копии; отсутствующий ID дает model.ErrNotFound.
type Repository interface {
	// Категории
	CreateCategory(ctx context.Context, userID int64, category *model.Category) error
	GetCategories(ctx context.Context, userID int64) ([]model.Category, error)
	UpdateCategory(ctx context.Context, userID int64, category model.Category) error
	DeleteCategory(ctx context.Context, id string, userID int64) error

	// Транзакции
	CreateTransaction(ctx context.Context, userID int64, transaction *model.Transaction) error
	GetTransactions(ctx context.Context, userID int64, filter model.TransactionFilter) ([]model.Transaction, error)
	GetTransactionsByCategory(ctx context.Context, userID int64, category string) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, userID int64, transaction model.Transaction) error
	DeleteTransaction(ctx context.Context, id string, userID int64) error

	// Цели
	CreateGoal(ctx context.Context, userID int64, goal *model.FinancialGoal) error
	GetGoals(ctx context.Context, userID int64) ([]model.FinancialGoal, error)
	UpdateGoal(ctx context.Context, userID int64, goal model.FinancialGoal) error
	DeleteGoal(ctx context.Context, id string, userID int64) error

	// Бюджеты
	SaveBudget(ctx context.Context, userID int64, budget *model.Budget) error
	GetBudgets(ctx context.Context, userID int64) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id string, userID int64) error

	// Инвестиции
	CreateInvestment(ctx context.Context, userID int64, investment *model.Investment) error
	GetInvestments(ctx context.Context, userID int64) ([]model.Investment, error)
	UpdateInvestment(ctx context.Context, userID int64, investment model.Investment) error
	DeleteInvestment(ctx context.Context, id string, userID int64) error

	Snapshot(ctx context.Context, userID int64) (model.Snapshot, error)
}
