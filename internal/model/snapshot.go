package model

import "time"

// Snapshot неизменяемый срез канонических списков, который передается в движок
type Snapshot struct {
	Transactions []Transaction   `json:"transactions"`
	Categories   []Category      `json:"categories"`
	Goals        []FinancialGoal `json:"goals"`
	Budgets      []Budget        `json:"budgets"`
	Investments  []Investment    `json:"investments"`
}

// TransactionFilter отбор транзакций в хранилище
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      TransactionType // пусто = любой тип
	Limit     int
}

// Match проверяет транзакцию по датам и типу (Limit применяет хранилище)
func (f TransactionFilter) Match(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	return true
}
