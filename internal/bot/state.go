package bot

import (
	"time"

	"github.com/ivanoskov/fnhub/internal/model"
)

// stateTTL после этого незавершенный ввод забывается
const stateTTL = 30 * time.Minute

// action что бот ждет от пользователя следующим сообщением
type action int

const (
	actionNone action = iota
	actionTransaction
	actionNewCategory
	actionBudgetLine
	actionNewGoal
	actionContribution
)

// UserState хранит текущее состояние пользователя
type UserState struct {
	Action    action
	Flow      model.TransactionType
	Category  string
	GoalID    string
	UpdatedAt time.Time
}

func (b *Bot) setState(userID int64, state *UserState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state.UpdatedAt = b.now()
	b.states[userID] = state
}

func (b *Bot) getState(userID int64) (*UserState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.states[userID]
	if !ok {
		return nil, false
	}
	if b.now().Sub(state.UpdatedAt) > stateTTL {
		delete(b.states, userID)
		return nil, false
	}
	return state, true
}

func (b *Bot) clearState(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.states, userID)
}
