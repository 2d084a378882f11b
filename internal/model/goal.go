package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Timeframe горизонт финансовой цели
type Timeframe string

const (
	ShortTerm  Timeframe = "short"
	MediumTerm Timeframe = "medium"
	LongTerm   Timeframe = "long"
)

func (t Timeframe) Valid() bool {
	switch t {
	case ShortTerm, MediumTerm, LongTerm:
		return true
	}
	return false
}

// FinancialGoal цель накопления. CurrentAmount может превышать TargetAmount.
type FinancialGoal struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Category      string          `json:"category"`
	EndDate       Date            `json:"endDate"`
	Timeframe     Timeframe       `json:"timeframe"`
	Description   string          `json:"description,omitempty"`
	Color         string          `json:"color,omitempty"`
}

func (g *FinancialGoal) GenerateID() {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
}

func (g FinancialGoal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: empty goal title", ErrInvalidInput)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: goal target must be positive, got %s", ErrInvalidInput, g.TargetAmount)
	}
	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: goal current amount is negative", ErrInvalidInput)
	}
	if g.EndDate.IsZero() {
		return fmt.Errorf("%w: empty goal end date", ErrInvalidInput)
	}
	if g.Timeframe != "" && !g.Timeframe.Valid() {
		return fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, g.Timeframe)
	}
	return nil
}
