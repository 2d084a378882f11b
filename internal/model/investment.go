package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvestmentType string

const (
	Stock      InvestmentType = "stock"
	Bond       InvestmentType = "bond"
	RealEstate InvestmentType = "real_estate"
	Crypto     InvestmentType = "crypto"
	OtherAsset InvestmentType = "other"
)

type RiskLevel string

const (
	LowRisk    RiskLevel = "low"
	MediumRisk RiskLevel = "medium"
	HighRisk   RiskLevel = "high"
)

// Investment позиция инвестиционного портфеля (расширенный вариант приложения)
type Investment struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         InvestmentType   `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrentValue decimal.Decimal  `json:"currentValue"`
	PurchaseDate Date             `json:"purchaseDate"`
	RiskLevel    RiskLevel        `json:"riskLevel"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

func (i *Investment) GenerateID() {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: empty investment name", ErrInvalidInput)
	}
	switch i.Type {
	case Stock, Bond, RealEstate, Crypto, OtherAsset:
	default:
		return fmt.Errorf("%w: unknown investment type %q", ErrInvalidInput, i.Type)
	}
	switch i.RiskLevel {
	case LowRisk, MediumRisk, HighRisk:
	default:
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, i.RiskLevel)
	}
	if !i.Amount.IsPositive() {
		return fmt.Errorf("%w: invested amount must be positive", ErrInvalidInput)
	}
	if i.CurrentValue.IsNegative() {
		return fmt.Errorf("%w: current value is negative", ErrInvalidInput)
	}
	if i.InterestRate != nil && i.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate is negative", ErrInvalidInput)
	}
	return nil
}
