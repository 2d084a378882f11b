package bot

import (
	"fmt"
	"strings"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// parseAmount разбирает положительную сумму, допускает запятую как разделитель
func parseAmount(text string) (decimal.Decimal, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", model.ErrInvalidInput, text)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", model.ErrInvalidInput, amount)
	}
	return amount, nil
}

// parseTransactionInput разбирает "<сумма> <описание>"
func parseTransactionInput(text string) (decimal.Decimal, string, error) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return decimal.Zero, "", fmt.Errorf("%w: expected \"<amount> <description>\"", model.ErrInvalidInput)
	}
	amount, err := parseAmount(parts[0])
	if err != nil {
		return decimal.Zero, "", err
	}
	return amount, strings.TrimSpace(parts[1]), nil
}

// parseBudgetInput разбирает "<категория> <лимит>", имя категории может содержать пробелы
func parseBudgetInput(text string) (string, decimal.Decimal, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", decimal.Zero, fmt.Errorf("%w: expected \"<category> <limit>\"", model.ErrInvalidInput)
	}
	limit, err := parseAmount(fields[len(fields)-1])
	if err != nil {
		return "", decimal.Zero, err
	}
	return strings.Join(fields[:len(fields)-1], " "), limit, nil
}

// parseGoalInput разбирает "<цель> <YYYY-MM-DD> <название>"
func parseGoalInput(text string) (model.FinancialGoal, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return model.FinancialGoal{}, fmt.Errorf("%w: expected \"<target> <YYYY-MM-DD> <title>\"", model.ErrInvalidInput)
	}
	target, err := parseAmount(fields[0])
	if err != nil {
		return model.FinancialGoal{}, err
	}
	deadline, err := model.ParseDate(fields[1])
	if err != nil {
		return model.FinancialGoal{}, err
	}
	return model.FinancialGoal{
		Title:        strings.Join(fields[2:], " "),
		TargetAmount: target,
		EndDate:      deadline,
	}, nil
}
