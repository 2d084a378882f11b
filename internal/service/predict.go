package service

import (
	"sort"

	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/shopspring/decimal"
)

// Trend направление изменения расходов категории от месяца к месяцу
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendStable   Trend = "stable"
)

// DefaultTrendMonths сколько последних месяцев показывает график трендов
const DefaultTrendMonths = 6

// CategoryPrediction прогноз расходов категории на следующий месяц
type CategoryPrediction struct {
	Category        string          `json:"category"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	PreviousAmount  decimal.Decimal `json:"previousAmount"`
	PredictedAmount decimal.Decimal `json:"predictedAmount"`
	Trend           Trend           `json:"trend"`
	// Percentage модуль изменения к прошлому месяцу, знак передает Trend
	Percentage int `json:"percentage"`
}

// PredictionRules параметры эвристики прогноза
type PredictionRules struct {
	// StableBand изменение в пределах ±StableBand процентов считается стабильным
	StableBand     int
	GrowthFactor   decimal.Decimal
	DecayFactor    decimal.Decimal
	AlertThreshold int
}

// DefaultPredictionRules: ±5%, рост x1.10, снижение x0.90, тревога при росте больше 20%
func DefaultPredictionRules() PredictionRules {
	return PredictionRules{
		StableBand:     5,
		GrowthFactor:   decimal.RequireFromString("1.10"),
		DecayFactor:    decimal.RequireFromString("0.90"),
		AlertThreshold: 20,
	}
}

// Predict строит прогноз с правилами по умолчанию
func Predict(transactions []model.Transaction) []CategoryPrediction {
	return DefaultPredictionRules().Predict(transactions)
}

// SpendingAlerts отбирает тревожные прогнозы с правилами по умолчанию
func SpendingAlerts(predictions []CategoryPrediction) []CategoryPrediction {
	return DefaultPredictionRules().Alerts(predictions)
}

// Predict сравнивает расходы двух последних месяцев, в которых были расходы.
// Меньше двух месяцев данных - пустой результат.
// Результат отсортирован по убыванию PredictedAmount, при равенстве по имени категории.
func (r PredictionRules) Predict(transactions []model.Transaction) []CategoryPrediction {
	byMonth := SpendByMonthAndCategory(transactions)
	months := sortedMonths(byMonth)
	if len(months) < 2 {
		return []CategoryPrediction{}
	}

	current := byMonth[months[len(months)-1]]
	previous := byMonth[months[len(months)-2]]

	predictions := make([]CategoryPrediction, 0, len(current))
	for category, currentAmount := range current {
		predictions = append(predictions, r.classify(category, currentAmount, previous[category]))
	}

	sort.Slice(predictions, func(i, j int) bool {
		if c := predictions[i].PredictedAmount.Cmp(predictions[j].PredictedAmount); c != 0 {
			return c > 0
		}
		return predictions[i].Category < predictions[j].Category
	})
	return predictions
}

func (r PredictionRules) classify(category string, currentAmount, previousAmount decimal.Decimal) CategoryPrediction {
	p := CategoryPrediction{
		Category:        category,
		ActualAmount:    currentAmount,
		PreviousAmount:  previousAmount,
		PredictedAmount: currentAmount,
		Trend:           TrendStable,
	}
	if !previousAmount.IsPositive() {
		return p
	}

	changePct := roundHalfUp(ratioPercent(currentAmount.Sub(previousAmount), previousAmount))
	switch {
	case changePct > r.StableBand:
		p.Trend = TrendIncrease
		p.PredictedAmount = currentAmount.Mul(r.GrowthFactor)
	case changePct < -r.StableBand:
		p.Trend = TrendDecrease
		p.PredictedAmount = currentAmount.Mul(r.DecayFactor)
	}
	if changePct < 0 {
		changePct = -changePct
	}
	p.Percentage = changePct
	return p
}

// Alerts оставляет рост выше AlertThreshold процентов, по убыванию процента.
// Сортировка стабильная: равные проценты сохраняют порядок прогноза.
func (r PredictionRules) Alerts(predictions []CategoryPrediction) []CategoryPrediction {
	alerts := make([]CategoryPrediction, 0)
	for _, p := range predictions {
		if p.Trend == TrendIncrease && p.Percentage > r.AlertThreshold {
			alerts = append(alerts, p)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Percentage > alerts[j].Percentage
	})
	return alerts
}

// MonthSpend расходы по категориям за один месяц
type MonthSpend struct {
	Period     model.MonthKey             `json:"period"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

// CategoryTrendSeries возвращает расходы по категориям за последние months месяцев
// в хронологическом порядке. months <= 0 означает DefaultTrendMonths.
func CategoryTrendSeries(transactions []model.Transaction, months int) []MonthSpend {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	byMonth := SpendByMonthAndCategory(transactions)
	keys := sortedMonths(byMonth)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	series := make([]MonthSpend, 0, len(keys))
	for _, key := range keys {
		series = append(series, MonthSpend{Period: key, ByCategory: byMonth[key]})
	}
	return series
}

// TopCategories первые n категорий прогноза, которые показывает график
func TopCategories(predictions []CategoryPrediction, n int) []string {
	if n > len(predictions) {
		n = len(predictions)
	}
	if n < 0 {
		n = 0
	}
	top := make([]string, 0, n)
	for _, p := range predictions[:n] {
		top = append(top, p.Category)
	}
	return top
}
