package config

import (
	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/logging"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func (c *Config) PredictionRules() service.PredictionRules {
	return service.PredictionRules{
		StableBand:     c.Prediction.StableBand,
		GrowthFactor:   decimal.NewFromFloat(c.Prediction.GrowthFactor),
		DecayFactor:    decimal.NewFromFloat(c.Prediction.DecayFactor),
		AlertThreshold: c.Prediction.AlertThreshold,
	}
}

func (c *Config) EngineFeatures() service.Features {
	return service.Features{
		Investments: c.Features.Investments,
		Budgets:     c.Features.Budgets,
		Goals:       c.Features.Goals,
	}
}

// Analyzer создает анализатор с параметрами конфигурации
func (c *Config) Analyzer(logger zerolog.Logger) *service.Analyzer {
	return service.NewAnalyzer(
		service.WithFeatures(c.EngineFeatures()),
		service.WithPredictionRules(c.PredictionRules()),
		service.WithInflation(decimal.NewFromFloat(c.Investments.Inflation)),
		service.WithTrendMonths(c.Prediction.TrendMonths),
		service.WithLogger(logger),
	)
}

// Formatter создает форматтер сумм и дат по секции display
func (c *Config) Formatter() (*format.Formatter, error) {
	return format.New(c.Display.Locale, c.Display.Currency, c.Display.DateLayout)
}

func (c *Config) Logging(component string) logging.Config {
	return logging.Config{
		Level:     c.Log.Level,
		Pretty:    c.Log.Pretty,
		Component: component,
	}
}
