package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config настройки бота и CLI
type Config struct {
	TelegramToken string            `mapstructure:"telegram_token"`
	Log           LogConfig         `mapstructure:"log"`
	Features      FeaturesConfig    `mapstructure:"features"`
	Prediction    PredictionConfig  `mapstructure:"prediction"`
	Investments   InvestmentsConfig `mapstructure:"investments"`
	Display       DisplayConfig     `mapstructure:"display"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// FeaturesConfig включает модули инвестиций, бюджетов и целей
type FeaturesConfig struct {
	Investments bool `mapstructure:"investments"`
	Budgets     bool `mapstructure:"budgets"`
	Goals       bool `mapstructure:"goals"`
}

// PredictionConfig параметры эвристики прогноза расходов
type PredictionConfig struct {
	StableBand     int     `mapstructure:"stable_band"`
	GrowthFactor   float64 `mapstructure:"growth_factor"`
	DecayFactor    float64 `mapstructure:"decay_factor"`
	AlertThreshold int     `mapstructure:"alert_threshold"`
	TrendMonths    int     `mapstructure:"trend_months"`
}

type InvestmentsConfig struct {
	Inflation float64 `mapstructure:"inflation"`
}

// DisplayConfig локаль, валюта и формат дат для вывода
type DisplayConfig struct {
	Locale     string `mapstructure:"locale"`
	Currency   string `mapstructure:"currency"`
	DateLayout string `mapstructure:"date_layout"`
}

const envPrefix = "FNHUB"

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("features.investments", true)
	v.SetDefault("features.budgets", true)
	v.SetDefault("features.goals", true)
	v.SetDefault("prediction.stable_band", 5)
	v.SetDefault("prediction.growth_factor", 1.10)
	v.SetDefault("prediction.decay_factor", 0.90)
	v.SetDefault("prediction.alert_threshold", 20)
	v.SetDefault("prediction.trend_months", 6)
	v.SetDefault("investments.inflation", 5.0)
	v.SetDefault("display.locale", "ru-RU")
	v.SetDefault("display.currency", "RUB")
	v.SetDefault("display.date_layout", "02.01.2006")
}

// LoadConfig читает .env (если есть), файл конфигурации (если задан) и переменные FNHUB_*.
// Пустой file означает FNHUB_CONFIG или только умолчания.
func LoadConfig(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram_token", envPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if file == "" {
		file = os.Getenv(envPrefix + "_CONFIG")
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет числовые параметры прогноза и инвестиций
func (c *Config) Validate() error {
	var errs []error
	if c.Prediction.StableBand < 0 {
		errs = append(errs, fmt.Errorf("prediction.stable_band must not be negative, got %d", c.Prediction.StableBand))
	}
	if c.Prediction.AlertThreshold < 0 {
		errs = append(errs, fmt.Errorf("prediction.alert_threshold must not be negative, got %d", c.Prediction.AlertThreshold))
	}
	if c.Prediction.GrowthFactor <= 0 {
		errs = append(errs, fmt.Errorf("prediction.growth_factor must be positive, got %v", c.Prediction.GrowthFactor))
	}
	if c.Prediction.DecayFactor <= 0 {
		errs = append(errs, fmt.Errorf("prediction.decay_factor must be positive, got %v", c.Prediction.DecayFactor))
	}
	if c.Prediction.TrendMonths < 2 {
		errs = append(errs, fmt.Errorf("prediction.trend_months must be at least 2, got %d", c.Prediction.TrendMonths))
	}
	if c.Display.DateLayout == "" {
		errs = append(errs, errors.New("display.date_layout must not be empty"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
