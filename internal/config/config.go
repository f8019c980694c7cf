package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	Telegram Telegram
	Storage  Storage

	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr    string        `env:"METRICS_ADDR"`
	ReportInterval time.Duration `env:"REPORT_INTERVAL" envDefault:"24h" validate:"min=1m"`
}

type Telegram struct {
	Token   string `env:"TG_TOKEN" validate:"required"`
	Timeout int    `env:"TIMEOUT" envDefault:"60" validate:"gt=0"`
	Debug   bool   `env:"TG_DEBUG"`
}

type Storage struct {
	Backend      string `env:"DATA_BACKEND" envDefault:"file" validate:"oneof=file sqlite"`
	DataFile     string `env:"DATA_FILE" envDefault:"grocery_data.json" validate:"required"`
	FeedbackFile string `env:"FEEDBACK_FILE" envDefault:"feedback_data.json" validate:"required"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"grocery.db" validate:"required_if=Backend sqlite"`
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if err := validator.New().Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("config.Validate: %w", err)
		}
		for _, fieldErr := range validationErrs {
			errs = append(errs, fmt.Errorf("%s: failed %q check with value %v",
				fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value()))
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("Config.LogLevel: %w", err))
	}
	return errors.Join(errs...)
}
