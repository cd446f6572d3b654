package config

import (
	"errors"
	"fmt"
	"io/fs"
	"mixpanel-tracker/internal/deadletter"
	"mixpanel-tracker/internal/tracker"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Token                string           `mapstructure:"token" validate:"required"`
	Test                 bool             `mapstructure:"test"`
	UseGet               bool             `mapstructure:"use_get"`
	SetEventTime         bool             `mapstructure:"set_event_time"`
	LiteralSerialization bool             `mapstructure:"literal_serialization"`
	ProxyURL             string           `mapstructure:"proxy_url" validate:"omitempty,url"`
	MaxBatchSize         int              `mapstructure:"max_batch_size" validate:"min=1,max=50"`
	FailurePolicy        string           `mapstructure:"failure_policy" validate:"oneof=discard retry dead_letter"`
	HTTPTimeout          time.Duration    `mapstructure:"http_timeout" validate:"gt=0"`
	Retry                RetryConfig      `mapstructure:"retry"`
	DeadLetter           DeadLetterConfig `mapstructure:"dead_letter"`
	MetricsAddr          string           `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	Verbose              bool             `mapstructure:"verbose"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts" validate:"min=1,max=10"`
	Pause    time.Duration `mapstructure:"pause" validate:"gte=0"`
}

type DeadLetterConfig struct {
	Kind         string   `mapstructure:"kind" validate:"omitempty,oneof=sqlite kafka"`
	SQLitePath   string   `mapstructure:"sqlite_path"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

// validate кэширует информацию о структурах, поэтому один на пакет.
var validate = validator.New()

// New создает viper с префиксом окружения MIXPANEL_ и значениями по умолчанию.
// Вложенные ключи читаются из окружения с заменой точки на подчеркивание:
// retry.attempts -> MIXPANEL_RETRY_ATTEMPTS.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("token", "")
	v.SetDefault("test", false)
	v.SetDefault("use_get", false)
	v.SetDefault("set_event_time", true)
	v.SetDefault("literal_serialization", false)
	v.SetDefault("proxy_url", "")
	v.SetDefault("max_batch_size", defaultMaxBatchSize)
	v.SetDefault("failure_policy", defaultFailurePolicy)
	v.SetDefault("http_timeout", defaultHTTPTimeout)
	v.SetDefault("retry.attempts", defaultRetryAttempts)
	v.SetDefault("retry.pause", defaultRetryPause)
	v.SetDefault("dead_letter.kind", "")
	v.SetDefault("dead_letter.sqlite_path", defaultSQLitePath)
	v.SetDefault("dead_letter.kafka_brokers", []string{})
	v.SetDefault("dead_letter.kafka_topic", defaultKafkaTopic)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("verbose", false)

	return v
}

// Load читает .env, файл конфигурации и окружение.
// Если cfgFile пуст, файл .mixpanel.yaml ищется в текущем каталоге и в $HOME;
// его отсутствие не ошибка. Явно указанный файл обязан существовать.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			zap.L().Error(err.Error())
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		zap.L().Debug("config loaded", zap.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет теги полей и согласованность настроек dead letter.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.FailurePolicy != string(tracker.PolicyDeadLetter) {
		return nil
	}

	var err error
	switch c.DeadLetter.Kind {
	case DeadLetterSQLite:
		if c.DeadLetter.SQLitePath == "" {
			err = fmt.Errorf("%w: dead_letter.sqlite_path is empty", ErrDeadLetterTarget)
		}
	case DeadLetterKafka:
		if len(c.DeadLetter.KafkaBrokers) == 0 || c.DeadLetter.KafkaTopic == "" {
			err = fmt.Errorf("%w: dead_letter.kafka_brokers and dead_letter.kafka_topic are required", ErrDeadLetterTarget)
		}
	default:
		err = ErrDeadLetterKind
	}
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}

	return nil
}

// OpenDeadLetter открывает хранилище недоставленных батчей.
// Для политик кроме dead_letter возвращает nil.
func (c *Config) OpenDeadLetter() (deadletter.Sink, error) {
	if c.FailurePolicy != string(tracker.PolicyDeadLetter) {
		return nil, nil
	}

	switch c.DeadLetter.Kind {
	case DeadLetterSQLite:
		sink, err := deadletter.NewSQLiteSink(c.DeadLetter.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case DeadLetterKafka:
		sink, err := deadletter.NewKafkaSink(deadletter.KafkaConfig{
			Brokers: c.DeadLetter.KafkaBrokers,
			Topic:   c.DeadLetter.KafkaTopic,
		})
		if err != nil {
			zap.L().Error(err.Error())
			return nil, err
		}
		return sink, nil
	default:
		zap.L().Error(ErrDeadLetterKind.Error())
		return nil, ErrDeadLetterKind
	}
}

// TrackerOptions переводит конфигурацию в настройки трекера.
func (c *Config) TrackerOptions(sink deadletter.Sink) *tracker.Options {
	return &tracker.Options{
		Test:                 c.Test,
		UseGet:               c.UseGet,
		SetEventTime:         c.SetEventTime,
		LiteralSerialization: c.LiteralSerialization,
		ProxyURL:             c.ProxyURL,
		MaxBatchSize:         c.MaxBatchSize,
		HTTPTimeout:          c.HTTPTimeout,
		FailurePolicy:        tracker.FailurePolicy(c.FailurePolicy),
		RetryAttempts:        c.Retry.Attempts,
		RetryPause:           c.Retry.Pause,
		DeadLetter:           sink,
	}
}
