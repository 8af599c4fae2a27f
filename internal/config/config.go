package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all runtime configuration. Values are read by viper from
// environment variables, with a local .env file as fallback.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string `mapstructure:"DATABASE_DSN"`

	AWSRegion   string `mapstructure:"AWS_REGION"`
	EmailFrom   string `mapstructure:"EMAIL_FROM"`
	SMSSenderID string `mapstructure:"SMS_SENDER_ID"`

	ChatAMQPURL  string `mapstructure:"CHAT_AMQP_URL"`
	ChatExchange string `mapstructure:"CHAT_EXCHANGE"`

	DispatchTimeout time.Duration `mapstructure:"DISPATCH_TIMEOUT"`
	SweepSchedule   string        `mapstructure:"SWEEP_SCHEDULE"`
	SweepBatchSize  int           `mapstructure:"SWEEP_BATCH_SIZE"`

	TracingEnabled   bool    `mapstructure:"TRACING_ENABLED"`
	TracingEndpoint  string  `mapstructure:"TRACING_ENDPOINT"`
	TracingProtocol  string  `mapstructure:"TRACING_PROTOCOL"`
	TracingSampling  float64 `mapstructure:"TRACING_SAMPLING_RATIO"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
	RateLimitPerMin  int     `mapstructure:"RATE_LIMIT_PER_MIN"`
	SeedTemplates    bool    `mapstructure:"SEED_TEMPLATES"`
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

var boundKeys = []string{
	"ENVIRONMENT",
	"HTTP_ADDR",
	"DATABASE_DRIVER",
	"DATABASE_DSN",
	"AWS_REGION",
	"EMAIL_FROM",
	"SMS_SENDER_ID",
	"CHAT_AMQP_URL",
	"CHAT_EXCHANGE",
	"DISPATCH_TIMEOUT",
	"SWEEP_SCHEDULE",
	"SWEEP_BATCH_SIZE",
	"TRACING_ENABLED",
	"TRACING_ENDPOINT",
	"TRACING_PROTOCOL",
	"TRACING_SAMPLING_RATIO",
	"SERVICE_NAME",
	"SERVICE_VERSION",
	"RATE_LIMIT_PER_MIN",
	"SEED_TEMPLATES",
}

// Load reads configuration from the environment or a local .env file.
func Load() (Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DISPATCH_TIMEOUT", 10*time.Second)
	v.SetDefault("SWEEP_SCHEDULE", "0 3 * * *")
	v.SetDefault("SWEEP_BATCH_SIZE", 200)
	v.SetDefault("TRACING_PROTOCOL", "grpc")
	v.SetDefault("TRACING_SAMPLING_RATIO", 0.1)
	v.SetDefault("SERVICE_NAME", "kolekta")
	v.SetDefault("SERVICE_VERSION", "dev")
	v.SetDefault("RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("SEED_TEMPLATES", true)
}
