package config

import (
	"log"
	"strings"
	"time"

	"sessiondesk/internal/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string `mapstructure:"APP_ADDR"`
	GinMode string `mapstructure:"GIN_MODE"`
	AppEnv  string `mapstructure:"APP_ENV"`

	// Remote booking/payment API.
	RemoteBaseURL string        `mapstructure:"REMOTE_BASE_URL"`
	RemoteTimeout time.Duration `mapstructure:"REMOTE_TIMEOUT"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Empty DSN disables the mutation journal.
	JournalDSN string `mapstructure:"JOURNAL_DSN"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	SelectionPolicy string `mapstructure:"SELECTION_POLICY"`
	CurrencySymbol  string `mapstructure:"CURRENCY_SYMBOL"`
}

// IsProduction reports whether APP_ENV is production.
func (e Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (e Env) AllowedOrigins() []string {
	return utils.SplitList(e.CORSAllowedOrigins)
}

// LoadEnv reads .env (when present), then config.yaml from "." or "./config",
// then the process environment, which wins.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8081")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("REMOTE_BASE_URL", "http://localhost:8080")
	v.SetDefault("REMOTE_TIMEOUT", "0s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("JOURNAL_DSN", "")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("SELECTION_POLICY", "prefer-open")
	v.SetDefault("CURRENCY_SYMBOL", "Rs.")
}

func decode(v *viper.Viper) Env {
	var env Env
	if err := v.Unmarshal(&env); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	env.AppAddr = strings.TrimSpace(env.AppAddr)
	env.RemoteBaseURL = strings.TrimRight(strings.TrimSpace(env.RemoteBaseURL), "/")
	env.SelectionPolicy = strings.ToLower(strings.TrimSpace(env.SelectionPolicy))
	return env
}
