// Package config loads server configuration from flags, environment and an
// optional config file
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/versus-api/internal/clients/gemini"
	"github.com/KirkDiggler/versus-api/internal/errors"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
)

// EnvPrefix is prepended to every environment override, e.g. VERSUS_PORT
const EnvPrefix = "VERSUS"

// Keys shared by flags, env vars and config files
const (
	KeyConfigFile      = "config"
	KeyPort            = "port"
	KeyAPIKey          = "api-key"
	KeyModel           = "model"
	KeyRequestTimeout  = "request-timeout"
	KeyTemperature     = "temperature"
	KeyRateLimit       = "rate-limit"
	KeyTokenTTL        = "token-ttl"
	KeyRedisAddr       = "redis-addr"
	KeyRedisPassword   = "redis-password"
	KeyRedisDB         = "redis-db"
	KeyRedisTLS        = "redis-tls"
	KeyRedisPoolSize   = "redis-pool-size"
	KeyRedisMinIdle    = "redis-min-idle-conns"
	KeyRedisMaxRetries = "redis-max-retries"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyShutdownTimeout = "shutdown-timeout"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the resolved server configuration
type Config struct {
	Port int

	// APIKey may be empty; the server then starts with fights disabled
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	// Temperature is nil when the model default should be used
	Temperature *float32
	RateLimit   float64

	TokenTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	// Zero pool settings keep the go-redis defaults
	RedisPoolSize   int
	RedisMinIdle    int
	RedisMaxRetries int

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// RegisterFlags adds every server flag to flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyConfigFile, "", "path to a config file (yaml, json or toml)")
	flags.Int(KeyPort, 8080, "HTTP port")
	flags.String(KeyAPIKey, "", "Gemini API key, overrides VERSUS_API_KEY, GEMINI_API_KEY and API_KEY")
	flags.String(KeyModel, gemini.DefaultModel, "Gemini model name")
	flags.Duration(KeyRequestTimeout, gemini.DefaultRequestTimeout, "timeout for a single fight resolution")
	flags.Float64(KeyTemperature, -1, "sampling temperature, negative for the model default")
	flags.Float64(KeyRateLimit, 0, "max fight requests per second to Gemini, 0 for unlimited")
	flags.Duration(KeyTokenTTL, fighttoken.DefaultTTL, "how long an in-flight fight stays current")
	flags.String(KeyRedisAddr, "", "redis address for fight tokens, in-memory when empty")
	flags.String(KeyRedisPassword, "", "redis password")
	flags.Int(KeyRedisDB, 0, "redis database number")
	flags.Bool(KeyRedisTLS, false, "connect to redis over TLS")
	flags.Int(KeyRedisPoolSize, 0, "redis connection pool size, 0 for the client default")
	flags.Int(KeyRedisMinIdle, 0, "minimum idle redis connections")
	flags.Int(KeyRedisMaxRetries, 0, "redis command retries, 0 for the client default, -1 to disable")
	flags.String(KeyLogLevel, "info", "log level: debug, info, warn or error")
	flags.String(KeyLogFormat, LogFormatText, "log format: text or json")
	flags.Duration(KeyShutdownTimeout, 30*time.Second, "graceful shutdown budget")
}

// NewViper binds flags and environment variables. The API key is read from
// VERSUS_API_KEY, GEMINI_API_KEY or API_KEY, in that order.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to bind flags")
		}
	}

	if err := v.BindEnv(KeyAPIKey, EnvPrefix+"_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to bind api key env")
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to read config file").
				WithMeta("path", path)
		}
	}

	return v, nil
}

// Load resolves and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.InvalidArgument("viper instance is required")
	}

	cfg := &Config{
		Port:            v.GetInt(KeyPort),
		APIKey:          strings.TrimSpace(v.GetString(KeyAPIKey)),
		Model:           v.GetString(KeyModel),
		RequestTimeout:  v.GetDuration(KeyRequestTimeout),
		RateLimit:       v.GetFloat64(KeyRateLimit),
		TokenTTL:        v.GetDuration(KeyTokenTTL),
		RedisAddr:       v.GetString(KeyRedisAddr),
		RedisPassword:   v.GetString(KeyRedisPassword),
		RedisDB:         v.GetInt(KeyRedisDB),
		RedisTLS:        v.GetBool(KeyRedisTLS),
		RedisPoolSize:   v.GetInt(KeyRedisPoolSize),
		RedisMinIdle:    v.GetInt(KeyRedisMinIdle),
		RedisMaxRetries: v.GetInt(KeyRedisMaxRetries),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if v.IsSet(KeyTemperature) {
		if t := v.GetFloat64(KeyTemperature); t >= 0 {
			temperature := float32(t)
			cfg.Temperature = &temperature
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange(KeyPort, c.Port, 1, 65535, vb)
	errors.ValidateRequired(KeyModel, c.Model, vb)
	errors.ValidateEnum(KeyLogLevel, c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum(KeyLogFormat, c.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)

	if c.RequestTimeout <= 0 {
		vb.Field(KeyRequestTimeout, "must be positive")
	}
	if c.TokenTTL <= 0 {
		vb.Field(KeyTokenTTL, "must be positive")
	} else if c.RequestTimeout > 0 && c.TokenTTL <= c.RequestTimeout {
		// A token must outlive the fight it guards
		vb.Fieldf(KeyTokenTTL, "must be longer than %s (%s)", KeyRequestTimeout, c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		vb.Field(KeyShutdownTimeout, "must be positive")
	}
	if c.RateLimit < 0 {
		vb.Field(KeyRateLimit, "must not be negative")
	}
	if c.RedisDB < 0 {
		vb.Field(KeyRedisDB, "must not be negative")
	}
	if c.RedisPoolSize < 0 {
		vb.Field(KeyRedisPoolSize, "must not be negative")
	}
	if c.RedisMinIdle < 0 {
		vb.Field(KeyRedisMinIdle, "must not be negative")
	}
	if c.RedisMaxRetries < -1 {
		vb.Field(KeyRedisMaxRetries, "must be -1 or more")
	}

	return vb.Build()
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
