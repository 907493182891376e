package eventcounter

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const envPrefix = "EVENTCOUNTER_"

// Config describes a MemoryRecorder declaratively.
type Config struct {
	LogLevel   string           `yaml:"log_level" mapstructure:"log_level"`
	QueryCache QueryCacheConfig `yaml:"query_cache" mapstructure:"query_cache"`
}

type QueryCacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Capacity uint64        `yaml:"capacity" mapstructure:"capacity"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		QueryCache: QueryCacheConfig{
			Enabled:  false,
			Capacity: defaultQueryCacheCapacity,
			TTL:      defaultQueryCacheTTL,
		},
	}
}

// LoadConfig parses YAML on top of DefaultConfig. Keys missing from data keep
// their defaults.
func LoadConfig(data []byte) (Config, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return DecodeConfig(raw)
}

// DecodeConfig decodes an already merged map (for example from viper) on top
// of DefaultConfig.
func DecodeConfig(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with EVENTCOUNTER_* environment variables.
// Unparsable values are ignored.
func ApplyEnv(cfg *Config) {
	cfg.LogLevel = envString(envPrefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.QueryCache.Enabled = envBool(envPrefix+"QUERY_CACHE_ENABLED", cfg.QueryCache.Enabled)
	cfg.QueryCache.Capacity = envUint(envPrefix+"QUERY_CACHE_CAPACITY", cfg.QueryCache.Capacity)
	cfg.QueryCache.TTL = envDuration(envPrefix+"QUERY_CACHE_TTL", cfg.QueryCache.TTL)
}

// Options converts cfg into recorder options.
func (cfg Config) Options() ([]MemoryRecorderOption, error) {
	logger, err := BuildLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	opts := []MemoryRecorderOption{MemoryRecorderWithLogger(logger)}
	if cfg.QueryCache.Enabled {
		opts = append(opts, MemoryRecorderWithQueryCache(cfg.QueryCache.Capacity, cfg.QueryCache.TTL))
	}
	return opts, nil
}

// NewMemoryRecorderFromConfig creates a MemoryRecorder from cfg. extra options
// are applied last and win over cfg.
func NewMemoryRecorderFromConfig(cfg Config, extra ...MemoryRecorderOption) (*MemoryRecorder, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return NewMemoryRecorder(append(opts, extra...)...)
}

// BuildLogger returns a JSON production logger. Unknown levels fall back to info.
func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
