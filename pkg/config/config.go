package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Bandit         BanditConfig
	Recommendation RecommendationConfig
	Telemetry      TelemetryConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type BanditConfig struct {
	Enabled           bool
	Strategy          string
	ExplorationFactor float64
	MinSampleSize     int
	EpsilonDecay      float64
	HybridSwitchPulls int
	MaxOutcomes       int
}

type RecommendationConfig struct {
	Enhanced          bool
	PriorityThreshold float64
}

type TelemetryConfig struct {
	Sinks        []string
	RedisChannel string
}

func (t TelemetryConfig) Has(sink string) bool {
	for _, s := range t.Sinks {
		if s == sink {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Campaign Advisor API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 50, &errs),
			RateLimitBurst: getInt("RATE_LIMIT_BURST", 100, &errs),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "campaign_advisor"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getInt("REDIS_DB", 0, &errs),
		},
		Bandit: BanditConfig{
			Enabled:           getBool("BANDIT_ENABLED", true, &errs),
			Strategy:          getEnv("BANDIT_STRATEGY", "hybrid"),
			ExplorationFactor: getFloat("BANDIT_EXPLORATION_FACTOR", 1.0, &errs),
			MinSampleSize:     getInt("BANDIT_MIN_SAMPLE_SIZE", 10, &errs),
			EpsilonDecay:      getFloat("BANDIT_EPSILON_DECAY", 0.995, &errs),
			HybridSwitchPulls: getInt("BANDIT_HYBRID_SWITCH_PULLS", 100, &errs),
			MaxOutcomes:       getInt("BANDIT_MAX_OUTCOMES", 1000, &errs),
		},
		Recommendation: RecommendationConfig{
			Enhanced:          getBool("RECOMMENDATION_ENHANCED", true, &errs),
			PriorityThreshold: getFloat("RECOMMENDATION_PRIORITY_THRESHOLD", 0.08, &errs),
		},
		Telemetry: TelemetryConfig{
			Sinks:        splitList(getEnv("TELEMETRY_SINKS", SinkLog)),
			RedisChannel: getEnv("TELEMETRY_REDIS_CHANNEL", "bandit:telemetry"),
		},
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Bandit.Strategy {
	case "ucb", "thompson", "epsilon_greedy", "hybrid":
	default:
		return fmt.Errorf("invalid bandit strategy: %q", c.Bandit.Strategy)
	}

	if c.Bandit.MinSampleSize < 0 {
		return errors.New("bandit min sample size must not be negative")
	}

	if c.Bandit.MaxOutcomes <= 0 {
		return errors.New("bandit max outcomes must be positive")
	}

	for _, sink := range c.Telemetry.Sinks {
		switch sink {
		case SinkLog, SinkRedis:
		case SinkPostgres:
			if c.Database.Password == "" {
				return errors.New("missing database password")
			}
		default:
			return fmt.Errorf("unknown telemetry sink: %q", sink)
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getInt(key string, defaultVal int, errs *[]error) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return n
}

func getFloat(key string, defaultVal float64, errs *[]error) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return f
}

func getBool(key string, defaultVal bool, errs *[]error) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
