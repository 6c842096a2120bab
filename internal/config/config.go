package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	ML         MLConfig        `mapstructure:"ml"`
	Credit     CreditConfig    `mapstructure:"credit"`
	Macro      MacroConfig     `mapstructure:"macro"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Worker     WorkerConfig    `mapstructure:"worker"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	RequestsTopic  string   `mapstructure:"requests_topic"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

// MLConfig points at the scoring / SNA / macro service.
type MLConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	TimeoutMs int           `mapstructure:"timeout_ms"`
	RPS       float64       `mapstructure:"rps"` // 0 = unlimited
	Burst     int           `mapstructure:"burst"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type CreditConfig struct {
	Threshold     float64 `mapstructure:"threshold"`
	RevenueFactor float64 `mapstructure:"revenue_factor"`
	MinimumLimit  float64 `mapstructure:"minimum_limit"`
	Currency      string  `mapstructure:"currency"`
}

type MacroConfig struct {
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	CacheKeyPrefix string        `mapstructure:"cache_key_prefix"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type WorkerConfig struct {
	Count int `mapstructure:"count"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env
// overrides (CREDIT_*, with dots replaced by underscores: CREDIT_ML_BASE_URL).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (CREDIT_*)
	v.SetEnvPrefix("CREDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
