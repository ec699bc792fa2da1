package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Error is the constant error type of this package.
type Error string

func (e Error) Error() string { return string(e) }

// Rule of thumb, all errors start with a small letter and end with no
// full stop.
var (
	ErrUnknownBackend   = Error("unknown lock backend, want inprocess or redis")
	ErrMissingRedis     = Error("redis backend needs an address")
	ErrBadRetryBudget   = Error("lock retry times must be at least 1")
	ErrBadLockThreshold = Error("account lock threshold must be at least 1")
)

// Backend choices for the lock store.
const (
	BackendInProcess = "inprocess"
	BackendRedis     = "redis"
)

// Config is everything the daemon needs, resolved from defaults, an
// optional config file and CELLOCK_* environment variables, in that
// order of increasing priority.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`

	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	LockRetryTimes    int           `mapstructure:"lock_retry_times"`
	LockRetryInterval time.Duration `mapstructure:"lock_retry_interval"`

	AccountLockThreshold int           `mapstructure:"account_lock_threshold"`
	AccountLockTTL       time.Duration `mapstructure:"account_lock_ttl"`
	AuthIntervalTTL      time.Duration `mapstructure:"auth_interval_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", "127.0.0.1:61111")
	v.SetDefault("log_level", "info")
	v.SetDefault("backend", BackendInProcess)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("lock_retry_times", 50)
	v.SetDefault("lock_retry_interval", 50*time.Millisecond)
	v.SetDefault("account_lock_threshold", 5)
	v.SetDefault("account_lock_ttl", time.Hour)
	v.SetDefault("auth_interval_ttl", time.Second)
}

// Load resolves the configuration. path points at a config file and
// may be empty, in which case only defaults and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CELLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendInProcess:
	case BackendRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedis
		}
	default:
		return ErrUnknownBackend
	}
	if c.LockRetryTimes < 1 {
		return ErrBadRetryBudget
	}
	if c.AccountLockThreshold < 1 {
		return ErrBadLockThreshold
	}
	return nil
}
