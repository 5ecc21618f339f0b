package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	NotifierFile  = "file"
	NotifierRedis = "redis"
)

type Config struct {
	AppURL                 string
	Debug                  bool
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int
	NotifierBackend        string
	NotificationsPath      string
	NotificationsQueueSize int
	RedisAddr              string
	RedisNotificationsKey  string
	TUIPollIntervalSeconds int
}

// fileConfig mirrors tasker.toml. Zero values mean "not set".
type fileConfig struct {
	App struct {
		Host                   string `toml:"host"`
		Port                   string `toml:"port"`
		Debug                  bool   `toml:"debug"`
		RateLimitPerMinute     int    `toml:"rate_limit_per_minute"`
		ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
	} `toml:"app"`
	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`
	Notifications struct {
		Backend   string `toml:"backend"`
		Path      string `toml:"path"`
		QueueSize int    `toml:"queue_size"`
	} `toml:"notifications"`
	Redis struct {
		Host             string `toml:"host"`
		Port             string `toml:"port"`
		NotificationsKey string `toml:"notifications_key"`
	} `toml:"redis"`
	TUI struct {
		PollIntervalSeconds int `toml:"poll_interval_seconds"`
	} `toml:"tui"`
}

// Load resolves configuration from defaults, the optional TOML file named by
// TASKER_CONFIG (or ./tasker.toml) and the environment, in that order.
func Load() (Config, error) {
	fc, err := loadFile(getEnv("TASKER_CONFIG", "tasker.toml"))
	if err != nil {
		return Config{}, err
	}

	appHost := getEnv("APP_HOST", orDefault(fc.App.Host, "127.0.0.1"))
	appPort := getEnv("APP_PORT", orDefault(fc.App.Port, "8080"))
	redisHost := getEnv("REDIS_HOST", orDefault(fc.Redis.Host, "127.0.0.1"))
	redisPort := getEnv("REDIS_PORT", orDefault(fc.Redis.Port, "6379"))

	cfg := Config{AppURL: fmt.Sprintf("%s:%s", appHost, appPort)}

	var errs []error
	collect := func(v int, err error) int {
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	debug, err := getEnvAsBool("LOG_DEBUG", fc.App.Debug)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Debug = debug
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", orDefault(fc.Database.DSN, "tasks.db"))
	cfg.RateLimit = collect(getEnvAsInt("RATE_LIMIT_PER_MINUTE", orDefaultInt(fc.App.RateLimitPerMinute, 60)))
	cfg.ShutdownTimeoutSeconds = collect(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", orDefaultInt(fc.App.ShutdownTimeoutSeconds, 20)))
	cfg.NotifierBackend = strings.ToLower(getEnv("NOTIFIER_BACKEND", orDefault(fc.Notifications.Backend, NotifierFile)))
	cfg.NotificationsPath = getEnv("NOTIFICATIONS_PATH", orDefault(fc.Notifications.Path, "notifications.log"))
	cfg.NotificationsQueueSize = collect(getEnvAsInt("NOTIFICATIONS_QUEUE_SIZE", orDefaultInt(fc.Notifications.QueueSize, 64)))
	cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	cfg.RedisNotificationsKey = getEnv("REDIS_NOTIFICATIONS_KEY", orDefault(fc.Redis.NotificationsKey, "tasker:notifications"))
	cfg.TUIPollIntervalSeconds = collect(getEnvAsInt("TUI_POLL_INTERVAL_SECONDS", orDefaultInt(fc.TUI.PollIntervalSeconds, 2)))

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.AppURL == "" {
		return errors.New("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.NotificationsQueueSize <= 0 {
		return errors.New("NOTIFICATIONS_QUEUE_SIZE must be greater than 0")
	}
	if cfg.TUIPollIntervalSeconds <= 0 {
		return errors.New("TUI_POLL_INTERVAL_SECONDS must be greater than 0")
	}

	switch cfg.NotifierBackend {
	case NotifierFile:
		if cfg.NotificationsPath == "" {
			return errors.New("NOTIFICATIONS_PATH must not be empty")
		}
	case NotifierRedis:
		if cfg.RedisNotificationsKey == "" {
			return errors.New("REDIS_NOTIFICATIONS_KEY must not be empty")
		}
	default:
		return fmt.Errorf("NOTIFIER_BACKEND must be %q or %q, got %q", NotifierFile, NotifierRedis, cfg.NotifierBackend)
	}
	return nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s", key)
		}
		return b, nil
	}
	return defaultVal, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
