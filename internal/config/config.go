package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	AuthModeHeader = "header"
	AuthModeJWT    = "jwt"

	HorizonMonth   = "month"
	HorizonRolling = "rolling"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server           ServerConfig           `toml:"server"`
	Database         DatabaseConfig         `toml:"database"`
	Logs             LogsConfig             `toml:"logs"`
	Metrics          MetricsConfig          `toml:"metrics"`
	Auth             AuthConfig             `toml:"auth"`
	Generator        GeneratorConfig        `toml:"generator"`
	RabbitMQ         RabbitMQConfig         `toml:"rabbitmq"`
	Cache            CacheConfig            `toml:"cache"`
	DirectoryService DirectoryServiceConfig `toml:"directory_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

type LogsConfig struct {
	File  string `toml:"file" env:"LOG_FILE"`
	Level string `toml:"level" env:"LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	Mode      string `toml:"mode" env:"AUTH_MODE"`
	JWTSecret string `toml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type GeneratorConfig struct {
	Horizon     string `toml:"horizon" env:"GENERATOR_HORIZON"`
	HorizonDays int    `toml:"horizon_days" env:"GENERATOR_HORIZON_DAYS"`
	Workers     int    `toml:"workers"`
	// Interval период фонового прогона в секундах, 0 отключает таймер
	Interval  int `toml:"interval" env:"GENERATOR_INTERVAL"`
	QueueSize int `toml:"queue_size"`
}

// IntervalDuration период фонового прогона
func (c GeneratorConfig) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

type RabbitMQConfig struct {
	Enabled       bool   `toml:"enabled" env:"RABBITMQ_ENABLED"`
	URL           string `toml:"url" env:"RABBITMQ_URL"`
	Exchange      string `toml:"exchange"`
	Queue         string `toml:"queue"`
	RoutingKey    string `toml:"routing_key"`
	PrefetchCount int    `toml:"prefetch_count"`
}

type CacheConfig struct {
	Enabled bool `toml:"enabled" env:"CACHE_ENABLED"`
	Size    int  `toml:"size"`
	TTL     int  `toml:"ttl" env:"CACHE_TTL"` // в секундах
}

// TTLDuration время жизни записи кэша
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type DirectoryServiceConfig struct {
	Enabled bool   `toml:"enabled" env:"DIRECTORY_SERVICE_ENABLED"`
	URL     string `toml:"url" env:"DIRECTORY_SERVICE_URL"`
	Timeout int    `toml:"timeout"`
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения
// Значения из окружения перекрывают значения из файла
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "clinic-scheduling"},
		Auth:    AuthConfig{Mode: AuthModeHeader},
		Generator: GeneratorConfig{
			Horizon:     HorizonRolling,
			HorizonDays: 30,
			Workers:     4,
			Interval:    3600,
			QueueSize:   64,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange:      "clinic.scheduling",
			Queue:         "clinic.scheduling.slot-generation",
			RoutingKey:    "schedule.created",
			PrefetchCount: 10,
		},
		Cache:            CacheConfig{Size: 1024, TTL: 60},
		DirectoryService: DirectoryServiceConfig{Timeout: 5},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 {
		errs = append(errs, errors.New("server.http_port must be positive"))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, errors.New("database.port must be positive"))
	}

	switch c.Auth.Mode {
	case AuthModeHeader:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("auth.jwt_secret is required in jwt mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.mode %q is not supported", c.Auth.Mode))
	}

	switch c.Generator.Horizon {
	case HorizonMonth:
	case HorizonRolling:
		if c.Generator.HorizonDays <= 0 {
			errs = append(errs, errors.New("generator.horizon_days must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("generator.horizon %q is not supported", c.Generator.Horizon))
	}
	if c.Generator.Workers <= 0 {
		errs = append(errs, errors.New("generator.workers must be positive"))
	}
	if c.Generator.QueueSize <= 0 {
		errs = append(errs, errors.New("generator.queue_size must be positive"))
	}
	if c.Generator.Interval < 0 {
		errs = append(errs, errors.New("generator.interval must not be negative"))
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("rabbitmq.url is required when rabbitmq is enabled"))
	}
	if c.Cache.Enabled && c.Cache.Size <= 0 {
		errs = append(errs, errors.New("cache.size must be positive when cache is enabled"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.DirectoryService.Enabled && c.DirectoryService.URL == "" {
		errs = append(errs, errors.New("directory_service.url is required when enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
