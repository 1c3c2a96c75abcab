package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvfarias/daily-diet-api/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	ClientPostgres = "postgres"
	ClientSQLite   = "sqlite"
)

type Config struct {
	Env          string
	HTTPAddr     string
	DB           DBConfig
	CookieSecure bool
	RateLimit    RateLimitConfig
}

type DBConfig struct {
	Client     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type RateLimitConfig struct {
	RPS   int
	Burst int
}

// Load reads .env (if any) and the process environment into a Config.
func Load(log *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, using system env")
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Client:     getEnv("DATABASE_CLIENT", ClientPostgres),
			Host:       os.Getenv("DB_HOST"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       os.Getenv("DB_NAME"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "daily_diet.db"),
		},
	}

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.RateLimit.RPS, err = getInt("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Client {
	case ClientPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("postgres requires DB_HOST, DB_USER and DB_NAME")
		}
	case ClientSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_CLIENT %q", c.DB.Client)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN is the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// OpenDB connects gorm to the configured database client.
func OpenDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Client {
	case ClientSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DB.DSN())
	}

	level := gormlogger.Warn
	if cfg.Env == "production" {
		level = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DB.Client, err)
	}
	if cfg.DB.Client == ClientSQLite {
		// one writer at a time keeps read-modify-write updates serialized
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info("database connected", zap.String("client", cfg.DB.Client))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Meal{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	val := getEnv(key, "")
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	val := getEnv(key, "")
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
