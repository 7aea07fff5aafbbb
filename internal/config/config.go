package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	applog "barterly/internal/log"
)

type Config struct {
	Port     string
	DBDriver string
	DBDSN    string
	LogFile  string
	// JWTSecret enables bearer tokens when non-empty.
	JWTSecret string
	TokenTTL  time.Duration
	// CookieSecure marks the sid and csrf cookies Secure (set behind HTTPS).
	CookieSecure bool
}

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		applog.Logger().Warn("config.dotenv.fail", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "barterly.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./barterly.log"
	}
	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			applog.Logger().Warn("config.token_ttl.invalid", zap.String("value", v))
		}
	}
	secure, _ := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))

	cfg := Config{
		Port:         port,
		DBDriver:     driver,
		DBDSN:        dsn,
		LogFile:      logFile,
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     ttl,
		CookieSecure: secure,
	}
	// DB_DSN may carry credentials and is never logged.
	applog.Logger().Info("config.loaded",
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("log_file", cfg.LogFile),
		zap.Bool("tokens", cfg.JWTSecret != ""),
		zap.Duration("token_ttl", cfg.TokenTTL),
		zap.Bool("cookie_secure", cfg.CookieSecure),
	)
	return cfg
}
