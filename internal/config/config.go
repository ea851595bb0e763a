package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  A Config is built once at startup and handed to
// the components that need it; nothing reads the environment afterwards.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	DBDSN       string        // normalised MySQL DSN
	JWTSecret   string        // secret used to sign bearer tokens
	TokenTTL    time.Duration // bearer token lifetime
	BcryptCost  int           // bcrypt cost for password hashing
	CORSOrigins []string      // allowed CORS origins
	AMQPURL     string        // broker URL; empty disables event publishing
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is applied first when present.  Missing
// required variables (JWT_SECRET, DB_DSN) or malformed values are reported as
// a single error; callers treat it as fatal.
func Load() (Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.LookupEnv)
}

// fromEnv builds a Config from an arbitrary lookup function so that tests can
// supply their own environment.
func fromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	cfg := Config{
		Env:       get("APP_ENV", "dev"),
		Port:      get("APP_PORT", "5000"),
		JWTSecret: get("JWT_SECRET", ""),
		AMQPURL:   get("RABBITMQ_URL", get("AMQP_URL", "")),
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("missing required env var: JWT_SECRET"))
	}

	dsn := get("DB_DSN", "")
	if dsn == "" {
		errs = append(errs, errors.New("missing required env var: DB_DSN"))
	} else if normalised, err := normaliseDSN(dsn); err != nil {
		errs = append(errs, fmt.Errorf("invalid DB_DSN: %w", err))
	} else {
		cfg.DBDSN = normalised
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("invalid duration for TOKEN_TTL: %q", get("TOKEN_TTL", "")))
	}
	cfg.TokenTTL = ttl

	cost, err := strconv.Atoi(get("BCRYPT_COST", "10"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid int for BCRYPT_COST: %q", get("BCRYPT_COST", "")))
	}
	cfg.BcryptCost = cost

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// normaliseDSN parses a MySQL DSN and forces the options the repositories rely
// on: DATETIME columns scanned into time.Time in UTC.
func normaliseDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	if c.DBName == "" {
		return "", errors.New("database name is required")
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}

// BrokerURL returns the broker URL on its own.  The event consumer needs
// nothing else, so it does not go through Load.
func BrokerURL() string {
	_ = godotenv.Load()
	if v := strings.TrimSpace(os.Getenv("RABBITMQ_URL")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("AMQP_URL"))
}
