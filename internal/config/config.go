package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv" // optional .env preloading for local development
)

// DefaultOrigin is always allowed by CORS so the Vite dev server can reach
// the API without extra configuration.
const DefaultOrigin = "http://localhost:5173"

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values.  It is built once at
// startup by Load and passed by value to the components that need it;
// nothing reads the environment after that point.
type Config struct {
	Env          string        // application environment (development, production)
	Port         string        // HTTP port to listen on
	StoreDriver  string        // mysql | mongo | memory
	StoreTimeout time.Duration // upper bound for a single store call

	DBUser string // MySQL user
	DBPass string // MySQL password (optional)
	DBHost string // MySQL host
	DBPort string // MySQL port
	DBName string // MySQL schema

	MongoURI string // MongoDB connection string
	MongoDB  string // MongoDB database name

	JWTSecret  string        // HMAC secret used to sign session tokens
	TokenTTL   time.Duration // lifetime of a session token and its cookie
	BcryptCost int           // bcrypt cost factor

	AllowedOrigins []string // CORS allow-list
	RabbitURL      string   // broker URL; empty disables contact notifications
	LogDir         string   // directory for consumer log files
}

// Production reports whether the API runs behind HTTPS on a different
// origin than the frontend.  Cookie policy depends on it.
func (c Config) Production() bool {
	switch strings.ToLower(c.Env) {
	case "production", "prod":
		return true
	}
	return false
}

// Load reads configuration values from the environment, after giving a
// local .env file the chance to populate it.  Missing or malformed values
// are collected and returned together so a misconfigured deployment fails
// with one readable message.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env file is normal outside development

	var errs []error
	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		Port:         getenv("APP_PORT", getenv("PORT", "3000")),
		StoreDriver:  strings.ToLower(getenv("STORE_DRIVER", DriverMySQL)),
		StoreTimeout: envDur("STORE_TIMEOUT", 5*time.Second),
		DBUser:       getenv("DB_USER", "root"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", "3306"),
		DBName:       getenv("DB_NAME", "portfolio"),
		MongoURI:     getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGODB_DB", "portfolio"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     envDur("TOKEN_TTL", time.Hour),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		RabbitURL:    firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		LogDir:       getenv("LOG_DIR", "logs"),
	}
	cfg.AllowedOrigins = parseOrigins(os.Getenv("FRONTEND_ORIGIN"))

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("missing required env var: JWT_SECRET"))
	}
	switch cfg.StoreDriver {
	case DriverMySQL, DriverMongo, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid STORE_DRIVER %q (want mysql, mongo or memory)", cfg.StoreDriver))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL))
	}
	if cfg.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", cfg.StoreTimeout))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseOrigins always keeps the local frontend origin and appends the
// comma separated FRONTEND_ORIGIN values, skipping blanks and duplicates.
func parseOrigins(raw string) []string {
	origins := []string{DefaultOrigin}
	seen := map[string]bool{DefaultOrigin: true}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
