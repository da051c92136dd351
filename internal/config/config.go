package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverMemory   = "memory"

	defaultDevSecret   = "dev-secret"
	minProdSecretBytes = 32
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Store       StoreConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Password    PasswordConfig
	Throttle    ThrottleConfig
	Monitor     MonitorConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxConn        int
	MaxRequestBody int
}

// StoreConfig describes the credential and task store. The URL scheme
// selects the driver, see Driver.
type StoreConfig struct {
	URL             string
	Database        string
	ConnectTimeout  time.Duration
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL string
}

// Enabled reports whether a Redis endpoint was configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type PasswordConfig struct {
	Cost int
}

type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type MonitorConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env),
// applies defaults and validates the result. All validation failures are
// reported together.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	env := getString("APP_ENV", "development")
	cfg := &Config{
		AppName:     getString("APP_NAME", "taskpulse"),
		Environment: env,
		HTTP: HTTPConfig{
			Host:           getString("SERVER_HOST", "0.0.0.0"),
			Port:           firstNonEmpty(os.Getenv("PORT"), os.Getenv("SERVER_PORT"), "4000"),
			ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:        getInt("SERVER_MAX_CONN", 0),
			MaxRequestBody: getInt("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Store: StoreConfig{
			URL:             firstNonEmpty(os.Getenv("STORE_URL"), os.Getenv("MONGODB_URI"), os.Getenv("DATABASE_URL")),
			Database:        getString("STORE_DATABASE", "taskpulse"),
			ConnectTimeout:  getDuration("STORE_CONNECT_TIMEOUT", 10*time.Second),
			MaxConns:        getInt("STORE_MAX_CONNS", 25),
			MinConns:        getInt("STORE_MIN_CONNS", 0),
			MaxConnLifetime: getDuration("STORE_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getDuration("STORE_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "taskpulse"),
			TTL:    getDuration("TOKEN_TTL", 7*24*time.Hour),
		},
		Password: PasswordConfig{
			Cost: getInt("BCRYPT_COST", 10),
		},
		Throttle: ThrottleConfig{
			MaxAttempts: getInt("LOGIN_MAX_ATTEMPTS", 5),
			Window:      getDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("HEALTH_CHECK_INTERVAL", 10*time.Second),
			Timeout:  getDuration("HEALTH_CHECK_TIMEOUT", 2*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = defaultDevSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values and joins every problem it finds.
func (c *Config) Validate() error {
	var errs []error

	if c.Store.URL == "" {
		errs = append(errs, errors.New("STORE_URL (or MONGODB_URI / DATABASE_URL) is required"))
	} else if _, err := c.Store.Driver(); err != nil {
		errs = append(errs, err)
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWT.Secret) < minProdSecretBytes {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProdSecretBytes))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	if c.Password.Cost < 4 || c.Password.Cost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be within 4..31, got %d", c.Password.Cost))
	}

	if c.Redis.Enabled() {
		if c.Throttle.MaxAttempts <= 0 {
			errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
		}
		if c.Throttle.Window <= 0 {
			errs = append(errs, errors.New("LOGIN_ATTEMPT_WINDOW must be positive"))
		}
	}

	if _, err := strconv.Atoi(c.HTTP.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.HTTP.Port))
	}
	if c.Context.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT_SECONDS must be positive"))
	}
	if c.Monitor.Interval < time.Second {
		errs = append(errs, errors.New("HEALTH_CHECK_INTERVAL must be at least 1s"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// Driver maps the URL scheme onto a store driver name.
func (c StoreConfig) Driver() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("STORE_URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "bolt":
		return DriverBolt, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("STORE_URL: unsupported scheme %q", u.Scheme)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
