package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":3000"
	defaultJWTTTL          = "24h"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultLibelulaBaseURL = "https://api.libelula.bo"
	defaultLibelulaTimeout = "15s"
	defaultReturnURL       = "barberbook://payment-result"
	defaultPublicBaseURL   = "http://localhost:3000"
	defaultDBMaxOpen       = "10"
	defaultDBMaxIdle       = "5"
	defaultDBPort          = "5432"
	defaultDBSSLMode       = "disable"
)

type Config struct {
	AppEnv    string
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBAutoMigrate  bool

	JWTSecret string
	JWTTTL    time.Duration

	LibelulaAPIKey        string
	LibelulaBaseURL       string
	LibelulaTimeout       time.Duration
	LibelulaWebhookSecret string

	PublicBaseURL string
	AppReturnURL  string

	CORSAllowedOrigins []string

	// TrustedProxies lists the proxy IPs or CIDRs allowed to set
	// X-Forwarded-For. Empty means the client IP is the socket peer.
	TrustedProxies []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests can inject values.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(name, fallback string) string {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{}
	appEnv := get("APP_ENV", get("ENV", "dev"))
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.HTTPAddr = get("HTTP_ADDR", "")
	if cfg.HTTPAddr == "" {
		if port := get("PORT", ""); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = defaultHTTPAddr
		}
	}
	cfg.LogLevel = get("LOG_LEVEL", "info")
	cfg.LogFormat = get("LOG_FORMAT", "text")

	cfg.DatabaseURL = get("DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = discreteDSN(get)
	}

	var err error
	if cfg.DBMaxOpenConns, err = parseIntEnv(get, "DB_MAX_OPEN_CONNS", defaultDBMaxOpen); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = parseIntEnv(get, "DB_MAX_IDLE_CONNS", defaultDBMaxIdle); err != nil {
		return nil, err
	}
	cfg.DBAutoMigrate = parseBool(get("DB_AUTO_MIGRATE", "false"))

	cfg.JWTSecret = get("JWT_SECRET", defaultJWTSecret)
	if cfg.JWTTTL, err = parseDurationEnv(get, "JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	cfg.LibelulaAPIKey = get("LIBELULA_API_KEY", "")
	cfg.LibelulaBaseURL = strings.TrimRight(get("LIBELULA_BASE_URL", defaultLibelulaBaseURL), "/")
	if cfg.LibelulaTimeout, err = parseDurationEnv(get, "LIBELULA_TIMEOUT", defaultLibelulaTimeout); err != nil {
		return nil, err
	}
	cfg.LibelulaWebhookSecret = get("LIBELULA_WEBHOOK_SECRET", "")

	cfg.PublicBaseURL = strings.TrimRight(get("PUBLIC_BASE_URL", ""), "/")
	cfg.AppReturnURL = get("APP_RETURN_URL", defaultReturnURL)

	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}
	for _, p := range strings.Split(get("TRUSTED_PROXIES", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = defaultPublicBaseURL
	}
	return cfg, nil
}

// discreteDSN assembles a postgres URL from DB_HOST and friends. Without a
// host it returns "" and validation reports the missing database.
func discreteDSN(get func(string, string) string) string {
	host := get("DB_HOST", "")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(get("DB_USER", "postgres"), get("DB_PASSWORD", "")),
		Host:   host + ":" + get("DB_PORT", defaultDBPort),
		Path:   "/" + get("DB_NAME", "barberbook"),
	}
	q := url.Values{}
	q.Set("sslmode", get("DB_SSLMODE", defaultDBSSLMode))
	u.RawQuery = q.Encode()
	return u.String()
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST must be set")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.LibelulaTimeout <= 0 {
		return fmt.Errorf("LIBELULA_TIMEOUT must be > 0")
	}
	if cfg.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if cfg.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}
	for _, p := range cfg.TrustedProxies {
		if !validProxy(p) {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
		}
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.LibelulaAPIKey == "" {
			return fmt.Errorf("in prod/release LIBELULA_API_KEY must be set")
		}
		if cfg.PublicBaseURL == "" {
			return fmt.Errorf("in prod/release PUBLIC_BASE_URL must be set")
		}
	}

	return nil
}

func validProxy(p string) bool {
	if strings.Contains(p, "/") {
		_, _, err := net.ParseCIDR(p)
		return err == nil
	}
	return net.ParseIP(p) != nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(get func(string, string) string, name, fallback string) (time.Duration, error) {
	value := get(name, fallback)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(get func(string, string) string, name, fallback string) (int, error) {
	value := get(name, fallback)
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}
