package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	DatabaseName      string
	HTTPAddr          string
	MetricsAddr       string
	NATSURL           string
	NATSSubjectPrefix string
	LogNATSSubjects   bool
	SearchDelay       time.Duration
	QueryTimeout      time.Duration
	CORSOrigins       []string
	LogLevel          string
	TracingEnabled    bool
	OTLPEndpoint      string
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	// Database URL: prefer DATABASE_URL / PG_DSN, else build from PG* vars
	dsn := firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("PG_DSN"),
	)
	if dsn == "" {
		u := &url.URL{
			Scheme: "postgres",
			Host:   getenvDefault("PGHOST", "127.0.0.1") + ":" + getenvDefault("PGPORT", "5432"),
			Path:   "/" + getenvDefault("PGDATABASE", "red_bus"),
		}
		user := getenvDefault("PGUSER", "postgres")
		if pass := os.Getenv("PGPASSWORD"); pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
		u.RawQuery = url.Values{"sslmode": {getenvDefault("PGSSLMODE", "disable")}}.Encode()
		cfg.DatabaseURL = u.String()
	} else {
		cfg.DatabaseURL = dsn
	}
	cfg.DatabaseName = strings.TrimSpace(os.Getenv("REDBUS_DB_NAME"))

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8501")

	// Metrics listen address (e.g., ":9102"). Empty keeps /metrics on the UI listener only.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// Empty NATS_URL disables search event publishing
	cfg.NATSURL = strings.TrimSpace(os.Getenv("NATS_URL"))
	cfg.NATSSubjectPrefix = getenvDefault("NATS_SUBJECT_PREFIX", "redbus.search")
	cfg.LogNATSSubjects = parseBool(os.Getenv("LOG_NATS_SUBJECTS"))

	// Perceived-latency delay before showing search results
	if v := os.Getenv("SEARCH_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid SEARCH_DELAY_MS: %q", v)
		}
		cfg.SearchDelay = time.Duration(ms) * time.Millisecond
	} else {
		cfg.SearchDelay = 2 * time.Second
	}

	if v := os.Getenv("QUERY_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid QUERY_TIMEOUT_SEC: %q", v)
		}
		cfg.QueryTimeout = time.Duration(sec) * time.Second
	} else {
		cfg.QueryTimeout = 10 * time.Second
	}

	cfg.CORSOrigins = splitList(getenvDefault("CORS_ALLOWED_ORIGINS", "*"))

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	cfg.TracingEnabled = parseBool(os.Getenv("OTEL_TRACING_ENABLED"))
	cfg.OTLPEndpoint = getenvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
