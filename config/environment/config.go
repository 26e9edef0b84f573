package environment

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMenuURL   = "https://www.swiggy.com/mapi/menu/pl"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/114.0.0.0 Safari/537.36"
	DefaultLat       = "19.0176147"
	DefaultLng       = "72.8561644"

	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	Port   string
	AppEnv string

	MenuURL          string
	UserAgent        string
	DefaultLat       string
	DefaultLng       string
	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchRatePerSec  float64
	FetchMode        string

	CurrencySymbol   string
	PublicDir        string
	CORSAllowOrigins []string
	MaxUploadBytes   int64

	FirebaseCredentials string
	FirebaseProjectID   string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// FirestoreEnabled reports whether report history should go to Firestore.
func (c *Config) FirestoreEnabled() bool {
	return c.FirebaseCredentials != "" && c.FirebaseProjectID != ""
}

// Load reads configuration from the environment, loading .env first outside production.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️  No .env file found, using environment and defaults")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env files.
func FromEnv() (*Config, error) {
	c := &Config{
		Port:                getEnv("PORT", "8080"),
		AppEnv:              getEnv("APP_ENV", "development"),
		MenuURL:             getEnv("SWIGGY_MENU_URL", DefaultMenuURL),
		UserAgent:           getEnv("USER_AGENT", DefaultUserAgent),
		DefaultLat:          getEnv("DEFAULT_LAT", DefaultLat),
		DefaultLng:          getEnv("DEFAULT_LNG", DefaultLng),
		FetchTimeout:        30 * time.Second,
		FetchConcurrency:    1,
		FetchMode:           strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		CurrencySymbol:      getEnv("CURRENCY_SYMBOL", "₹"),
		PublicDir:           getEnv("PUBLIC_DIR", "public"),
		CORSAllowOrigins:    splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		MaxUploadBytes:      10 << 20,
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q", v)
		}
		c.FetchTimeout = d
	}

	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid FETCH_CONCURRENCY %q: must be an integer >= 1", v)
		}
		c.FetchConcurrency = n
	}

	if v := os.Getenv("FETCH_RATE_PER_SEC"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return nil, fmt.Errorf("invalid FETCH_RATE_PER_SEC %q", v)
		}
		c.FetchRatePerSec = r
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", v)
		}
		c.MaxUploadBytes = int64(n) << 20
	}

	if len(c.CORSAllowOrigins) == 0 {
		return nil, fmt.Errorf("invalid CORS_ALLOW_ORIGINS: no origins listed")
	}

	if c.FetchMode != FetchModeHTTP && c.FetchMode != FetchModeBrowser {
		return nil, fmt.Errorf("invalid FETCH_MODE %q: want %q or %q", c.FetchMode, FetchModeHTTP, FetchModeBrowser)
	}

	return c, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
