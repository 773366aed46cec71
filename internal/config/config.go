package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	ZoeziBaseURL   string
	ZoeziAPIKey    string
	DatabaseURL    string
	EmbedSecret    string
	SessionTTL     time.Duration
	StaticDir      string
}

func Load() Config {
	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")

	ttlHours, err := strconv.Atoi(getenv("SESSION_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 24
	}

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		Port:           port,
		AllowedOrigins: allowed,
		ZoeziBaseURL:   strings.TrimRight(getenv("ZOEZI_BASE_URL", ""), "/"),
		ZoeziAPIKey:    getenv("ZOEZI_API_KEY", ""),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		EmbedSecret:    getenv("EMBED_SECRET", ""),
		SessionTTL:     time.Duration(ttlHours) * time.Hour,
		StaticDir:      getenv("STATIC_DIR", ""),
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
