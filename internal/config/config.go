package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the service reads from the environment. It is
// resolved once at startup; probe code never touches the environment.
type Config struct {
	Addr   string // API bind address, e.g. "127.0.0.1:8080"
	LogDir string // rotated JSON logs go here

	DatabaseURL string // empty means the in-memory cache

	Region           string   // identifier of the region this process runs in
	DefaultRegions   []string // regions /check-multi probes when the request names none
	EndpointTemplate string   // per-region endpoint template with one %s, e.g. https://checker-%s.example.com
	RegionAPIKey     string   // key sent on remote region invocations

	DNSTimeout   time.Duration
	PortTimeout  time.Duration
	HTTPTimeout  time.Duration
	MaxRedirects int

	ExternalProviders      []string
	ExternalTimeout        time.Duration // budget per provider call
	ExternalOverallTimeout time.Duration // budget for the whole provider fan-out
	ExternalCacheTTL       time.Duration

	RegionTimeout        time.Duration // one region's complete check
	MultiTimeout         time.Duration // overall multi-region deadline
	MaxConcurrentRegions int

	PublicRPM   int
	PublicBurst int

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	AllowedOrigins []string
}

// defaultProviders is the full free-provider set; EXTERNAL_PROVIDERS narrows
// it, and an explicitly empty value disables external verification.
var defaultProviders = []string{"downforeveryoneorjustme", "isitdownrightnow", "websiteplanet"}

func FromEnv() Config {
	return Config{
		Addr:        envStr("ADDR", "127.0.0.1:8080"),
		LogDir:      envStr("LOG_DIR", "logs"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		Region:           envStr("REGION", "local"),
		DefaultRegions:   envList("DEFAULT_REGIONS"),
		EndpointTemplate: os.Getenv("REGION_ENDPOINT_TEMPLATE"),
		RegionAPIKey:     os.Getenv("REGION_API_KEY"),

		DNSTimeout:   envMS("DNS_TIMEOUT_MS", 3000),
		PortTimeout:  envMS("PORT_TIMEOUT_MS", 5000),
		HTTPTimeout:  envMS("HTTP_TIMEOUT_MS", 10000),
		MaxRedirects: envInt("HTTP_MAX_REDIRECTS", 5),

		ExternalProviders:      envListDefault("EXTERNAL_PROVIDERS", defaultProviders),
		ExternalTimeout:        envMS("EXTERNAL_TIMEOUT_MS", 3000),
		ExternalOverallTimeout: envMS("EXTERNAL_OVERALL_TIMEOUT_MS", 5000),
		ExternalCacheTTL:       envMS("EXTERNAL_CACHE_TTL_MS", 300000), // 5 minutes

		RegionTimeout:        envMS("REGION_TIMEOUT_MS", 15000),
		MultiTimeout:         envMS("MULTI_TIMEOUT_MS", 20000),
		MaxConcurrentRegions: envInt("MAX_CONCURRENT_REGIONS", 4),

		PublicRPM:   envInt("PUBLIC_RPM", 120),
		PublicBurst: envInt("PUBLIC_BURST", 60),

		PublicAPIKeys:  envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:   envList("ADMIN_API_KEYS"),
		AllowedOrigins: envList("ALLOWED_ORIGINS"),
	}
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envMS(key string, defMS int) time.Duration {
	return time.Duration(envInt(key, defMS)) * time.Millisecond
}

func envList(key string) []string {
	return splitList(os.Getenv(key))
}

// envListDefault keeps def only while the variable is unset; setting it to
// an empty string yields an empty list.
func envListDefault(key string, def []string) []string {
	if _, ok := os.LookupEnv(key); !ok {
		return def
	}
	return splitList(os.Getenv(key))
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
