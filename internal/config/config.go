package config

import (
	"os"
	"strconv"
)

// Config is the proxy's environment configuration. Secrets (the NocoDB
// token, the hCaptcha secret) live here and only here; the wall client
// never sees them.
type Config struct {
	Port            string
	NocoDBURL       string
	NocoDBToken     string
	AllowedOrigin   string
	HCaptchaSecret  string
	RateLimitPerMin int
	RedisAddr       string
	RabbitURL       string
	ProdLog         bool
}

func Load() Config {
	return Config{
		Port:            getenv("APP_PORT", "8080"),
		NocoDBURL:       getenv("NOCODB_URL", "https://app.nocodb.com/api/v2/tables/mtujnjge9o5j98m/records"),
		NocoDBToken:     getenv("NOCODB_TOKEN", ""),
		AllowedOrigin:   getenv("ALLOWED_ORIGIN", "https://emiliodom.github.io"),
		HCaptchaSecret:  getenv("HCAPTCHA_SECRET", ""),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "10")),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RabbitURL:       getenv("RABBIT_URL", ""),
		ProdLog:         getenv("PROD_LOG", "") == "1",
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
