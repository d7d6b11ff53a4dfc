package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Wall is the wall client's configuration: endpoints, cooldown, pagination
// and retry knobs. Loaded from a YAML file with sensible defaults so the
// client runs with no file at all.
type Wall struct {
	ProxyURL      string `yaml:"proxy_url"`
	FallbackIPURL string `yaml:"fallback_ip_url"`

	CooldownHours int `yaml:"cooldown_hours"`
	PageSize      int `yaml:"page_size"`

	Retry struct {
		MaxAttempts    int `yaml:"max_attempts"`
		InitialDelayMS int `yaml:"initial_delay_ms"`
		MaxDelayMS     int `yaml:"max_delay_ms"`
		Multiplier     int `yaml:"backoff_multiplier"`
	} `yaml:"retry"`

	CaptchaSiteKey string `yaml:"captcha_site_key"`
	CaptchaAction  string `yaml:"captcha_action"`

	// CachePath is the best-effort local submission cache. Display and
	// gate fallback only, never authoritative while the proxy answers.
	CachePath string `yaml:"cache_path"`
}

func defaultWall() Wall {
	w := Wall{
		ProxyURL:       "https://nocodb-proxy.edomingt.workers.dev/api",
		FallbackIPURL:  "https://api.ipify.org?format=json",
		CooldownHours:  24,
		PageSize:       5,
		CaptchaSiteKey: "",
		CaptchaAction:  "submit_greeting",
		CachePath:      "greetings-cache.json",
	}
	w.Retry.MaxAttempts = 3
	w.Retry.InitialDelayMS = 1000
	w.Retry.MaxDelayMS = 5000
	w.Retry.Multiplier = 2
	return w
}

// LoadWall reads the YAML config at path. A missing file yields the
// defaults; a malformed one is an error.
func LoadWall(path string) (Wall, error) {
	cfg := defaultWall()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (w Wall) Cooldown() time.Duration {
	return time.Duration(w.CooldownHours) * time.Hour
}
