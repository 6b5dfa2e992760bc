// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://localhost:3000"
	DefaultCountry        = "United Kingdom"
	DefaultPostedWithin   = 7
	DefaultBannerSeconds  = 5
	DefaultTimeoutSeconds = 20
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Backend struct {
		BaseURL        string  `yaml:"base_url" json:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RequestsPerSec float64 `yaml:"requests_per_sec" json:"requests_per_sec"`
		Burst          int     `yaml:"burst" json:"burst"`
	} `yaml:"backend" json:"backend"`

	Wishlist struct {
		DefaultCountry   string   `yaml:"default_country" json:"default_country"`
		PostedWithinDays int      `yaml:"posted_within_days" json:"posted_within_days"`
		BannerSeconds    int      `yaml:"banner_seconds" json:"banner_seconds"`
		Industries       []string `yaml:"industries" json:"industries"`
		Sizes            []string `yaml:"sizes" json:"sizes"`
		Cities           []string `yaml:"cities" json:"cities"`
		Countries        []string `yaml:"countries" json:"countries"`
	} `yaml:"wishlist" json:"wishlist"`

	Auth struct {
		RememberSession bool `yaml:"remember_session" json:"remember_session"`
	} `yaml:"auth" json:"auth"`

	Cache struct {
		RedisURL   string `yaml:"redis_url" json:"redis_url"`
		TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
	} `yaml:"cache" json:"cache"`

	Store struct {
		LogoMaxAgeDays   int `yaml:"logo_max_age_days" json:"logo_max_age_days"`
		PrefetchParallel int `yaml:"prefetch_parallel" json:"prefetch_parallel"`
	} `yaml:"store" json:"store"`

	Logger struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"`
	} `yaml:"logger" json:"logger"`
}

// Default returns the settings used when a key is missing from the file.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.Backend.BaseURL = DefaultBaseURL
	cfg.Backend.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.Backend.RequestsPerSec = 5
	cfg.Backend.Burst = 5
	cfg.Wishlist.DefaultCountry = DefaultCountry
	cfg.Wishlist.PostedWithinDays = DefaultPostedWithin
	cfg.Wishlist.BannerSeconds = DefaultBannerSeconds
	cfg.Wishlist.Industries = []string{
		"Artificial Intelligence", "Fintech", "SaaS", "E-commerce", "Gaming",
		"Cybersecurity", "Cloud Computing", "Biotechnology", "EdTech", "HealthTech",
	}
	cfg.Wishlist.Sizes = []string{"1-50", "51-200", "201-500", "500+"}
	cfg.Wishlist.Cities = []string{
		"London", "Manchester", "Birmingham", "Edinburgh", "Glasgow",
		"Bristol", "Leeds", "Liverpool", "Cambridge", "Oxford",
	}
	cfg.Wishlist.Countries = []string{DefaultCountry}
	cfg.Cache.TTLSeconds = 600
	cfg.Store.LogoMaxAgeDays = 30
	cfg.Store.PrefetchParallel = 4
	cfg.Logger.Level = "info"
	cfg.Logger.Format = "json"
	return cfg
}

// Load reads the YAML file on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c Config) BannerTTL() time.Duration {
	return time.Duration(c.Wishlist.BannerSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c Config) LogoMaxAge() time.Duration {
	return time.Duration(c.Store.LogoMaxAgeDays) * 24 * time.Hour
}
