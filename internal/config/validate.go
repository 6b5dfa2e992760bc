package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("backend.base_url must be an absolute URL, got %q", cfg.Backend.BaseURL))
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		errs = append(errs, "backend.timeout_seconds must be > 0")
	}
	if cfg.Backend.RequestsPerSec <= 0 {
		errs = append(errs, "backend.requests_per_sec must be > 0")
	}
	if cfg.Backend.Burst <= 0 {
		errs = append(errs, "backend.burst must be > 0")
	}
	if cfg.Wishlist.PostedWithinDays <= 0 {
		errs = append(errs, "wishlist.posted_within_days must be > 0")
	}
	if cfg.Wishlist.BannerSeconds <= 0 {
		errs = append(errs, "wishlist.banner_seconds must be > 0")
	}
	if cfg.Cache.TTLSeconds < 0 {
		errs = append(errs, "cache.ttl_seconds must be >= 0")
	}
	if cfg.Store.PrefetchParallel <= 0 {
		errs = append(errs, "store.prefetch_parallel must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
