package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FillsMissingKeysFromDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: "https://api.jobgenie.test"
wishlist:
  banner_seconds: 3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.jobgenie.test", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.Wishlist.BannerSeconds)
	assert.Equal(t, DefaultPostedWithin, cfg.Wishlist.PostedWithinDays)
	assert.Equal(t, DefaultCountry, cfg.Wishlist.DefaultCountry)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.Backend.TimeoutSeconds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Backend.BaseURL = "localhost"
	cfg.Wishlist.BannerSeconds = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")
	assert.Contains(t, err.Error(), "backend.base_url")
	assert.Contains(t, err.Error(), "wishlist.banner_seconds")
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = " http://localhost:3000/ "
	cfg.Wishlist.Cities = []string{" London", "london", "", "Leeds "}
	cfg.Logger.Format = "XML"

	out, vr := NormalizeAndValidate(cfg)

	assert.Equal(t, "http://localhost:3000", out.Backend.BaseURL)
	assert.Equal(t, []string{"London", "Leeds"}, out.Wishlist.Cities)
	assert.False(t, vr.OK())
	require.Len(t, vr.Errors, 1)
	assert.Contains(t, vr.Errors[0], "logger.format")
}

func TestNormalizeAndValidate_SplitsValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = -1
	cfg.Backend.Burst = 0

	_, vr := NormalizeAndValidate(cfg)
	assert.Equal(t, []string{"app.port must be 1..65535", "backend.burst must be > 0"}, vr.Errors)
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	first := Default()
	require.NoError(t, SaveAtomic(path, first))

	second := Default()
	second.Wishlist.BannerSeconds = 9
	require.NoError(t, SaveAtomic(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Wishlist.BannerSeconds)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, DefaultBannerSeconds, bak.Wishlist.BannerSeconds)
}

func TestSaveAtomic_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Backend.TimeoutSeconds = 0
	err := SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg)
	assert.Error(t, err)
}

func TestEnsureUserConfig_WritesDefaultsWhenNoTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join(dir, "missing-default.yml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.App.DataDir)

	// second call keeps the existing file
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 9999\n"), 0o644))
	again, err := EnsureUserConfig(dir, "")
	require.NoError(t, err)
	cfg, err = Load(again)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.App.Port)
}

func TestOverlayEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JOBGENIE_API_BASE_URL=https://from-dotenv.test\n"), 0o644))

	t.Setenv(EnvBaseURL, "")
	require.NoError(t, os.Unsetenv(EnvBaseURL))
	t.Setenv(EnvPort, "40000")

	cfg := Default()
	require.NoError(t, OverlayEnv(&cfg, envFile))
	assert.Equal(t, "https://from-dotenv.test", cfg.Backend.BaseURL)
	assert.Equal(t, 40000, cfg.App.Port)
}

func TestOverlayEnv_MissingFileIsFine(t *testing.T) {
	cfg := Default()
	assert.NoError(t, OverlayEnv(&cfg, filepath.Join(t.TempDir(), ".env")))
}
