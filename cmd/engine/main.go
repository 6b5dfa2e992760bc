package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"jobgenie-engine/internal/backend"
	"jobgenie-engine/internal/cache"
	"jobgenie-engine/internal/config"
	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/events"
	"jobgenie-engine/internal/httpapi"
	"jobgenie-engine/internal/logger"
	"jobgenie-engine/internal/scheduler"
	"jobgenie-engine/internal/secrets"
	"jobgenie-engine/internal/session"
	"jobgenie-engine/internal/store"
	"jobgenie-engine/internal/textutil"
	"jobgenie-engine/internal/wishlist"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const envShutdownToken = "JOBGENIE_SHUTDOWN_TOKEN"

func main() {
	var (
		dataDir     = pflag.String("data-dir", "", "engine data directory (default $JOBGENIE_DATA_DIR or .)")
		defaultCfg  = pflag.StringP("config", "c", filepath.Join("config", "config.yml"), "config used to seed the user config on first run")
		envFile     = pflag.String("env-file", ".env", "dotenv file with JOBGENIE_* overrides")
		logLevelArg = pflag.String("log-level", "", "override logger.level")
	)
	pflag.Parse()

	// Engine data dir: flag, then env (the desktop shell can pass one), else local folder.
	if *dataDir == "" {
		*dataDir = os.Getenv("JOBGENIE_DATA_DIR")
	}
	if *dataDir == "" {
		*dataDir = "."
	}
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create data dir")
	}

	userCfgPath, err := config.EnsureUserConfig(*dataDir, *defaultCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("config bootstrap failed")
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayEnv(&cfg, ""); err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, errors.New(strings.Join(vr.Errors, "; "))
		}
		return cfg, nil
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", userCfgPath).Msg("config load failed")
	}
	if err := config.OverlayEnv(&cfg, *envFile); err != nil {
		logger.Fatal().Err(err).Str("env_file", *envFile).Msg("env overlay failed")
	}
	if *logLevelArg != "" {
		cfg.Logger.Level = *logLevelArg
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		logger.Fatal().Strs("errors", vr.Errors).Str("path", userCfgPath).Msg("invalid config")
	}
	cfgVal.Store(cfg)

	log := logger.Init(logger.Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format})
	for _, w := range vr.Warnings {
		log.Warn().Str("path", userCfgPath).Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := filepath.Join(*dataDir, "jobgenie.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbPath).Msg("open store")
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal().Err(err).Msg("migrate store")
	}

	limiter := textutil.NewHostLimiter(cfg.Backend.RequestsPerSec, cfg.Backend.Burst)
	overviews := newCache(ctx, cfg, log)

	client, err := backend.New(&backend.Options{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.BackendTimeout(),
		Limiter:  limiter,
		Cache:    overviews,
		CacheTTL: cfg.CacheTTL(),
		Logger:   &log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("backend client")
	}

	hub := events.NewHub()

	sessOpts := session.Options{Notify: hub.Notify, Logger: &log}
	if cfg.Auth.RememberSession {
		sessOpts.Store = session.KeyringStore{Account: secrets.SessionAccount(client.BaseURL())}
	}
	sess := session.New(client, sessOpts)
	sess.Restore()
	checkCtx, cancelCheck := context.WithTimeout(ctx, cfg.BackendTimeout())
	st := sess.Check(checkCtx)
	cancelCheck()
	log.Info().Bool("authenticated", st.Authenticated).Msg("session checked")

	logos := store.NewLogoCache(db.Pool, store.LogoCacheOptions{Limiter: limiter, Logger: &log})

	flow := wishlist.NewFlow(client, wishlist.Options{
		PostedWithinDays: cfg.Wishlist.PostedWithinDays,
		BannerTTL:        cfg.BannerTTL(),
		Notify:           hub.Notify,
		Logger:           &log,
		OnCompanies: func(companies []domain.Company) {
			pctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			parallel := cfgVal.Load().(config.Config).Store.PrefetchParallel
			keys := store.PrefetchLogos(pctx, db.Pool, logos, companies, parallel)
			hub.Notify(events.TypeLogosReady, keys)
		},
	})

	go scheduler.Every(ctx, log, 6*time.Hour, "prune-logos", func(ctx context.Context) error {
		n, err := logos.Prune(ctx, cfgVal.Load().(config.Config).LogoMaxAge())
		if n > 0 {
			log.Info().Int64("pruned", n).Msg("old logos removed")
		}
		return err
	})

	mux := httpapi.NewMux(httpapi.Deps{
		Hub:         hub,
		Flow:        flow,
		Companies:   client,
		Session:     sess,
		Logos:       logos,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Logger:      log,
	})

	token, err := shutdownToken(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("shutdown token")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("listen")
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("POST /shutdown", shutdownHandler(&token, srv))

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info().
		Str("addr", "http://"+addr).
		Str("db", dbPath).
		Str("config", userCfgPath).
		Str("backend", client.BaseURL()).
		Msg("engine listening")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("serve")
	}
	log.Info().Msg("engine stopped")
}

// newCache returns the overview cache: Redis when configured and reachable,
// else in-process memory.
func newCache(ctx context.Context, cfg config.Config, log zerolog.Logger) cache.Cache {
	if cfg.Cache.RedisURL == "" {
		return cache.NewMemory()
	}
	rctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rdb, err := cache.NewRedisClient(rctx, cfg.Cache.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; using memory cache")
		return cache.NewMemory()
	}
	return cache.NewRedis(rdb, "jobgenie:")
}
