package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"jobgenie-engine/internal/domain"

	"golang.org/x/sync/errgroup"
)

// PrefetchLogos caches the logo of every company with at most parallel
// downloads in flight and records each company's website domain. It
// returns the logo key per company id for the logos that were cached.
// Individual failures are skipped.
func PrefetchLogos(ctx context.Context, db *sql.DB, lc *LogoCache, companies []domain.Company, parallel int) map[domain.ID]string {
	if parallel <= 0 {
		parallel = 4
	}

	var (
		mu   sync.Mutex
		keys = make(map[domain.ID]string, len(companies))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, co := range companies {
		co := co
		g.Go(func() error {
			if err := RecordCompanyDomain(gctx, db, co); err != nil {
				lc.log.Debug().Err(err).Str("company", co.Name).Msg("record company domain")
			}

			src := LogoSource(co.LogoURL, co.WebsiteURL)
			if src == "" {
				if d, _ := CompanyDomain(gctx, db, co.Name); d != "" {
					src = FaviconURLForDomain(d)
				}
			}

			fctx, cancel := context.WithTimeout(gctx, 20*time.Second)
			defer cancel()
			key, err := lc.Fetch(fctx, src)
			if err != nil {
				lc.log.Debug().Err(err).Str("company", co.Name).Msg("logo prefetch skipped")
				return nil
			}
			if key != "" {
				mu.Lock()
				keys[co.ID] = key
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return keys
}
