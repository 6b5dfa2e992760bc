package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/textutil"
)

// CompanyDomain returns the website host recorded for a company name, or "".
// Names are keyed the way job groups are reconciled: trimmed, case folded.
func CompanyDomain(ctx context.Context, db *sql.DB, name string) (string, error) {
	key := domain.NameKey(name)
	if key == "" {
		return "", nil
	}

	var host string
	err := db.QueryRowContext(ctx,
		`SELECT domain FROM company_domains WHERE company = ? LIMIT 1;`, key,
	).Scan(&host)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return host, err
}

// RecordCompanyDomain remembers the website host of co so later cycles can
// fall back to its favicon when the search result carries no website.
// Companies without a name or a usable website are skipped.
func RecordCompanyDomain(ctx context.Context, db *sql.DB, co domain.Company) error {
	key := domain.NameKey(co.Name)
	host := textutil.HostOf(co.WebsiteURL)
	if key == "" || host == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO company_domains(company, domain, fetched_at)
VALUES(?,?,?)
ON CONFLICT(company) DO UPDATE SET
  domain = excluded.domain,
  fetched_at = excluded.fetched_at;
`, key, host, time.Now().UTC().Format(time.RFC3339))
	return err
}
