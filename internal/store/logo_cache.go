package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobgenie-engine/internal/textutil"

	"github.com/rs/zerolog"
)

var (
	ErrLogoNotFound = errors.New("logo not found")
	ErrNotImage     = errors.New("not an image")
)

const maxLogoBytes = 512 * 1024

func LogoKeyFromURL(u string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(u)))
	return hex.EncodeToString(h[:])
}

// logoFetchURL is the URL actually downloaded for raw. The fragment is
// never sent over HTTP, so it is not part of the key either.
func logoFetchURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}

// LogoKey is the key Fetch stores the logo at raw under, or "" for a blank URL.
func LogoKey(raw string) string {
	u := logoFetchURL(raw)
	if u == "" {
		return ""
	}
	return LogoKeyFromURL(u)
}

// FaviconURLForDomain returns a favicon service URL for a bare domain or a
// website URL.
func FaviconURLForDomain(domain string) string {
	domain = textutil.HostOf(domain)
	if domain == "" {
		return ""
	}
	// sz can be 16/32/64/128
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(domain) + "&sz=64"
}

// LogoSource picks the image URL for a company: its logo URL, else the
// favicon of its website.
func LogoSource(logoURL, websiteURL string) string {
	if u := strings.TrimSpace(logoURL); u != "" {
		return u
	}
	return FaviconURLForDomain(websiteURL)
}

type Logo struct {
	Key         string
	ContentType string
	Bytes       []byte
	FetchedAt   time.Time
}

type LogoCacheOptions struct {
	HTTPClient *http.Client
	Limiter    *textutil.HostLimiter
	Logger     *zerolog.Logger
}

// LogoCache downloads company logos once and serves them from SQLite.
type LogoCache struct {
	db  *sql.DB
	hc  *http.Client
	lim *textutil.HostLimiter
	log zerolog.Logger
	now func() time.Time
}

func NewLogoCache(db *sql.DB, opts LogoCacheOptions) *LogoCache {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "logo-cache").Logger()
	}
	return &LogoCache{db: db, hc: hc, lim: opts.Limiter, log: log, now: time.Now}
}

// blockedHost reports hosts that always refuse hotlinked images.
func blockedHost(host string) bool {
	return host == "media.licdn.com" || strings.HasSuffix(host, ".licdn.com")
}

// Fetch caches the image at raw and returns its key. A URL that cannot be
// used (blank, relative, blocked host) returns "" and no error; so do
// remote failures, which are only logged.
func (c *LogoCache) Fetch(ctx context.Context, raw string) (key string, err error) {
	raw = logoFetchURL(raw)
	if raw == "" {
		return "", nil
	}

	pu, err := url.Parse(raw)
	if err != nil || (pu.Scheme != "http" && pu.Scheme != "https") || pu.Host == "" {
		return "", nil
	}
	if blockedHost(strings.ToLower(pu.Hostname())) {
		return "", nil
	}

	key = LogoKey(raw)

	var exists int
	e := c.db.QueryRowContext(ctx, `SELECT 1 FROM logos WHERE key = ? LIMIT 1;`, key).Scan(&exists)
	if e == nil {
		return key, nil
	}
	if !errors.Is(e, sql.ErrNoRows) {
		return "", e
	}

	if err := c.lim.WaitURL(ctx, raw); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug().Str("url", raw).Err(err).Msg("logo fetch failed")
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Str("url", raw).Int("status", resp.StatusCode).Msg("logo fetch non-2xx")
		return "", nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil || len(b) == 0 || len(b) > maxLogoBytes {
		return "", nil
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		sn := http.DetectContentType(b)
		if !strings.HasPrefix(sn, "image/") {
			return "", fmt.Errorf("%s: %w", raw, ErrNotImage)
		}
		ct = sn
	}

	_, err = c.db.ExecContext(ctx, `
INSERT OR REPLACE INTO logos(key, source_url, content_type, bytes, fetched_at)
VALUES(?,?,?,?,?);`,
		key, raw, ct, b, c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return key, nil
}

// Get returns a cached logo by key.
func (c *LogoCache) Get(ctx context.Context, key string) (Logo, error) {
	var (
		l       = Logo{Key: key}
		fetched string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT content_type, bytes, fetched_at FROM logos WHERE key = ?;`, key,
	).Scan(&l.ContentType, &l.Bytes, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return Logo{}, ErrLogoNotFound
	}
	if err != nil {
		return Logo{}, err
	}
	l.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
	return l, nil
}

// Prune deletes logos fetched more than maxAge ago.
func (c *LogoCache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := c.now().UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := c.db.ExecContext(ctx, `DELETE FROM logos WHERE fetched_at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune logos: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
