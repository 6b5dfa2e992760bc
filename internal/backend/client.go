package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"jobgenie-engine/internal/cache"
	"jobgenie-engine/internal/textutil"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

var DefaultBaseURL = "http://localhost:3000"

var (
	ErrWishlistGenerationFailed = errors.New("wishlist generation failed")
	ErrJobFetchFailed           = errors.New("job fetch failed")
	ErrRequestFailed            = errors.New("backend request failed")
)

const userAgent = "JobGenie-Engine/1.0 (+local)"

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration

	// Limiter throttles outbound requests per host. Optional.
	Limiter *textutil.HostLimiter

	// Cache holds company overview responses for CacheTTL. Optional.
	Cache    cache.Cache
	CacheTTL time.Duration

	Logger *zerolog.Logger
}

// Client talks to the remote JobGenie backend.
//
// Auth calls go through a cookie jar so the backend session survives
// between calls. Wishlist and job searches use a client without the jar and
// therefore never carry session credentials.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	anon    *http.Client
	lim     *textutil.HostLimiter
	cache   cache.Cache
	ttl     time.Duration
	log     zerolog.Logger
}

func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	} else {
		cp := *hc
		hc = &cp
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	anon := *hc
	anon.Jar = nil

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "backend").Logger()
	}

	return &Client{
		baseURL: base,
		hc:      hc,
		anon:    &anon,
		lim:     opts.Limiter,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		log:     log,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

// endpoint joins the base URL with an already escaped path.
func (c *Client) endpoint(path string, q url.Values) string {
	s := strings.TrimRight(c.baseURL.String(), "/") + path
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}

// do sends one request and decodes the JSON body into out whatever the
// status. Only transport and (for 2xx) decode problems are errors; callers
// judge the status and the body's success flag.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, q url.Values, body, out any) (int, error) {
	target := c.endpoint(path, q)
	if err := c.lim.WaitURL(ctx, target); err != nil {
		return 0, err
	}

	var rdr io.Reader
	if body != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return 0, err
		}
		rdr = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := hc.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return 0, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")
	if err != nil {
		return res.StatusCode, err
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil && ok(res.StatusCode) {
			return res.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return res.StatusCode, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

// errorBody is the error shape the backend uses on failures.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorBody) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
