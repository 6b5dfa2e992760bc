package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"jobgenie-engine/internal/cache"
	"jobgenie-engine/internal/domain"
)

type overviewResponse struct {
	Success bool            `json:"success"`
	Data    domain.Overview `json:"data"`
	errorBody
}

type jobsResponse struct {
	Success bool               `json:"success"`
	Data    []domain.JobDetail `json:"data"`
	errorBody
}

type jobDetailResponse struct {
	Success bool             `json:"success"`
	Data    domain.JobDetail `json:"data"`
	errorBody
}

func companyPath(name string, rest ...string) string {
	parts := append([]string{"/api/companies", url.PathEscape(strings.TrimSpace(name))}, rest...)
	return strings.Join(parts, "/")
}

func overviewKey(name string) string {
	return "overview:" + domain.NameKey(name)
}

// lookupError formats a failed profile lookup the way the UI shows it:
// "failed to <what>: <reason>", where reason is the backend's error text
// when it sent one.
func lookupError(what string, status int, eb errorBody, err error) error {
	reason := eb.text()
	switch {
	case reason != "":
	case err != nil:
		reason = err.Error()
	default:
		reason = fmt.Sprintf("status %d", status)
	}
	return fmt.Errorf("%w: failed to %s: %s", ErrRequestFailed, what, reason)
}

// CompanyOverview returns a company's profile and open roles. Successful
// responses are cached by company name when the client has a cache.
func (c *Client) CompanyOverview(ctx context.Context, name string) (domain.Overview, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Overview{}, fmt.Errorf("%w: failed to fetch company overview: company name is empty", ErrRequestFailed)
	}

	key := overviewKey(name)
	if c.cache != nil {
		b, err := c.cache.Get(ctx, key)
		if err == nil {
			var ov domain.Overview
			if json.Unmarshal(b, &ov) == nil {
				return ov, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			c.log.Warn().Err(err).Str("company", name).Msg("overview cache read failed")
		}
	}

	var resp overviewResponse
	status, err := c.do(ctx, c.hc, http.MethodGet, companyPath(name, "overview"), nil, nil, &resp)
	if err != nil || !ok(status) || !resp.Success {
		return domain.Overview{}, lookupError("fetch company overview", status, resp.errorBody, err)
	}

	if c.cache != nil {
		if b, err := json.Marshal(resp.Data); err == nil {
			if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
				c.log.Warn().Err(err).Str("company", name).Msg("overview cache write failed")
			}
		}
	}
	return resp.Data, nil
}

// CompanyJobs returns the jobs listed for one company.
func (c *Client) CompanyJobs(ctx context.Context, name string) ([]domain.JobDetail, error) {
	var resp jobsResponse
	status, err := c.do(ctx, c.hc, http.MethodGet, companyPath(name, "jobs"), nil, nil, &resp)
	if err != nil || !ok(status) {
		return nil, lookupError("fetch jobs", status, resp.errorBody, err)
	}
	if resp.Data == nil {
		return []domain.JobDetail{}, nil
	}
	return resp.Data, nil
}

// JobDetails returns one job of a company.
func (c *Client) JobDetails(ctx context.Context, name, jobID string) (domain.JobDetail, error) {
	var resp jobDetailResponse
	status, err := c.do(ctx, c.hc, http.MethodGet, companyPath(name, "jobs", url.PathEscape(jobID)), nil, nil, &resp)
	if err != nil || !ok(status) {
		return domain.JobDetail{}, lookupError("fetch job details", status, resp.errorBody, err)
	}
	return resp.Data, nil
}

// ForgetOverview drops a cached overview.
func (c *Client) ForgetOverview(ctx context.Context, name string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, overviewKey(name))
}
