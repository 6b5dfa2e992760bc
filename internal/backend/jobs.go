package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jobgenie-engine/internal/domain"
)

// DefaultPostedWithin is the recency window, in days, of a job search.
const DefaultPostedWithin = 7

// JobSearchRequest is the body of the batched job search. Remote is a
// reserved filter and is sent as null when unset.
type JobSearchRequest struct {
	PostedAt  int              `json:"postedAt"`
	Companies []domain.Company `json:"companies"`
	JobTitles []string         `json:"jobTitles"`
	Remote    *bool            `json:"remote"`
}

// jobSearchBody is JobSearchRequest on the wire: companies go out as the
// company search returned them.
type jobSearchBody struct {
	PostedAt  int               `json:"postedAt"`
	Companies []json.RawMessage `json:"companies"`
	JobTitles []string          `json:"jobTitles"`
	Remote    *bool             `json:"remote"`
}

type jobSearchResponse struct {
	Success bool              `json:"success"`
	Results []domain.JobGroup `json:"results"`
}

// SearchJobs issues one job search covering every company in req. Groups
// come back in backend order. Any failure is ErrJobFetchFailed.
func (c *Client) SearchJobs(ctx context.Context, req JobSearchRequest) ([]domain.JobGroup, error) {
	if req.PostedAt <= 0 {
		req.PostedAt = DefaultPostedWithin
	}
	if req.JobTitles == nil {
		req.JobTitles = []string{}
	}
	body := jobSearchBody{
		PostedAt:  req.PostedAt,
		Companies: make([]json.RawMessage, 0, len(req.Companies)),
		JobTitles: req.JobTitles,
		Remote:    req.Remote,
	}
	for _, co := range req.Companies {
		raw, err := co.WireJSON()
		if err != nil {
			return nil, fmt.Errorf("%w: encode company %q: %v", ErrJobFetchFailed, co.Name, err)
		}
		body.Companies = append(body.Companies, raw)
	}

	var resp jobSearchResponse
	status, err := c.do(ctx, c.anon, http.MethodPost, "/jobs", nil, body, &resp)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrJobFetchFailed, err)
	case !ok(status):
		return nil, fmt.Errorf("%w: status %d", ErrJobFetchFailed, status)
	case !resp.Success:
		return nil, fmt.Errorf("%w: success=false", ErrJobFetchFailed)
	}
	if resp.Results == nil {
		return []domain.JobGroup{}, nil
	}
	return resp.Results, nil
}
