package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"jobgenie-engine/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, mod ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts := &Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}
	for _, m := range mod {
		m(opts)
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(&Options{BaseURL: "localhost:3000"})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestGenerateWishlist_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/wishlist/generate", r.URL.Path)
		assert.Equal(t, "United Kingdom", r.URL.Query().Get("country"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)

		_, _ = io.WriteString(w, `{"success":true,"total":2,"companies":[
			{"id":1,"name":"Monzo","city":"London","country":"United Kingdom"},
			{"id":"b2","name":"Wise","city":["London","Tallinn"],"country":"United Kingdom"}]}`)
	}))

	res, err := c.GenerateWishlist(context.Background(), url.Values{"country": {"United Kingdom"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Companies, 2)
	assert.Equal(t, "1", res.Companies[0].ID.String())
	assert.Equal(t, []string{"London", "Tallinn"}, []string(res.Companies[1].City))
}

func TestGenerateWishlist_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"success false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":false,"companies":[]}`)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"success":true,"companies":[]}`)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>oops</html>`)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h)
			_, err := c.GenerateWishlist(context.Background(), nil)
			assert.ErrorIs(t, err, ErrWishlistGenerationFailed)
		})
	}
}

func TestGenerateWishlist_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(&Options{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.GenerateWishlist(context.Background(), nil)
	assert.ErrorIs(t, err, ErrWishlistGenerationFailed)
}

func TestSearchJobs_RequestShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `7`, string(body["postedAt"]))
		assert.JSONEq(t, `null`, string(body["remote"]))
		assert.JSONEq(t, `["go developer"]`, string(body["jobTitles"]))
		assert.JSONEq(t, `[]`, string(body["companies"]))

		_, _ = io.WriteString(w, `{"success":true,"results":[
			{"company":"Monzo Bank","jobs":[{"id":7,"title":"Backend Engineer","company":"Monzo Bank","url":"https://x"}]},
			{"company":"Wise","jobs":[]}]}`)
	}))

	groups, err := c.SearchJobs(context.Background(), JobSearchRequest{JobTitles: []string{"go developer"}})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Monzo Bank", groups[0].Company)
	assert.Equal(t, "7", groups[0].Jobs[0].ID.String())
	assert.Equal(t, "Wise", groups[1].Company)
}

func TestSearchJobs_ResendsCompaniesVerbatim(t *testing.T) {
	const companies = `[{"id":42,"name":"Monzo","city":"London","country":"United Kingdom","linkedinUrl":"https://l/monzo?a=1&b=2"},{"id":"b2","name":"Wise","city":["London","Tallinn"],"tier":3}]`
	sent := make(chan string, 1)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/wishlist/generate":
			_, _ = io.WriteString(w, `{"success":true,"total":2,"companies":`+companies+`}`)
		case "/jobs":
			var body map[string]json.RawMessage
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			sent <- string(body["companies"])
			_, _ = io.WriteString(w, `{"success":true,"results":[]}`)
		}
	}))

	res, err := c.GenerateWishlist(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "42", res.Companies[0].ID.String())

	_, err = c.SearchJobs(context.Background(), JobSearchRequest{Companies: res.Companies, JobTitles: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, companies, <-sent)
}

func TestSearchJobs_Failure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	_, err := c.SearchJobs(context.Background(), JobSearchRequest{})
	assert.ErrorIs(t, err, ErrJobFetchFailed)
	assert.False(t, errors.Is(err, ErrWishlistGenerationFailed))
}

func TestSearchJobs_SendsNoSessionCookie(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
			_, _ = io.WriteString(w, `{"success":true,"user":{"email":"a@b.c"}}`)
		case "/auth/me":
			_, err := r.Cookie("sid")
			assert.NoError(t, err)
			_, _ = io.WriteString(w, `{"success":true,"email":"a@b.c"}`)
		case "/jobs":
			_, err := r.Cookie("sid")
			assert.ErrorIs(t, err, http.ErrNoCookie)
			_, _ = io.WriteString(w, `{"success":true,"results":[]}`)
		}
	}))

	ctx := context.Background()
	_, err := c.Login(ctx, Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	_, err = c.Me(ctx)
	require.NoError(t, err)
	_, err = c.SearchJobs(ctx, JobSearchRequest{JobTitles: []string{"x"}})
	require.NoError(t, err)
}

func TestCompanyOverview_CachesByName(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/companies/Acme Corp/overview", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true,"data":{"company":{"name":"Acme Corp","website":"acme.com"},
			"jobs":[{"id":"j1","title":"SRE","salary":{"min":60000,"max":80000},"matchScore":72}]}}`)
	}), func(o *Options) {
		o.Cache = cache.NewMemory()
		o.CacheTTL = time.Minute
	})

	ctx := context.Background()
	ov, err := c.CompanyOverview(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", ov.Company.Name)
	require.Len(t, ov.Jobs, 1)
	require.NotNil(t, ov.Jobs[0].MatchScore)
	assert.Equal(t, 72, *ov.Jobs[0].MatchScore)

	_, err = c.CompanyOverview(ctx, "acme corp ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, c.ForgetOverview(ctx, "Acme Corp"))
	_, err = c.CompanyOverview(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompanyOverview_ErrorText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"error":"Company not found"}`)
	}))
	_, err := c.CompanyOverview(context.Background(), "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "failed to fetch company overview: Company not found")
}

func TestCompanyJobsAndDetails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/companies/Monzo/jobs":
			_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"1","title":"iOS Engineer"}]}`)
		case "/api/companies/Monzo/jobs/1":
			_, _ = io.WriteString(w, `{"success":true,"data":{"id":"1","title":"iOS Engineer","requirements":["Swift"]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	jobs, err := c.CompanyJobs(ctx, "Monzo")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job, err := c.JobDetails(ctx, "Monzo", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Swift"}, job.Requirements)

	_, err = c.JobDetails(ctx, "Monzo", "2")
	assert.ErrorContains(t, err, "failed to fetch job details: status 404")
}
