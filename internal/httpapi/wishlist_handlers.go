package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"jobgenie-engine/internal/config"
	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/rank"
	"jobgenie-engine/internal/store"
	"jobgenie-engine/internal/textutil"
	"jobgenie-engine/internal/wishlist"

	"github.com/rs/zerolog"
)

type WishlistHandler struct {
	Flow   *wishlist.Flow
	CfgVal *atomic.Value // stores config.Config
	Log    zerolog.Logger
}

// companyView adds what a card needs to render without another request.
type companyView struct {
	wishlist.CompanyView
	Initial  string `json:"initial"`
	LogoPath string `json:"logoPath,omitempty"`
}

type stateView struct {
	wishlist.State
	Companies []companyView `json:"companies"`
}

func viewState(st wishlist.State) stateView {
	out := stateView{State: st, Companies: make([]companyView, 0, len(st.Companies))}
	for _, c := range st.Companies {
		out.Companies = append(out.Companies, companyView{
			CompanyView: c,
			Initial:     c.Initial(),
			LogoPath:    logoPath(c.Company),
		})
	}
	return out
}

func logoPath(c domain.Company) string {
	key := store.LogoKey(store.LogoSource(c.LogoURL, c.WebsiteURL))
	if key == "" {
		return ""
	}
	return "/logo/" + key
}

func (h WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, viewState(h.Flow.Snapshot()))
}

// Options returns the filter choices and the initial form state.
func (h WishlistHandler) Options(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	writeJSON(w, map[string]any{
		"defaults":   wishlist.DefaultFilters(cfg.Wishlist.DefaultCountry),
		"industries": cfg.Wishlist.Industries,
		"sizes":      cfg.Wishlist.Sizes,
		"cities":     cfg.Wishlist.Cities,
		"countries":  cfg.Wishlist.Countries,
	})
}

type generateRequest struct {
	Filters      *wishlist.FilterSet `json:"filters"`
	RoleKeywords string              `json:"roleKeywords"`
}

func (h WishlistHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	filters := wishlist.DefaultFilters(h.CfgVal.Load().(config.Config).Wishlist.DefaultCountry)
	if req.Filters != nil {
		filters = *req.Filters
	}

	// The cycle finishes even if the browser goes away; state is pushed over SSE.
	ctx := context.WithoutCancel(r.Context())
	out, err := h.Flow.Generate(ctx, filters, req.RoleKeywords)
	switch {
	case errors.Is(err, wishlist.ErrNoRoleKeywords):
		WriteError(w, r, http.StatusBadRequest, CodeValidation, err.Error())
		return
	case errors.Is(err, wishlist.ErrCycleInFlight):
		WriteError(w, r, http.StatusConflict, CodeInFlight, err.Error())
		return
	case err != nil:
		h.Log.Error().Err(err).Msg("generate")
		WriteError(w, r, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"outcome":        out,
		"wishlistFailed": out.WishlistFailed(),
		"jobsFailed":     out.JobsFailed(),
		"state":          viewState(h.Flow.Snapshot()),
	})
}

func (h WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(strings.TrimSpace(r.PathValue("id")))
	if !h.Flow.Remove(id) {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "company not in wishlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rankedPosting struct {
	domain.JobPosting
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
}

type detailView struct {
	Company  companyView     `json:"company"`
	Matching bool            `json:"matching"`
	Jobs     []rankedPosting `json:"jobs"`
}

// Jobs is the on-demand detail view: the postings of the job group that
// reconciles with the company, tagged with the role keywords they mention.
func (h WishlistHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(strings.TrimSpace(r.PathValue("id")))
	d, ok := h.Flow.JobsFor(id)
	if !ok {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "company not in wishlist")
		return
	}

	out := detailView{
		Company: companyView{
			CompanyView: wishlist.CompanyView{Company: d.Company, Location: textutil.JoinLocation(d.Company.City, d.Company.Country)},
			Initial:     d.Company.Initial(),
			LogoPath:    logoPath(d.Company),
		},
		Jobs: []rankedPosting{},
	}
	if d.Group != nil {
		out.Matching = true
		out.Company.JobCount = len(d.Group.Jobs)
		scorer := rank.KeywordScorer{Keywords: d.Keywords}
		for _, j := range d.Group.Jobs {
			score, tags := scorer.Score(j)
			out.Jobs = append(out.Jobs, rankedPosting{JobPosting: j, Score: score, Matched: tags})
		}
	}
	writeJSON(w, out)
}

func (h WishlistHandler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	kind := wishlist.BannerKind(r.PathValue("kind"))
	if !kind.Valid() {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "unknown banner kind")
		return
	}
	if !h.Flow.DismissBanner(kind) {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "banner not shown")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
