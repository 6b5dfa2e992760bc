package wishlist

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"sync"
	"time"

	"jobgenie-engine/internal/backend"
	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/textutil"

	"github.com/rs/zerolog"
)

// Backend is the part of the remote API a generation cycle needs.
type Backend interface {
	GenerateWishlist(ctx context.Context, filters url.Values) (backend.WishlistResult, error)
	SearchJobs(ctx context.Context, req backend.JobSearchRequest) ([]domain.JobGroup, error)
}

// Notify receives state change events: "wishlist_updated",
// "banner_dismissed" and "loading".
type Notify func(typ string, v any)

type Options struct {
	PostedWithinDays int
	BannerTTL        time.Duration

	Now       func() time.Time
	AfterFunc func(d time.Duration, f func()) *time.Timer

	Notify Notify
	// OnCompanies is called in its own goroutine with every freshly
	// generated company list (logo prefetch).
	OnCompanies func([]domain.Company)

	Logger *zerolog.Logger
}

// Flow owns the wishlist view state of one engine: the curated company
// list, the job groups of the last cycle, the loading flag and the banners.
type Flow struct {
	be   Backend
	opts Options
	log  zerolog.Logger

	mu        sync.Mutex
	running   bool
	filters   Normalized
	keywords  []string
	companies []domain.Company
	total     int
	groups    []domain.JobGroup
	banners   map[BannerKind]Banner
	timers    map[BannerKind]*time.Timer
	generated time.Time
}

func NewFlow(be Backend, opts Options) *Flow {
	if opts.PostedWithinDays <= 0 {
		opts.PostedWithinDays = backend.DefaultPostedWithin
	}
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = time.AfterFunc
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "wishlist").Logger()
	}
	return &Flow{
		be:      be,
		opts:    opts,
		log:     log,
		banners: map[BannerKind]Banner{},
		timers:  map[BannerKind]*time.Timer{},
	}
}

// Outcome describes one finished generation cycle.
type Outcome struct {
	Filters   Normalized `json:"filters"`
	Keywords  []string   `json:"keywords"`
	Companies int        `json:"companies"`
	Total     int        `json:"total"`
	JobGroups int        `json:"jobGroups"`

	// WishlistErr and JobsErr carry the failure of the respective request.
	// They are already reflected in the banners.
	WishlistErr error `json:"-"`
	JobsErr     error `json:"-"`

	Banners []Banner `json:"banners"`
}

func (o Outcome) WishlistFailed() bool { return o.WishlistErr != nil }
func (o Outcome) JobsFailed() bool     { return o.JobsErr != nil }

// Generate runs one generation cycle: validate the role keywords, search
// companies, then search jobs across every returned company. The job search
// only starts after the company search succeeded. A company search failure
// leaves the current list untouched; a job search failure keeps the new
// companies with zero job counts.
//
// The returned error is ErrNoRoleKeywords or ErrCycleInFlight; network
// failures are reported through the Outcome and the banners.
func (f *Flow) Generate(ctx context.Context, filters FilterSet, roleKeywords string) (Outcome, error) {
	keywords, err := ParseRoleKeywords(roleKeywords)
	if err != nil {
		return Outcome{}, err
	}
	norm := filters.Normalize()

	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return Outcome{}, ErrCycleInFlight
	}
	f.running = true
	f.clearBannersLocked()
	f.mu.Unlock()
	f.notify("loading", true)

	out := Outcome{Filters: norm, Keywords: keywords}
	log := f.log.With().Interface("filters", norm).Strs("keywords", keywords).Logger()

	res, err := f.be.GenerateWishlist(ctx, norm.Values())
	if err != nil {
		log.Warn().Err(err).Msg("company search failed")
		f.mu.Lock()
		f.showBannerLocked(BannerError, msgGenerateFailed)
		out.WishlistErr = toWishlistErr(err)
		out.Banners = f.visibleLocked()
		out.Companies = len(f.companies)
		out.Total = f.total
		f.running = false
		f.mu.Unlock()
		f.finish()
		return out, nil
	}

	companies := append([]domain.Company(nil), res.Companies...)
	f.mu.Lock()
	f.filters = norm
	f.keywords = keywords
	f.companies = companies
	f.total = res.Total
	f.groups = nil
	f.generated = f.opts.Now()
	f.showBannerLocked(BannerSuccess, successMessage(len(companies)))
	f.mu.Unlock()
	log.Info().Int("companies", len(companies)).Int("total", res.Total).Msg("wishlist generated")
	f.notify("wishlist_updated", f.Snapshot())

	if f.opts.OnCompanies != nil && len(companies) > 0 {
		go f.opts.OnCompanies(append([]domain.Company(nil), companies...))
	}

	groups, err := f.be.SearchJobs(ctx, backend.JobSearchRequest{
		PostedAt:  f.opts.PostedWithinDays,
		Companies: companies,
		JobTitles: keywords,
	})

	f.mu.Lock()
	if err != nil {
		log.Warn().Err(err).Msg("job search failed")
		f.showBannerLocked(BannerJobs, msgJobsFailed)
		out.JobsErr = toJobsErr(err)
	} else {
		if groups == nil {
			groups = []domain.JobGroup{}
		}
		f.groups = groups
		out.JobGroups = len(groups)
		log.Info().Int("groups", len(groups)).Msg("jobs loaded")
	}
	out.Companies = len(f.companies)
	out.Total = f.total
	out.Banners = f.visibleLocked()
	f.running = false
	f.mu.Unlock()
	f.finish()

	return out, nil
}

// finish publishes the end of a cycle. running is already false, so the
// final snapshot never reports loading.
func (f *Flow) finish() {
	f.notify("wishlist_updated", f.Snapshot())
	f.notify("loading", false)
}

func toWishlistErr(err error) error {
	if errors.Is(err, backend.ErrWishlistGenerationFailed) {
		return err
	}
	return errors.Join(backend.ErrWishlistGenerationFailed, err)
}

func toJobsErr(err error) error {
	if errors.Is(err, backend.ErrJobFetchFailed) {
		return err
	}
	return errors.Join(backend.ErrJobFetchFailed, err)
}

// Running reports whether a cycle is in flight.
func (f *Flow) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Remove drops the company with the given id from the list. It reports
// whether anything was removed.
func (f *Flow) Remove(id domain.ID) bool {
	f.mu.Lock()
	kept := f.companies[:0:0]
	for _, c := range f.companies {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	removed := len(kept) != len(f.companies)
	f.companies = kept
	f.mu.Unlock()

	if removed {
		f.log.Debug().Str("company_id", id.String()).Msg("company removed")
		f.notify("wishlist_updated", f.Snapshot())
	}
	return removed
}

// CompanyView is a company with its reconciled job count.
type CompanyView struct {
	domain.Company
	Location string `json:"location"`
	JobCount int    `json:"jobCount"`
}

// State is a copy of the view state.
type State struct {
	Filters     Normalized    `json:"filters"`
	Keywords    []string      `json:"keywords"`
	Companies   []CompanyView `json:"companies"`
	Total       int           `json:"total"`
	JobsLoaded  bool          `json:"jobsLoaded"`
	Loading     bool          `json:"loading"`
	Banners     []Banner      `json:"banners"`
	GeneratedAt *time.Time    `json:"generatedAt,omitempty"`
}

// Snapshot returns the current state. Job counts are reconciled on every
// call and expired banners are left out.
func (f *Flow) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := NewReconciler(f.groups)
	views := make([]CompanyView, 0, len(f.companies))
	for _, c := range f.companies {
		views = append(views, CompanyView{
			Company:  c,
			Location: textutil.JoinLocation(c.City, c.Country),
			JobCount: rec.CountFor(c.Name),
		})
	}

	st := State{
		Filters:    f.filters,
		Keywords:   append([]string(nil), f.keywords...),
		Companies:  views,
		Total:      f.total,
		JobsLoaded: f.groups != nil,
		Loading:    f.running,
		Banners:    f.visibleLocked(),
	}
	if !f.generated.IsZero() {
		t := f.generated
		st.GeneratedAt = &t
	}
	return st
}

// Detail is the on-demand jobs view of one company. Group is nil when no
// job group matches ("no matching roles"). Keywords are the role keywords
// of the cycle that produced Group.
type Detail struct {
	Company  domain.Company   `json:"company"`
	Group    *domain.JobGroup `json:"group"`
	Keywords []string         `json:"keywords"`
}

// JobsFor returns the detail view of the company with the given id.
func (f *Flow) JobsFor(id domain.ID) (Detail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.companies {
		if c.ID != id {
			continue
		}
		d := Detail{Company: c, Keywords: append([]string(nil), f.keywords...)}
		if g, ok := NewReconciler(f.groups).GroupFor(c.Name); ok {
			d.Group = &g
		}
		return d, true
	}
	return Detail{}, false
}

// DismissBanner hides a banner before its timer fires.
func (f *Flow) DismissBanner(kind BannerKind) bool {
	f.mu.Lock()
	_, ok := f.banners[kind]
	f.dropBannerLocked(kind)
	f.mu.Unlock()
	if ok {
		f.notify("banner_dismissed", kind)
	}
	return ok
}

func (f *Flow) showBannerLocked(kind BannerKind, msg string) {
	now := f.opts.Now()
	b := Banner{Kind: kind, Message: msg, ShownAt: now, ExpiresAt: now.Add(f.opts.BannerTTL)}
	if t := f.timers[kind]; t != nil {
		t.Stop()
	}
	f.banners[kind] = b
	f.timers[kind] = f.opts.AfterFunc(f.opts.BannerTTL, func() { f.expire(kind, b.ShownAt) })
}

// expire removes the banner shown at shownAt unless it was replaced since.
func (f *Flow) expire(kind BannerKind, shownAt time.Time) {
	f.mu.Lock()
	b, ok := f.banners[kind]
	if !ok || !b.ShownAt.Equal(shownAt) {
		f.mu.Unlock()
		return
	}
	delete(f.banners, kind)
	delete(f.timers, kind)
	f.mu.Unlock()
	f.notify("banner_dismissed", kind)
}

func (f *Flow) dropBannerLocked(kind BannerKind) {
	if t := f.timers[kind]; t != nil {
		t.Stop()
	}
	delete(f.timers, kind)
	delete(f.banners, kind)
}

func (f *Flow) clearBannersLocked() {
	for kind := range f.banners {
		f.dropBannerLocked(kind)
	}
}

func (f *Flow) visibleLocked() []Banner {
	now := f.opts.Now()
	out := make([]Banner, 0, len(f.banners))
	for _, b := range f.banners {
		if !b.Expired(now) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ShownAt.Equal(out[j].ShownAt) {
			return out[i].ShownAt.Before(out[j].ShownAt)
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func (f *Flow) notify(typ string, v any) {
	if f.opts.Notify != nil {
		f.opts.Notify(typ, v)
	}
}
