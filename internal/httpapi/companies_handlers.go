package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/rank"
	"jobgenie-engine/internal/textutil"

	"github.com/rs/zerolog"
)

type CompaniesHandler struct {
	Companies CompanyLookup
	Log       zerolog.Logger
}

// jobCard is a job detail with the display fields the profile page shows.
type jobCard struct {
	domain.JobDetail
	Badge           rank.Badge `json:"badge"`
	SalaryText      string     `json:"salaryText"`
	DescriptionText string     `json:"descriptionText"`
}

func toCard(j domain.JobDetail) jobCard {
	return jobCard{
		JobDetail:       j,
		Badge:           rank.MatchBadge(j.MatchScore),
		SalaryText:      rank.SalaryText(j.Salary),
		DescriptionText: textutil.HTMLToText(j.Description),
	}
}

func toCards(jobs []domain.JobDetail) []jobCard {
	out := make([]jobCard, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toCard(j))
	}
	return out
}

func companyName(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("name"))
}

func (h CompaniesHandler) Overview(w http.ResponseWriter, r *http.Request) {
	name := companyName(r)
	if name == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "missing company name")
		return
	}
	// ?refresh=1 skips the cached overview.
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		if err := h.Companies.ForgetOverview(r.Context(), name); err != nil {
			h.Log.Warn().Err(err).Str("company", name).Msg("evict cached overview")
		}
	}
	ov, err := h.Companies.CompanyOverview(r.Context(), name)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, CodeUpstream, err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"company": ov.Company,
		"jobs":    toCards(ov.Jobs),
	})
}

func (h CompaniesHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	name := companyName(r)
	if name == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "missing company name")
		return
	}
	jobs, err := h.Companies.CompanyJobs(r.Context(), name)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, CodeUpstream, err.Error())
		return
	}
	writeJSON(w, toCards(jobs))
}

func (h CompaniesHandler) JobDetail(w http.ResponseWriter, r *http.Request) {
	name, id := companyName(r), strings.TrimSpace(r.PathValue("id"))
	if name == "" || id == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "missing company name or job id")
		return
	}
	j, err := h.Companies.JobDetails(r.Context(), name, id)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, CodeUpstream, err.Error())
		return
	}
	writeJSON(w, toCard(j))
}
