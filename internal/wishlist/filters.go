package wishlist

import (
	"net/url"
	"strings"
)

// Facet is one filterable dimension of the company search.
type Facet string

const (
	FacetIndustry Facet = "industry"
	FacetSize     Facet = "size"
	FacetCity     Facet = "city"
	FacetCountry  Facet = "country"
)

// Facets lists every facet in request order.
var Facets = []Facet{FacetIndustry, FacetSize, FacetCity, FacetCountry}

func (f Facet) Valid() bool {
	switch f {
	case FacetIndustry, FacetSize, FacetCity, FacetCountry:
		return true
	}
	return false
}

// FilterSet is the form state of the wishlist search. Empty fields mean
// "any".
type FilterSet struct {
	Industry string `json:"industry"`
	Size     string `json:"size"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// DefaultFilters returns the initial form state.
func DefaultFilters(country string) FilterSet {
	return FilterSet{Country: country}
}

func (fs FilterSet) Get(f Facet) string {
	switch f {
	case FacetIndustry:
		return fs.Industry
	case FacetSize:
		return fs.Size
	case FacetCity:
		return fs.City
	case FacetCountry:
		return fs.Country
	}
	return ""
}

// Normalized is the outbound form of a FilterSet: only facets with a
// non-blank value, trimmed.
type Normalized map[Facet]string

// Normalize drops every facet whose value is blank after trimming.
func (fs FilterSet) Normalize() Normalized {
	out := Normalized{}
	for _, f := range Facets {
		if v := strings.TrimSpace(fs.Get(f)); v != "" {
			out[f] = v
		}
	}
	return out
}

// NormalizeFacets applies the same rule to an already built mapping and
// drops unknown facet names. NormalizeFacets(NormalizeFacets(x)) equals
// NormalizeFacets(x).
func NormalizeFacets(in Normalized) Normalized {
	out := Normalized{}
	for f, v := range in {
		if !f.Valid() {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			out[f] = v
		}
	}
	return out
}

// Values encodes the mapping as URL query parameters.
func (n Normalized) Values() url.Values {
	q := url.Values{}
	for f, v := range n {
		q.Set(string(f), v)
	}
	return q
}

// FilterSet converts the mapping back to the struct form.
func (n Normalized) FilterSet() FilterSet {
	return FilterSet{
		Industry: n[FacetIndustry],
		Size:     n[FacetSize],
		City:     n[FacetCity],
		Country:  n[FacetCountry],
	}
}
