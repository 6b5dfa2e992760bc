package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Company is one wishlist entry as returned by the company search.
type Company struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Industry    string   `json:"industry"`
	Size        string   `json:"size"`
	City        CityList `json:"city"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	LogoURL     string   `json:"logoUrl"`
	WebsiteURL  string   `json:"websiteUrl"`

	// Raw is the record exactly as the company search returned it. The job
	// search sends it back unchanged.
	Raw json.RawMessage `json:"-"`
}

// NameKey is the form company names are compared and keyed by: trimmed and
// lower-cased.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Initial is the upper-cased first letter of the name, used when no logo loads.
func (c Company) Initial() string {
	for _, r := range c.Name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// CityList accepts either a single JSON string or an array of strings.
type CityList []string

func (l *CityList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = CityList{s}
		return nil
	}
	var xs []string
	if err := json.Unmarshal(b, &xs); err != nil {
		return fmt.Errorf("city: want string or array of strings: %w", err)
	}
	*l = xs
	return nil
}

func (l CityList) String() string {
	return strings.Join(l, ", ")
}

// ID is an identifier the backend may send as a JSON string or number.
// It is always held and re-encoded as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: want string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// WireJSON returns the company as the backend sent it, or its encoding when
// it was built locally.
func (c Company) WireJSON() (json.RawMessage, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	return json.Marshal(c)
}
