package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg plus the problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(out.Backend.BaseURL), "/")
	out.Wishlist.DefaultCountry = strings.TrimSpace(out.Wishlist.DefaultCountry)
	out.Wishlist.Industries = trimList(out.Wishlist.Industries)
	out.Wishlist.Sizes = trimList(out.Wishlist.Sizes)
	out.Wishlist.Cities = trimList(out.Wishlist.Cities)
	out.Wishlist.Countries = trimList(out.Wishlist.Countries)
	out.Logger.Level = strings.ToLower(strings.TrimSpace(out.Logger.Level))
	out.Logger.Format = strings.ToLower(strings.TrimSpace(out.Logger.Format))

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ") {
			if strings.HasPrefix(line, "config validation failed:") {
				continue
			}
			res.addErr("%s", line)
		}
	}

	switch out.Logger.Format {
	case "", "json", "pretty":
	default:
		res.addErr("logger.format must be json or pretty, got %q", out.Logger.Format)
	}

	if out.Backend.TimeoutSeconds > 120 {
		res.addWarn("backend.timeout_seconds is very high (%d); a hung request keeps the wishlist loading that long.", out.Backend.TimeoutSeconds)
	}
	if out.Wishlist.DefaultCountry == "" {
		res.addWarn("wishlist.default_country is empty; searches will span every country.")
	} else if len(out.Wishlist.Countries) > 0 && !containsFold(out.Wishlist.Countries, out.Wishlist.DefaultCountry) {
		res.addWarn("wishlist.default_country %q is not in wishlist.countries", out.Wishlist.DefaultCountry)
	}
	if out.Auth.RememberSession {
		res.addWarn("auth.remember_session stores the backend session cookie in the OS keychain.")
	}

	return out, res
}

func containsFold(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
