package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthHandler{}.Health)

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("GET /config/path", ch.Path)
	mux.HandleFunc("GET /config/validate", ch.Validate)

	// Wishlist
	wh := WishlistHandler{Flow: d.Flow, CfgVal: d.CfgVal, Log: d.Logger}
	mux.HandleFunc("GET /wishlist", wh.Get)
	mux.HandleFunc("GET /wishlist/options", wh.Options)
	mux.HandleFunc("POST /wishlist/generate", wh.Generate)
	mux.HandleFunc("DELETE /wishlist/companies/{id}", wh.Remove)
	mux.HandleFunc("GET /wishlist/companies/{id}/jobs", wh.Jobs)
	mux.HandleFunc("DELETE /wishlist/banners/{kind}", wh.DismissBanner)

	// Company profiles
	coh := CompaniesHandler{Companies: d.Companies, Log: d.Logger}
	mux.HandleFunc("GET /companies/{name}/overview", coh.Overview)
	mux.HandleFunc("GET /companies/{name}/jobs", coh.Jobs)
	mux.HandleFunc("GET /companies/{name}/jobs/{id}", coh.JobDetail)

	// Auth
	ah := AuthHandler{Session: d.Session}
	mux.HandleFunc("POST /auth/login", ah.Login)
	mux.HandleFunc("POST /auth/google", ah.Google)
	mux.HandleFunc("POST /auth/signup", ah.Signup)
	mux.HandleFunc("POST /auth/logout", ah.Logout)
	mux.HandleFunc("GET /auth/me", ah.Me)

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("GET /events", eh.ServeSSE)

	// Logos
	lh := LogosHandler{Logos: d.Logos}
	mux.HandleFunc("GET /logo/{key}", lh.Get)

	return mux
}
