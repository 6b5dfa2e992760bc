package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"jobgenie-engine/internal/store"
)

type LogosHandler struct {
	Logos LogoStore
}

func (h LogosHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "missing key")
		return
	}

	l, err := h.Logos.Get(r.Context(), key)
	if errors.Is(err, store.ErrLogoNotFound) {
		WriteError(w, r, http.StatusNotFound, CodeNotFound, "logo not cached")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	ct := l.ContentType
	if ct == "" {
		ct = "image/*"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=604800")
	_, _ = w.Write(l.Bytes)
}
