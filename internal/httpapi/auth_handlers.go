package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"jobgenie-engine/internal/backend"
	"jobgenie-engine/internal/session"
)

type AuthHandler struct {
	Session *session.Session
}

// writeAuthError maps a rejected auth call to 401 with the backend's
// message, and anything else to 502.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *backend.AuthError
	switch {
	case errors.Is(err, session.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), session.ErrValidation.Error()+"\n")
		WriteError(w, r, http.StatusBadRequest, CodeValidation, msg)
	case errors.As(err, &ae):
		WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, ae.Message)
	default:
		WriteError(w, r, http.StatusBadGateway, CodeUpstream, err.Error())
	}
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred session.Credentials
	if err := decodeBody(r, &cred, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	cred.Provider, cred.Token = "", ""
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "email and password are required")
		return
	}
	h.login(w, r, cred)
}

func (h AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &body, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Token) == "" {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "missing google token")
		return
	}
	h.login(w, r, session.Credentials{Provider: session.ProviderGoogle, Token: body.Token})
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request, cred session.Credentials) {
	if _, err := h.Session.Login(r.Context(), cred); err != nil {
		writeAuthError(w, r, err)
		return
	}
	writeJSON(w, h.Session.Status())
}

func (h AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req session.SignupRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, CodeValidation, "invalid JSON: "+err.Error())
		return
	}
	if err := h.Session.Signup(r.Context(), req); err != nil {
		writeAuthError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// Logout always answers with the signed-out status; a failed backend call
// only shows up in the log.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.Session.Logout(r.Context())
	writeJSON(w, h.Session.Status())
}

func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Session.Check(r.Context()))
}
