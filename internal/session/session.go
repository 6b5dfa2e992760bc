package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"jobgenie-engine/internal/backend"
	"jobgenie-engine/internal/domain"
	"jobgenie-engine/internal/secrets"

	"github.com/rs/zerolog"
)

// Backend is the auth surface of the remote API.
type Backend interface {
	Login(ctx context.Context, cred backend.Credentials) (domain.User, error)
	LoginGoogle(ctx context.Context, token string) (domain.User, error)
	Signup(ctx context.Context, req backend.SignupRequest) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)

	SessionCookie() string
	RestoreSession(cookie string)
	ClearSession()
}

// CookieStore persists the backend session cookie between engine runs.
type CookieStore interface {
	Get() (string, error)
	Set(cookie string) error
	Delete() error
}

// KeyringStore keeps the cookie in the OS keychain.
type KeyringStore struct {
	Account string
}

func (k KeyringStore) Get() (string, error) { return secrets.GetSession(k.Account) }
func (k KeyringStore) Set(c string) error   { return secrets.SetSession(k.Account, c) }
func (k KeyringStore) Delete() error        { return secrets.DeleteSession(k.Account) }

var ErrValidation = errors.New("validation")

const ProviderGoogle = "google"

type Credentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
	Provider string `json:"provider,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Status is what the UI needs to render the auth widgets.
type Status struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
}

type Options struct {
	// Store is optional; without it the session lives only in memory.
	Store  CookieStore
	Notify func(typ string, v any)
	Logger *zerolog.Logger
}

// Session is the explicit auth context handed to the HTTP handlers.
// It is created once at start, checked once, and reset on logout.
type Session struct {
	be    Backend
	store CookieStore
	opts  Options
	log   zerolog.Logger

	mu   sync.RWMutex
	user *domain.User
}

func New(be Backend, opts Options) *Session {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "session").Logger()
	}
	return &Session{be: be, store: opts.Store, opts: opts, log: log}
}

// Restore loads a remembered cookie into the backend client.
func (s *Session) Restore() bool {
	if s.store == nil {
		return false
	}
	c, err := s.store.Get()
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			s.log.Warn().Err(err).Msg("read remembered session")
		}
		return false
	}
	s.be.RestoreSession(c)
	return true
}

// Check asks the backend who is signed in. Any failure means signed out.
func (s *Session) Check(ctx context.Context) Status {
	u, err := s.be.Me(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("session check: not authenticated")
		s.set(nil)
		return s.Status()
	}
	s.set(&u)
	return s.Status()
}

// Login signs in with a provider token when Provider is "google" and a
// token is present, otherwise with email and password.
func (s *Session) Login(ctx context.Context, cred Credentials) (domain.User, error) {
	var (
		u   domain.User
		err error
	)
	if strings.EqualFold(cred.Provider, ProviderGoogle) && strings.TrimSpace(cred.Token) != "" {
		u, err = s.be.LoginGoogle(ctx, cred.Token)
	} else {
		u, err = s.be.Login(ctx, backend.Credentials{
			Email:    strings.TrimSpace(cred.Email),
			Password: cred.Password,
		})
	}
	if err != nil {
		s.log.Info().Err(err).Str("provider", cred.Provider).Msg("login rejected")
		return domain.User{}, err
	}

	s.set(&u)
	s.remember()
	s.log.Info().Str("email", u.Email).Msg("logged in")
	return u, nil
}

// Signup registers an account. It does not sign the user in.
func (s *Session) Signup(ctx context.Context, req SignupRequest) error {
	br := backend.SignupRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	if strings.TrimSpace(req.Phone) != "" {
		phone, ok := normalizePhone(req.Phone)
		if !ok {
			return errors.Join(ErrValidation, errors.New("phone must be a number"))
		}
		br.Phone = phone
	}
	return s.be.Signup(ctx, br)
}

// normalizePhone drops whitespace and accepts digits with an optional
// leading "+", so "07700 900123" and "+44 7700 900123" both pass.
func normalizePhone(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	digits := strings.TrimPrefix(out, "+")
	if digits == "" {
		return "", false
	}
	for _, r := range digits {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return "", false
		}
	}
	return out, true
}

// Logout ends the session. Local state is cleared even when the backend
// call fails; the backend error is still returned for logging.
func (s *Session) Logout(ctx context.Context) error {
	err := s.be.Logout(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("logout call failed; clearing local session anyway")
	}
	s.be.ClearSession()
	if s.store != nil {
		if derr := s.store.Delete(); derr != nil {
			s.log.Warn().Err(derr).Msg("forget remembered session")
		}
	}
	s.set(nil)
	return err
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Status{}
	}
	u := *s.user
	return Status{Authenticated: true, User: &u}
}

func (s *Session) set(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	if s.opts.Notify != nil {
		s.opts.Notify("session", s.Status())
	}
}

func (s *Session) remember() {
	if s.store == nil {
		return
	}
	c := s.be.SessionCookie()
	if c == "" {
		return
	}
	if err := s.store.Set(c); err != nil {
		s.log.Warn().Err(err).Msg("remember session")
	}
}
