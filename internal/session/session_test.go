package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobgenie-engine/internal/backend"
	"jobgenie-engine/internal/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type fakeAuth struct {
	loggedIn   atomic.Bool
	logoutFail atomic.Bool
	signups    atomic.Int32
	lastPhone  atomic.Value // string
}

func (f *fakeAuth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "tok", Path: "/"})
		f.loggedIn.Store(true)
		_, _ = io.WriteString(w, `{"success":true,"user":{"given_name":"Ada","email":"ada@example.com"}}`)
	case "/auth/google":
		f.loggedIn.Store(true)
		_, _ = io.WriteString(w, `{"ok":true,"user":{"name":"Ada L","email":"ada@example.com"}}`)
	case "/auth/signup":
		var body struct {
			Phone string `json:"phone"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastPhone.Store(body.Phone)
		f.signups.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true}`)
	case "/auth/logout":
		if f.logoutFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.loggedIn.Store(false)
		w.WriteHeader(http.StatusNoContent)
	case "/auth/me":
		c, err := r.Cookie("sid")
		if err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"name":"Ada","email":"ada@example.com"}`)
	}
}

func newSession(t *testing.T, fa *fakeAuth, store CookieStore) (*Session, *backend.Client) {
	t.Helper()
	srv := httptest.NewServer(fa)
	t.Cleanup(srv.Close)
	c, err := backend.New(&backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return New(c, Options{Store: store}), c
}

func TestCheck_SignedOut(t *testing.T) {
	s, _ := newSession(t, &fakeAuth{}, nil)
	st := s.Check(context.Background())
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)
}

func TestLogin_ThenCheck(t *testing.T) {
	s, _ := newSession(t, &fakeAuth{}, nil)
	ctx := context.Background()

	u, err := s.Login(ctx, Credentials{Email: " ada@example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.True(t, s.Status().Authenticated)

	st := s.Check(ctx)
	require.True(t, st.Authenticated)
	assert.Equal(t, "ada@example.com", st.User.Email)
}

func TestLogin_GoogleProvider(t *testing.T) {
	s, _ := newSession(t, &fakeAuth{}, nil)
	u, err := s.Login(context.Background(), Credentials{Provider: "google", Token: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", u.Name)
}

func TestLogout_ClearsEvenOnFailure(t *testing.T) {
	fa := &fakeAuth{}
	s, c := newSession(t, fa, nil)
	ctx := context.Background()

	_, err := s.Login(ctx, Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	fa.logoutFail.Store(true)
	err = s.Logout(ctx)
	assert.Error(t, err)
	assert.False(t, s.Status().Authenticated)
	assert.Empty(t, c.SessionCookie())
}

func TestSignup_PhoneMustBeNumeric(t *testing.T) {
	fa := &fakeAuth{}
	s, _ := newSession(t, fa, nil)
	ctx := context.Background()

	for _, bad := range []string{"07-700", "call me", "+", "++447700900123", "0770O900123"} {
		err := s.Signup(ctx, SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "pw", Phone: bad})
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
	assert.Equal(t, int32(0), fa.signups.Load())

	cases := map[string]string{
		"07700 900123":    "07700900123",
		"07700900123":     "07700900123",
		"+44 7700 900123": "+447700900123",
		"7700900123":      "7700900123",
	}
	for in, want := range cases {
		require.NoError(t, s.Signup(ctx, SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "pw", Phone: in}), in)
		assert.Equal(t, want, fa.lastPhone.Load(), in)
	}
	assert.Equal(t, int32(len(cases)), fa.signups.Load())
	assert.False(t, s.Status().Authenticated)
}

func TestRememberedSessionSurvivesRestart(t *testing.T) {
	keyring.MockInit()
	fa := &fakeAuth{}
	srv := httptest.NewServer(fa)
	t.Cleanup(srv.Close)
	store := KeyringStore{Account: secrets.SessionAccount(srv.URL)}
	ctx := context.Background()

	c1, err := backend.New(&backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	first := New(c1, Options{Store: store})
	_, err = first.Login(ctx, Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	// a new engine process with an empty cookie jar
	c2, err := backend.New(&backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	second := New(c2, Options{Store: store})
	require.True(t, second.Restore())
	assert.True(t, second.Check(ctx).Authenticated)

	require.NoError(t, second.Logout(ctx))
	_, err = store.Get()
	assert.ErrorIs(t, err, secrets.ErrNotFound)
	assert.False(t, New(c2, Options{Store: store}).Restore())
}
