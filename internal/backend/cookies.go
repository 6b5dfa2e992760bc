package backend

import (
	"net/http"
	"strings"
)

// SessionCookie serialises the jar's cookies for the backend origin as a
// Cookie header value. Empty when there is no session.
func (c *Client) SessionCookie() string {
	cs := c.hc.Jar.Cookies(c.baseURL)
	parts := make([]string, 0, len(cs))
	for _, ck := range cs {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// RestoreSession loads a value produced by SessionCookie into the jar.
func (c *Client) RestoreSession(header string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return
	}
	cs, err := http.ParseCookie(header)
	if err != nil || len(cs) == 0 {
		return
	}
	for _, ck := range cs {
		ck.Path = "/"
	}
	c.hc.Jar.SetCookies(c.baseURL, cs)
}

// ClearSession expires every backend cookie in the jar.
func (c *Client) ClearSession() {
	cs := c.hc.Jar.Cookies(c.baseURL)
	for _, ck := range cs {
		ck.Path = "/"
		ck.MaxAge = -1
	}
	c.hc.Jar.SetCookies(c.baseURL, cs)
}
