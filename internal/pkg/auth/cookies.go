package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookieConfig controls how the token cookies are written
type CookieConfig struct {
	AccessName  string
	RefreshName string
	AccessPath  string
	RefreshPath string
	Domain      string
	Secure      bool
	HTTPOnly    bool
	SameSite    http.SameSite
}

// ParseSameSite converts a configuration value into an http.SameSite mode
func ParseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("unknown SameSite value %q", value)
	}
}

// CookieWriter sets and clears the access and refresh token cookies
type CookieWriter struct {
	cfg CookieConfig
	now func() time.Time
}

// NewCookieWriter creates a cookie writer, filling in default names and paths
func NewCookieWriter(cfg CookieConfig) *CookieWriter {
	if cfg.AccessName == "" {
		cfg.AccessName = "access_token_cookie"
	}
	if cfg.RefreshName == "" {
		cfg.RefreshName = "refresh_token_cookie"
	}
	if cfg.AccessPath == "" {
		cfg.AccessPath = "/"
	}
	if cfg.RefreshPath == "" {
		cfg.RefreshPath = "/api/auth"
	}
	if cfg.SameSite == 0 || cfg.SameSite == http.SameSiteDefaultMode {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &CookieWriter{cfg: cfg, now: time.Now}
}

// AccessName returns the name of the access token cookie
func (w *CookieWriter) AccessName() string { return w.cfg.AccessName }

// RefreshName returns the name of the refresh token cookie
func (w *CookieWriter) RefreshName() string { return w.cfg.RefreshName }

// SetAccess writes the access token cookie
func (w *CookieWriter) SetAccess(rw http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(rw, w.cookie(w.cfg.AccessName, w.cfg.AccessPath, token.Value, token.TTL))
}

// SetRefresh writes the refresh token cookie
func (w *CookieWriter) SetRefresh(rw http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(rw, w.cookie(w.cfg.RefreshName, w.cfg.RefreshPath, token.Value, token.TTL))
}

// Clear expires both token cookies
func (w *CookieWriter) Clear(rw http.ResponseWriter) {
	http.SetCookie(rw, w.cookie(w.cfg.AccessName, w.cfg.AccessPath, "", 0))
	http.SetCookie(rw, w.cookie(w.cfg.RefreshName, w.cfg.RefreshPath, "", 0))
}

func (w *CookieWriter) cookie(name, path, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   w.cfg.Domain,
		Secure:   w.cfg.Secure,
		HttpOnly: w.cfg.HTTPOnly,
		SameSite: w.cfg.SameSite,
	}
	if ttl <= 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	c.MaxAge = int(ttl.Seconds())
	c.Expires = w.now().Add(ttl).UTC()
	return c
}
