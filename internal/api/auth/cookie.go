package auth

import (
	"net/http"

	"github.com/nmtri-dev/goflix/config"
)

// SetSessionCookie attaches the signed token to the response. The cookie
// max-age is configured independently from the token TTL; keep the two in
// sync in config, the code does not enforce it.
func SetSessionCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.Auth.CookieMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie. The attributes must match
// the ones used at issuance or browsers will keep the original cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAllCookies expires every cookie carried by the request, session
// cookie included. Used on logout as a defensive sweep.
func ClearAllCookies(w http.ResponseWriter, r *http.Request, cfg *config.Config) {
	cleared := map[string]struct{}{}
	for _, c := range r.Cookies() {
		if _, done := cleared[c.Name]; done {
			continue
		}
		cleared[c.Name] = struct{}{}
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.IsProduction(),
			SameSite: http.SameSiteStrictMode,
		})
	}
	if _, done := cleared[cfg.Auth.CookieName]; !done {
		ClearSessionCookie(w, cfg)
	}
}
