package http

import "net/http"

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies stores both tokens as HttpOnly cookies. SameSite=None
// requires Secure, so insecure local setups fall back to Lax.
func (h *Handler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, h.authCookie(accessTokenCookie, accessToken, 0))
	http.SetCookie(w, h.authCookie(refreshTokenCookie, refreshToken, 0))
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.authCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, h.authCookie(refreshTokenCookie, "", -1))
}

func (h *Handler) authCookie(name, value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !h.cfg.InsecureCookies,
		SameSite: http.SameSiteNoneMode,
	}
	if h.cfg.InsecureCookies {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}

// cookieValue returns the value of the named cookie or "" when absent.
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
