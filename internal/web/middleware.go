package web

import (
	"context"
	"net/http"

	"github.com/erazemk/blooddonors/internal/api"
	"github.com/erazemk/blooddonors/internal/auth"
	"github.com/erazemk/blooddonors/internal/model"
)

const cookieName = "token"

// CookieAuthMiddleware validates the session cookie, checks token revocation
// and account status, and adds the identity to the context.
func CookieAuthMiddleware(accounts *auth.Accounts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			claims, user, err := accounts.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				clearAuthCookie(w)
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithIdentity(r.Context(), claims, user)))
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// currentUser returns the signed-in admin.
func currentUser(ctx context.Context) *model.User {
	return api.GetUser(ctx)
}
