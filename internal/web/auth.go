package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/blooddonors/internal/api"
	"github.com/erazemk/blooddonors/internal/auth"
	"github.com/erazemk/blooddonors/internal/model"
)

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Admin login"})
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	fail := func(msg string) {
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &PageData{Title: "Admin login", Error: msg})
	}

	if email == "" || password == "" {
		fail("Enter your email and password.")
		return
	}

	token, user, err := s.App.Accounts.Login(r.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.App.Metrics.LoginFailures.Inc()
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		fail("Wrong email or password.")
		return
	case errors.Is(err, auth.ErrPendingApproval):
		s.App.Metrics.LoginFailures.Inc()
		fail("Your account is waiting for approval by a super admin.")
		return
	case err != nil:
		slog.Error("login error", "error", err)
		fail("Login failed, try again.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// RegisterPage handles GET /admin/register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Request admin access"})
}

// RegisterSubmit handles POST /admin/register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	data := &PageData{Title: "Request admin access"}

	_, err := s.App.Accounts.Register(r.Context(), r.FormValue("email"), r.FormValue("password"))
	switch {
	case errors.Is(err, model.ErrInvalidEmail), errors.Is(err, model.ErrPasswordTooShort), errors.Is(err, auth.ErrEmailTaken):
		data.Error = err.Error()
	case err != nil:
		slog.Error("registration failed", "error", err)
		data.Error = "Registration failed, try again."
	default:
		data.Success = "Request received. A super admin must approve your account before you can sign in."
	}

	if data.Error != "" {
		s.Templates.RenderStatus(w, http.StatusBadRequest, "register.html", data)
		return
	}
	s.Templates.Render(w, "register.html", data)
}

// Logout handles POST /admin/logout. The session token is revoked.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := api.GetClaims(r.Context()); claims != nil {
		if err := s.App.Accounts.Logout(r.Context(), claims); err != nil {
			slog.Error("failed to revoke token", "error", err)
		} else {
			slog.Info("user logged out", "user", claims.Email)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
