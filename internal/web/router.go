package web

import (
	"net/http"

	"github.com/erazemk/blooddonors/internal/app"
	webembed "github.com/erazemk/blooddonors/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(a *app.Services) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{App: a, Templates: templates}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(a.Accounts)
	authed := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }

	// Static assets and stored photos.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /photos/{key...}", s.PhotoGet)

	// Public routes.
	mux.HandleFunc("GET /{$}", s.DirectoryPage)
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.HandleFunc("GET /admin/register", s.RegisterPage)
	mux.HandleFunc("POST /admin/register", s.RegisterSubmit)

	// Authenticated routes.
	mux.Handle("POST /admin/logout", authed(s.Logout))
	mux.Handle("GET /admin", authed(s.AdminDonorsPage))
	mux.Handle("POST /admin/donors", authed(s.DonorCreateSubmit))
	mux.Handle("GET /admin/donors/{id}", authed(s.DonorEditPage))
	mux.Handle("POST /admin/donors/{id}", authed(s.DonorUpdateSubmit))
	mux.Handle("POST /admin/donors/{id}/delete", authed(s.DonorDeleteSubmit))
	mux.Handle("GET /admin/export", authed(s.ExportDownload))

	mux.Handle("GET /admin/users", authed(s.UsersPage))
	mux.Handle("POST /admin/users/{id}/role", authed(s.UserRoleSubmit))
	mux.Handle("POST /admin/users/{id}/block", authed(s.UserBlockSubmit))
	mux.Handle("POST /admin/users/{id}/delete", authed(s.UserDeleteSubmit))

	return mux, nil
}
