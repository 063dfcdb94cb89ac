package api

import (
	"net/http"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(a *app.Services) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{App: a}
	donorsHandler := &DonorsHandler{App: a}
	adminDonors := &AdminDonorsHandler{App: a}
	photosHandler := &PhotosHandler{App: a}
	exportHandler := &ExportHandler{App: a}
	usersHandler := &UsersHandler{App: a}

	authMW := AuthMiddleware(a.Accounts)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireSuper := RequireRole(model.RoleSuperAdmin)
	admin := func(h http.HandlerFunc) http.Handler { return authMW(requireAdmin(h)) }

	// Public directory.
	mux.HandleFunc("GET /api/donors", donorsHandler.List)
	mux.HandleFunc("GET /api/donors/options", donorsHandler.Options)

	// Accounts.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("POST /api/auth/logout", admin(authHandler.Logout))
	mux.Handle("PUT /api/auth/password", admin(authHandler.ChangePassword))

	// Donor management.
	mux.Handle("GET /api/admin/donors", admin(adminDonors.List))
	mux.Handle("POST /api/admin/donors", admin(adminDonors.Create))
	mux.Handle("GET /api/admin/donors/export", admin(exportHandler.Donors))
	mux.Handle("GET /api/admin/donors/{id}", admin(adminDonors.Get))
	mux.Handle("PUT /api/admin/donors/{id}", admin(adminDonors.Update))
	mux.Handle("DELETE /api/admin/donors/{id}", admin(adminDonors.Delete))
	mux.Handle("POST /api/admin/photos", admin(photosHandler.Upload))

	// Admin accounts (super admin only).
	mux.Handle("GET /api/admin/users", authMW(requireSuper(http.HandlerFunc(usersHandler.List))))
	mux.Handle("PUT /api/admin/users/{id}", authMW(requireSuper(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("DELETE /api/admin/users/{id}", authMW(requireSuper(http.HandlerFunc(usersHandler.Delete))))

	return mux
}
