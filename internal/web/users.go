package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/blooddonors/internal/auth"
	"github.com/erazemk/blooddonors/internal/model"
	"github.com/erazemk/blooddonors/internal/store"
)

// UsersPage handles GET /admin/users (super admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, "")
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := currentUser(r.Context())
	if !model.RoleAtLeast(user.Role, model.RoleSuperAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	users, err := store.ListUsers(r.Context(), s.App.Accounts.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
	}

	s.Templates.RenderStatus(w, status, "admin_users.html", &struct {
		PageData
		Users []model.User
	}{
		PageData: PageData{Title: "Admins", User: user, Error: errMsg},
		Users:    users,
	})
}

// UserRoleSubmit handles POST /admin/users/{id}/role: toggles between admin
// and super admin.
func (s *Server) UserRoleSubmit(w http.ResponseWriter, r *http.Request) {
	s.updateUser(w, r, func(target *model.User) auth.UserUpdate {
		role := model.RoleSuperAdmin
		if target.Role == model.RoleSuperAdmin {
			role = model.RoleAdmin
		}
		return auth.UserUpdate{Role: &role}
	})
}

// UserBlockSubmit handles POST /admin/users/{id}/block: toggles access.
func (s *Server) UserBlockSubmit(w http.ResponseWriter, r *http.Request) {
	s.updateUser(w, r, func(target *model.User) auth.UserUpdate {
		blocked := !target.Blocked
		return auth.UserUpdate{Blocked: &blocked}
	})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, change func(*model.User) auth.UserUpdate) {
	user := currentUser(r.Context())
	if !model.RoleAtLeast(user.Role, model.RoleSuperAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	target, err := store.GetUser(r.Context(), s.App.Accounts.DB, id)
	if err != nil || target == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	if _, err := s.App.Accounts.UpdateUser(r.Context(), user, id, change(target)); err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, err.Error())
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserDeleteSubmit handles POST /admin/users/{id}/delete.
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if !model.RoleAtLeast(user.Role, model.RoleSuperAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted, err := s.App.Accounts.DeleteUser(r.Context(), user, id)
	if err != nil {
		s.renderUsers(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if deleted == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
