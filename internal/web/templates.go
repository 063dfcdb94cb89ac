package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
	webembed "github.com/erazemk/blooddonors/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleSuperAdmin:
				return "Super admin"
			case model.RoleAdmin:
				return "Admin"
			default:
				return role
			}
		},
		"maskPhone": donor.MaskPhone,
		"ago": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return humanize.Time(t)
			case *time.Time:
				if t != nil {
					return humanize.Time(*t)
				}
			}
			return ""
		},
		"weight": func(w *float64) string {
			if w == nil {
				return ""
			}
			return humanize.FtoaWithDigits(*w, 1)
		},
		"orDefault": func(def, s string) string {
			if s == "" {
				return def
			}
			return s
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	formBytes, err := fs.ReadFile(tfs, "donor_form.html")
	if err != nil {
		return nil, fmt.Errorf("reading donor form template: %w", err)
	}

	pages := []string{
		"donors.html",
		"login.html",
		"register.html",
		"admin_donors.html",
		"admin_donor_edit.html",
		"admin_users.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(formBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing donor form for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with a non-200 status.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *model.User
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	App       *app.Services
	Templates *Templates
}
