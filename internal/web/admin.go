package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/blooddonors/internal/api"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/imaging"
	"github.com/erazemk/blooddonors/internal/model"
	"github.com/erazemk/blooddonors/internal/store"
)

type adminRow struct {
	model.Donor
	Available bool
}

type donorFormData struct {
	PageData
	Form         donor.Input
	Availability string
	Weight       string
	BloodGroups  []string
	Districts    []string
}

func (s *Server) formData(title string, in donor.Input) donorFormData {
	w := ""
	if in.Weight != nil {
		w = strconv.FormatFloat(*in.Weight, 'f', -1, 64)
	}
	return donorFormData{
		PageData:     PageData{Title: title},
		Form:         in,
		Availability: in.Availability.FormValue(),
		Weight:       w,
		BloodGroups:  model.BloodGroups,
		Districts:    model.Districts,
	}
}

// readDonorForm parses the donor form, uploading a new photo when one was
// attached.
func (s *Server) readDonorForm(r *http.Request) (donor.Input, error) {
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return donor.Input{}, fmt.Errorf("photo must be at most 5 MB")
	}

	in := donor.Input{
		Name:         r.FormValue("name"),
		BloodGroup:   r.FormValue("blood_group"),
		District:     r.FormValue("district"),
		Phone:        r.FormValue("phone"),
		PhotoURL:     r.FormValue("photo_url"),
		LastDonated:  r.FormValue("last_donated"),
		Availability: model.ParseAvailability(r.FormValue("available_to_donate")),
	}
	if v := strings.TrimSpace(r.FormValue("weight")); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, fmt.Errorf("weight must be a number")
		}
		in.Weight = &w
	}
	if r.FormValue("remove_photo") != "" {
		in.PhotoURL = ""
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return in, err
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		url, err := s.App.Photos.Upload(r.Context(), file)
		if err != nil {
			return in, err
		}
		s.App.Metrics.PhotosUploaded.Inc()
		in.PhotoURL = url
	}
	return in, nil
}

// AdminDonorsPage handles GET /admin: the add form and searchable list.
func (s *Server) AdminDonorsPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdminDonors(w, r, http.StatusOK, s.formData("Donors", donor.Input{}))
}

func (s *Server) renderAdminDonors(w http.ResponseWriter, r *http.Request, status int, form donorFormData) {
	user := currentUser(r.Context())
	q := r.URL.Query()
	c := donor.Criteria{BloodGroup: q.Get("blood_group"), District: q.Get("district")}
	search := q.Get("q")

	donors, err := s.App.Donors.ListDonors(r.Context())
	if err != nil {
		slog.Error("failed to list donors", "error", err)
		form.Error = "Could not load donors: " + err.Error()
	}
	donors = donor.Search(donor.Filter(donors, c), search)

	today := s.App.Today()
	rows := make([]adminRow, 0, len(donors))
	for _, d := range donors {
		rows = append(rows, adminRow{Donor: d, Available: s.App.Policy.IsAvailable(d, today)})
	}

	form.User = user
	s.Templates.RenderStatus(w, status, "admin_donors.html", &struct {
		donorFormData
		ID       string
		Rows     []adminRow
		Query    string
		Criteria donor.Criteria
	}{
		donorFormData: form,
		Rows:          rows,
		Query:         search,
		Criteria:      c,
	})
}

// DonorCreateSubmit handles POST /admin/donors.
func (s *Server) DonorCreateSubmit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	in, err := s.readDonorForm(r)
	if err != nil {
		form := s.formData("Donors", in)
		form.Error = err.Error()
		s.renderAdminDonors(w, r, http.StatusBadRequest, form)
		return
	}

	d, err := s.App.Donors.CreateDonor(r.Context(), in)
	if err != nil {
		slog.Error("failed to create donor", "error", err)
		form := s.formData("Donors", in)
		form.Error = storeMessage(err)
		s.renderAdminDonors(w, r, http.StatusBadGateway, form)
		return
	}

	s.App.Metrics.DonorsCreated.Inc()
	slog.Info("donor created", "user", user.Email, "donor", d.ID, "blood_group", d.BloodGroup)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DonorEditPage handles GET /admin/donors/{id}.
func (s *Server) DonorEditPage(w http.ResponseWriter, r *http.Request) {
	d, err := s.App.Donors.GetDonor(r.Context(), r.PathValue("id"))
	if errors.Is(err, donor.ErrNotFound) {
		http.Error(w, "donor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get donor", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderEdit(w, r, http.StatusOK, d.ID, s.formData(d.Name, donor.InputFrom(*d)))
}

func (s *Server) renderEdit(w http.ResponseWriter, r *http.Request, status int, id string, form donorFormData) {
	form.User = currentUser(r.Context())
	s.Templates.RenderStatus(w, status, "admin_donor_edit.html", &struct {
		donorFormData
		ID string
	}{form, id})
}

// DonorUpdateSubmit handles POST /admin/donors/{id}.
func (s *Server) DonorUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	id := r.PathValue("id")

	in, err := s.readDonorForm(r)
	if err != nil {
		form := s.formData("Edit donor", in)
		form.Error = err.Error()
		s.renderEdit(w, r, http.StatusBadRequest, id, form)
		return
	}

	if _, err := s.App.Donors.UpdateDonor(r.Context(), id, in); err != nil {
		if errors.Is(err, donor.ErrNotFound) {
			http.Error(w, "donor not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to update donor", "error", err)
		form := s.formData("Edit donor", in)
		form.Error = storeMessage(err)
		s.renderEdit(w, r, http.StatusBadGateway, id, form)
		return
	}

	slog.Info("donor updated", "user", user.Email, "donor", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DonorDeleteSubmit handles POST /admin/donors/{id}/delete.
func (s *Server) DonorDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	id := r.PathValue("id")

	if err := s.App.Donors.DeleteDonor(r.Context(), id); err != nil && !errors.Is(err, donor.ErrNotFound) {
		slog.Error("failed to delete donor", "error", err)
		http.Error(w, storeMessage(err), http.StatusBadGateway)
		return
	}

	s.App.Metrics.DonorsDeleted.Inc()
	slog.Info("donor deleted", "user", user.Email, "donor", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ExportDownload handles GET /admin/export.
func (s *Server) ExportDownload(w http.ResponseWriter, r *http.Request) {
	api.WriteDonorWorkbook(w, r, s.App)
}

// PhotoGet handles GET /photos/{key...} for photos kept in SQLite.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetPhoto(r.Context(), s.App.Accounts.DB, r.PathValue("key"))
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

func storeMessage(err error) string {
	var dae *donor.DataAccessError
	if errors.As(err, &dae) {
		return dae.Message
	}
	return "Saving failed, try again."
}
