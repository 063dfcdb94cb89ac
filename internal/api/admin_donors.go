package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

// AdminDonorsHandler handles donor management for signed-in admins.
type AdminDonorsHandler struct {
	App *app.Services
}

// List handles GET /api/admin/donors?q&blood_group&district. Phones are not
// masked here.
func (h *AdminDonorsHandler) List(w http.ResponseWriter, r *http.Request) {
	donors, err := h.App.Donors.ListDonors(r.Context())
	if err != nil {
		storeError(w, "failed to list donors", err)
		return
	}

	q := r.URL.Query()
	donors = donor.Filter(donors, donor.Criteria{BloodGroup: q.Get("blood_group"), District: q.Get("district")})
	donors = donor.Search(donors, q.Get("q"))
	if donors == nil {
		donors = []model.Donor{}
	}
	jsonResponse(w, http.StatusOK, donors)
}

// Get handles GET /api/admin/donors/{id}.
func (h *AdminDonorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.App.Donors.GetDonor(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, "failed to get donor", err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// readInput decodes and validates a donor form.
func readInput(w http.ResponseWriter, r *http.Request) (donor.Input, bool) {
	var in donor.Input
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

// Create handles POST /api/admin/donors.
func (h *AdminDonorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}

	d, err := h.App.Donors.CreateDonor(r.Context(), in)
	if err != nil {
		storeError(w, "failed to create donor", err)
		return
	}

	h.App.Metrics.DonorsCreated.Inc()
	slog.Info("donor created", "user", actor(r.Context()), "donor", d.ID, "blood_group", d.BloodGroup)
	jsonResponse(w, http.StatusCreated, d)
}

// Update handles PUT /api/admin/donors/{id}.
func (h *AdminDonorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}

	d, err := h.App.Donors.UpdateDonor(r.Context(), r.PathValue("id"), in)
	if err != nil {
		storeError(w, "failed to update donor", err)
		return
	}

	slog.Info("donor updated", "user", actor(r.Context()), "donor", d.ID)
	jsonResponse(w, http.StatusOK, d)
}

// Delete handles DELETE /api/admin/donors/{id}.
func (h *AdminDonorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.App.Donors.DeleteDonor(r.Context(), id); err != nil {
		if errors.Is(err, donor.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "donor not found")
			return
		}
		storeError(w, "failed to delete donor", err)
		return
	}

	h.App.Metrics.DonorsDeleted.Inc()
	slog.Info("donor deleted", "user", actor(r.Context()), "donor", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "donor deleted"})
}
