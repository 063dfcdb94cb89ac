package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/blooddonors/internal/app"
	"github.com/erazemk/blooddonors/internal/config"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

// DonorsHandler serves the public donor directory.
type DonorsHandler struct {
	App *app.Services
}

type pageResponse struct {
	Items      []donor.Card `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	From       int          `json:"from"`
	To         int          `json:"to"`
}

type optionsResponse struct {
	BloodGroups       []string `json:"blood_groups"`
	Districts         []string `json:"districts"`
	ListedBloodGroups []string `json:"listed_blood_groups"`
	ListedDistricts   []string `json:"listed_districts"`
}

// intParam reads a positive integer query parameter, or def when absent.
func intParam(r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// List handles GET /api/donors. Phones are masked.
func (h *DonorsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := intParam(r, "page", 1)
	if !ok {
		jsonError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	size, ok := intParam(r, "page_size", h.App.PageSize)
	if !ok || size > config.MaxPageSize {
		jsonError(w, http.StatusBadRequest, "page_size must be between 1 and 100")
		return
	}

	c := donor.Criteria{
		BloodGroup: r.URL.Query().Get("blood_group"),
		District:   r.URL.Query().Get("district"),
	}
	p, err := h.App.Gateway.FetchPage(r.Context(), page, size, c)
	if err != nil {
		if errors.Is(err, donor.ErrInvalidPage) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		storeError(w, "failed to fetch donors", err)
		return
	}

	jsonResponse(w, http.StatusOK, pageResponse{
		Items:      donor.PresentAll(p.Items, h.App.Policy, h.App.Today(), h.App.FallbackPhotoURL),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(),
		From:       p.From(),
		To:         p.To(),
	})
}

// Options handles GET /api/donors/options: the filter choices.
func (h *DonorsHandler) Options(w http.ResponseWriter, r *http.Request) {
	donors, err := h.App.Donors.ListDonors(r.Context())
	if err != nil {
		// The enumerated choices are still useful without live values.
		slog.Error("failed to list donors for options", "error", err)
	}

	jsonResponse(w, http.StatusOK, optionsResponse{
		BloodGroups:       model.BloodGroups,
		Districts:         model.Districts,
		ListedBloodGroups: nonNil(donor.BloodGroups(donors)),
		ListedDistricts:   nonNil(donor.Districts(donors)),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
