package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

// DirectoryPage handles GET /: the public, paged donor listing.
func (s *Server) DirectoryPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	c := donor.Criteria{BloodGroup: q.Get("blood_group"), District: q.Get("district")}

	data := &struct {
		PageData
		Cards       []donor.Card
		Page        *donor.Page
		Criteria    donor.Criteria
		BloodGroups []string
		Districts   []string
		PrevURL     string
		NextURL     string
	}{
		PageData:    PageData{Title: "Blood donors"},
		Criteria:    c,
		BloodGroups: model.BloodGroups,
		Districts:   model.Districts,
	}

	p, err := s.App.Gateway.FetchPage(r.Context(), page, s.App.PageSize, c)
	if errors.Is(err, donor.ErrInvalidPage) {
		data.Error = "That page does not exist."
		s.Templates.RenderStatus(w, http.StatusBadRequest, "donors.html", data)
		return
	}
	if err != nil {
		var dae *donor.DataAccessError
		if errors.As(err, &dae) {
			data.Error = dae.Message
		} else {
			data.Error = "Could not load donors."
		}
		slog.Error("failed to fetch donors", "error", err)
		s.Templates.RenderStatus(w, http.StatusBadGateway, "donors.html", data)
		return
	}

	data.Page = p
	data.Cards = donor.PresentAll(p.Items, s.App.Policy, s.App.Today(), s.App.FallbackPhotoURL)
	if p.HasPrev() {
		data.PrevURL = pageURL(c, p.Page-1)
	}
	if p.HasNext() {
		data.NextURL = pageURL(c, p.Page+1)
	}
	s.Templates.Render(w, "donors.html", data)
}

func pageURL(c donor.Criteria, page int) string {
	v := url.Values{}
	if c.BloodGroup != "" {
		v.Set("blood_group", c.BloodGroup)
	}
	if c.District != "" {
		v.Set("district", c.District)
	}
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}
