package donor

import (
	"strings"

	"github.com/erazemk/blooddonors/internal/model"
)

// Columns is the donor column list read from a backing store.
const Columns = "id, name, blood_group, district, phone, weight, photo_url, last_donated, available_to_donate"

// Row is a donor row as the backing store returns it. Any column may be
// missing.
type Row struct {
	ID                string   `json:"id,omitempty"`
	Name              *string  `json:"name"`
	BloodGroup        *string  `json:"blood_group"`
	District          *string  `json:"district"`
	Phone             *string  `json:"phone"`
	Weight            *float64 `json:"weight"`
	PhotoURL          *string  `json:"photo_url"`
	LastDonated       *string  `json:"last_donated"`
	AvailableToDonate *bool    `json:"available_to_donate"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Normalize converts a row into the canonical donor shape. Strings are
// trimmed, the blood group upper-cased, and missing or unreadable optional
// values become absent. It never fails.
func Normalize(r Row) model.Donor {
	d := model.Donor{
		ID:           r.ID,
		Name:         strings.TrimSpace(deref(r.Name)),
		BloodGroup:   model.NormalizeBloodGroup(deref(r.BloodGroup)),
		District:     strings.TrimSpace(deref(r.District)),
		Phone:        strings.TrimSpace(deref(r.Phone)),
		PhotoURL:     strings.TrimSpace(deref(r.PhotoURL)),
		Availability: model.AvailabilityFromPtr(r.AvailableToDonate),
	}

	if r.Weight != nil && *r.Weight >= 0 {
		w := *r.Weight
		d.Weight = &w
	}

	if s := deref(r.LastDonated); strings.TrimSpace(s) != "" {
		if day, err := model.ParseDate(s); err == nil {
			d.LastDonated = &day
		}
	}

	return d
}

// NormalizeAll normalizes every row.
func NormalizeAll(rows []Row) []model.Donor {
	donors := make([]model.Donor, 0, len(rows))
	for _, r := range rows {
		donors = append(donors, Normalize(r))
	}
	return donors
}
