package donor

import (
	"time"

	"github.com/erazemk/blooddonors/internal/model"
)

// Card is a donor prepared for public display.
type Card struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BloodGroup   string   `json:"blood_group"`
	District     string   `json:"district"`
	MaskedPhone  string   `json:"phone"`
	Weight       *float64 `json:"weight"`
	PhotoURL     string   `json:"photo_url"`
	LastDonated  string   `json:"last_donated,omitempty"`
	Available    bool     `json:"available"`
	NextEligible string   `json:"next_eligible_date,omitempty"`
}

// Present builds the public card for d. The next eligible date is only
// shown when the donor is unavailable.
func Present(d model.Donor, p Policy, today time.Time, fallbackPhotoURL string) Card {
	c := Card{
		ID:          d.ID,
		Name:        d.Name,
		BloodGroup:  d.BloodGroup,
		District:    d.District,
		MaskedPhone: MaskPhone(d.Phone),
		Weight:      d.Weight,
		PhotoURL:    d.PhotoURL,
		LastDonated: d.LastDonatedString(),
		Available:   p.IsAvailable(d, today),
	}
	if c.PhotoURL == "" {
		c.PhotoURL = fallbackPhotoURL
	}
	if !c.Available {
		c.NextEligible = p.NextEligibleDate(d, today)
	}
	return c
}

// PresentAll builds cards for every donor.
func PresentAll(donors []model.Donor, p Policy, today time.Time, fallbackPhotoURL string) []Card {
	cards := make([]Card, 0, len(donors))
	for _, d := range donors {
		cards = append(cards, Present(d, p, today, fallbackPhotoURL))
	}
	return cards
}
