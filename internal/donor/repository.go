package donor

//go:generate mockgen -destination=mocks/source_mock.go -package=mocks github.com/erazemk/blooddonors/internal/donor Source

import (
	"context"
	"errors"
	"strings"

	"github.com/erazemk/blooddonors/internal/model"
)

// ErrNotFound is returned when a donor does not exist.
var ErrNotFound = errors.New("donor not found")

// RangeQuery asks a Source for the rows From..To (inclusive, zero based) of
// the donors matching the filters, ordered by name. Empty filters match all.
type RangeQuery struct {
	From       int
	To         int
	BloodGroup string
	District   string
}

// Source is the tabular data service behind the public listing.
type Source interface {
	// QueryDonors returns the requested window and the number of rows
	// matching the filters across all windows.
	QueryDonors(ctx context.Context, q RangeQuery) ([]Row, int, error)
}

// Repository is the full donor store used by the admin panel.
type Repository interface {
	Source
	ListDonors(ctx context.Context) ([]model.Donor, error)
	GetDonor(ctx context.Context, id string) (*model.Donor, error)
	CreateDonor(ctx context.Context, in Input) (*model.Donor, error)
	UpdateDonor(ctx context.Context, id string, in Input) (*model.Donor, error)
	DeleteDonor(ctx context.Context, id string) error
}

// Input is the admin form for creating or updating a donor.
type Input struct {
	Name         string             `json:"name"`
	BloodGroup   string             `json:"blood_group"`
	District     string             `json:"district"`
	Phone        string             `json:"phone"`
	Weight       *float64           `json:"weight"`
	PhotoURL     string             `json:"photo_url"`
	LastDonated  string             `json:"last_donated"`
	Availability model.Availability `json:"available_to_donate"`
}

// Validation errors.
var (
	ErrNameRequired      = errors.New("name required")
	ErrInvalidBloodGroup = errors.New("invalid blood group")
	ErrInvalidDistrict   = errors.New("invalid district")
	ErrPhoneRequired     = errors.New("phone required")
	ErrNegativeWeight    = errors.New("weight must not be negative")
	ErrInvalidDate       = errors.New("last donation date must be YYYY-MM-DD")
)

// Normalize trims the input and canonicalizes blood group and district.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.BloodGroup = model.NormalizeBloodGroup(in.BloodGroup)
	in.District, _ = model.CanonicalDistrict(in.District)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	in.LastDonated = strings.TrimSpace(in.LastDonated)
	return in
}

// Validate checks a normalized input.
func (in Input) Validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if !model.ValidBloodGroup(in.BloodGroup) {
		return ErrInvalidBloodGroup
	}
	if _, ok := model.CanonicalDistrict(in.District); !ok {
		return ErrInvalidDistrict
	}
	if in.Phone == "" {
		return ErrPhoneRequired
	}
	if in.Weight != nil && *in.Weight < 0 {
		return ErrNegativeWeight
	}
	if in.LastDonated != "" {
		if _, err := model.ParseDate(in.LastDonated); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// Row returns the input as a store row. Empty optional fields become nil.
func (in Input) Row(id string) Row {
	r := Row{
		ID:                id,
		Name:              &in.Name,
		BloodGroup:        &in.BloodGroup,
		District:          &in.District,
		Phone:             &in.Phone,
		Weight:            in.Weight,
		AvailableToDonate: in.Availability.Ptr(),
	}
	if in.PhotoURL != "" {
		r.PhotoURL = &in.PhotoURL
	}
	if in.LastDonated != "" {
		if day, err := model.ParseDate(in.LastDonated); err == nil {
			s := day.Format(model.DateLayout)
			r.LastDonated = &s
		}
	}
	return r
}

// InputFrom fills the admin form from an existing donor.
func InputFrom(d model.Donor) Input {
	return Input{
		Name:         d.Name,
		BloodGroup:   d.BloodGroup,
		District:     d.District,
		Phone:        d.Phone,
		Weight:       d.Weight,
		PhotoURL:     d.PhotoURL,
		LastDonated:  d.LastDonatedString(),
		Availability: d.Availability,
	}
}
