package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Donor is a normalized donor profile.
type Donor struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BloodGroup   string       `json:"blood_group"`
	District     string       `json:"district"`
	Phone        string       `json:"phone"`
	Weight       *float64     `json:"weight"`
	PhotoURL     string       `json:"photo_url"`
	LastDonated  *time.Time   `json:"-"`
	Availability Availability `json:"available_to_donate"`
	CreatedAt    time.Time    `json:"created_at,omitzero"`
	UpdatedAt    time.Time    `json:"updated_at,omitzero"`
}

// DateLayout is the ISO day format used for donation dates.
const DateLayout = "2006-01-02"

// LastDonatedString returns the last donation date as YYYY-MM-DD, or "".
func (d Donor) LastDonatedString() string {
	if d.LastDonated == nil {
		return ""
	}
	return d.LastDonated.Format(DateLayout)
}

// MarshalJSON adds the day-precision last_donated field.
func (d Donor) MarshalJSON() ([]byte, error) {
	type plain Donor
	var last *string
	if s := d.LastDonatedString(); s != "" {
		last = &s
	}
	return json.Marshal(struct {
		plain
		LastDonated *string `json:"last_donated"`
	}{plain(d), last})
}

// ParseDate parses a YYYY-MM-DD date (a longer timestamp is cut to its day).
// The result is midnight UTC of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Availability is the admin override for donation availability. The zero
// value derives availability from the donation history.
type Availability struct {
	set   bool
	value bool
}

// Derive returns an Availability without an admin override.
func Derive() Availability { return Availability{} }

// Override returns an Availability forced to v.
func Override(v bool) Availability { return Availability{set: true, value: v} }

// Overridden reports the override value and whether one is set.
func (a Availability) Overridden() (value, ok bool) { return a.value, a.set }

// Ptr returns the override as a nullable bool.
func (a Availability) Ptr() *bool {
	if !a.set {
		return nil
	}
	v := a.value
	return &v
}

// AvailabilityFromPtr converts a nullable bool into an Availability.
func AvailabilityFromPtr(p *bool) Availability {
	if p == nil {
		return Derive()
	}
	return Override(*p)
}

func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Ptr())
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	var p *bool
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("available_to_donate: %w", err)
	}
	*a = AvailabilityFromPtr(p)
	return nil
}

// Value stores the override as NULL, 0 or 1.
func (a Availability) Value() (driver.Value, error) {
	if !a.set {
		return nil, nil
	}
	if a.value {
		return int64(1), nil
	}
	return int64(0), nil
}

// Scan reads a nullable integer or boolean column.
func (a *Availability) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Derive()
	case int64:
		*a = Override(v != 0)
	case bool:
		*a = Override(v)
	default:
		return fmt.Errorf("cannot scan %T into Availability", src)
	}
	return nil
}

// ParseAvailability reads a form value: "yes"/"true", "no"/"false", anything
// else derives.
func ParseAvailability(s string) Availability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return Override(true)
	case "no", "false", "0":
		return Override(false)
	default:
		return Derive()
	}
}

// FormValue is the inverse of ParseAvailability.
func (a Availability) FormValue() string {
	if !a.set {
		return ""
	}
	if a.value {
		return "yes"
	}
	return "no"
}

// BloodGroups lists the accepted blood groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Districts lists the accepted districts.
var Districts = []string{
	"Thiruvananthapuram",
	"Kollam",
	"Pathanamthitta",
	"Alappuzha",
	"Kottayam",
	"Idukki",
	"Ernakulam",
	"Thrissur",
	"Palakkad",
	"Malappuram",
	"Kozhikode",
	"Wayanad",
	"Kannur",
	"Kasaragod",
}

// NormalizeBloodGroup trims and upper-cases a blood group.
func NormalizeBloodGroup(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidBloodGroup reports whether s is an enumerated blood group.
func ValidBloodGroup(s string) bool {
	s = NormalizeBloodGroup(s)
	for _, g := range BloodGroups {
		if g == s {
			return true
		}
	}
	return false
}

// CanonicalDistrict returns the enumerated spelling of a district, matched
// case-insensitively, and whether it was found.
func CanonicalDistrict(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Districts {
		if strings.EqualFold(d, s) {
			return d, true
		}
	}
	return s, false
}
