package donor

import (
	"time"

	"github.com/erazemk/blooddonors/internal/model"
)

// DefaultIntervalDays is the minimum gap between whole blood donations.
const DefaultIntervalDays = 56

// Policy holds the donation interval used for eligibility.
type Policy struct {
	IntervalDays int
}

// DefaultPolicy uses DefaultIntervalDays.
var DefaultPolicy = Policy{IntervalDays: DefaultIntervalDays}

// Day returns the calendar date of t as midnight UTC. The date is taken in
// t's own location, so callers decide which local calendar applies.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// IsAvailable reports whether the donor can donate on today. An admin
// override always wins; a donor without donation history is eligible.
func (p Policy) IsAvailable(d model.Donor, today time.Time) bool {
	if v, ok := d.Availability.Overridden(); ok {
		return v
	}
	if d.LastDonated == nil {
		return true
	}
	return daysBetween(*d.LastDonated, today) >= p.IntervalDays
}

// NextEligibleDate returns the first day the donor can donate again as
// YYYY-MM-DD, or "" when there is no history or that day is not after today.
// The admin override is not consulted.
func (p Policy) NextEligibleDate(d model.Donor, today time.Time) string {
	if d.LastDonated == nil {
		return ""
	}
	next := Day(*d.LastDonated).AddDate(0, 0, p.IntervalDays)
	if !next.After(Day(today)) {
		return ""
	}
	return next.Format(model.DateLayout)
}

// IsAvailable uses DefaultPolicy.
func IsAvailable(d model.Donor, today time.Time) bool {
	return DefaultPolicy.IsAvailable(d, today)
}

// NextEligibleDate uses DefaultPolicy.
func NextEligibleDate(d model.Donor, today time.Time) string {
	return DefaultPolicy.NextEligibleDate(d, today)
}
