package donor

import (
	"testing"
	"time"

	"github.com/erazemk/blooddonors/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func donatedOn(t *testing.T, s string) model.Donor {
	d := date(t, s)
	return model.Donor{LastDonated: &d}
}

func TestIsAvailableOverrideWins(t *testing.T) {
	today := date(t, "2024-02-10")

	recent := donatedOn(t, "2024-02-09")
	recent.Availability = model.Override(true)
	if !IsAvailable(recent, today) {
		t.Error("override true should win over a recent donation")
	}

	never := model.Donor{Availability: model.Override(false)}
	if IsAvailable(never, today) {
		t.Error("override false should win over missing history")
	}

	old := donatedOn(t, "2020-01-01")
	old.Availability = model.Override(false)
	if IsAvailable(old, today) {
		t.Error("override false should win over an old donation")
	}
}

func TestNoHistoryIsEligible(t *testing.T) {
	today := date(t, "2024-02-10")
	d := model.Donor{}

	if !IsAvailable(d, today) {
		t.Error("donor without history should be available")
	}
	if got := NextEligibleDate(d, today); got != "" {
		t.Errorf("NextEligibleDate = %q, want empty", got)
	}
}

func TestIntervalBoundary(t *testing.T) {
	today := date(t, "2024-06-30")

	exactly := Day(today).AddDate(0, 0, -56)
	d := model.Donor{LastDonated: &exactly}
	if !IsAvailable(d, today) {
		t.Error("56 days after donation should be available")
	}
	if got := NextEligibleDate(d, today); got != "" {
		t.Errorf("NextEligibleDate at 56 days = %q, want empty", got)
	}

	oneShort := Day(today).AddDate(0, 0, -55)
	d = model.Donor{LastDonated: &oneShort}
	if IsAvailable(d, today) {
		t.Error("55 days after donation should not be available")
	}
	if got, want := NextEligibleDate(d, today), "2024-07-01"; got != want {
		t.Errorf("NextEligibleDate at 55 days = %q, want %q", got, want)
	}
}

func TestEligibilityExamples(t *testing.T) {
	tests := []struct {
		lastDonated string
		today       string
		available   bool
		next        string
	}{
		{"2024-01-01", "2024-02-28", true, ""},
		{"2024-02-01", "2024-02-10", false, "2024-03-28"},
		// Year rollover.
		{"2023-12-20", "2024-01-05", false, "2024-02-14"},
		// Leap day is counted.
		{"2024-01-10", "2024-03-05", false, "2024-03-06"},
	}

	for _, tt := range tests {
		d := donatedOn(t, tt.lastDonated)
		today := date(t, tt.today)

		if got := IsAvailable(d, today); got != tt.available {
			t.Errorf("IsAvailable(%s on %s) = %v, want %v", tt.lastDonated, tt.today, got, tt.available)
		}
		if got := NextEligibleDate(d, today); got != tt.next {
			t.Errorf("NextEligibleDate(%s on %s) = %q, want %q", tt.lastDonated, tt.today, got, tt.next)
		}
	}
}

func TestTimeOfDayIgnored(t *testing.T) {
	d := donatedOn(t, "2024-02-01")
	loc := time.FixedZone("IST", 5*3600+1800)

	morning := time.Date(2024, 3, 28, 0, 5, 0, 0, loc)
	night := time.Date(2024, 3, 28, 23, 55, 0, 0, loc)
	for _, now := range []time.Time{morning, night} {
		if !IsAvailable(d, now) {
			t.Errorf("expected available at %v", now)
		}
	}

	dayBefore := time.Date(2024, 3, 27, 23, 59, 59, 0, loc)
	if IsAvailable(d, dayBefore) {
		t.Errorf("expected unavailable at %v", dayBefore)
	}
}

func TestNextEligibleIgnoresOverride(t *testing.T) {
	d := donatedOn(t, "2024-02-01")
	d.Availability = model.Override(true)

	if got := NextEligibleDate(d, date(t, "2024-02-10")); got != "2024-03-28" {
		t.Errorf("NextEligibleDate = %q, want 2024-03-28", got)
	}
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{IntervalDays: 90}
	d := donatedOn(t, "2024-01-01")
	today := date(t, "2024-03-01")

	if p.IsAvailable(d, today) {
		t.Error("expected unavailable with 90 day interval")
	}
	if got := p.NextEligibleDate(d, today); got != "2024-03-31" {
		t.Errorf("NextEligibleDate = %q, want 2024-03-31", got)
	}
}
