package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAvailabilityJSON(t *testing.T) {
	tests := []struct {
		in   Availability
		want string
	}{
		{Derive(), "null"},
		{Override(true), "true"},
		{Override(false), "false"},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%+v) = %s, want %s", tt.in, data, tt.want)
		}

		var back Availability
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if back != tt.in {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", data, back, tt.in)
		}
	}
}

func TestParseAvailability(t *testing.T) {
	if v, ok := ParseAvailability("yes").Overridden(); !ok || !v {
		t.Error("expected yes to override to true")
	}
	if v, ok := ParseAvailability("No").Overridden(); !ok || v {
		t.Error("expected No to override to false")
	}
	if _, ok := ParseAvailability("").Overridden(); ok {
		t.Error("expected empty value to derive")
	}
}

func TestDonorJSONIncludesLastDonated(t *testing.T) {
	day, err := ParseDate("2024-02-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	d := Donor{ID: "x", Name: "Anu", LastDonated: &day}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"last_donated":"2024-02-01"`) {
		t.Errorf("expected last_donated in %s", data)
	}
	if !strings.Contains(string(data), `"available_to_donate":null`) {
		t.Errorf("expected null availability in %s", data)
	}
}

func TestParseDateTruncatesTimestamp(t *testing.T) {
	day, err := ParseDate("2024-03-28T10:15:00Z")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := day.Format(DateLayout); got != "2024-03-28" {
		t.Errorf("got %s, want 2024-03-28", got)
	}

	if _, err := ParseDate("28/03/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestBloodGroupAndDistrictHelpers(t *testing.T) {
	if got := NormalizeBloodGroup(" ab+ "); got != "AB+" {
		t.Errorf("NormalizeBloodGroup = %q", got)
	}
	if !ValidBloodGroup("o-") {
		t.Error("expected o- to be valid")
	}
	if ValidBloodGroup("C+") {
		t.Error("expected C+ to be invalid")
	}
	if d, ok := CanonicalDistrict(" ernakulam "); !ok || d != "Ernakulam" {
		t.Errorf("CanonicalDistrict = %q, %v", d, ok)
	}
	if _, ok := CanonicalDistrict("Chennai"); ok {
		t.Error("expected Chennai to be unknown")
	}
}
