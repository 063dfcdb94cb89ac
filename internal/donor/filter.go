package donor

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/erazemk/blooddonors/internal/model"
)

// All is the filter value meaning "no constraint".
const All = "all"

// Criteria narrows a donor list by blood group and district.
type Criteria struct {
	BloodGroup string
	District   string
}

func active(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return "", false
	}
	return v, true
}

// Constraints returns the active blood group and district, "" for each
// unconstrained dimension.
func (c Criteria) Constraints() (bloodGroup, district string) {
	bloodGroup, _ = active(c.BloodGroup)
	district, _ = active(c.District)
	return bloodGroup, district
}

// Unconstrained reports whether neither dimension filters anything.
func (c Criteria) Unconstrained() bool {
	bg, d := c.Constraints()
	return bg == "" && d == ""
}

// Filter returns the donors matching c in their original order. Matching is
// case-insensitive and exact. When c is unconstrained the input is returned
// as is.
func Filter(donors []model.Donor, c Criteria) []model.Donor {
	bg, district := c.Constraints()
	if bg == "" && district == "" {
		return donors
	}

	out := make([]model.Donor, 0, len(donors))
	for _, d := range donors {
		if bg != "" && !strings.EqualFold(d.BloodGroup, bg) {
			continue
		}
		if district != "" && !strings.EqualFold(d.District, district) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Search keeps donors whose name or phone contains term, ignoring case.
func Search(donors []model.Donor, term string) []model.Donor {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return donors
	}

	out := make([]model.Donor, 0, len(donors))
	for _, d := range donors {
		if strings.Contains(strings.ToLower(d.Name), term) || strings.Contains(strings.ToLower(d.Phone), term) {
			out = append(out, d)
		}
	}
	return out
}

// BloodGroups returns the distinct non-empty blood groups in donors, sorted.
func BloodGroups(donors []model.Donor) []string {
	return distinct(donors, func(d model.Donor) string { return d.BloodGroup })
}

// Districts returns the distinct non-empty districts in donors, sorted.
func Districts(donors []model.Donor) []string {
	return distinct(donors, func(d model.Donor) string { return d.District })
}

func distinct(donors []model.Donor, field func(model.Donor) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, d := range donors {
		v := field(d)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	collate.New(language.English).SortStrings(values)
	return values
}
