package donor

import "strings"

// MaskChar replaces hidden phone digits.
const MaskChar = 'X'

// MaskPhone reduces a phone number to its digits and hides all but the first
// two and last two. Numbers of four digits or fewer are returned unmasked and
// an input without digits yields "".
func MaskPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) <= 4 {
		return d
	}

	return d[:2] + strings.Repeat(string(MaskChar), len(d)-4) + d[len(d)-2:]
}
