// Package isrc normalizes and validates International Standard Recording Codes.
//
// A raw code is normalized by upper-casing it and dropping everything outside
// [A-Z0-9]. A normalized code is valid when it is exactly 2 letters (country),
// 3 letters or digits (registrant), 2 digits (year) and 5 digits (designation).
package isrc

import (
	"regexp"
	"strings"
)

// Length is the number of characters in a normalized ISRC.
const Length = 12

var pattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}[0-9]{7}$`)

// Normalize upper-cases raw and strips every character outside A-Z and 0-9.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	upper := strings.ToUpper(raw)

	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValid reports whether the normalized form of raw is a well-formed ISRC.
func IsValid(raw string) bool {
	return pattern.MatchString(Normalize(raw))
}

// Parts is a valid ISRC split into its fields.
type Parts struct {
	Country     string
	Registrant  string
	Year        string
	Designation string
}

// Split returns the fields of raw. ok is false when raw is not a valid ISRC.
func Split(raw string) (p Parts, ok bool) {
	code := Normalize(raw)
	if !pattern.MatchString(code) {
		return Parts{}, false
	}
	return Parts{
		Country:     code[0:2],
		Registrant:  code[2:5],
		Year:        code[5:7],
		Designation: code[7:12],
	}, true
}

// Format renders a valid code in the dashed display form CC-XXX-YY-NNNNN.
// Invalid input is returned unchanged.
func Format(raw string) string {
	p, ok := Split(raw)
	if !ok {
		return raw
	}
	return p.Country + "-" + p.Registrant + "-" + p.Year + "-" + p.Designation
}
