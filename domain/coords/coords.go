// Package coords normalizes and validates human-entered coordinates
// against a body's configured ranges. The same logic backs tile-bound
// validation and the search-to-viewport feature, so the two surfaces
// cannot drift apart.
package coords

import (
	"fmt"

	"github.com/cosmozoom/tilegate/domain/body"
)

// Violation describes one coordinate constraint that failed.
type Violation struct {
	Field    string  `json:"field"`
	Provided float64 `json:"provided"`
	Message  string  `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s (provided %g)", v.Field, v.Message, v.Provided)
}

// Normalized is a validated coordinate pair in the body's canonical
// representation (longitude always within the configured range).
type Normalized struct {
	Body string  `json:"body"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// NormalizeLongitude converts a longitude to the body's canonical range.
// Bodies whose native data is addressed in 0..360 accept that form and
// have it folded into [-180,180]; every other input passes through.
func NormalizeLongitude(p *body.Profile, lng float64) float64 {
	if p.AcceptsAltLng && lng > 180 && lng <= 360 {
		return lng - 360
	}
	return lng
}

// Validate checks a latitude/longitude pair against the profile's ranges
// and returns every violated constraint, not just the first, so a caller
// can report all problems at once.
func Validate(p *body.Profile, lat, lng float64) (Normalized, []Violation) {
	var violations []Violation

	if !p.LatRange.Contains(lat) {
		violations = append(violations, Violation{
			Field:    "lat",
			Provided: lat,
			Message:  fmt.Sprintf("latitude must be between %g and %g", p.LatRange.Min, p.LatRange.Max),
		})
	}

	normalized := NormalizeLongitude(p, lng)
	if !p.LngRange.Contains(normalized) {
		violations = append(violations, Violation{
			Field:    "lng",
			Provided: lng,
			Message:  fmt.Sprintf("longitude must be between %g and %g", p.LngRange.Min, p.LngRange.Max),
		})
	}

	if len(violations) > 0 {
		return Normalized{}, violations
	}
	return Normalized{Body: p.ID, Lat: lat, Lng: normalized}, nil
}
