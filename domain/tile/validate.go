package tile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cosmozoom/tilegate/domain/body"
)

// RawParams carries the untrusted query parameters of one tile request.
// Empty strings mean the parameter was absent.
type RawParams struct {
	Z      string
	X      string
	Y      string
	Layer  string
	Format string
	Date   string
	Ver    string
	Style  string
	TMS    string
}

// Validate turns raw parameters into a Request or explains the first
// parameter that fails. Checks run in a fixed order (zoom before the
// coordinate bounds, which are defined in terms of it) so error messages
// are deterministic.
func Validate(p *body.Profile, raw RawParams, now time.Time) (Request, *ValidationError) {
	z, verr := parseBoundedInt("z", raw.Z, p.MinZoom, p.MaxZoom)
	if verr != nil {
		return Request{}, verr
	}

	maxTiles := 1 << uint(z)
	x, verr := parseBoundedInt("x", raw.X, 0, maxTiles-1)
	if verr != nil {
		return Request{}, verr
	}
	y, verr := parseBoundedInt("y", raw.Y, 0, maxTiles-1)
	if verr != nil {
		return Request{}, verr
	}

	format := raw.Format
	if format == "" {
		format = p.DefaultFormat
	} else if !p.SupportsFormat(format) {
		return Request{}, &ValidationError{
			Field:    "format",
			Kind:     KindInvalidFormat,
			Message:  fmt.Sprintf("format must be one of: %s", strings.Join(p.FormatList(), ", ")),
			Provided: raw.Format,
			Example:  p.DefaultFormat,
		}
	}

	var date string
	if p.RequiresDate {
		date = raw.Date
		if date == "" {
			date = p.DefaultDate
		}
		if verr := validateDate(date, now); verr != nil {
			return Request{}, verr
		}
	}

	layer := raw.Layer
	if layer == "" {
		layer = p.DefaultLayer
	}

	req := Request{
		Body:   p.ID,
		Z:      z,
		X:      x,
		Y:      y,
		Layer:  p.ResolveLayer(layer),
		Format: format,
		Date:   date,
		TMS:    orDefault(raw.TMS, p.DefaultTMS),
	}
	if p.Family == body.FamilyVersioned {
		req.Version = orDefault(raw.Ver, p.DefaultVer)
		req.Style = orDefault(raw.Style, p.DefaultStyle)
	}
	return req, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBoundedInt(field, raw string, min, max int) (int, *ValidationError) {
	if raw == "" {
		return 0, &ValidationError{
			Field:    field,
			Kind:     KindMissingParam,
			Message:  field + " is required",
			Example:  strconv.Itoa(min),
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{
			Field:    field,
			Kind:     KindInvalidParam,
			Message:  field + " must be an integer",
			Provided: raw,
			Example:  strconv.Itoa(min),
		}
	}
	if v < min || v > max {
		kind := KindOutOfBounds
		if field == "z" {
			kind = KindInvalidZoom
		}
		return 0, &ValidationError{
			Field:    field,
			Kind:     kind,
			Message:  fmt.Sprintf("%s must be between %d and %d", field, min, max),
			Provided: raw,
			Example:  strconv.Itoa(min),
		}
	}
	return v, nil
}

// validateDate enforces strict YYYY-MM-DD and rejects dates after the
// current UTC calendar date. A future date is rejected, never clamped.
func validateDate(date string, now time.Time) *ValidationError {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil || parsed.Format("2006-01-02") != date {
		return &ValidationError{
			Field:    "date",
			Kind:     KindInvalidDate,
			Message:  "date must be in YYYY-MM-DD format",
			Provided: date,
			Example:  "2025-10-03",
		}
	}
	today := now.UTC().Format("2006-01-02")
	if date > today {
		return &ValidationError{
			Field:    "date",
			Kind:     KindInvalidDate,
			Message:  "date cannot be in the future; current UTC date is " + today,
			Provided: date,
			Example:  today,
		}
	}
	return nil
}
