// Package tile holds the request model for one proxied WMTS tile:
// parameter validation, upstream URL construction, and the outcome
// taxonomy the response translator maps onto HTTP.
package tile

import "fmt"

// Error kinds carried in the error envelope. These are part of the
// stable client contract.
const (
	KindMissingParam   = "missing_parameter"
	KindInvalidParam   = "invalid_parameter"
	KindInvalidZoom    = "invalid_zoom"
	KindOutOfBounds    = "coordinates_out_of_bounds"
	KindInvalidFormat  = "unsupported_format"
	KindInvalidDate    = "invalid_date"
	KindBodyNotFound   = "unknown_body"
	KindTileNotFound   = "tile_not_found"
	KindUpstreamError  = "upstream_error"
	KindNetworkError   = "network_error"
	KindTimeout        = "upstream_timeout"
	KindInternal       = "internal_error"
	KindInvalidCoords  = "invalid_coordinates"
)

// Request is a fully validated tile request. Instances are built only by
// Validate and are never persisted.
type Request struct {
	Body   string
	Z      int
	X      int
	Y      int
	Layer  string
	Format string
	Date   string // YYYY-MM-DD, date-keyed bodies only

	Version string // versioned bodies only
	Style   string // versioned bodies only
	TMS     string
}

// ValidationError reports a single rejected request parameter with
// enough context for the client to correct it.
type ValidationError struct {
	Field    string
	Kind     string
	Message  string
	Provided string
	Example  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s (provided %q)", e.Field, e.Kind, e.Message, e.Provided)
}
