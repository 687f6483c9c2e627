package tile

import (
	"fmt"

	"github.com/cosmozoom/tilegate/domain/body"
)

// BuildURL maps a validated request to the upstream WMTS tile URL.
// Pure and infallible for a validated request: the path family is a
// static property of the profile, and WMTS orders the matrix indices
// z/y/x (row before column).
func BuildURL(p *body.Profile, req Request) string {
	switch p.Family {
	case body.FamilyDateKeyed:
		return fmt.Sprintf("%s/%s/default/%s/%s/%d/%d/%d.%s",
			p.UpstreamBaseURL, req.Layer, req.Date, req.TMS, req.Z, req.Y, req.X, req.Format)
	default:
		return fmt.Sprintf("%s/%s/%s/%s/%s/%d/%d/%d.%s",
			p.UpstreamBaseURL, req.Layer, req.Version, req.Style, req.TMS, req.Z, req.Y, req.X, req.Format)
	}
}
