// Package app provides the application service that orchestrates the
// tile request pipeline: validate, build the upstream URL, fetch, and
// translate the outcome.
package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cosmozoom/tilegate/adapters/metrics"
	"github.com/cosmozoom/tilegate/domain/body"
	"github.com/cosmozoom/tilegate/domain/tile"
	"github.com/cosmozoom/tilegate/ports"
)

// ErrorDetail is the inner object of the error envelope. Its shape is a
// stable client contract.
type ErrorDetail struct {
	Kind         string      `json:"error"`
	Message      string      `json:"message"`
	Provided     interface{} `json:"provided,omitempty"`
	Example      string      `json:"example,omitempty"`
	RequestedURL string      `json:"requestedUrl,omitempty"`
}

// Result is the translated proxy response for one tile request.
// Either Body (with ContentType/Headers) or Err is set.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
	Headers     map[string]string
	Err         *ErrorDetail
}

// TileService handles tile requests end to end. Profile lookups go
// through a supplier so configuration reloads swap the whole table
// atomically; everything else is per-request state.
type TileService struct {
	bodies  func() *body.Table
	fetcher ports.Fetcher
	clock   ports.Clock
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// Deps contains the dependencies for TileService.
type Deps struct {
	Bodies  func() *body.Table
	Fetcher ports.Fetcher
	Clock   ports.Clock
	Metrics *metrics.Collector // optional
	Logger  zerolog.Logger
}

// NewTileService creates the tile pipeline service.
func NewTileService(deps Deps) *TileService {
	return &TileService{
		bodies:  deps.Bodies,
		fetcher: deps.Fetcher,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

// Bodies returns the current profile table.
func (s *TileService) Bodies() *body.Table {
	return s.bodies()
}

// HandleTile runs the full pipeline for one request. Validation
// failures short-circuit before any network call; every upstream
// failure is converted to a structured result, never propagated.
func (s *TileService) HandleTile(ctx context.Context, bodyID string, raw tile.RawParams) Result {
	profile, err := s.bodies().Lookup(bodyID)
	if err != nil {
		return Result{Status: 404, Err: &ErrorDetail{
			Kind:     tile.KindBodyNotFound,
			Message:  fmt.Sprintf("no imagery service for body %q; known bodies: %v", bodyID, s.bodies().IDs()),
			Provided: bodyID,
			Example:  "mars",
		}}
	}

	req, verr := tile.Validate(profile, raw, s.clock.Now())
	if verr != nil {
		if s.metrics != nil {
			s.metrics.ValidationFailures.WithLabelValues(profile.ID, verr.Field).Inc()
		}
		return Result{Status: 400, Err: &ErrorDetail{
			Kind:     verr.Kind,
			Message:  verr.Message,
			Provided: verr.Provided,
			Example:  verr.Example,
		}}
	}

	url := tile.BuildURL(profile, req)

	start := s.clock.Now()
	outcome := s.fetcher.Fetch(ctx, url, profile.Timeout)
	elapsed := s.clock.Now().Sub(start)

	if s.metrics != nil {
		errKind := ""
		if outcome.Kind != tile.OutcomeSuccess {
			errKind = outcome.Kind.String()
		}
		s.metrics.ObserveUpstream(profile.ID, elapsed, errKind)
		s.metrics.ObserveTile(profile.ID, outcome.Kind.String())
	}

	result := translate(profile, req, url, outcome)
	if result.Err != nil {
		s.logger.Warn().
			Str("body", profile.ID).
			Str("url", url).
			Str("outcome", outcome.Kind.String()).
			Int("status", result.Status).
			Dur("upstream_duration", elapsed).
			Msg("tile fetch failed")
	} else {
		s.logger.Debug().
			Str("body", profile.ID).
			Str("layer", req.Layer).
			Int("z", req.Z).Int("x", req.X).Int("y", req.Y).
			Dur("upstream_duration", elapsed).
			Msg("tile served")
	}
	return result
}

// translate maps a fetch outcome onto the proxy's response contract.
func translate(p *body.Profile, req tile.Request, url string, outcome tile.Outcome) Result {
	switch outcome.Kind {
	case tile.OutcomeSuccess:
		return Result{
			Status:      200,
			ContentType: body.ContentType(req.Format),
			Body:        outcome.Body,
			Headers: map[string]string{
				"Cache-Control":    fmt.Sprintf("public, max-age=%d", p.CacheMaxAge),
				"X-Tile-Source":    p.Source,
				"X-Tile-Layer":     req.Layer,
				"X-Celestial-Body": p.ID,
				"X-Zoom-Level":     strconv.Itoa(req.Z),
			},
		}

	case tile.OutcomeHTTPError:
		if outcome.StatusCode == 404 {
			return Result{Status: 404, Err: &ErrorDetail{
				Kind:    tile.KindTileNotFound,
				Message: "the requested tile does not exist; check layer name, date, or coordinates",
				Provided: map[string]interface{}{
					"layer": req.Layer, "date": req.Date,
					"z": req.Z, "x": req.X, "y": req.Y, "format": req.Format,
				},
				RequestedURL: url,
			}}
		}
		return Result{Status: 502, Err: &ErrorDetail{
			Kind:         tile.KindUpstreamError,
			Message:      fmt.Sprintf("upstream service returned HTTP %d", outcome.StatusCode),
			Provided:     outcome.StatusCode,
			RequestedURL: url,
		}}

	case tile.OutcomeTimeout:
		return Result{Status: 502, Err: &ErrorDetail{
			Kind:         tile.KindTimeout,
			Message:      fmt.Sprintf("upstream did not respond within %s", p.Timeout),
			RequestedURL: url,
		}}

	default:
		return Result{Status: 502, Err: &ErrorDetail{
			Kind:         tile.KindNetworkError,
			Message:      "failed to reach upstream service: " + errString(outcome.Err),
			RequestedURL: url,
		}}
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown network failure"
	}
	return err.Error()
}
