// Package http provides the HTTP surface of the tile proxy.
package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cosmozoom/tilegate/adapters/metrics"
	"github.com/cosmozoom/tilegate/app"
	"github.com/cosmozoom/tilegate/domain/body"
	"github.com/cosmozoom/tilegate/domain/coords"
	"github.com/cosmozoom/tilegate/domain/tile"
)

// Handler serves the tile proxy endpoints.
type Handler struct {
	service    *app.TileService
	logger     zerolog.Logger
	instanceID string
	version    string
}

// NewHandler creates the HTTP handler around the tile service.
func NewHandler(service *app.TileService, logger zerolog.Logger, instanceID, version string) *Handler {
	return &Handler{
		service:    service,
		logger:     logger,
		instanceID: instanceID,
		version:    version,
	}
}

// RouterConfig tunes the router middleware stack.
type RouterConfig struct {
	AllowedOrigins []string
	Metrics        *metrics.Collector
	MetricsPath    string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with the full middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(h.logger))
	r.Use(NewRecoverer(h.logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", h.ServiceDirectory)
	r.Get("/health", h.Health)
	r.Get("/version", h.Version)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	r.Route("/{body}", func(r chi.Router) {
		r.Get("/tile", h.Tile)
		r.Get("/info", h.Info)
		r.Get("/layers", h.Layers)
		r.Get("/coordinates", h.Coordinates)
	})

	return r
}

// Tile proxies one WMTS tile request.
func (h *Handler) Tile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := tile.RawParams{
		Z:      q.Get("z"),
		X:      q.Get("x"),
		Y:      q.Get("y"),
		Layer:  q.Get("layer"),
		Format: q.Get("format"),
		Date:   q.Get("date"),
		Ver:    q.Get("version"),
		Style:  q.Get("style"),
		TMS:    q.Get("tileMatrixSet"),
	}
	// The WMTS-spelled alias the original accepted.
	if raw.TMS == "" {
		raw.TMS = q.Get("TileMatrixSet")
	}

	res := h.service.HandleTile(r.Context(), chi.URLParam(r, "body"), raw)
	writeResult(w, res)
}

// Info returns a read-only projection of a body's profile.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.lookup(w, r)
	if !ok {
		return
	}

	defaults := map[string]interface{}{
		"layer":           profile.DefaultLayer,
		"tile_matrix_set": profile.DefaultTMS,
		"format":          profile.DefaultFormat,
		"max_zoom":        profile.MaxZoom,
	}
	if profile.RequiresDate {
		defaults["date"] = profile.DefaultDate
	}
	if profile.Family == body.FamilyVersioned {
		defaults["version"] = profile.DefaultVer
		defaults["style"] = profile.DefaultStyle
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":           profile.DisplayName,
		"celestial_body":    profile.ID,
		"status":            "operational",
		"source":            profile.Source,
		"base_url":          profile.UpstreamBaseURL,
		"requires_date":     profile.RequiresDate,
		"defaults":          defaults,
		"supported_formats": profile.FormatList(),
		"cache_max_age":     profile.CacheMaxAge,
		"coverage": map[string][]float64{
			"latitude":  {profile.LatRange.Min, profile.LatRange.Max},
			"longitude": {profile.LngRange.Min, profile.LngRange.Max},
		},
		"endpoints": map[string]string{
			"info":        "/" + profile.ID + "/info",
			"tile":        "/" + profile.ID + "/tile",
			"layers":      "/" + profile.ID + "/layers",
			"coordinates": "/" + profile.ID + "/coordinates",
		},
		"example": exampleURL(profile),
	})
}

// Layers lists a body's known imagery layers.
func (h *Handler) Layers(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"celestial_body": profile.ID,
		"total":          len(profile.Layers),
		"default":        profile.DefaultLayer,
		"min_zoom":       profile.MinZoom,
		"max_zoom":       profile.MaxZoom,
		"note":           "layer names outside this catalog are passed through to the upstream unchanged",
		"layers":         profile.Layers,
	})
}

// Coordinates normalizes a human-entered lat/lng pair into the body's
// canonical representation, the same logic tile validation uses.
func (h *Handler) Coordinates(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.lookup(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, &app.ErrorDetail{
			Kind:     tile.KindInvalidCoords,
			Message:  "lat and lng must be decimal degrees",
			Provided: map[string]string{"lat": q.Get("lat"), "lng": q.Get("lng")},
			Example:  "/" + profile.ID + "/coordinates?lat=14.5&lng=250",
		})
		return
	}

	normalized, violations := coords.Validate(profile, lat, lng)
	if violations != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Detail: map[string]interface{}{
			"error":      tile.KindInvalidCoords,
			"message":    fmt.Sprintf("%d coordinate constraint(s) violated", len(violations)),
			"provided":   map[string]float64{"lat": lat, "lng": lng},
			"violations": violations,
		}})
		return
	}
	writeJSON(w, http.StatusOK, normalized)
}

// Health reports the operational status of every body service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	for _, id := range h.service.Bodies().IDs() {
		services[id] = "operational"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"instance":  h.instanceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}

// Version reports the build version.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "tilegate",
		"version": h.version,
	})
}

// ServiceDirectory is the discovery endpoint at the root.
func (h *Handler) ServiceDirectory(w http.ResponseWriter, r *http.Request) {
	table := h.service.Bodies()
	services := make(map[string]interface{})
	for _, id := range table.IDs() {
		p, err := table.Lookup(id)
		if err != nil {
			continue
		}
		services[id] = map[string]interface{}{
			"name":           p.DisplayName,
			"celestial_body": p.ID,
			"source":         p.Source,
			"requires_date":  p.RequiresDate,
			"endpoints": map[string]string{
				"info":   "/" + id + "/info",
				"tile":   "/" + id + "/tile",
				"layers": "/" + id + "/layers",
			},
			"example": exampleURL(p),
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":     "NASA Imagery Tile Proxy",
		"version":     h.version,
		"status":      "operational",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"description": "Unified proxy for NASA GIBS and Trek WMTS tile services",
		"services":    services,
		"quick_links": map[string]string{
			"health":  "/health",
			"version": "/version",
		},
	})
}

// lookup resolves the {body} path parameter or writes the 404 envelope.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*body.Profile, bool) {
	id := chi.URLParam(r, "body")
	profile, err := h.service.Bodies().Lookup(id)
	if err != nil {
		writeError(w, http.StatusNotFound, &app.ErrorDetail{
			Kind:     tile.KindBodyNotFound,
			Message:  fmt.Sprintf("no imagery service for body %q; known bodies: %v", id, h.service.Bodies().IDs()),
			Provided: id,
			Example:  "mars",
		})
		return nil, false
	}
	return profile, true
}

func exampleURL(p *body.Profile) string {
	if p.RequiresDate {
		return fmt.Sprintf("/%s/tile?layer=%s&date=%s&z=6&y=18&x=23&format=%s",
			p.ID, p.DefaultLayer, p.DefaultDate, p.DefaultFormat)
	}
	return fmt.Sprintf("/%s/tile?z=3&y=2&x=5&format=%s", p.ID, p.DefaultFormat)
}
