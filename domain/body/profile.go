// Package body defines the per-celestial-body profiles that drive
// validation, URL construction, and response caching.
package body

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when a body ID has no profile.
var ErrNotFound = errors.New("unknown celestial body")

// PathFamily selects the upstream WMTS path template for a body.
type PathFamily int

const (
	// FamilyDateKeyed addresses tiles by calendar date
	// ({base}/{layer}/default/{date}/{tms}/{z}/{y}/{x}.{fmt}).
	FamilyDateKeyed PathFamily = iota
	// FamilyVersioned addresses tiles by layer version and style
	// ({base}/{layer}/{version}/{style}/{tms}/{z}/{y}/{x}.{fmt}).
	FamilyVersioned
)

// Range is an inclusive [Min, Max] interval in degrees.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Layer describes one imagery layer a body publishes.
type Layer struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Resolution  string   `json:"resolution,omitempty"`
	Source      string   `json:"source,omitempty"`
	Type        string   `json:"type,omitempty"`
	MinZoom     int      `json:"minZoom"`
	MaxZoom     int      `json:"maxZoom"`
	Formats     []string `json:"formats,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Profile is the static description of one body's upstream WMTS service.
// Profiles are built once at startup and never mutated; concurrent
// readers share them without locking.
type Profile struct {
	ID              string
	DisplayName     string
	Source          string
	UpstreamBaseURL string
	Family          PathFamily

	DefaultLayer  string
	DefaultVer    string // versioned family only
	DefaultStyle  string // versioned family only
	DefaultTMS    string
	DefaultFormat string
	DefaultDate   string // date-keyed family only, YYYY-MM-DD

	SupportedFormats map[string]struct{}
	MinZoom          int
	MaxZoom          int
	RequiresDate     bool

	Timeout          time.Duration
	CacheMaxAge      int // seconds
	LatRange         Range
	LngRange         Range
	AcceptsAltLng    bool // native data addressed in 0..360 longitude
	Layers           []Layer
	aliasToCanonical map[string]string
}

// Validate checks the structural invariants a profile must satisfy.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile missing id")
	}
	if p.UpstreamBaseURL == "" {
		return fmt.Errorf("profile %s: missing upstream base URL", p.ID)
	}
	if p.MinZoom < 0 || p.MinZoom > p.MaxZoom {
		return fmt.Errorf("profile %s: zoom range [%d,%d] invalid", p.ID, p.MinZoom, p.MaxZoom)
	}
	if len(p.SupportedFormats) == 0 {
		return fmt.Errorf("profile %s: no supported formats", p.ID)
	}
	if _, ok := p.SupportedFormats[p.DefaultFormat]; !ok {
		return fmt.Errorf("profile %s: default format %q not in supported set", p.ID, p.DefaultFormat)
	}
	if p.RequiresDate && p.DefaultDate == "" {
		return fmt.Errorf("profile %s: requires date but has no default", p.ID)
	}
	return nil
}

// SupportsFormat reports whether the body publishes tiles in the format.
func (p *Profile) SupportsFormat(format string) bool {
	_, ok := p.SupportedFormats[format]
	return ok
}

// FormatList returns the supported formats sorted for stable output.
func (p *Profile) FormatList() []string {
	out := make([]string, 0, len(p.SupportedFormats))
	for f := range p.SupportedFormats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ResolveLayer maps a layer name or alias to its canonical ID.
// Matching is case-insensitive and whitespace-trimmed. Unknown names are
// returned unchanged: the upstream service is authoritative for the layer
// catalog and will 404 on layers it does not publish.
func (p *Profile) ResolveLayer(name string) string {
	if canonical, ok := p.aliasToCanonical[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical
	}
	return name
}

// ContentType maps a tile format to its HTTP Content-Type.
func ContentType(format string) string {
	switch format {
	case "png", "png8":
		return "image/png"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}

// Table is the immutable body-profile lookup shared by all requests.
type Table struct {
	profiles map[string]*Profile
	order    []string
}

// NewTable builds a table from the given profiles, validating each and
// indexing layer aliases.
func NewTable(profiles ...*Profile) (*Table, error) {
	t := &Table{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.profiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile %s", p.ID)
		}
		p.aliasToCanonical = buildAliasIndex(p.Layers)
		t.profiles[p.ID] = p
		t.order = append(t.order, p.ID)
	}
	return t, nil
}

func buildAliasIndex(layers []Layer) map[string]string {
	idx := make(map[string]string)
	for _, l := range layers {
		idx[strings.ToLower(l.ID)] = l.ID
		for _, a := range l.Aliases {
			idx[strings.ToLower(strings.TrimSpace(a))] = l.ID
		}
	}
	return idx
}

// Lookup returns the profile for a body ID, or ErrNotFound.
func (t *Table) Lookup(id string) (*Profile, error) {
	p, ok := t.profiles[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// IDs returns the body IDs in registration order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
