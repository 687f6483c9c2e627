package body

import (
	"errors"
	"testing"
	"time"
)

func TestDefaults_AllBodiesPresent(t *testing.T) {
	table, err := Defaults(nil)
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	for _, id := range []string{"earth", "moon", "mars", "mercury"} {
		p, err := table.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", id, err)
		}
		if p.ID != id {
			t.Errorf("profile id = %s, want %s", p.ID, id)
		}
		if p.MinZoom != 0 {
			t.Errorf("%s minZoom = %d, want 0", id, p.MinZoom)
		}
		if p.MinZoom > p.MaxZoom {
			t.Errorf("%s zoom range inverted: [%d,%d]", id, p.MinZoom, p.MaxZoom)
		}
		if !p.SupportsFormat(p.DefaultFormat) {
			t.Errorf("%s default format %q not supported", id, p.DefaultFormat)
		}
	}
}

func TestLookup_UnknownBody(t *testing.T) {
	table, _ := Defaults(nil)

	_, err := table.Lookup("pluto")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	table, _ := Defaults(nil)

	p, err := table.Lookup("Earth")
	if err != nil {
		t.Fatalf("Lookup(Earth): %v", err)
	}
	if p.ID != "earth" {
		t.Errorf("id = %s, want earth", p.ID)
	}
}

func TestDefaults_Overrides(t *testing.T) {
	table, err := Defaults(map[string]Override{
		"mars": {MaxZoom: 10, Timeout: 5 * time.Second, CacheMaxAge: 60, UpstreamBaseURL: "https://mirror.example.com/Mars/EQ"},
	})
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	p, _ := table.Lookup("mars")
	if p.MaxZoom != 10 {
		t.Errorf("maxZoom = %d, want 10", p.MaxZoom)
	}
	if p.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", p.Timeout)
	}
	if p.CacheMaxAge != 60 {
		t.Errorf("cacheMaxAge = %d, want 60", p.CacheMaxAge)
	}
	if p.UpstreamBaseURL != "https://mirror.example.com/Mars/EQ" {
		t.Errorf("baseURL = %s", p.UpstreamBaseURL)
	}

	// Other bodies keep their defaults.
	earth, _ := table.Lookup("earth")
	if earth.MaxZoom != 9 {
		t.Errorf("earth maxZoom = %d, want 9", earth.MaxZoom)
	}
}

func TestResolveLayer_Aliases(t *testing.T) {
	table, _ := Defaults(nil)
	p, _ := table.Lookup("mars")

	tests := []struct {
		in   string
		want string
	}{
		{"viking", "Mars_Viking_MDIM21_ClrMosaic_global_232m"},
		{"VIKING", "Mars_Viking_MDIM21_ClrMosaic_global_232m"},
		{"  Viking Color Mosaic ", "Mars_Viking_MDIM21_ClrMosaic_global_232m"},
		{"mola", "Mars_MGS_MOLA_MEGR_global_463m"},
		{"mars_mgs_mola_megr_global_463m", "Mars_MGS_MOLA_MEGR_global_463m"},
		// Unknown layers pass through untouched; the upstream is authoritative.
		{"Mars_MRO_CTX_mosaic_global_25m", "Mars_MRO_CTX_mosaic_global_25m"},
	}
	for _, tt := range tests {
		if got := p.ResolveLayer(tt.in); got != tt.want {
			t.Errorf("ResolveLayer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTable_RejectsInvalidProfile(t *testing.T) {
	bad := mercury()
	bad.DefaultFormat = "png" // not in the supported set

	if _, err := NewTable(bad); err == nil {
		t.Fatal("expected error for unsupported default format")
	}
}

func TestNewTable_RejectsDuplicate(t *testing.T) {
	if _, err := NewTable(moon(), moon()); err == nil {
		t.Fatal("expected error for duplicate profile")
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpg", "image/jpeg"},
		{"jpeg", "image/jpeg"},
		{"png", "image/png"},
		{"png8", "image/png"},
		{"tif", "image/tiff"},
		{"tiff", "image/tiff"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.format); got != tt.want {
			t.Errorf("ContentType(%s) = %s, want %s", tt.format, got, tt.want)
		}
	}
}
