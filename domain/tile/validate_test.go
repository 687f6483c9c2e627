package tile_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/cosmozoom/tilegate/domain/body"
	"github.com/cosmozoom/tilegate/domain/tile"
)

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func profileFor(t *testing.T, id string) *body.Profile {
	t.Helper()
	table, err := body.Defaults(nil)
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	p, err := table.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", id, err)
	}
	return p
}

func params(z, x, y int) tile.RawParams {
	return tile.RawParams{
		Z: strconv.Itoa(z),
		X: strconv.Itoa(x),
		Y: strconv.Itoa(y),
	}
}

func TestValidate_AllCornersOfEveryZoomLevel(t *testing.T) {
	for _, id := range []string{"earth", "moon", "mars", "mercury"} {
		p := profileFor(t, id)
		for z := p.MinZoom; z <= p.MaxZoom; z++ {
			edge := 1<<uint(z) - 1
			for _, c := range [][2]int{{0, 0}, {edge, 0}, {0, edge}, {edge, edge}} {
				if _, verr := tile.Validate(p, params(z, c[0], c[1]), testNow); verr != nil {
					t.Errorf("%s z=%d x=%d y=%d rejected: %v", id, z, c[0], c[1], verr)
				}
			}
		}
	}
}

func TestValidate_CoordinateBounds(t *testing.T) {
	p := profileFor(t, "moon")

	for z := p.MinZoom; z <= p.MaxZoom; z++ {
		limit := 1 << uint(z)

		if _, verr := tile.Validate(p, params(z, limit, 0), testNow); verr == nil {
			t.Errorf("z=%d x=%d accepted, want out-of-bounds rejection", z, limit)
		} else if verr.Field != "x" {
			t.Errorf("z=%d field = %s, want x", z, verr.Field)
		}

		if _, verr := tile.Validate(p, params(z, 0, limit), testNow); verr == nil {
			t.Errorf("z=%d y=%d accepted, want out-of-bounds rejection", z, limit)
		} else if verr.Field != "y" {
			t.Errorf("z=%d field = %s, want y", z, verr.Field)
		}

		if _, verr := tile.Validate(p, params(z, -1, 0), testNow); verr == nil {
			t.Errorf("z=%d x=-1 accepted", z)
		}
	}
}

func TestValidate_ZoomBounds(t *testing.T) {
	p := profileFor(t, "earth")

	_, verr := tile.Validate(p, params(p.MaxZoom+1, 0, 0), testNow)
	if verr == nil {
		t.Fatal("z beyond max accepted")
	}
	if verr.Field != "z" || verr.Kind != tile.KindInvalidZoom {
		t.Errorf("got field=%s kind=%s, want z/%s", verr.Field, verr.Kind, tile.KindInvalidZoom)
	}

	if _, verr := tile.Validate(p, params(-1, 0, 0), testNow); verr == nil {
		t.Fatal("z=-1 accepted")
	}
}

func TestValidate_MissingAndMalformedInts(t *testing.T) {
	p := profileFor(t, "mars")

	tests := []struct {
		name string
		raw  tile.RawParams
		kind string
	}{
		{"missing z", tile.RawParams{X: "1", Y: "1"}, tile.KindMissingParam},
		{"missing x", tile.RawParams{Z: "3", Y: "1"}, tile.KindMissingParam},
		{"missing y", tile.RawParams{Z: "3", X: "1"}, tile.KindMissingParam},
		{"non-integer z", tile.RawParams{Z: "three", X: "1", Y: "1"}, tile.KindInvalidParam},
		{"float x", tile.RawParams{Z: "3", X: "1.5", Y: "1"}, tile.KindInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := tile.Validate(p, tt.raw, testNow)
			if verr == nil {
				t.Fatal("accepted")
			}
			if verr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", verr.Kind, tt.kind)
			}
		})
	}
}

func TestValidate_ZoomCheckedBeforeCoordinates(t *testing.T) {
	p := profileFor(t, "mercury")

	// Both z and x are invalid; the zoom error must win because the
	// coordinate bound is defined in terms of z.
	raw := tile.RawParams{Z: "99", X: "999999", Y: "0"}
	_, verr := tile.Validate(p, raw, testNow)
	if verr == nil {
		t.Fatal("accepted")
	}
	if verr.Field != "z" {
		t.Errorf("field = %s, want z", verr.Field)
	}
}

func TestValidate_Format(t *testing.T) {
	p := profileFor(t, "earth")

	raw := params(3, 1, 1)
	raw.Format = "gif"
	_, verr := tile.Validate(p, raw, testNow)
	if verr == nil {
		t.Fatal("gif accepted")
	}
	if verr.Kind != tile.KindInvalidFormat {
		t.Errorf("kind = %s, want %s", verr.Kind, tile.KindInvalidFormat)
	}
	if verr.Example != "jpg" {
		t.Errorf("example = %s, want jpg", verr.Example)
	}

	raw.Format = ""
	req, verr := tile.Validate(p, raw, testNow)
	if verr != nil {
		t.Fatalf("default format rejected: %v", verr)
	}
	if req.Format != "jpg" {
		t.Errorf("format = %s, want jpg default", req.Format)
	}
}

func TestValidate_Dates(t *testing.T) {
	p := profileFor(t, "earth")

	tests := []struct {
		date string
		ok   bool
	}{
		{"2025-10-03", true},
		{"2025-10-15", true},  // today is fine
		{"2099-01-01", false}, // future rejected, not clamped
		{"2025-10-16", false}, // tomorrow rejected
		{"10-03-2025", false}, // wrong field order
		{"2025-1-3", false},   // not zero-padded
		{"2025/10/03", false},
		{"", true}, // absent: profile default applies
	}
	for _, tt := range tests {
		raw := params(3, 1, 1)
		raw.Date = tt.date
		req, verr := tile.Validate(p, raw, testNow)
		if tt.ok && verr != nil {
			t.Errorf("date %q rejected: %v", tt.date, verr)
		}
		if !tt.ok && verr == nil {
			t.Errorf("date %q accepted", tt.date)
		}
		if tt.ok && verr == nil && tt.date == "" && req.Date != p.DefaultDate {
			t.Errorf("defaulted date = %s, want %s", req.Date, p.DefaultDate)
		}
	}
}

func TestValidate_DateIgnoredForStaticBodies(t *testing.T) {
	p := profileFor(t, "moon")

	raw := params(2, 1, 1)
	raw.Date = "2099-01-01" // static body, date is not consulted
	req, verr := tile.Validate(p, raw, testNow)
	if verr != nil {
		t.Fatalf("rejected: %v", verr)
	}
	if req.Date != "" {
		t.Errorf("date = %q, want empty", req.Date)
	}
}

func TestValidate_DefaultsAndAliases(t *testing.T) {
	p := profileFor(t, "mars")

	raw := params(3, 2, 5)
	raw.Layer = "viking"
	req, verr := tile.Validate(p, raw, testNow)
	if verr != nil {
		t.Fatalf("rejected: %v", verr)
	}
	if req.Layer != "Mars_Viking_MDIM21_ClrMosaic_global_232m" {
		t.Errorf("layer = %s, alias not resolved", req.Layer)
	}
	if req.Version != "1.0.0" || req.Style != "default" || req.TMS != "default028mm" {
		t.Errorf("defaults not applied: version=%s style=%s tms=%s", req.Version, req.Style, req.TMS)
	}
}

func TestValidate_OpaqueStringsPassThrough(t *testing.T) {
	p := profileFor(t, "moon")

	raw := params(2, 1, 1)
	raw.Layer = "Some_Future_Mosaic_v9"
	raw.Ver = "2.0.0"
	raw.Style = "shaded"
	raw.TMS = "custom_grid"
	req, verr := tile.Validate(p, raw, testNow)
	if verr != nil {
		t.Fatalf("rejected: %v", verr)
	}
	if req.Layer != "Some_Future_Mosaic_v9" || req.Version != "2.0.0" ||
		req.Style != "shaded" || req.TMS != "custom_grid" {
		t.Errorf("opaque params altered: %+v", req)
	}
}
