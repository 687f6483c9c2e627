package body

import "time"

// Override adjusts the tunable fields of a stock profile. Zero values
// leave the corresponding field at its default.
type Override struct {
	UpstreamBaseURL string
	Timeout         time.Duration
	CacheMaxAge     int
	MaxZoom         int
}

// Defaults returns the stock profile table for the four supported bodies,
// with per-body overrides applied before validation.
func Defaults(overrides map[string]Override) (*Table, error) {
	profiles := []*Profile{earth(), moon(), mars(), mercury()}
	for _, p := range profiles {
		o, ok := overrides[p.ID]
		if !ok {
			continue
		}
		if o.UpstreamBaseURL != "" {
			p.UpstreamBaseURL = o.UpstreamBaseURL
		}
		if o.Timeout > 0 {
			p.Timeout = o.Timeout
		}
		if o.CacheMaxAge > 0 {
			p.CacheMaxAge = o.CacheMaxAge
		}
		if o.MaxZoom > 0 {
			p.MaxZoom = o.MaxZoom
		}
	}
	return NewTable(profiles...)
}

func formats(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func earth() *Profile {
	return &Profile{
		ID:              "earth",
		DisplayName:     "NASA GIBS Earth Satellite Imagery",
		Source:          "NASA-GIBS",
		UpstreamBaseURL: "https://gibs.earthdata.nasa.gov/wmts/epsg3857/best",
		Family:          FamilyDateKeyed,
		DefaultLayer:    "VIIRS_SNPP_CorrectedReflectance_TrueColor",
		DefaultTMS:      "GoogleMapsCompatible_Level9",
		DefaultFormat:   "jpg",
		// Daily imagery lags real time; callers that omit the date get
		// the last date known to have full coverage.
		DefaultDate:      "2025-10-03",
		SupportedFormats: formats("jpg", "jpeg", "png", "png8"),
		MaxZoom:          9,
		RequiresDate:     true,
		Timeout:          15 * time.Second,
		CacheMaxAge:      86400,
		LatRange:         Range{-90, 90},
		LngRange:         Range{-180, 180},
		Layers: []Layer{
			{
				ID:          "VIIRS_SNPP_CorrectedReflectance_TrueColor",
				Title:       "VIIRS True Color",
				Resolution:  "250 meters/pixel",
				Source:      "Suomi NPP VIIRS",
				Type:        "true color",
				MaxZoom:     9,
				Formats:     []string{"jpg", "png"},
				Aliases:     []string{"viirs", "true color"},
				Description: "Daily corrected-reflectance true-color imagery",
			},
		},
	}
}

func moon() *Profile {
	return &Profile{
		ID:               "moon",
		DisplayName:      "NASA Trek Moon Surface Imagery",
		Source:           "NASA-Trek-Moon",
		UpstreamBaseURL:  "https://trek.nasa.gov/tiles/Moon/EQ",
		Family:           FamilyVersioned,
		DefaultLayer:     "LRO_WAC_Mosaic_Global_303ppd_v02",
		DefaultVer:       "1.0.0",
		DefaultStyle:     "default",
		DefaultTMS:       "default028mm",
		DefaultFormat:    "jpg",
		SupportedFormats: formats("jpg", "jpeg", "png", "tif", "tiff"),
		MaxZoom:          10,
		Timeout:          15 * time.Second,
		CacheMaxAge:      2592000,
		LatRange:         Range{-90, 90},
		LngRange:         Range{-180, 180},
		AcceptsAltLng:    true,
		Layers: []Layer{
			{
				ID:          "LRO_WAC_Mosaic_Global_303ppd_v02",
				Title:       "LRO WAC Global Mosaic",
				Resolution:  "100 meters/pixel",
				Source:      "Lunar Reconnaissance Orbiter WAC",
				Type:        "grayscale mosaic",
				MaxZoom:     10,
				Formats:     []string{"jpg", "png"},
				Aliases:     []string{"wac", "lro"},
				Description: "Wide Angle Camera global mosaic of the lunar surface",
			},
		},
	}
}

func mars() *Profile {
	return &Profile{
		ID:               "mars",
		DisplayName:      "NASA Trek Mars Surface Imagery",
		Source:           "NASA-Trek-Mars",
		UpstreamBaseURL:  "https://trek.nasa.gov/tiles/Mars/EQ",
		Family:           FamilyVersioned,
		DefaultLayer:     "Mars_Viking_MDIM21_ClrMosaic_global_232m",
		DefaultVer:       "1.0.0",
		DefaultStyle:     "default",
		DefaultTMS:       "default028mm",
		DefaultFormat:    "jpg",
		SupportedFormats: formats("jpg", "jpeg", "png", "tif", "tiff"),
		MaxZoom:          7,
		Timeout:          15 * time.Second,
		CacheMaxAge:      2592000,
		LatRange:         Range{-90, 90},
		LngRange:         Range{-180, 180},
		AcceptsAltLng:    true,
		Layers: []Layer{
			{
				ID:          "Mars_Viking_MDIM21_ClrMosaic_global_232m",
				Title:       "Viking Color Mosaic",
				Resolution:  "232 meters/pixel",
				Source:      "Viking Orbiter 1 & 2",
				Type:        "color mosaic",
				MaxZoom:     7,
				Formats:     []string{"jpg", "png"},
				Aliases:     []string{"viking", "viking color mosaic", "mars_viking"},
				Description: "Global color mosaic of the Martian surface",
			},
			{
				ID:          "Mars_MGS_MOLA_MEGR_global_463m",
				Title:       "MOLA Elevation",
				Resolution:  "463 meters/pixel",
				Source:      "Mars Global Surveyor MOLA",
				Type:        "elevation/topography",
				MaxZoom:     7,
				Formats:     []string{"jpg", "png"},
				Aliases:     []string{"mola", "mola elevation", "mars_mgs_mola"},
				Description: "Topographic elevation shaded relief",
			},
		},
	}
}

func mercury() *Profile {
	return &Profile{
		ID:               "mercury",
		DisplayName:      "NASA Trek Mercury Surface Imagery",
		Source:           "NASA-Trek-Mercury",
		UpstreamBaseURL:  "https://trek.nasa.gov/tiles/Mercury/EQ",
		Family:           FamilyVersioned,
		DefaultLayer:     "Mercury_MESSENGER_MDIS_Basemap_EnhancedColor_Mosaic_Global_665m",
		DefaultVer:       "1.0.0",
		DefaultStyle:     "default",
		DefaultTMS:       "default028mm",
		DefaultFormat:    "jpg",
		SupportedFormats: formats("jpg"),
		MaxZoom:          7,
		Timeout:          15 * time.Second,
		CacheMaxAge:      2592000,
		LatRange:         Range{-90, 90},
		LngRange:         Range{-180, 180},
		Layers: []Layer{
			{
				ID:          "Mercury_MESSENGER_MDIS_Basemap_EnhancedColor_Mosaic_Global_665m",
				Title:       "MESSENGER MDIS Enhanced Color",
				Resolution:  "665 meters/pixel",
				Source:      "MESSENGER MDIS",
				Type:        "enhanced color mosaic",
				MaxZoom:     7,
				Formats:     []string{"jpg"},
				Aliases:     []string{"mdis", "messenger"},
				Description: "Global enhanced-color basemap of Mercury",
			},
		},
	}
}
