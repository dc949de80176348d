package radar

import (
	"strings"
	"testing"
)

func TestTileURLTemplate(t *testing.T) {
	base, _ := ParseTimestamp("20250701025500")
	valid, _ := ParseTimestamp("20250701025500")
	s := Snapshot{BaseTime: base, ValidTime: valid}

	got := TileURLTemplate(s)
	want := "https://www.jma.go.jp/bosai/jmatile/data/nowc/20250701025500/none/20250701025500/surf/hrpns/{z}/{x}/{y}.png"
	if got != want {
		t.Fatalf("TileURLTemplate() = %q, want %q", got, want)
	}

	if again := TileURLTemplate(s); again != got {
		t.Errorf("TileURLTemplate is not stable: %q vs %q", got, again)
	}

	for _, ph := range []string{"{z}", "{x}", "{y}"} {
		if strings.Count(got, ph) != 1 {
			t.Errorf("expected exactly one %s placeholder in %q", ph, got)
		}
	}
}

func TestTileURLTemplateFromCustomPattern(t *testing.T) {
	base, _ := ParseTimestamp("20250701024000")
	valid, _ := ParseTimestamp("20250701025000")

	got := TileURLTemplateFrom("https://tiles.example/{basetime}/{validtime}/{z}/{x}/{y}.png", Snapshot{BaseTime: base, ValidTime: valid})
	if got != "https://tiles.example/20250701024000/20250701025000/{z}/{x}/{y}.png" {
		t.Fatalf("unexpected template %q", got)
	}
}

func TestDescribeSourceAndLayer(t *testing.T) {
	src := DescribeSource("https://tiles.example/{z}/{x}/{y}.png")
	if src.Type != "raster" || src.MaxZoom != 9 {
		t.Errorf("unexpected source %+v", src)
	}
	if len(src.Tiles) != 1 || src.Tiles[0] != "https://tiles.example/{z}/{x}/{y}.png" {
		t.Errorf("unexpected tiles %v", src.Tiles)
	}
	if !strings.Contains(src.Attribution, "Japan Meteorological Agency") {
		t.Errorf("missing attribution: %q", src.Attribution)
	}

	layer := DescribeLayer()
	if layer.Type != "raster" {
		t.Errorf("layer type = %q, want raster", layer.Type)
	}
	if layer.Paint["raster-opacity"] != 0.4 {
		t.Errorf("raster-opacity = %v, want 0.4", layer.Paint["raster-opacity"])
	}
	if layer.Paint["raster-resampling"] != "nearest" {
		t.Errorf("raster-resampling = %v, want nearest", layer.Paint["raster-resampling"])
	}
	if layer.ID != "" || layer.Source != "" {
		t.Errorf("descriptor should not carry registration ids: %+v", layer)
	}

	// Each call hands out its own paint map.
	layer.Paint["raster-opacity"] = 1.0
	if DescribeLayer().Paint["raster-opacity"] != 0.4 {
		t.Error("DescribeLayer shares paint state between calls")
	}
}
