package radar

import "strings"

const (
	// DefaultTileURLPattern is the JMA high-resolution precipitation nowcast tile path.
	DefaultTileURLPattern = "https://www.jma.go.jp/bosai/jmatile/data/nowc/{basetime}/none/{validtime}/surf/hrpns/{z}/{x}/{y}.png"

	// Attribution credits the nowcast publisher.
	Attribution = `<a href="https://www.jma.go.jp/bosai/nowc/" target="_blank">気象庁, Japan Meteorological Agency</a>`

	MaxZoom       = 9
	LayerOpacity  = 0.4
	LayerResample = "nearest"
)

// TileURLTemplate substitutes the snapshot's base and valid times into the
// default pattern. The {z}/{x}/{y} placeholders are left for the map engine.
func TileURLTemplate(s Snapshot) string {
	return TileURLTemplateFrom(DefaultTileURLPattern, s)
}

// TileURLTemplateFrom is TileURLTemplate with a custom pattern.
func TileURLTemplateFrom(pattern string, s Snapshot) string {
	r := strings.NewReplacer(
		"{basetime}", s.BaseTime.String(),
		"{validtime}", s.ValidTime.String(),
	)
	return r.Replace(pattern)
}

// DescribeSource builds the raster source descriptor for a tile template.
func DescribeSource(tileURLTemplate string) SourceDescriptor {
	return SourceDescriptor{
		Type:        "raster",
		Tiles:       []string{tileURLTemplate},
		MaxZoom:     MaxZoom,
		Attribution: Attribution,
	}
}

// DescribeLayer builds the raster layer descriptor.
func DescribeLayer() LayerDescriptor {
	return LayerDescriptor{
		Type: "raster",
		Paint: map[string]any{
			"raster-resampling": LayerResample,
			"raster-opacity":    LayerOpacity,
		},
	}
}
