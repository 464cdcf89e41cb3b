package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/storage"
)

const (
	plotWidth  = 60
	plotHeight = 12
)

// ProfilePlot draws the frozen density profile against its NFW reference.
func ProfilePlot(p, nfw diagnostics.Profile) string {
	if p.Len() == 0 {
		return ""
	}
	series := [][]float64{p.Density}
	legends := []string{"simulated"}
	if nfw.Len() == p.Len() {
		series = append(series, nfw.Density)
		legends = append(legends, "NFW")
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption("density vs radius", p.Radius)),
	)
}

func RotationPlot(c diagnostics.RotationCurve) string {
	if c.Len() == 0 {
		return ""
	}
	return asciigraph.Plot(c.Velocity,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption("circular velocity vs radius", c.Radius)),
	)
}

// MassPlot draws total frozen and unfrozen mass over a run's history.
func MassPlot(rows []storage.HistoryRow) string {
	if len(rows) == 0 {
		return ""
	}
	frozen := make([]float64, len(rows))
	mobile := make([]float64, len(rows))
	for i, r := range rows {
		frozen[i], mobile[i] = r.TotalFrozen, r.TotalUnfrozen
	}
	return asciigraph.PlotMany([][]float64{frozen, mobile},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Magenta, asciigraph.Cyan),
		asciigraph.SeriesLegends("frozen", "unfrozen"),
		asciigraph.Caption(caption("mass vs step", nil)),
	)
}

func caption(title string, radii []float64) string {
	if len(radii) == 0 {
		return title
	}
	return title + " (" + formatRange(radii[0], radii[len(radii)-1]) + ")"
}
