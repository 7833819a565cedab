/*
Copyright © 2026 the climatology authors.
This file is part of climatology.

climatology is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climatology is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climatology.  If not, see <http://www.gnu.org/licenses/>.
*/

package mapplot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// mapLevels is the number of color bands in map plots.
const mapLevels = 10

// MapFigure returns a figure of f as banded colors on a plate carrée
// world map with coastlines, fixed graticule labels, and a dashed line
// along the equator.
func MapFigure(f *Field, coast Coastlines, o MapOptions) (*Figure, error) {
	p, cm, err := mapPlot(f, coast, o)
	if err != nil {
		return nil, err
	}
	legend := colorBar(cm, f.Units)

	const width = 10 * vg.Inch
	return &Figure{
		Title:  o.Title,
		Width:  width,
		Height: width / 1.67,
		draw: func(c draw.Canvas) {
			mapC, legendC := splitHorizontal(c, c.Max.X-c.Min.X-legendWidth)
			p.Draw(mapC)
			legend.Draw(draw.Crop(legendC, 0, 0, vg.Inch/2, -vg.Inch/2))
		},
	}, nil
}

// mapPlot creates the map panel of a map figure. The axes always span
// the whole globe.
func mapPlot(f *Field, coast Coastlines, o MapOptions) (*plot.Plot, palette.ColorMap, error) {
	min, max := f.Range()
	cm, pal, err := scaledColorMap(o.Cmap, mapLevels, min, max)
	if err != nil {
		return nil, nil, err
	}
	bands := &bandPlotter{field: f, pal: pal.Colors(), min: cm.Min(), max: cm.Max()}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Tick.Marker = labelledTicks(longitudeTicks, LongitudeFormatter)
	p.Y.Tick.Marker = labelledTicks(latitudeTicks, LatitudeFormatter)
	p.Add(bands)
	if coast != nil {
		p.Add(newCoastlinePlotter(coast, plateCarree))
	}
	equator, err := plotter.NewLine(plotter.XYs{{X: -180, Y: 0}, {X: 180, Y: 0}})
	if err != nil {
		return nil, nil, err
	}
	equator.LineStyle = draw.LineStyle{
		Color:  color.RGBA{B: 255, A: 255},
		Width:  vg.Points(1.5),
		Dashes: []vg.Length{vg.Points(6), vg.Points(3)},
	}
	p.Add(equator)

	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -90, 90
	return p, cm, nil
}

// bandPlotter fills each grid cell with the palette color of the band
// its value falls in. Cells are clipped to the map extent and missing
// values are left blank.
type bandPlotter struct {
	field    *Field
	pal      []color.Color
	min, max float64
}

// Plot implements plot.Plotter.
func (b *bandPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	lonEdges := cellEdges(b.field.Lon, math.Max(plt.X.Min, -180), math.Min(plt.X.Max, 180))
	latEdges := cellEdges(b.field.Lat, math.Max(plt.Y.Min, -90), math.Min(plt.Y.Max, 90))
	nlon := len(b.field.Lon)
	for j := range b.field.Lat {
		s, n := latEdges[j], latEdges[j+1]
		if s == n {
			continue
		}
		for i := range b.field.Lon {
			w, e := lonEdges[i], lonEdges[i+1]
			if w == e {
				continue
			}
			clr := b.color(b.field.Values[j*nlon+i])
			if clr == nil {
				continue
			}
			c.FillPolygon(clr, []vg.Point{
				{X: trX(w), Y: trY(s)},
				{X: trX(e), Y: trY(s)},
				{X: trX(e), Y: trY(n)},
				{X: trX(w), Y: trY(n)},
			})
		}
	}
}

// color returns the band color for v, or nil if v is missing.
func (b *bandPlotter) color(v float64) color.Color {
	if math.IsNaN(v) {
		return nil
	}
	v = math.Max(b.min, math.Min(b.max, v))
	i := int((v-b.min)*float64(len(b.pal)-1)/(b.max-b.min) + 0.5)
	return b.pal[i]
}

// DataRange implements plot.DataRanger.
func (b *bandPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	lon := cellEdges(b.field.Lon, -180, 180)
	lat := cellEdges(b.field.Lat, -90, 90)
	return lon[0], lon[len(lon)-1], lat[0], lat[len(lat)-1]
}
