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
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// GlobeFigure returns a figure of f on an orthographic projection of the
// globe centered at (o.CenterLon, o.CenterLat), with coastlines and a
// color bar.
func GlobeFigure(f *Field, coast Coastlines, o GlobeOptions) (*Figure, error) {
	min, max := f.Range()
	cm, _, err := scaledColorMap(o.Cmap, mapLevels, min, max)
	if err != nil {
		return nil, err
	}
	proj := Orthographic{Lon0: o.CenterLon, Lat0: o.CenterLat}

	p := plot.New()
	p.Title.Text = o.Title
	p.HideAxes()
	g := &globePlotter{
		field: f,
		cmap:  cm,
		proj:  proj,
		face:  color.Gray{Y: 0xbe},
	}
	if coast != nil {
		g.coast = newCoastlinePlotter(coast, proj.Forward)
	}
	p.Add(g)

	legend := colorBar(cm, f.Units)

	const width, height = 8 * vg.Inch, 6 * vg.Inch
	return &Figure{
		Title:  o.Title,
		Width:  width,
		Height: height,
		draw: func(c draw.Canvas) {
			globeC, legendC := splitHorizontal(c, c.Max.X-c.Min.X-legendWidth)
			p.Draw(globeC)
			legend.Draw(draw.Crop(legendC, 0, 0, vg.Inch/2, -vg.Inch/2))
		},
	}, nil
}

// globeSegments is the number of segments each grid cell edge is divided
// into when it is projected.
const globeSegments = 4

// globePlotter draws a field on the unit disc of an orthographic
// projection. The disc is scaled to fit the data canvas while keeping
// its aspect ratio.
type globePlotter struct {
	field *Field
	cmap  palette.ColorMap
	proj  Orthographic
	face  color.Color
	coast *coastlinePlotter
}

// Plot implements plot.Plotter.
func (g *globePlotter) Plot(c draw.Canvas, _ *plot.Plot) {
	center := c.Center()
	r := math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y)) / 2
	trX := func(x float64) vg.Length { return center.X + vg.Length(x*r) }
	trY := func(y float64) vg.Length { return center.Y + vg.Length(y*r) }

	disc := make([]vg.Point, 360)
	for i := range disc {
		s, co := math.Sincos(float64(i) * math.Pi / 180)
		disc[i] = vg.Point{X: trX(co), Y: trY(s)}
	}
	c.FillPolygon(g.face, disc)

	lonEdges := cellEdges(g.field.Lon, -math.MaxFloat64, math.MaxFloat64)
	latEdges := cellEdges(g.field.Lat, -90, 90)
	nlon := len(g.field.Lon)
	for j := range g.field.Lat {
		for i := range g.field.Lon {
			v := g.field.Values[j*nlon+i]
			if math.IsNaN(v) {
				continue
			}
			clr, err := g.cmap.At(v)
			if err != nil {
				continue
			}
			poly, ok := g.cell(lonEdges[i], lonEdges[i+1], latEdges[j], latEdges[j+1], trX, trY)
			if !ok {
				continue
			}
			c.FillPolygon(clr, poly)
		}
	}
	if g.coast != nil {
		g.coast.stroke(c, trX, trY)
	}
}

// cell returns the projected outline of the cell bounded by the given
// longitudes and latitudes. ok is false if any part of the outline is
// on the far side of the globe.
func (g *globePlotter) cell(w, e, s, n float64, trX, trY func(float64) vg.Length) (poly []vg.Point, ok bool) {
	corners := [][2]float64{{w, s}, {e, s}, {e, n}, {w, n}, {w, s}}
	for k := 0; k < 4; k++ {
		a, b := corners[k], corners[k+1]
		for seg := 0; seg < globeSegments; seg++ {
			t := float64(seg) / globeSegments
			x, y, visible := g.proj.Forward(a[0]+t*(b[0]-a[0]), a[1]+t*(b[1]-a[1]))
			if !visible {
				return nil, false
			}
			poly = append(poly, vg.Point{X: trX(x), Y: trY(y)})
		}
	}
	return poly, true
}

// DataRange implements plot.DataRanger.
func (g *globePlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

// cellEdges returns the boundaries between the cells centered at x,
// extrapolating half a cell beyond each end and limiting the result to
// [lo, hi].
func cellEdges(x []float64, lo, hi float64) []float64 {
	e := make([]float64, len(x)+1)
	for i := 1; i < len(x); i++ {
		e[i] = (x[i-1] + x[i]) / 2
	}
	e[0] = x[0] - (x[1]-x[0])/2
	e[len(x)] = x[len(x)-1] + (x[len(x)-1]-x[len(x)-2])/2
	for i := range e {
		e[i] = math.Max(lo, math.Min(hi, e[i]))
	}
	return e
}
