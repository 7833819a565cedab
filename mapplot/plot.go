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
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// GlobeOptions specify how PlotOnGlobe draws a field.
type GlobeOptions struct {
	// CenterLon and CenterLat are the point at the center of the
	// globe, in degrees.
	CenterLon, CenterLat float64

	// Cmap is the name of the color map, as accepted by ColorMap.
	Cmap string

	// Title is the figure title and, if SaveFig is true, the name the
	// figure is saved under. The default is "Globe plot".
	Title string

	SaveFig bool
}

// DefaultGlobeOptions returns the default globe options.
func DefaultGlobeOptions() GlobeOptions {
	return GlobeOptions{CenterLon: 0, CenterLat: 20, Cmap: "viridis", Title: "Globe plot"}
}

// MapOptions specify how PlotOnMap draws a field.
type MapOptions struct {
	Cmap string

	// Title is the figure title and, if SaveFig is true, the name the
	// figure is saved under. The default is "Map plot".
	Title string

	SaveFig bool
}

// DefaultMapOptions returns the default map options.
func DefaultMapOptions() MapOptions {
	return MapOptions{Cmap: "viridis", Title: "Map plot", SaveFig: true}
}

// Plotter draws fields, optionally saves the resulting figures, and
// then displays them.
type Plotter struct {
	// Saver saves figures when requested. It must be set if any
	// figures are to be saved.
	Saver FigureSaver

	// Display shows each figure after it is drawn. If nil, figures
	// are not displayed.
	Display Displayer

	// Coastlines are drawn over the data. If nil, coastlines are
	// omitted and a warning is logged.
	Coastlines Coastlines

	Log logrus.FieldLogger
}

func (p *Plotter) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// PlotOnGlobe draws f on an orthographic projection of the globe.
func (p *Plotter) PlotOnGlobe(f *Field, o GlobeOptions) error {
	if o.Title == "" {
		o.Title = "Globe plot"
	}
	if o.Cmap == "" {
		o.Cmap = "viridis"
	}
	p.checkCoastlines()
	fig, err := GlobeFigure(f, p.Coastlines, o)
	if err != nil {
		return err
	}
	return p.finish(fig, o.SaveFig)
}

// PlotOnMap draws f on a plate carrée world map.
func (p *Plotter) PlotOnMap(f *Field, o MapOptions) error {
	if o.Title == "" {
		o.Title = "Map plot"
	}
	if o.Cmap == "" {
		o.Cmap = "viridis"
	}
	p.checkCoastlines()
	fig, err := MapFigure(f, p.Coastlines, o)
	if err != nil {
		return err
	}
	return p.finish(fig, o.SaveFig)
}

func (p *Plotter) checkCoastlines() {
	if p.Coastlines == nil {
		p.log().Warn("no coastlines configured; drawing without them")
	}
}

// finish saves fig if requested and then displays it.
func (p *Plotter) finish(fig *Figure, save bool) error {
	if save {
		if p.Saver == nil {
			return fmt.Errorf("mapplot: cannot save figure %q: no saver configured", fig.Title)
		}
		if err := p.Saver.Save(fig, fig.Title); err != nil {
			return err
		}
		p.log().WithField("title", fig.Title).Info("saved figure")
	}
	if p.Display == nil {
		return nil
	}
	return p.Display.Display(fig)
}

// coastlinePlotter draws coastlines after projecting them with proj.
// Line segments that proj reports as invisible are omitted.
type coastlinePlotter struct {
	lines Coastlines
	proj  func(lon, lat float64) (x, y float64, visible bool)
	draw.LineStyle
}

func newCoastlinePlotter(c Coastlines, proj func(lon, lat float64) (x, y float64, visible bool)) *coastlinePlotter {
	return &coastlinePlotter{
		lines: c,
		proj:  proj,
		LineStyle: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(0.5),
		},
	}
}

// Plot implements plot.Plotter.
func (cp *coastlinePlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cp.stroke(c, trX, trY)
}

// stroke draws the coastlines on c using trX and trY to convert from
// projected coordinates to the canvas.
func (cp *coastlinePlotter) stroke(c draw.Canvas, trX, trY func(float64) vg.Length) {
	var lines [][]vg.Point
	for _, l := range cp.lines {
		var cur []vg.Point
		for _, pt := range l {
			x, y, ok := cp.proj(pt.X, pt.Y)
			if !ok {
				if len(cur) > 1 {
					lines = append(lines, cur)
				}
				cur = nil
				continue
			}
			cur = append(cur, vg.Point{X: trX(x), Y: trY(y)})
		}
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
	}
	c.StrokeLines(cp.LineStyle, c.ClipLinesXY(lines...)...)
}

func plateCarree(lon, lat float64) (x, y float64, visible bool) { return lon, lat, true }

// colorBar returns a plot containing a vertical color bar for cm,
// labelled with units.
func colorBar(cm palette.ColorMap, units string) *plot.Plot {
	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	p.HideX()
	p.Y.Padding = 0
	p.Y.Label.Text = units
	return p
}

// splitHorizontal splits c at x
func splitHorizontal(c draw.Canvas, x vg.Length) (left, right draw.Canvas) {
	return draw.Crop(c, 0, c.Min.X-c.Max.X+x, 0, 0), draw.Crop(c, x, 0, 0, 0)
}

// legendWidth is the width of the color bar panel.
const legendWidth = 1.2 * vg.Inch
