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
	"math"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// viridisControls are control points of the viridis color map, in order
// of increasing luminance.
var viridisControls = []color.Color{
	color.NRGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	color.NRGBA{R: 0x3b, G: 0x52, B: 0x8b, A: 0xff},
	color.NRGBA{R: 0x21, G: 0x91, B: 0x8c, A: 0xff},
	color.NRGBA{R: 0x5e, G: 0xc9, B: 0x62, A: 0xff},
	color.NRGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
}

var colorMaps = map[string]func() (palette.ColorMap, error){
	"viridis":     func() (palette.ColorMap, error) { return moreland.NewLuminance(viridisControls) },
	"blackbody":   func() (palette.ColorMap, error) { return moreland.ExtendedBlackBody(), nil },
	"kindlmann":   func() (palette.ColorMap, error) { return moreland.ExtendedKindlmann(), nil },
	"bluered":     func() (palette.ColorMap, error) { return moreland.SmoothBlueRed(), nil },
	"coolwarm":    func() (palette.ColorMap, error) { return moreland.SmoothBlueRed(), nil },
	"bluetan":     func() (palette.ColorMap, error) { return moreland.SmoothBlueTan(), nil },
	"greenpurple": func() (palette.ColorMap, error) { return moreland.SmoothGreenPurple(), nil },
}

// ColorMap returns a new instance of the named color map. Appending "_r"
// to the name reverses it.
func ColorMap(name string) (palette.ColorMap, error) {
	base := strings.TrimSuffix(name, "_r")
	f, ok := colorMaps[base]
	if !ok {
		return nil, fmt.Errorf("mapplot: unknown color map %q", name)
	}
	cm, err := f()
	if err != nil {
		return nil, err
	}
	if base != name {
		cm = palette.Reverse(cm)
	}
	return cm, nil
}

// ColorMapNames returns the names accepted by ColorMap, not including
// reversed variants.
func ColorMapNames() []string {
	return []string{"viridis", "blackbody", "kindlmann", "bluered", "coolwarm", "bluetan", "greenpurple"}
}

// scaledColorMap returns the named color map scaled to [min, max] along
// with a palette of n evenly spaced colors. If min == max the range is
// widened so that it is not empty.
func scaledColorMap(name string, n int, min, max float64) (palette.ColorMap, palette.Palette, error) {
	cm, err := ColorMap(name)
	if err != nil {
		return nil, nil, err
	}
	// The palette is created before the range is set so that it spans
	// the full color map.
	pal := cm.Palette(n)
	min, max = widen(min, max)
	cm.SetMin(min)
	cm.SetMax(max)
	return cm, pal, nil
}

// widen returns a non-empty range containing min and max.
func widen(min, max float64) (float64, float64) {
	switch {
	case math.IsNaN(min) || math.IsNaN(max):
		return 0, 1
	case min < max:
		return min, max
	case min == 0:
		return -1, 1
	}
	d := 0.1 * math.Abs(min)
	return min - d, max + d
}
