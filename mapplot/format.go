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

// Package mapplot renders gridded climate fields on an orthographic globe
// and on a plate carrée world map.
package mapplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// LatitudeFormatter returns the tick label for latitude x, in degrees.
// Positive latitudes are labelled north and all others, including the
// equator, are labelled south.
func LatitudeFormatter(x float64) string {
	if x > 0 {
		return degrees(x) + "N"
	}
	return degrees(x) + "S"
}

// LongitudeFormatter returns the tick label for longitude x, in degrees.
// The prime meridian has no hemisphere suffix, longitudes in (0, 180]
// are labelled east and all others are labelled west.
func LongitudeFormatter(x float64) string {
	switch {
	case x == 0:
		return "0°"
	case x > 0 && x <= 180:
		return degrees(x) + "E"
	default:
		return degrees(x) + "W"
	}
}

// degrees formats |x| with up to six significant digits and no
// trailing zeros.
func degrees(x float64) string {
	return strconv.FormatFloat(math.Abs(x), 'g', 6, 64) + "°"
}

var (
	longitudeTicks = []float64{-180, -120, -60, 0, 60, 120, 180}
	latitudeTicks  = []float64{-90, -60, -30, 0, 30, 60, 90}
)

// labelledTicks returns fixed tick marks at vals labelled by format.
func labelledTicks(vals []float64, format func(float64) string) plot.ConstantTicks {
	t := make(plot.ConstantTicks, len(vals))
	for i, v := range vals {
		t[i] = plot.Tick{Value: v, Label: format(v)}
	}
	return t
}
