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

import "math"

// Orthographic is an orthographic projection of the unit sphere as seen
// from infinitely far above the point (Lon0, Lat0), in degrees.
type Orthographic struct {
	Lon0, Lat0 float64
}

// Forward projects the point (lon, lat), in degrees, onto the plane.
// Projected coordinates are within the unit disc. visible is false for
// points on the far side of the globe.
func (o Orthographic) Forward(lon, lat float64) (x, y float64, visible bool) {
	φ, λ := lat*math.Pi/180, (lon-o.Lon0)*math.Pi/180
	φ0 := o.Lat0 * math.Pi / 180
	sinφ, cosφ := math.Sincos(φ)
	sinφ0, cosφ0 := math.Sincos(φ0)
	sinλ, cosλ := math.Sincos(λ)

	cosc := sinφ0*sinφ + cosφ0*cosφ*cosλ
	x = cosφ * sinλ
	y = cosφ0*sinφ - sinφ0*cosφ*cosλ
	return x, y, cosc >= 0
}
