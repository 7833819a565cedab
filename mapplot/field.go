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
	"math"
	"sort"

	"github.com/spatialmodel/climatology"
)

// Field is a two-dimensional field on a regular latitude-longitude grid.
// It implements the gonum.org/v1/plot/plotter.GridXYZ interface with
// longitude as the column and latitude as the row.
type Field struct {
	Name, Units string

	// Lat and Lon are the cell-center coordinates in degrees, both in
	// ascending order. Lon is within [-180, 180).
	Lat, Lon []float64

	// Values are stored row-major with latitude as the outer index.
	// Missing values are NaN.
	Values []float64
}

// Dims implements plotter.GridXYZ.
func (f *Field) Dims() (c, r int) { return len(f.Lon), len(f.Lat) }

// Z implements plotter.GridXYZ.
func (f *Field) Z(c, r int) float64 { return f.Values[r*len(f.Lon)+c] }

// X implements plotter.GridXYZ.
func (f *Field) X(c int) float64 { return f.Lon[c] }

// Y implements plotter.GridXYZ.
func (f *Field) Y(r int) float64 { return f.Lat[r] }

// Range returns the minimum and maximum non-missing values in f. If all
// values are missing, both are NaN.
func (f *Field) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range f.Values {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.IsInf(min, 1) {
		return math.NaN(), math.NaN()
	}
	return min, max
}

// FieldFromDataset extracts the latitude-longitude slice of variable from
// ds. If the variable has a leading dimension such as time, year or
// month, index selects the slice along it. Longitudes given in [0, 360)
// are rotated to [-180, 180).
func FieldFromDataset(ds *climatology.Dataset, variable string, index int) (*Field, error) {
	v, err := ds.Variable(variable)
	if err != nil {
		return nil, err
	}
	latAxis := ds.FindAxis(v, climatology.AxisLatitude)
	lonAxis := ds.FindAxis(v, climatology.AxisLongitude)
	if latAxis < 0 || lonAxis < 0 {
		return nil, fmt.Errorf("mapplot: variable %s does not have latitude and longitude dimensions", variable)
	}
	lat, ok := ds.Coordinate(v.Dims[latAxis])
	if !ok {
		return nil, fmt.Errorf("mapplot: missing coordinate variable %s", v.Dims[latAxis])
	}
	lon, ok := ds.Coordinate(v.Dims[lonAxis])
	if !ok {
		return nil, fmt.Errorf("mapplot: missing coordinate variable %s", v.Dims[lonAxis])
	}
	nlat, nlon := len(lat.Data.Elements), len(lon.Data.Elements)
	if nlat < 2 || nlon < 2 {
		return nil, fmt.Errorf("mapplot: variable %s needs at least 2 latitudes and 2 longitudes; it has %d and %d",
			variable, nlat, nlon)
	}

	// index selects along every dimension that is not latitude or
	// longitude.
	idx := make([]int, len(v.Dims))
	for i := range v.Dims {
		if i == latAxis || i == lonAxis {
			continue
		}
		if index < 0 || index >= v.Data.Shape[i] {
			return nil, fmt.Errorf("mapplot: index %d out of range for dimension %s of length %d",
				index, v.Dims[i], v.Data.Shape[i])
		}
		idx[i] = index
	}

	latOrder := argsort(lat.Data.Elements, func(x float64) float64 { return x })
	lonOrder := argsort(lon.Data.Elements, wrapLongitude)

	f := &Field{
		Name:   variable,
		Units:  v.StringAttribute("units"),
		Lat:    make([]float64, nlat),
		Lon:    make([]float64, nlon),
		Values: make([]float64, nlat*nlon),
	}
	for r, j := range latOrder {
		f.Lat[r] = lat.Data.Elements[j]
	}
	for c, i := range lonOrder {
		f.Lon[c] = wrapLongitude(lon.Data.Elements[i])
	}
	for r, j := range latOrder {
		idx[latAxis] = j
		for c, i := range lonOrder {
			idx[lonAxis] = i
			val := v.Data.Get(idx...)
			if v.Missing(val) {
				val = math.NaN()
			}
			f.Values[r*nlon+c] = val
		}
	}
	return f, nil
}

// wrapLongitude maps x into [-180, 180).
func wrapLongitude(x float64) float64 {
	x = math.Mod(x+180, 360)
	if x < 0 {
		x += 360
	}
	return x - 180
}

// argsort returns the indices of vals in ascending order of key(val).
func argsort(vals []float64, key func(float64) float64) []int {
	o := make([]int, len(vals))
	for i := range o {
		o[i] = i
	}
	sort.SliceStable(o, func(a, b int) bool {
		return key(vals[o[a]]) < key(vals[o[b]])
	})
	return o
}
