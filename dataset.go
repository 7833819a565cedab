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

package climatology

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/sparse"
)

// Variable is a named, multi-dimensional array of data.
type Variable struct {
	Name string

	// Dims are the names of the dimensions of Data, outermost first.
	// Scalar variables have no dimensions and a Data shape of [1].
	Dims []string

	// Attributes hold metadata such as "units". Values are one of
	// string, []float64, []float32, []int32, []int16, or []uint8.
	Attributes map[string]interface{}

	Data *sparse.DenseArray
}

// StringAttribute returns attribute a of v, or "" if it does not exist or
// is not a string.
func (v *Variable) StringAttribute(a string) string {
	s, _ := v.Attributes[a].(string)
	return s
}

// FloatAttribute returns the first value of numeric attribute a of v.
func (v *Variable) FloatAttribute(a string) (float64, bool) {
	vals := floatValues(v.Attributes[a])
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// Missing returns whether val represents missing data in v, either
// because it is NaN or because it matches the _FillValue or missing_value
// attribute of v.
func (v *Variable) Missing(val float64) bool {
	if math.IsNaN(val) {
		return true
	}
	for _, a := range []string{"_FillValue", "missing_value"} {
		for _, f := range floatValues(v.Attributes[a]) {
			if val == f || float32(val) == float32(f) {
				return true
			}
		}
	}
	return false
}

func floatValues(a interface{}) []float64 {
	switch t := a.(type) {
	case []float64:
		return t
	case []float32:
		o := make([]float64, len(t))
		for i, v := range t {
			o[i] = float64(v)
		}
		return o
	case []int32:
		o := make([]float64, len(t))
		for i, v := range t {
			o[i] = float64(v)
		}
		return o
	case []int16:
		o := make([]float64, len(t))
		for i, v := range t {
			o[i] = float64(v)
		}
		return o
	case []uint8:
		o := make([]float64, len(t))
		for i, v := range t {
			o[i] = float64(v)
		}
		return o
	}
	return nil
}

// Dataset is an in-memory representation of a NetCDF file.
// Coordinates are held as ordinary one-dimensional variables that are
// named after their dimension.
type Dataset struct {
	// Attributes are the global attributes.
	Attributes map[string]interface{}

	vars  map[string]*Variable
	order []string
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Attributes: make(map[string]interface{}),
		vars:       make(map[string]*Variable),
	}
}

// AddVariable adds v to d, replacing any existing variable with
// the same name.
func (d *Dataset) AddVariable(v *Variable) {
	if v.Attributes == nil {
		v.Attributes = make(map[string]interface{})
	}
	if _, ok := d.vars[v.Name]; !ok {
		d.order = append(d.order, v.Name)
	}
	d.vars[v.Name] = v
}

// Variable returns the variable with the given name.
func (d *Dataset) Variable(name string) (*Variable, error) {
	v, ok := d.vars[name]
	if !ok {
		return nil, fmt.Errorf("climatology: variable %q not in dataset", name)
	}
	return v, nil
}

// VariableNames returns the names of the variables in d in the order
// they were added.
func (d *Dataset) VariableNames() []string { return d.order }

// DimLength returns the length of dimension dim, as determined from
// the first variable that uses it.
func (d *Dataset) DimLength(dim string) (int, bool) {
	for _, name := range d.order {
		v := d.vars[name]
		for i, dd := range v.Dims {
			if dd == dim {
				return v.Data.Shape[i], true
			}
		}
	}
	return 0, false
}

// Coordinate returns the coordinate variable for dimension dim, if
// there is one.
func (d *Dataset) Coordinate(dim string) (*Variable, bool) {
	v, ok := d.vars[dim]
	if !ok || len(v.Dims) != 1 || v.Dims[0] != dim {
		return nil, false
	}
	return v, true
}

// Axis kinds recognized by FindAxis. The values match the CF "axis"
// attribute.
const (
	AxisTime      = "T"
	AxisLatitude  = "Y"
	AxisLongitude = "X"
)

// FindAxis returns the index within v.Dims of the dimension of the given
// kind, or -1 if there is none. Dimensions are matched by name and by the
// axis, standard_name, and units attributes of their coordinates.
func (d *Dataset) FindAxis(v *Variable, kind string) int {
	for i, dim := range v.Dims {
		if axisKind(dim, d) == kind {
			return i
		}
	}
	return -1
}

func axisKind(dim string, d *Dataset) string {
	switch strings.ToLower(dim) {
	case "time", "t":
		return AxisTime
	case "lat", "latitude", "y":
		return AxisLatitude
	case "lon", "longitude", "x":
		return AxisLongitude
	}
	c, ok := d.Coordinate(dim)
	if !ok {
		return ""
	}
	if a := strings.ToUpper(c.StringAttribute("axis")); a == AxisTime || a == AxisLatitude || a == AxisLongitude {
		return a
	}
	switch c.StringAttribute("standard_name") {
	case "time":
		return AxisTime
	case "latitude":
		return AxisLatitude
	case "longitude":
		return AxisLongitude
	}
	units := c.StringAttribute("units")
	switch {
	case strings.Contains(units, " since "):
		return AxisTime
	case strings.HasPrefix(units, "degrees_n"), strings.HasPrefix(units, "degree_n"):
		return AxisLatitude
	case strings.HasPrefix(units, "degrees_e"), strings.HasPrefix(units, "degree_e"):
		return AxisLongitude
	}
	return ""
}

// copyAttributes returns a shallow copy of a.
func copyAttributes(a map[string]interface{}) map[string]interface{} {
	o := make(map[string]interface{}, len(a))
	for k, v := range a {
		o[k] = v
	}
	return o
}
