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
	"io"
	"os"
	"sort"

	"github.com/ctessum/cdf"
)

// WriteFile writes ds to path as a NetCDF classic file. Variables are
// written in sorted order. Coordinate variables are stored in double
// precision and all other variables in single precision.
func WriteFile(path string, ds *Dataset) error {
	h, err := cdfHeader(ds)
	if err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("climatology: creating %s: %v", path, err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		w.Close()
		return fmt.Errorf("climatology: writing header to %s: %v", path, err)
	}
	for _, name := range sortedNames(ds) {
		v := ds.vars[name]
		var data interface{}
		if isCoordinate(v) {
			data = v.Data.Elements
		} else {
			d := make([]float32, len(v.Data.Elements))
			for i, e := range v.Data.Elements {
				d[i] = float32(e)
			}
			data = d
		}
		// The writer reports io.EOF once the whole variable is written.
		if _, err := f.Writer(name, nil, nil).Write(data); err != nil && err != io.EOF {
			w.Close()
			return fmt.Errorf("climatology: writing variable %s to %s: %v", name, path, err)
		}
	}
	return w.Close()
}

func isCoordinate(v *Variable) bool {
	return len(v.Dims) == 1 && v.Dims[0] == v.Name
}

// cdfHeader creates a defined header describing ds.
func cdfHeader(ds *Dataset) (*cdf.Header, error) {
	var dims []string
	lengths := make(map[string]int)
	for _, name := range sortedNames(ds) {
		v := ds.vars[name]
		if len(v.Dims) != len(v.Data.Shape) && !(len(v.Dims) == 0 && len(v.Data.Elements) == 1) {
			return nil, fmt.Errorf("climatology: variable %s has %d dimensions but data of rank %d",
				name, len(v.Dims), len(v.Data.Shape))
		}
		for i, d := range v.Dims {
			l := v.Data.Shape[i]
			if ll, ok := lengths[d]; ok {
				if ll != l {
					return nil, fmt.Errorf("climatology: dimension %s has length %d in variable %s but %d elsewhere",
						d, l, name, ll)
				}
				continue
			}
			if l == 0 {
				return nil, fmt.Errorf("climatology: dimension %s of variable %s has zero length", d, name)
			}
			lengths[d] = l
			dims = append(dims, d)
		}
	}
	dimLengths := make([]int, len(dims))
	for i, d := range dims {
		dimLengths[i] = lengths[d]
	}

	h := cdf.NewHeader(dims, dimLengths)
	for _, k := range sortedKeys(ds.Attributes) {
		if val, ok := cdfAttribute(ds.Attributes[k], false); ok {
			h.AddAttribute("", k, val)
		}
	}
	for _, name := range sortedNames(ds) {
		v := ds.vars[name]
		single := !isCoordinate(v)
		if single {
			h.AddVariable(name, v.Dims, []float32{0})
		} else {
			h.AddVariable(name, v.Dims, []float64{0})
		}
		for _, k := range sortedKeys(v.Attributes) {
			// The fill value must match the type of the variable.
			asSingle := single && (k == "_FillValue" || k == "missing_value")
			if val, ok := cdfAttribute(v.Attributes[k], asSingle); ok {
				h.AddAttribute(name, k, val)
			}
		}
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("climatology: invalid NetCDF header: %v", errs)
	}
	return h, nil
}

// cdfAttribute converts an attribute value to a type that can be stored
// in a NetCDF classic file.
func cdfAttribute(val interface{}, single bool) (interface{}, bool) {
	if single {
		f := floatValues(val)
		if len(f) == 0 {
			return nil, false
		}
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o, true
	}
	switch t := val.(type) {
	case string:
		if t == "" {
			return nil, false
		}
		return t, true
	case []float64, []float32, []int32, []int16, []uint8:
		return t, len(floatValues(t)) > 0
	}
	return nil, false
}

func sortedNames(ds *Dataset) []string {
	names := append([]string(nil), ds.VariableNames()...)
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
