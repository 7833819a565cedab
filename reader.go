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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climatology/cloud"
)

// Reader reads a dataset from a file.
type Reader interface {
	// Read reads the file called name in directory dir.
	Read(ctx context.Context, dir, name string) (*Dataset, error)
}

// NetCDFReader reads NetCDF classic (CDF-1 and CDF-2) and NetCDF-4
// files from local directories or blob storage.
type NetCDFReader struct {
	// Log receives a message for each file that is read. If nil,
	// the standard logrus logger is used.
	Log logrus.FieldLogger
}

// Read implements Reader.
func (r NetCDFReader) Read(ctx context.Context, dir, name string) (*Dataset, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	path := cloud.Join(dir, name)
	local, cleanup, err := cloud.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("climatology: downloading %s: %v", path, err)
	}
	defer cleanup()
	log.WithFields(logrus.Fields{"file": path}).Debug("reading dataset")
	return ReadFile(local)
}

var (
	cdfMagic  = []byte("CDF")
	hdf5Magic = []byte("\x89HDF")
)

// ReadFile reads the NetCDF file at path, choosing the decoder from the
// file's signature.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climatology: opening %s: %v", path, err)
	}
	magic := make([]byte, 4)
	_, err = io.ReadFull(f, magic)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("climatology: reading signature of %s: %v", path, err)
	}
	switch {
	case bytes.HasPrefix(magic, cdfMagic):
		defer f.Close()
		ds, err := readCDF(f)
		if err != nil {
			return nil, fmt.Errorf("climatology: reading %s: %v", path, err)
		}
		return ds, nil
	case bytes.HasPrefix(magic, hdf5Magic):
		f.Close()
		ds, err := readHDF5(path)
		if err != nil {
			return nil, fmt.Errorf("climatology: reading %s: %v", path, err)
		}
		return ds, nil
	default:
		f.Close()
		return nil, fmt.Errorf("climatology: %s is not a NetCDF file", path)
	}
}

// readCDF reads all numeric variables from a NetCDF classic file.
// Character variables are skipped.
func readCDF(f *os.File) (*Dataset, error) {
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	h := ff.Header
	nrec := int(h.NumRecs(fi.Size()))

	ds := NewDataset()
	for _, a := range h.Attributes("") {
		ds.Attributes[a] = h.GetAttribute("", a)
	}
	for _, name := range h.Variables() {
		if _, ok := h.ZeroValue(name, 0).(string); ok {
			continue
		}
		v := &Variable{
			Name:       name,
			Dims:       h.Dimensions(name),
			Attributes: make(map[string]interface{}),
		}
		for _, a := range h.Attributes(name) {
			v.Attributes[a] = h.GetAttribute(name, a)
		}
		shape := append([]int{}, h.Lengths(name)...)
		if h.IsRecordVariable(name) {
			shape[0] = nrec
		}
		if len(shape) == 0 {
			v.Data = sparse.ZerosDense(1)
			r := ff.Reader(name, nil, nil)
			buf := r.Zero(1)
			if _, err := r.Read(buf); err != nil {
				return nil, fmt.Errorf("variable %s: %v", name, err)
			}
			copy(v.Data.Elements, floatValues(buf))
			ds.AddVariable(v)
			continue
		}
		v.Data = sparse.ZerosDense(shape...)
		n := len(v.Data.Elements)
		if n > 0 {
			begin, end := make([]int, len(shape)), make([]int, len(shape))
			for i, l := range shape {
				end[i] = l - 1
			}
			r := ff.Reader(name, begin, end)
			buf := r.Zero(n)
			if _, err := r.Read(buf); err != nil {
				return nil, fmt.Errorf("variable %s: %v", name, err)
			}
			copy(v.Data.Elements, floatValues(buf))
		}
		ds.AddVariable(v)
	}
	return ds, nil
}

// readHDF5 reads all numeric variables from a NetCDF-4 file.
// Variables of string or compound type are skipped.
func readHDF5(path string) (*Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	ds := NewDataset()
	copyHDF5Attributes(nc.Attributes(), ds.Attributes)
	for _, name := range nc.ListVariables() {
		vr, err := nc.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %v", name, err)
		}
		vals, shape, ok := flatten(vr.Values)
		if !ok {
			continue
		}
		v := &Variable{
			Name:       name,
			Dims:       vr.Dimensions,
			Attributes: make(map[string]interface{}),
		}
		copyHDF5Attributes(vr.Attributes, v.Attributes)
		if len(shape) == 0 {
			shape = []int{1}
		}
		v.Data = sparse.ZerosDense(shape...)
		copy(v.Data.Elements, vals)
		ds.AddVariable(v)
	}
	return ds, nil
}

// copyHDF5Attributes converts attributes to the types used by Dataset.
func copyHDF5Attributes(src api.AttributeMap, dst map[string]interface{}) {
	if src == nil {
		return
	}
	for _, k := range src.Keys() {
		val, _ := src.Get(k)
		switch t := val.(type) {
		case string:
			dst[k] = t
		case []string:
			if len(t) > 0 {
				dst[k] = t[0]
			}
		default:
			if vals, _, ok := flatten(val); ok {
				dst[k] = vals
			}
		}
	}
}

// flatten converts a numeric scalar or (possibly nested) slice into a
// flat slice in row-major order and returns it along with its shape.
// ok is false if the value is not numeric.
func flatten(val interface{}) (vals []float64, shape []int, ok bool) {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		return nil, nil, false
	}
	for t := rv; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	vals = make([]float64, 0, n)
	ok = true
	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		if !ok {
			return
		}
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i))
			}
		case reflect.Float32, reflect.Float64:
			vals = append(vals, v.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			vals = append(vals, float64(v.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			vals = append(vals, float64(v.Uint()))
		default:
			ok = false
		}
	}
	walk(rv)
	if !ok || len(vals) != n {
		return nil, nil, false
	}
	return vals, shape, true
}
