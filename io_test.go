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
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/ctessum/sparse"
)

func TestWriteRead(t *testing.T) {
	ds := testDataset()
	ds.Attributes["realization_index"] = []int32{1}
	height := sparse.ZerosDense(1)
	height.Elements[0] = 2
	ds.AddVariable(&Variable{
		Name:       "height",
		Attributes: map[string]interface{}{"units": "m"},
		Data:       height,
	})

	dir := t.TempDir()
	const name = "tas_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201612.nc"
	if err := WriteFile(filepath.Join(dir, name), ds); err != nil {
		t.Fatal(err)
	}
	r, err := NetCDFReader{}.Read(context.Background(), dir, name)
	if err != nil {
		t.Fatal(err)
	}

	wantNames := append([]string(nil), ds.VariableNames()...)
	sort.Strings(wantNames)
	if !reflect.DeepEqual(r.VariableNames(), wantNames) {
		t.Errorf("variables: have %v, want %v", r.VariableNames(), wantNames)
	}
	for _, vname := range ds.VariableNames() {
		want, _ := ds.Variable(vname)
		have, err := r.Variable(vname)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(have.Dims, want.Dims) && len(want.Dims)+len(have.Dims) > 0 {
			t.Errorf("%s dims: have %v, want %v", vname, have.Dims, want.Dims)
		}
		if !reflect.DeepEqual(have.Data.Shape, want.Data.Shape) {
			t.Errorf("%s shape: have %v, want %v", vname, have.Data.Shape, want.Data.Shape)
			continue
		}
		for i, w := range want.Data.Elements {
			if have.Data.Elements[i] != w && different(have.Data.Elements[i], w, testTolerance) {
				t.Errorf("%s[%d]: have %g, want %g", vname, i, have.Data.Elements[i], w)
				break
			}
		}
		if have.StringAttribute("units") != want.StringAttribute("units") {
			t.Errorf("%s units: have %q, want %q", vname, have.StringAttribute("units"), want.StringAttribute("units"))
		}
	}
	if !reflect.DeepEqual(r.Attributes["realization_index"], []int32{1}) {
		t.Errorf("global attribute: have %#v", r.Attributes["realization_index"])
	}
	tas, _ := r.Variable("tas")
	if fill, ok := tas.FloatAttribute("_FillValue"); !ok || float32(fill) != 1e20 {
		t.Errorf("fill value: have %g", fill)
	}
	if n, ok := r.DimLength("time"); !ok || n != 24 {
		t.Errorf("time length: have %d", n)
	}
}

func TestWriteFileSmall(t *testing.T) {
	x := sparse.ZerosDense(3)
	copy(x.Elements, []float64{1, 2, 3})
	y := sparse.ZerosDense(3)
	copy(y.Elements, []float64{4, 5, 6})
	s := sparse.ZerosDense(1)
	s.Elements[0] = 7

	ds := NewDataset()
	ds.AddVariable(&Variable{Name: "y", Dims: []string{"x"}, Data: y})
	ds.AddVariable(&Variable{Name: "x", Dims: []string{"x"}, Data: x})
	ds.AddVariable(&Variable{Name: "s", Data: s})

	f := filepath.Join(t.TempDir(), "a.nc")
	if err := WriteFile(f, ds); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r, err := ReadFile(f)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []string{"s", "x", "y"}; !reflect.DeepEqual(r.VariableNames(), want) {
		t.Errorf("variables: have %v, want %v", r.VariableNames(), want)
	}
	for name, want := range map[string][]float64{
		"x": {1, 2, 3},
		"y": {4, 5, 6},
		"s": {7},
	} {
		v, err := r.Variable(name)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(v.Data.Elements, want) {
			t.Errorf("%s: have %v, want %v", name, v.Data.Elements, want)
		}
	}
}

func TestReadNotNetCDF(t *testing.T) {
	f := filepath.Join(t.TempDir(), "x.nc")
	if err := os.WriteFile(f, []byte("not a netcdf file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(f); err == nil {
		t.Error("expected an error")
	}
	if _, err := ReadFile(f + ".missing"); err == nil {
		t.Error("expected an error")
	}
}

func TestWriteInconsistentDims(t *testing.T) {
	ds := NewDataset()
	ds.AddVariable(&Variable{Name: "a", Dims: []string{"x"}, Data: sparse.ZerosDense(2)})
	ds.AddVariable(&Variable{Name: "b", Dims: []string{"x"}, Data: sparse.ZerosDense(3)})
	if err := WriteFile(filepath.Join(t.TempDir(), "x.nc"), ds); err == nil {
		t.Error("expected an error")
	}
}

func TestFlatten(t *testing.T) {
	for _, test := range []struct {
		in    interface{}
		vals  []float64
		shape []int
		ok    bool
	}{
		{
			in:    [][]float32{{1, 2, 3}, {4, 5, 6}},
			vals:  []float64{1, 2, 3, 4, 5, 6},
			shape: []int{2, 3},
			ok:    true,
		},
		{
			in:    [][][]int16{{{1}, {2}}},
			vals:  []float64{1, 2},
			shape: []int{1, 2, 1},
			ok:    true,
		},
		{
			in:   float64(3),
			vals: []float64{3},
			ok:   true,
		},
		{in: []string{"a"}},
		{in: nil},
	} {
		vals, shape, ok := flatten(test.in)
		if ok != test.ok {
			t.Errorf("%#v: ok: have %v, want %v", test.in, ok, test.ok)
			continue
		}
		if !ok {
			continue
		}
		if !reflect.DeepEqual(vals, test.vals) || !reflect.DeepEqual(shape, test.shape) {
			t.Errorf("%#v: have %v %v, want %v %v", test.in, vals, shape, test.vals, test.shape)
		}
	}
}
