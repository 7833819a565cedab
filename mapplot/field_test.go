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
	"math"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/climatology"
)

func coordinate(name, units string, vals ...float64) *climatology.Variable {
	d := sparse.ZerosDense(len(vals))
	copy(d.Elements, vals)
	return &climatology.Variable{
		Name:       name,
		Dims:       []string{name},
		Attributes: map[string]interface{}{"units": units},
		Data:       d,
	}
}

// testDataset returns a dataset with two years of data on a grid with
// descending latitudes and longitudes in [0, 360).
func testDataset() *climatology.Dataset {
	ds := climatology.NewDataset()
	ds.AddVariable(coordinate("year", "1", 2015, 2016))
	ds.AddVariable(coordinate("lat", "degrees_north", 45, -45))
	ds.AddVariable(coordinate("lon", "degrees_east", 0, 90, 180, 270))
	tas := sparse.ZerosDense(2, 2, 4)
	for y := 0; y < 2; y++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 4; i++ {
				tas.Set(float64(100*y+10*j+i), y, j, i)
			}
		}
	}
	tas.Set(1e20, 1, 0, 0)
	ds.AddVariable(&climatology.Variable{
		Name: "tas",
		Dims: []string{"year", "lat", "lon"},
		Attributes: map[string]interface{}{
			"units":      "K",
			"_FillValue": []float32{1e20},
		},
		Data: tas,
	})
	return ds
}

func TestFieldFromDataset(t *testing.T) {
	ds := testDataset()

	t.Run("first year", func(t *testing.T) {
		f, err := FieldFromDataset(ds, "tas", 0)
		if err != nil {
			t.Fatal(err)
		}
		if want := []float64{-45, 45}; !reflect.DeepEqual(f.Lat, want) {
			t.Errorf("lat: have %v, want %v", f.Lat, want)
		}
		if want := []float64{-180, -90, 0, 90}; !reflect.DeepEqual(f.Lon, want) {
			t.Errorf("lon: have %v, want %v", f.Lon, want)
		}
		want := []float64{
			12, 13, 10, 11,
			2, 3, 0, 1,
		}
		if !reflect.DeepEqual(f.Values, want) {
			t.Errorf("values: have %v, want %v", f.Values, want)
		}
		if f.Units != "K" {
			t.Errorf("units: have %q, want K", f.Units)
		}
		if c, r := f.Dims(); c != 4 || r != 2 {
			t.Errorf("dims: have (%d, %d), want (4, 2)", c, r)
		}
		if z := f.Z(2, 1); z != 0 {
			t.Errorf("Z(2, 1) = %g, want 0", z)
		}
		min, max := f.Range()
		if min != 0 || max != 13 {
			t.Errorf("range: have [%g, %g], want [0, 13]", min, max)
		}
	})

	t.Run("missing", func(t *testing.T) {
		f, err := FieldFromDataset(ds, "tas", 1)
		if err != nil {
			t.Fatal(err)
		}
		if v := f.Z(2, 1); !math.IsNaN(v) {
			t.Errorf("fill value should be NaN; have %g", v)
		}
		if v := f.Z(3, 1); v != 101 {
			t.Errorf("have %g, want 101", v)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		if _, err := FieldFromDataset(ds, "tas", 2); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("no such variable", func(t *testing.T) {
		if _, err := FieldFromDataset(ds, "pr", 0); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("not gridded", func(t *testing.T) {
		if _, err := FieldFromDataset(ds, "year", 0); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestWrapLongitude(t *testing.T) {
	for x, want := range map[float64]float64{
		0: 0, 90: 90, 180: -180, 270: -90, 359: -1, -180: -180, -90: -90, 540: -180,
	} {
		if got := wrapLongitude(x); got != want {
			t.Errorf("wrapLongitude(%g) = %g; want %g", x, got, want)
		}
	}
}

func TestRangeAllMissing(t *testing.T) {
	f := &Field{Lat: []float64{0, 1}, Lon: []float64{0, 1}, Values: []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}}
	min, max := f.Range()
	if !math.IsNaN(min) || !math.IsNaN(max) {
		t.Errorf("have [%g, %g], want NaN", min, max)
	}
	if min, max := widen(min, max); min != 0 || max != 1 {
		t.Errorf("widen: have [%g, %g], want [0, 1]", min, max)
	}
}
