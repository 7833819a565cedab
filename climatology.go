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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climatology/cloud"
	"gonum.org/v1/gonum/floats"
)

// Spatial climatology types.
const (
	// SpatialGlobal averages over all latitudes and longitudes, weighting
	// each grid cell by the cosine of its latitude.
	SpatialGlobal = "global"

	// SpatialNone keeps the spatial dimensions.
	SpatialNone = "none"
)

// Temporal climatology types.
const (
	// TemporalYearly averages all time steps within each calendar year.
	TemporalYearly = "yearly"

	// TemporalMonthly averages each calendar month across all years.
	TemporalMonthly = "monthly"

	// TemporalNone keeps the time dimension.
	TemporalNone = "none"
)

// Request specifies a climatology calculation.
type Request struct {
	// VarName is the name of the variable to reduce.
	VarName string

	// Spatial and Temporal are the climatology types, e.g.
	// SpatialGlobal and TemporalYearly.
	Spatial, Temporal string

	// Save specifies whether the result should be written to
	// a file in Directory.
	Save bool

	// FileName is the name of the output file. If IsOriginalName is true
	// it is used as is, otherwise ".nc" is appended if it is missing.
	// If FileName is empty and IsOriginalName is false, a name is
	// created from VarName, Spatial, and Temporal.
	FileName       string
	IsOriginalName bool

	// Directory is the output directory. It can be a local directory,
	// which is created if it does not exist, or a blob storage location.
	Directory string

	// ReOpen specifies whether the saved file should be read back in
	// and returned.
	ReOpen bool
}

// OutputName returns the name of the output file for r.
func (r Request) OutputName() string {
	if r.IsOriginalName {
		return r.FileName
	}
	name := r.FileName
	if name == "" {
		name = fmt.Sprintf("%s_%s_%s", r.VarName, r.Spatial, r.Temporal)
	}
	if filepath.Ext(name) != ".nc" {
		name += ".nc"
	}
	return name
}

// Computer calculates climatologies.
type Computer interface {
	// Compute calculates the climatology requested by req from ds.
	// If req.Save is true, the result is written to a file and the
	// returned dataset is nil unless req.ReOpen is also true, in which
	// case the file is read back in and returned.
	Compute(ctx context.Context, ds *Dataset, req Request) (*Dataset, error)
}

// Climatology is the default Computer.
type Climatology struct {
	// Reader reads back saved files when a Request specifies
	// ReOpen. If nil, a NetCDFReader is used.
	Reader Reader

	Log logrus.FieldLogger
}

func (c *Climatology) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

// Compute implements Computer.
func (c *Climatology) Compute(ctx context.Context, ds *Dataset, req Request) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := reduce(ds, req)
	if err != nil {
		return nil, err
	}
	if !req.Save {
		return out, nil
	}

	name := req.OutputName()
	dst := cloud.Join(req.Directory, name)
	if req.Directory != "" && !cloud.IsBlob(req.Directory) {
		if err := os.MkdirAll(req.Directory, os.ModePerm); err != nil {
			return nil, fmt.Errorf("climatology: creating output directory: %v", err)
		}
	}
	var u cloud.Uploader
	local, err := u.Local(dst)
	if err != nil {
		return nil, err
	}
	if err = WriteFile(local, out); err != nil {
		u.Discard()
		return nil, err
	}
	if err = u.Upload(ctx); err != nil {
		return nil, fmt.Errorf("climatology: uploading %s: %v", dst, err)
	}
	c.log().WithFields(logrus.Fields{
		"variable": req.VarName,
		"spatial":  req.Spatial,
		"temporal": req.Temporal,
		"file":     dst,
	}).Info("saved climatology")

	if !req.ReOpen {
		return nil, nil
	}
	r := c.Reader
	if r == nil {
		r = NetCDFReader{Log: c.Log}
	}
	return r.Read(ctx, req.Directory, name)
}

// reduce calculates the climatology without saving it.
func reduce(ds *Dataset, req Request) (*Dataset, error) {
	v, err := ds.Variable(req.VarName)
	if err != nil {
		return nil, err
	}
	out := NewDataset()
	out.Attributes = copyAttributes(ds.Attributes)
	out.Attributes["climatology_spatial"] = req.Spatial
	out.Attributes["climatology_temporal"] = req.Temporal

	dims := append([]string{}, v.Dims...)
	var reductions []reduction
	var methods []string
	var newCoords []*Variable

	switch req.Temporal {
	case TemporalNone:
	case TemporalYearly, TemporalMonthly:
		ax := ds.FindAxis(v, AxisTime)
		if ax < 0 {
			return nil, fmt.Errorf("climatology: variable %s has no time dimension", v.Name)
		}
		tc, ok := ds.Coordinate(v.Dims[ax])
		if !ok {
			return nil, fmt.Errorf("climatology: no coordinate variable for dimension %s", v.Dims[ax])
		}
		units, err := ParseTimeUnits(tc.StringAttribute("units"), tc.StringAttribute("calendar"))
		if err != nil {
			return nil, err
		}
		bucket, labels := timeBuckets(tc.Data.Elements, units, req.Temporal)
		reductions = append(reductions, reduction{axis: ax, bucket: bucket, n: len(labels)})

		dim := "year"
		if req.Temporal == TemporalMonthly {
			dim = "month"
		}
		dims[ax] = dim
		coord := sparse.ZerosDense(len(labels))
		copy(coord.Elements, labels)
		newCoords = append(newCoords, &Variable{
			Name:       dim,
			Dims:       []string{dim},
			Attributes: map[string]interface{}{"long_name": dim, "calendar": units.Calendar},
			Data:       coord,
		})
		methods = append(methods, fmt.Sprintf("%s: mean (%s)", v.Dims[ax], req.Temporal))
	default:
		return nil, fmt.Errorf("climatology: invalid temporal climatology type %q", req.Temporal)
	}

	switch req.Spatial {
	case SpatialNone:
	case SpatialGlobal:
		latAx, lonAx := ds.FindAxis(v, AxisLatitude), ds.FindAxis(v, AxisLongitude)
		if latAx < 0 || lonAx < 0 {
			return nil, fmt.Errorf("climatology: variable %s does not have latitude and longitude dimensions", v.Name)
		}
		lat, ok := ds.Coordinate(v.Dims[latAx])
		if !ok {
			return nil, fmt.Errorf("climatology: no coordinate variable for dimension %s", v.Dims[latAx])
		}
		reductions = append(reductions,
			reduction{axis: latAx, weight: latitudeWeights(lat.Data.Elements)},
			reduction{axis: lonAx},
		)
		var d []string
		for i, dim := range dims {
			if i != latAx && i != lonAx {
				d = append(d, dim)
			}
		}
		dims = d
		methods = append(methods, "area: mean")
	default:
		return nil, fmt.Errorf("climatology: invalid spatial climatology type %q", req.Spatial)
	}

	data := weightedMean(v, reductions...)

	for _, c := range newCoords {
		out.AddVariable(c)
	}
	for _, d := range dims {
		if _, err := out.Variable(d); err == nil {
			continue
		}
		if c, ok := ds.Coordinate(d); ok {
			out.AddVariable(&Variable{
				Name:       c.Name,
				Dims:       []string{d},
				Attributes: copyAttributes(c.Attributes),
				Data:       c.Data.Copy(),
			})
		}
	}
	attrs := copyAttributes(v.Attributes)
	if m := v.StringAttribute("cell_methods"); m != "" {
		methods = append([]string{m}, methods...)
	}
	if len(methods) > 0 {
		attrs["cell_methods"] = strings.Join(methods, " ")
	}
	out.AddVariable(&Variable{
		Name:       v.Name,
		Dims:       dims,
		Attributes: attrs,
		Data:       data,
	})
	return out, nil
}

// timeBuckets assigns each time step to a year, in order of first
// appearance, or to a month of the year.
func timeBuckets(times []float64, u TimeUnits, mode string) (bucket []int, labels []float64) {
	bucket = make([]int, len(times))
	if mode == TemporalMonthly {
		for i, t := range times {
			bucket[i] = u.Date(t).Month - 1
		}
		for m := 1; m <= 12; m++ {
			labels = append(labels, float64(m))
		}
		return bucket, labels
	}
	years := make(map[int]int)
	for i, t := range times {
		y := u.Date(t).Year
		b, ok := years[y]
		if !ok {
			b = len(labels)
			years[y] = b
			labels = append(labels, float64(y))
		}
		bucket[i] = b
	}
	return bucket, labels
}

// latitudeWeights returns the cosine of each latitude, in degrees.
func latitudeWeights(lat []float64) []float64 {
	w := make([]float64, len(lat))
	for i, l := range lat {
		w[i] = math.Max(0, math.Cos(l*math.Pi/180))
	}
	return w
}

// reduction describes how one axis is collapsed by weightedMean.
type reduction struct {
	axis int

	// bucket maps each index along the axis to an index in the output.
	// Negative entries are excluded. If bucket is nil the axis is
	// removed from the output entirely.
	bucket []int
	n      int

	// weight holds a weight for each index along the axis. If nil,
	// all indices are weighted equally.
	weight []float64
}

// weightedMean calculates the weighted mean of the data in v over the
// given reductions, skipping missing values. Output elements with no
// valid input are NaN.
func weightedMean(v *Variable, reductions ...reduction) *sparse.DenseArray {
	data := v.Data
	byAxis := make(map[int]reduction, len(reductions))
	for _, r := range reductions {
		byAxis[r.axis] = r
	}
	var outShape []int
	for i, s := range data.Shape {
		if r, ok := byAxis[i]; ok {
			if r.bucket != nil {
				outShape = append(outShape, r.n)
			}
			continue
		}
		outShape = append(outShape, s)
	}
	if len(outShape) == 0 {
		outShape = []int{1}
	}
	out := sparse.ZerosDense(outShape...)
	wsum := make([]float64, len(out.Elements))

	// outStrides[i] is the stride in out of input axis i, or 0 if the
	// axis is removed.
	outStrides := make([]int, len(data.Shape))
	stride := 1
	for i := len(data.Shape) - 1; i >= 0; i-- {
		if r, ok := byAxis[i]; ok {
			if r.bucket == nil {
				continue
			}
			outStrides[i] = stride
			stride *= r.n
			continue
		}
		outStrides[i] = stride
		stride *= data.Shape[i]
	}

	idx := make([]int, len(data.Shape))
	for _, val := range data.Elements {
		if !v.Missing(val) {
			w, j, ok := 1., 0, true
			for ax, x := range idx {
				r, reduced := byAxis[ax]
				if !reduced {
					j += x * outStrides[ax]
					continue
				}
				if r.weight != nil {
					w *= r.weight[x]
				}
				if r.bucket != nil {
					if r.bucket[x] < 0 {
						ok = false
						break
					}
					j += r.bucket[x] * outStrides[ax]
				}
			}
			if ok && w > 0 {
				out.Elements[j] += w * val
				wsum[j] += w
			}
		}
		// Advance the multi-dimensional index.
		for ax := len(idx) - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < data.Shape[ax] {
				break
			}
			idx[ax] = 0
		}
	}
	for i, w := range wsum {
		if w == 0 {
			out.Elements[i] = math.NaN()
			wsum[i] = 1
		}
	}
	floats.Div(out.Elements, wsum)
	return out
}
