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
	"context"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spatialmodel/climatology/cloud"
)

// Coastlines holds coastline polylines in longitude-latitude degrees.
type Coastlines [][]geom.Point

// LoadCoastlines reads coastlines from a shapefile of lines or polygons,
// such as the Natural Earth coastline data set. path may be a local file
// or a blob storage address.
func LoadCoastlines(ctx context.Context, path string) (Coastlines, error) {
	local, cleanup, err := cloud.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	d, err := shp.NewDecoder(local)
	if err != nil {
		return nil, fmt.Errorf("mapplot: opening coastline shapefile %s: %v", path, err)
	}
	defer d.Close()

	var c Coastlines
	for {
		var rec struct {
			geom.Geom
		}
		if more := d.DecodeRow(&rec); !more {
			break
		}
		c = c.add(rec.Geom)
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("mapplot: reading coastline shapefile %s: %v", path, err)
	}
	return c, nil
}

func (c Coastlines) add(g geom.Geom) Coastlines {
	switch t := g.(type) {
	case geom.LineString:
		c = append(c, []geom.Point(t))
	case geom.MultiLineString:
		for _, l := range t {
			c = append(c, []geom.Point(l))
		}
	case geom.Polygon:
		for _, ring := range t {
			c = append(c, []geom.Point(ring))
		}
	case geom.MultiPolygon:
		for _, p := range t {
			c = c.add(p)
		}
	}
	return c
}
