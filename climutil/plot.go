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

package climutil

import (
	"fmt"
	"os"

	"github.com/spatialmodel/climatology"
	"github.com/spatialmodel/climatology/cloud"
	"github.com/spatialmodel/climatology/mapplot"
	"github.com/spf13/cobra"
)

type projection int

const (
	globe projection = iota
	worldMap
)

// plot draws the configured variable with the given projection.
func (cfg *Cfg) plot(cmd *cobra.Command, proj projection) error {
	cfg.bindFlags(cmd)
	ctx := cmd.Context()
	log, err := cfg.logger(cmd)
	if err != nil {
		return err
	}

	file := os.ExpandEnv(cfg.GetString("Plot.File"))
	if file == "" {
		return fmt.Errorf(`you need to specify a file to plot (for example: Plot.File="tas_climatology.nc")`)
	}
	local, cleanup, err := cloud.Download(ctx, file)
	if err != nil {
		return err
	}
	defer cleanup()
	ds, err := climatology.ReadFile(local)
	if err != nil {
		return err
	}
	index, err := cfg.getInt("Plot.Index")
	if err != nil {
		return err
	}
	field, err := mapplot.FieldFromDataset(ds, cfg.GetString("Plot.Variable"), index)
	if err != nil {
		return err
	}

	p := &mapplot.Plotter{
		Saver: mapplot.FileSaver{
			Dir:    os.ExpandEnv(cfg.GetString("Plot.OutputDir")),
			Format: cfg.GetString("Plot.Format"),
		},
		Log: log,
	}
	if cfg.GetBool("Plot.Display") {
		p.Display = mapplot.OpenDisplayer{}
	}
	if coast := os.ExpandEnv(cfg.GetString("Plot.Coastlines")); coast != "" {
		if p.Coastlines, err = mapplot.LoadCoastlines(ctx, coast); err != nil {
			return err
		}
	}

	save := cfg.GetBool("Plot.Save")
	title := cfg.GetString("Plot.Title")
	cmap := cfg.GetString("Plot.Cmap")
	switch proj {
	case globe:
		lon, err := cfg.getFloat64("Plot.CenterLon")
		if err != nil {
			return err
		}
		lat, err := cfg.getFloat64("Plot.CenterLat")
		if err != nil {
			return err
		}
		return p.PlotOnGlobe(field, mapplot.GlobeOptions{
			CenterLon: lon,
			CenterLat: lat,
			Cmap:      cmap,
			Title:     title,
			SaveFig:   save,
		})
	case worldMap:
		return p.PlotOnMap(field, mapplot.MapOptions{
			Cmap:    cmap,
			Title:   title,
			SaveFig: save,
		})
	}
	return fmt.Errorf("climatology: invalid projection %d", proj)
}
