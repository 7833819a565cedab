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
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climatology"
	"github.com/spf13/cobra"
)

// classify lists the files in dataDir and groups the ones that belong to
// the configured model and variables.
func (cfg *Cfg) classify(cmd *cobra.Command, dataDir string, log logrus.FieldLogger) (*climatology.Grouping, error) {
	vars, err := cfg.getStringSlice("Variables")
	if err != nil {
		return nil, err
	}
	names, err := climatology.ListFiles(cmd.Context(), dataDir)
	if err != nil {
		return nil, err
	}
	c := climatology.Classifier{
		Model:     cfg.GetString("Model"),
		Variables: vars,
	}
	g, err := c.Classify(names)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"dir":        dataDir,
		"files":      len(names),
		"classified": g.Len(),
	}).Info("classified input files")
	return g, nil
}

// preproc calculates climatologies for all of the classified files.
func (cfg *Cfg) preproc(cmd *cobra.Command) error {
	log, err := cfg.logger(cmd)
	if err != nil {
		return err
	}
	dataDir, err := cfg.checkDir("DataDir")
	if err != nil {
		return err
	}
	workDir, err := cfg.checkDir("WorkDir")
	if err != nil {
		return err
	}
	spatial, err := checkSpatial(cfg.GetString("SpatialClimatology"))
	if err != nil {
		return err
	}
	temporal, err := checkTemporal(cfg.GetString("TemporalClimatology"))
	if err != nil {
		return err
	}
	g, err := cfg.classify(cmd, dataDir, log)
	if err != nil {
		return err
	}
	reader := climatology.NetCDFReader{Log: log}
	o := &climatology.Orchestrator{
		Reader:   reader,
		Computer: &climatology.Climatology{Reader: reader, Log: log},
		DataDir:  dataDir,
		WorkDir:  workDir,
		Spatial:  spatial,
		Temporal: temporal,
		Log:      log,
	}
	if err := o.Run(cmd.Context(), g); err != nil {
		return err
	}
	log.Info("finished calculating climatologies")
	return nil
}
