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

	"github.com/sirupsen/logrus"
)

// OutputDir returns the directory that climatologies of the given
// variable and scenario are written to. The separator between workDir
// and "DataFiles" is a space, so "/w" gives "/w DataFiles/tas/ssp245/".
func OutputDir(workDir, variable, scenario string) string {
	return workDir + " DataFiles/" + variable + "/" + scenario + "/"
}

// Orchestrator calculates climatologies for every file in a Grouping.
type Orchestrator struct {
	Reader   Reader
	Computer Computer

	// DataDir is the directory holding the input files and WorkDir is
	// the base of the output directories. See OutputDir.
	DataDir, WorkDir string

	// Spatial and Temporal are the climatology types. They default to
	// SpatialGlobal and TemporalYearly.
	Spatial, Temporal string

	Log logrus.FieldLogger
}

// Run reads each file in g and calculates and saves its climatology,
// one file at a time in the order of g.Groups. Processing stops at the
// first error.
func (o *Orchestrator) Run(ctx context.Context, g *Grouping) error {
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	spatial, temporal := o.Spatial, o.Temporal
	if spatial == "" {
		spatial = SpatialGlobal
	}
	if temporal == "" {
		temporal = TemporalYearly
	}
	if g == nil {
		return nil
	}
	for _, grp := range g.Groups() {
		dir := OutputDir(o.WorkDir, grp.Variable, grp.Scenario)
		for _, file := range grp.Files {
			if err := ctx.Err(); err != nil {
				return err
			}
			flog := log.WithFields(logrus.Fields{
				"variable": grp.Variable,
				"scenario": grp.Scenario,
				"file":     file,
			})
			flog.Info("calculating climatology")
			ds, err := o.Reader.Read(ctx, o.DataDir, file)
			if err != nil {
				return fmt.Errorf("climatology: reading %s: %w", file, err)
			}
			_, err = o.Computer.Compute(ctx, ds, Request{
				VarName:        grp.Variable,
				Spatial:        spatial,
				Temporal:       temporal,
				Save:           true,
				FileName:       file,
				Directory:      dir,
				IsOriginalName: true,
				ReOpen:         false,
			})
			if err != nil {
				return fmt.Errorf("climatology: processing %s: %w", file, err)
			}
			flog.Debug("finished climatology")
		}
	}
	return nil
}
