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

// Package climatology reduces climate model output files into spatial and
// temporal climatologies, grouping the files by the variable and emissions
// scenario encoded in their names.
package climatology

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is returned when a file name does not follow the
// underscore-delimited naming convention of climate model output.
var ErrUnparseable = errors.New("climatology: unparseable file name")

// Positions of the fields of interest within a file name such as
// tas_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-210012.nc.
const (
	variableSegment = 0
	scenarioSegment = 3
)

// FileName holds the information encoded in the name of a climate model
// output file.
type FileName struct {
	// Name is the original file name.
	Name string

	// Variable is the physical quantity held in the file, e.g. "tas".
	Variable string

	// Scenario is the emissions pathway, e.g. "ssp245".
	Scenario string

	// Segments are all of the underscore-delimited fields of Name.
	Segments []string
}

// ParseFilename splits name on underscores and returns the variable and
// scenario it encodes. An error wrapping ErrUnparseable is returned if
// the name has too few segments to hold a scenario.
func ParseFilename(name string) (FileName, error) {
	segments := strings.Split(name, "_")
	f := FileName{Name: name, Segments: segments}
	if len(segments) <= scenarioSegment {
		return f, fmt.Errorf("%w: %q has %d segments; at least %d are required",
			ErrUnparseable, name, len(segments), scenarioSegment+1)
	}
	f.Variable = segments[variableSegment]
	f.Scenario = segments[scenarioSegment]
	return f, nil
}

// variable returns the first segment of name, which is the variable
// even when the name is otherwise unparseable.
func variable(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		return name[:i]
	}
	return name
}
