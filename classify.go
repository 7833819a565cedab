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
	"path"
	"sort"
	"strings"

	"github.com/spatialmodel/climatology/cloud"
)

// DefaultModel is the climate model whose output files are selected
// when no other model is specified.
const DefaultModel = "ACCESS-ESM1-5"

// DefaultVariables are the variables that are grouped when no others
// are specified: near-surface air temperature and precipitation.
var DefaultVariables = []string{"tas", "pr"}

// Group holds the files for one variable and scenario.
type Group struct {
	Variable, Scenario string
	Files              []string
}

// Grouping maps variables to scenarios to file names. Variables are kept
// in the order they were given to NewGrouping and scenarios and files
// are kept in the order they were added.
type Grouping struct {
	variables []string
	scenarios map[string][]string
	files     map[string]map[string][]string
}

// NewGrouping returns an empty grouping for the given variables.
func NewGrouping(variables ...string) *Grouping {
	g := &Grouping{
		scenarios: make(map[string][]string),
		files:     make(map[string]map[string][]string),
	}
	for _, v := range variables {
		if _, ok := g.files[v]; ok {
			continue
		}
		g.variables = append(g.variables, v)
		g.files[v] = make(map[string][]string)
	}
	return g
}

// Add places f in the bucket for its variable and scenario. It returns
// false without adding anything if the variable of f is not part of g.
func (g *Grouping) Add(f FileName) bool {
	s, ok := g.files[f.Variable]
	if !ok {
		return false
	}
	if _, ok := s[f.Scenario]; !ok {
		g.scenarios[f.Variable] = append(g.scenarios[f.Variable], f.Scenario)
	}
	s[f.Scenario] = append(s[f.Scenario], f.Name)
	return true
}

// Variables returns the variables of g.
func (g *Grouping) Variables() []string { return g.variables }

// Scenarios returns the scenarios found for variable v in insertion order.
func (g *Grouping) Scenarios(v string) []string { return g.scenarios[v] }

// Files returns the files for variable v and scenario s in insertion order.
func (g *Grouping) Files(v, s string) []string {
	if m, ok := g.files[v]; ok {
		return m[s]
	}
	return nil
}

// Groups returns every non-empty variable and scenario combination,
// ordered by variable and then by scenario.
func (g *Grouping) Groups() []Group {
	var o []Group
	for _, v := range g.variables {
		for _, s := range g.scenarios[v] {
			o = append(o, Group{Variable: v, Scenario: s, Files: g.files[v][s]})
		}
	}
	return o
}

// Len returns the total number of files in g.
func (g *Grouping) Len() int {
	n := 0
	for _, grp := range g.Groups() {
		n += len(grp.Files)
	}
	return n
}

// Map returns the contents of g as nested maps. Ordering is lost.
func (g *Grouping) Map() map[string]map[string][]string {
	o := make(map[string]map[string][]string, len(g.files))
	for v, m := range g.files {
		o[v] = make(map[string][]string, len(m))
		for s, f := range m {
			o[v][s] = append([]string(nil), f...)
		}
	}
	return o
}

// Classifier selects the output files of one climate model and
// groups them by variable and scenario.
type Classifier struct {
	// Model is the model identifier that a file name must contain
	// to be selected.
	Model string

	// Variables are the variables to keep. Files holding any other
	// variable are dropped.
	Variables []string
}

// Classify groups names by variable and scenario. Names that do not
// contain c.Model or that hold a variable that is not in c.Variables are
// skipped. Classification stops at the first selected name that cannot
// be parsed.
func (c Classifier) Classify(names []string) (*Grouping, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	vars := c.Variables
	if len(vars) == 0 {
		vars = DefaultVariables
	}
	g := NewGrouping(vars...)
	for _, name := range names {
		if !strings.Contains(name, model) {
			continue
		}
		if _, ok := g.files[variable(name)]; !ok {
			continue
		}
		f, err := ParseFilename(name)
		if err != nil {
			return nil, err
		}
		g.Add(f)
	}
	return g, nil
}

// ListFiles returns the sorted names of the files in dir, which can be a
// local directory or a blob storage location such as
// "gs://bucket/path/to/dir".
func ListFiles(ctx context.Context, dir string) ([]string, error) {
	keys, err := cloud.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("climatology: listing files in %s: %v", dir, err)
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = path.Base(k)
	}
	sort.Strings(names)
	return names, nil
}
