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
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/climatology"
	"github.com/spf13/cast"
)

// checkDir expands any environment variables in the directory specified
// by configuration variable name and makes sure that it is specified.
func (cfg *Cfg) checkDir(name string) (string, error) {
	d := os.ExpandEnv(cfg.GetString(name))
	if d == "" {
		return "", fmt.Errorf("you need to specify the %s configuration variable (for example: %s=\"/path/to/dir\")", name, name)
	}
	return d, nil
}

// checkSpatial makes sure that an acceptable spatial climatology was
// specified.
func checkSpatial(s string) (string, error) {
	s = os.ExpandEnv(s)
	if s != climatology.SpatialGlobal && s != climatology.SpatialNone {
		return s, fmt.Errorf("the SpatialClimatology variable in the configuration file "+
			"needs to be set to either %s or %s, but is currently set to `%s`",
			climatology.SpatialGlobal, climatology.SpatialNone, s)
	}
	return s, nil
}

// checkTemporal makes sure that an acceptable temporal climatology was
// specified.
func checkTemporal(s string) (string, error) {
	s = os.ExpandEnv(s)
	if s != climatology.TemporalYearly && s != climatology.TemporalMonthly && s != climatology.TemporalNone {
		return s, fmt.Errorf("the TemporalClimatology variable in the configuration file "+
			"needs to be set to either %s, %s, or %s, but is currently set to `%s`",
			climatology.TemporalYearly, climatology.TemporalMonthly, climatology.TemporalNone, s)
	}
	return s, nil
}

// getStringSlice returns configuration variable name as a slice of
// strings. Comma-separated values from environment variables are split.
func (cfg *Cfg) getStringSlice(name string) ([]string, error) {
	v := cfg.Get(name)
	if s, ok := v.(string); ok {
		v = strings.Split(s, ",")
	}
	o, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("climatology: reading configuration variable %s: %v", name, err)
	}
	for i, s := range o {
		o[i] = strings.TrimSpace(s)
	}
	return o, nil
}

func (cfg *Cfg) getInt(name string) (int, error) {
	i, err := cast.ToIntE(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("climatology: reading configuration variable %s: %v", name, err)
	}
	return i, nil
}

func (cfg *Cfg) getFloat64(name string) (float64, error) {
	f, err := cast.ToFloat64E(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("climatology: reading configuration variable %s: %v", name, err)
	}
	return f, nil
}

// writeConfig writes the configuration in effect to w in TOML format.
// Dotted option names become TOML tables.
func (cfg *Cfg) writeConfig(w io.Writer) error {
	out := make(map[string]interface{})
	seen := make(map[string]bool)
	for _, option := range cfg.options {
		if option.name == "config" || seen[option.name] {
			continue
		}
		seen[option.name] = true

		var val interface{}
		var err error
		switch option.defaultVal.(type) {
		case string:
			val = cfg.GetString(option.name)
		case []string:
			val, err = cfg.getStringSlice(option.name)
		case bool:
			val = cfg.GetBool(option.name)
		case int:
			val, err = cfg.getInt(option.name)
		case float64:
			val, err = cfg.getFloat64(option.name)
		}
		if err != nil {
			return err
		}

		table := out
		path := strings.Split(option.name, ".")
		for _, p := range path[:len(path)-1] {
			t, ok := table[p].(map[string]interface{})
			if !ok {
				t = make(map[string]interface{})
				table[p] = t
			}
			table = t
		}
		table[path[len(path)-1]] = val
	}
	return toml.NewEncoder(w).Encode(out)
}
