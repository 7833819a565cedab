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
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/climatology"
)

var testFiles = []string{
	"tas_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201512.nc",
	"pr_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201512.nc",
	"tas_Amon_ACCESS-ESM1-5_ssp585_r1i1p1f1_gn_201501-201512.nc",
	"tas_Amon_CanESM5_ssp245_r1i1p1f1_gn_201501-201512.nc",
	"huss_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201512.nc",
}

// writeTestFile writes one year of monthly data for variable v on a
// 2x2 grid.
func writeTestFile(t *testing.T, path, v string) {
	ds := climatology.NewDataset()
	coord := func(name string, attrs map[string]interface{}, vals ...float64) {
		d := sparse.ZerosDense(len(vals))
		copy(d.Elements, vals)
		ds.AddVariable(&climatology.Variable{Name: name, Dims: []string{name}, Attributes: attrs, Data: d})
	}
	times := make([]float64, 12)
	for i := range times {
		times[i] = float64(i)*30 + 15
	}
	coord("time", map[string]interface{}{"units": "days since 2015-01-01", "calendar": "360_day"}, times...)
	coord("lat", map[string]interface{}{"units": "degrees_north"}, -45, 45)
	coord("lon", map[string]interface{}{"units": "degrees_east"}, 0, 180)
	data := sparse.ZerosDense(12, 2, 2)
	for i := range data.Elements {
		data.Elements[i] = 280 + float64(i%4)
	}
	ds.AddVariable(&climatology.Variable{
		Name:       v,
		Dims:       []string{"time", "lat", "lon"},
		Attributes: map[string]interface{}{"units": "K"},
		Data:       data,
	})
	if err := climatology.WriteFile(path, ds); err != nil {
		t.Fatal(err)
	}
}

func testDataDir(t *testing.T) string {
	dir := t.TempDir()
	for _, f := range testFiles {
		writeTestFile(t, filepath.Join(dir, f), strings.Split(f, "_")[0])
	}
	return dir
}

func TestVersion(t *testing.T) {
	cfg := InitializeConfig()
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"version"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "climatology v" + climatology.Version + "\n"; out.String() != want {
		t.Errorf("have %q, want %q", out.String(), want)
	}
}

func TestClassify(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Set("DataDir", testDataDir(t))
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"classify"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"tas\tssp245\ttas_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201512.nc",
		"tas\tssp585\ttas_Amon_ACCESS-ESM1-5_ssp585_r1i1p1f1_gn_201501-201512.nc",
		"pr\tssp245\tpr_Amon_ACCESS-ESM1-5_ssp245_r1i1p1f1_gn_201501-201512.nc",
	}
	have := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !reflect.DeepEqual(have, want) {
		t.Errorf("have %q, want %q", have, want)
	}
}

func TestClassifyNoDataDir(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Root.SetArgs([]string{"classify"})
	if err := cfg.Root.Execute(); err == nil {
		t.Error("expected an error")
	}
}

func TestPreproc(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "work")
	cfg := InitializeConfig()
	cfg.Set("DataDir", testDataDir(t))
	cfg.Set("WorkDir", workDir)
	cfg.Root.SetArgs([]string{"preproc"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, f := range []struct{ v, s, name string }{
		{"tas", "ssp245", testFiles[0]},
		{"pr", "ssp245", testFiles[1]},
		{"tas", "ssp585", testFiles[2]},
	} {
		path := filepath.Join(climatology.OutputDir(workDir, f.v, f.s), f.name)
		ds, err := climatology.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		v, err := ds.Variable(f.v)
		if err != nil {
			t.Fatal(err)
		}
		if len(v.Data.Elements) != 1 {
			t.Errorf("%s: have %d values, want 1", path, len(v.Data.Elements))
		}
	}
	if _, err := os.Stat(filepath.Join(climatology.OutputDir(workDir, "tas", "ssp245"), testFiles[3])); !os.IsNotExist(err) {
		t.Error("files from other models should not be processed")
	}
}

func TestPreprocBadClimatology(t *testing.T) {
	for _, opt := range []string{"SpatialClimatology", "TemporalClimatology"} {
		t.Run(opt, func(t *testing.T) {
			cfg := InitializeConfig()
			cfg.Set("DataDir", t.TempDir())
			cfg.Set("WorkDir", t.TempDir())
			cfg.Set(opt, "weekly")
			cfg.Root.SetArgs([]string{"preproc"})
			if err := cfg.Root.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tas.nc")
	writeTestFile(t, file, "tas")

	tests := []struct {
		args  []string
		saved string
	}{
		{args: []string{"plot", "map"}, saved: "Map plot.png"},
		{args: []string{"plot", "globe"}},
		{args: []string{"plot", "globe", "--Plot.Save", "--Plot.Title=tas 2015"}, saved: "tas 2015.png"},
		{args: []string{"plot", "map", "--Plot.Save=false", "--Plot.Cmap=bluered_r"}},
	}
	for _, test := range tests {
		t.Run(strings.Join(test.args, " "), func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "figures")
			cfg := InitializeConfig()
			cfg.Set("Plot.File", file)
			cfg.Set("Plot.OutputDir", outDir)
			cfg.Set("Plot.Display", false)
			cfg.Root.SetArgs(test.args)
			if err := cfg.Root.Execute(); err != nil {
				t.Fatal(err)
			}
			files, _ := filepath.Glob(filepath.Join(outDir, "*"))
			var have []string
			for _, f := range files {
				have = append(have, filepath.Base(f))
			}
			var want []string
			if test.saved != "" {
				want = []string{test.saved}
			}
			if !reflect.DeepEqual(have, want) {
				t.Errorf("have saved files %v, want %v", have, want)
			}
		})
	}
}

func TestPlotErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tas.nc")
	writeTestFile(t, file, "tas")

	tests := map[string]map[string]interface{}{
		"no file":      {},
		"missing file": {"Plot.File": filepath.Join(dir, "none.nc")},
		"bad variable": {"Plot.File": file, "Plot.Variable": "pr"},
		"bad index":    {"Plot.File": file, "Plot.Index": 12},
		"bad cmap":     {"Plot.File": file, "Plot.Cmap": "jet"},
	}
	for name, settings := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := InitializeConfig()
			cfg.Set("Plot.Display", false)
			cfg.Set("Plot.OutputDir", t.TempDir())
			for k, v := range settings {
				cfg.Set(k, v)
			}
			cfg.Root.SetArgs([]string{"plot", "map"})
			if err := cfg.Root.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

type testConfig struct {
	LogLevel            string
	DataDir             string
	Model               string
	Variables           []string
	SpatialClimatology  string
	TemporalClimatology string
	Plot                struct {
		Variable  string
		Index     int
		CenterLat float64
		Save      bool
	}
}

func readConfigOutput(t *testing.T, cfg *Cfg) testConfig {
	out := new(bytes.Buffer)
	cfg.Root.SetOut(out)
	cfg.Root.SetArgs([]string{"config"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	var c testConfig
	if _, err := toml.Decode(out.String(), &c); err != nil {
		t.Fatalf("%v\n%s", err, out.String())
	}
	return c
}

func TestConfigDefaults(t *testing.T) {
	c := readConfigOutput(t, InitializeConfig())
	if c.Model != climatology.DefaultModel {
		t.Errorf("Model: have %q, want %q", c.Model, climatology.DefaultModel)
	}
	if !reflect.DeepEqual(c.Variables, []string{"tas", "pr"}) {
		t.Errorf("Variables: have %v", c.Variables)
	}
	if c.SpatialClimatology != "global" || c.TemporalClimatology != "yearly" {
		t.Errorf("climatology: have %s %s, want global yearly", c.SpatialClimatology, c.TemporalClimatology)
	}
	if c.Plot.CenterLat != 20 {
		t.Errorf("Plot.CenterLat: have %g, want 20", c.Plot.CenterLat)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel: have %q, want info", c.LogLevel)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	const file = `
DataDir = "${CLIMATOLOGY_TEST_DIR}/cmip6"
Model = "CanESM5"
Variables = ["pr"]

[Plot]
Variable = "pr"
Index = 3
`
	if err := os.WriteFile(path, []byte(file), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := InitializeConfig()
	cfg.Set("config", path)
	c := readConfigOutput(t, cfg)
	if c.Model != "CanESM5" || !reflect.DeepEqual(c.Variables, []string{"pr"}) {
		t.Errorf("have %s %v, want CanESM5 [pr]", c.Model, c.Variables)
	}
	if c.Plot.Variable != "pr" || c.Plot.Index != 3 {
		t.Errorf("have Plot %+v", c.Plot)
	}

	t.Setenv("CLIMATOLOGY_TEST_DIR", "/data")
	dir, err := cfg.checkDir("DataDir")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/data/cmip6" {
		t.Errorf("have DataDir %q, want /data/cmip6", dir)
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("CLIMATOLOGY_MODEL", "MIROC6")
	t.Setenv("CLIMATOLOGY_VARIABLES", "tas, pr, huss")
	t.Setenv("CLIMATOLOGY_PLOT_CENTERLAT", "45")
	c := readConfigOutput(t, InitializeConfig())
	if c.Model != "MIROC6" {
		t.Errorf("Model: have %q, want MIROC6", c.Model)
	}
	if want := []string{"tas", "pr", "huss"}; !reflect.DeepEqual(c.Variables, want) {
		t.Errorf("Variables: have %q, want %q", c.Variables, want)
	}
	if c.Plot.CenterLat != 45 {
		t.Errorf("Plot.CenterLat: have %g, want 45", c.Plot.CenterLat)
	}
}

func TestConfigMissingFile(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Set("config", filepath.Join(t.TempDir(), "none.toml"))
	cfg.Root.SetArgs([]string{"config"})
	if err := cfg.Root.Execute(); err == nil {
		t.Error("expected an error")
	}
}
