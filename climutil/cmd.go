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

// Package climutil is the command-line interface for calculating and
// plotting climatologies.
package climutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climatology"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	versionCmd, classifyCmd, preprocCmd, plotCmd, globeCmd, mapCmd, configCmd *cobra.Command

	options []option
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the command tree and its configuration.
// Configuration values can be set with a configuration file, command-line
// flags, or environment variables in the format 'CLIMATOLOGY_var'.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
	}
	cfg.SetEnvPrefix("CLIMATOLOGY")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.Root = &cobra.Command{
		Use:   "climatology",
		Short: "Calculate and plot climate model climatologies.",
		Long: `climatology calculates climatologies from CMIP6 climate model output
and plots the results on maps and globes.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CLIMATOLOGY_var' where 'var'
is the name of the variable to be set, with '.' replaced by '_'.
Paths may contain environment variables.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this software.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("climatology v%s\n", climatology.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.classifyCmd = &cobra.Command{
		Use:   "classify",
		Short: "List the input files by variable and scenario.",
		Long: `classify lists the files in DataDir that belong to the configured
model and variables, grouped by variable and scenario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := cfg.logger(cmd)
			if err != nil {
				return err
			}
			dataDir, err := cfg.checkDir("DataDir")
			if err != nil {
				return err
			}
			g, err := cfg.classify(cmd, dataDir, log)
			if err != nil {
				return err
			}
			for _, grp := range g.Groups() {
				for _, f := range grp.Files {
					cmd.Printf("%s\t%s\t%s\n", grp.Variable, grp.Scenario, f)
				}
			}
			return nil
		},
		DisableAutoGenTag: true,
	}

	cfg.preprocCmd = &cobra.Command{
		Use:   "preproc",
		Short: "Calculate climatologies.",
		Long: `preproc classifies the files in DataDir and calculates a climatology
for each of them, one at a time. The results are saved in
'<WorkDir> DataFiles/<variable>/<scenario>/' under the names of the input
files. Processing stops at the first error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.preproc(cmd)
		},
		DisableAutoGenTag: true,
	}

	cfg.plotCmd = &cobra.Command{
		Use:   "plot",
		Short: "Plot a climatology.",
		Long: `plot draws a variable from the file given by Plot.File. Use the
subcommands to choose a projection.`,
		DisableAutoGenTag: true,
	}

	cfg.globeCmd = &cobra.Command{
		Use:   "globe",
		Short: "Plot on an orthographic globe.",
		Long: `globe draws a variable on an orthographic projection of the globe
centered at (Plot.CenterLon, Plot.CenterLat).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.plot(cmd, globe)
		},
		DisableAutoGenTag: true,
	}

	cfg.mapCmd = &cobra.Command{
		Use:   "map",
		Short: "Plot on a world map.",
		Long:  `map draws a variable on a plate carrée world map.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.plot(cmd, worldMap)
		},
		DisableAutoGenTag: true,
	}

	cfg.configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the configuration.",
		Long:  `config prints the configuration in effect, in TOML format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.writeConfig(cmd.OutOrStdout())
		},
		DisableAutoGenTag: true,
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.classifyCmd)
	cfg.Root.AddCommand(cfg.preprocCmd)
	cfg.Root.AddCommand(cfg.plotCmd)
	cfg.plotCmd.AddCommand(cfg.globeCmd)
	cfg.plotCmd.AddCommand(cfg.mapCmd)
	cfg.Root.AddCommand(cfg.configCmd)

	cfg.options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages to print.
              Acceptable values are 'debug', 'info', 'warn', and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "DataDir",
			usage: `
              DataDir is the directory holding the climate model output files.
              It can be a local directory or a blob storage address such as
              s3://bucket/path and can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.classifyCmd.Flags(), cfg.preprocCmd.Flags()},
		},
		{
			name: "WorkDir",
			usage: `
              WorkDir is the base of the output directories. Climatologies are
              saved in '<WorkDir> DataFiles/<variable>/<scenario>/'. It can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.preprocCmd.Flags()},
		},
		{
			name: "Model",
			usage: `
              Model is the name of the climate model. Only files whose names
              contain it are processed.`,
			defaultVal: climatology.DefaultModel,
			flagsets:   []*pflag.FlagSet{cfg.classifyCmd.Flags(), cfg.preprocCmd.Flags()},
		},
		{
			name: "Variables",
			usage: `
              Variables are the climate variables to process.`,
			defaultVal: climatology.DefaultVariables,
			flagsets:   []*pflag.FlagSet{cfg.classifyCmd.Flags(), cfg.preprocCmd.Flags()},
		},
		{
			name: "SpatialClimatology",
			usage: `
              SpatialClimatology is the spatial aggregation. Acceptable values
              are 'global' and 'none'.`,
			defaultVal: climatology.SpatialGlobal,
			flagsets:   []*pflag.FlagSet{cfg.preprocCmd.Flags()},
		},
		{
			name: "TemporalClimatology",
			usage: `
              TemporalClimatology is the temporal aggregation. Acceptable values
              are 'yearly', 'monthly', and 'none'.`,
			defaultVal: climatology.TemporalYearly,
			flagsets:   []*pflag.FlagSet{cfg.preprocCmd.Flags()},
		},
		{
			name: "Plot.File",
			usage: `
              Plot.File is the path to the NetCDF file to plot. It can be a
              local file or a blob storage address.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Variable",
			usage: `
              Plot.Variable is the name of the variable to plot.`,
			defaultVal: "tas",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Index",
			usage: `
              Plot.Index selects the time step, year, or month to plot when the
              variable has more than two dimensions.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Cmap",
			usage: `
              Plot.Cmap is the name of the color map. Add '_r' to reverse it.`,
			defaultVal: "viridis",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Title",
			usage: `
              Plot.Title is the figure title and the name it is saved under. The
              default is 'Globe plot' or 'Map plot'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.OutputDir",
			usage: `
              Plot.OutputDir is the directory saved figures are written to. It can
              be a blob storage address and can include environment variables.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Format",
			usage: `
              Plot.Format is the file format of saved figures: 'png', 'jpg',
              'tif', 'svg', or 'pdf'.`,
			defaultVal: "png",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Display",
			usage: `
              Plot.Display specifies whether to open figures in the system image
              viewer.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.Coastlines",
			usage: `
              Plot.Coastlines is the path to a shapefile of coastlines in
              longitude-latitude coordinates, such as the Natural Earth
              ne_110m_coastline.shp. If empty, coastlines are not drawn.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.plotCmd.PersistentFlags()},
		},
		{
			name: "Plot.CenterLon",
			usage: `
              Plot.CenterLon is the longitude at the center of the globe.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.globeCmd.Flags()},
		},
		{
			name: "Plot.CenterLat",
			usage: `
              Plot.CenterLat is the latitude at the center of the globe.`,
			defaultVal: 20.0,
			flagsets:   []*pflag.FlagSet{cfg.globeCmd.Flags()},
		},
		{
			name: "Plot.Save",
			usage: `
              Plot.Save specifies whether to save the figure to Plot.OutputDir.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.globeCmd.Flags()},
		},
		{
			name: "Plot.Save",
			usage: `
              Plot.Save specifies whether to save the figure to Plot.OutputDir.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.mapCmd.Flags()},
		},
	}

	for _, option := range cfg.options {
		for _, set := range option.flagsets {
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			// Options registered on more than one command are bound
			// to the running command's flag in bindFlags.
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("climatology: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// bindFlags binds the options to the flags of cmd, so that options that
// are registered on several commands take their default values from the
// command that is running.
func (cfg *Cfg) bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		cfg.BindPFlag(f.Name, f)
	})
}

// logger returns a logger writing to the command's error output at the
// configured level.
func (cfg *Cfg) logger(cmd *cobra.Command) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, fmt.Errorf("climatology: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	return log, nil
}
