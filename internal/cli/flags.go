package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stringart/pkg/config"
)

// configFlags binds the configuration flags of a command. Flags override the
// config file only when they are given explicitly.
type configFlags struct {
	path       string
	values     config.Config
	background string
	colorMode  string
	shape      string
}

// addConfigFlags registers every configuration flag on cmd.
func addConfigFlags(cmd *cobra.Command, f *configFlags) {
	def := config.Default()
	fs := cmd.Flags()

	addLayoutFlags(fs, f)
	fs.StringVar(&f.background, "background", string(def.Background), "canvas background: light, dark")
	fs.StringVar(&f.colorMode, "color", string(def.ColorMode), "color mode: gray, rgb (rgb has no effect yet)")
	fs.IntVar(&f.values.Pulls, "pulls", def.Pulls, "maximum number of pulls")
	fs.IntVar(&f.values.RandomNails, "random-nails", def.RandomNails, "candidate nails per pull (0 = all)")
	fs.Float64Var(&f.values.StrokeStrength, "stroke-strength", def.StrokeStrength, "per-pull intensity used while optimizing")
	fs.Uint64Var(&f.values.Seed, "seed", def.Seed, "random seed for candidate sampling")
	fs.IntVarP(&f.values.Workers, "workers", "j", def.Workers, "parallel scoring workers")
	addOutputFlags(fs, f)
}

// addLayoutFlags registers the config file flag and the flags that shape the
// nail layout.
func addLayoutFlags(fs *pflag.FlagSet, f *configFlags) {
	def := config.Default()
	f.values = def

	fs.StringVar(&f.path, "config", "", "config file (default $XDG_CONFIG_HOME/stringart/config.toml)")
	fs.StringVar(&f.shape, "shape", string(def.Shape), "frame shape: circle, rectangle")
	fs.IntVar(&f.values.WorkingSize, "size", def.WorkingSize, "working resolution in pixels")
	fs.Float64Var(&f.values.NailStep, "nail-step", def.NailStep, "nail spacing (degrees for circles, pixels for rectangles)")
	fs.Float64Var(&f.values.ScaleX, "scale-x", def.ScaleX, "horizontal frame stretch")
	fs.Float64Var(&f.values.ScaleY, "scale-y", def.ScaleY, "vertical frame stretch")
}

// addOutputFlags registers the flags that only affect rendering.
func addOutputFlags(fs *pflag.FlagSet, f *configFlags) {
	def := config.Default()
	fs.IntVar(&f.values.OutputSize, "output-size", def.OutputSize, "output side length in pixels (0 = working size)")
	fs.Float64Var(&f.values.ExportStrength, "export-strength", def.ExportStrength, "per-pull intensity of the output")
}

// resolve loads the config file and applies explicitly set flags on top.
func (f *configFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(f.path)
	if err != nil {
		return cfg, err
	}
	f.apply(cmd.Flags(), &cfg)
	return cfg, cfg.Validate()
}

// apply copies every changed flag into cfg.
func (f *configFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	v := f.values
	setters := map[string]func(){
		"background":      func() { cfg.Background.UnmarshalText([]byte(f.background)) },
		"color":           func() { cfg.ColorMode.UnmarshalText([]byte(f.colorMode)) },
		"shape":           func() { cfg.Shape.UnmarshalText([]byte(f.shape)) },
		"size":            func() { cfg.WorkingSize = v.WorkingSize },
		"output-size":     func() { cfg.OutputSize = v.OutputSize },
		"pulls":           func() { cfg.Pulls = v.Pulls },
		"random-nails":    func() { cfg.RandomNails = v.RandomNails },
		"nail-step":       func() { cfg.NailStep = v.NailStep },
		"stroke-strength": func() { cfg.StrokeStrength = v.StrokeStrength },
		"export-strength": func() { cfg.ExportStrength = v.ExportStrength },
		"scale-x":         func() { cfg.ScaleX = v.ScaleX },
		"scale-y":         func() { cfg.ScaleY = v.ScaleY },
		"seed":            func() { cfg.Seed = v.Seed },
		"workers":         func() { cfg.Workers = v.Workers },
	}
	for name, set := range setters {
		if fs.Changed(name) {
			set()
		}
	}
}

// loadConfig reads path, or the default config file when path is empty and
// the file exists, or returns the built-in defaults.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	def, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return config.Default(), nil
	}
	return config.Load(def)
}
