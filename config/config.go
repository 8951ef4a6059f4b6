package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/jsphweid/tonalpalette/constants"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Controls holds everything the estimator and scene read at runtime. It is
// passed by pointer; nothing reads it through a global.
type Controls struct {
	WindowSize       int  `yaml:"window_size"`
	WeightByVelocity bool `yaml:"weight_by_velocity"`

	// notes with a velocity below this never spawn a particle
	SpawnThreshold int `yaml:"spawn_threshold"`
	MinPitch       int `yaml:"min_pitch"`
	MaxPitch       int `yaml:"max_pitch"`

	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BottomBorder float64 `yaml:"bottom_border"`

	MaxVelocity float64 `yaml:"max_velocity"`
	NoiseStep   float64 `yaml:"noise_step"`
	VelocityX   Normal  `yaml:"initial_velocity_x"`
	VelocityY   Normal  `yaml:"initial_velocity_y"`

	Saturation Range `yaml:"saturation"`
	Lightness  Range `yaml:"lightness"`
	Alpha      Range `yaml:"alpha"`
	Radius     Range `yaml:"radius"`

	BgTransitionSpeed float64 `yaml:"bg_transition_speed"`

	FrameRate       int           `yaml:"frame_rate"`
	PersistDebounce time.Duration `yaml:"persist_debounce"`
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type Normal struct {
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

func Default() *Controls {
	return &Controls{
		WindowSize:        constants.DefaultWindowSize,
		SpawnThreshold:    1,
		MinPitch:          36,
		MaxPitch:          96,
		Width:             1280,
		Height:            720,
		BottomBorder:      .9,
		MaxVelocity:       .75,
		NoiseStep:         .1,
		VelocityX:         Normal{Mean: 0, Std: 3},
		VelocityY:         Normal{Mean: 0, Std: 5},
		Saturation:        Range{Min: .7, Max: 1},
		Lightness:         Range{Min: .3, Max: .75},
		Alpha:             Range{Min: .6, Max: .9},
		Radius:            Range{Min: 5, Max: 40},
		BgTransitionSpeed: 3,
		FrameRate:         60,
		PersistDebounce:   500 * time.Millisecond,
	}
}

// Load reads a YAML file over the defaults. Missing keys keep their default.
func Load(path string) (*Controls, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading controls file %s", path)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrapf(err, "parsing controls file %s", path)
	}
	return c, nil
}

func (c *Controls) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.WindowSize, "window", c.WindowSize, "number of recent notes used for key estimation")
	fs.BoolVar(&c.WeightByVelocity, "weight-by-velocity", c.WeightByVelocity, "weight notes by velocity instead of counting them")
	fs.IntVar(&c.SpawnThreshold, "spawn-threshold", c.SpawnThreshold, "minimum velocity that spawns a particle")
	fs.IntVar(&c.MinPitch, "min-pitch", c.MinPitch, "pitch mapped to the left edge")
	fs.IntVar(&c.MaxPitch, "max-pitch", c.MaxPitch, "pitch mapped to the right edge")
	fs.Float64Var(&c.Width, "width", c.Width, "canvas width")
	fs.Float64Var(&c.Height, "height", c.Height, "canvas height")
	fs.Float64Var(&c.MaxVelocity, "max-speed", c.MaxVelocity, "particle speed limit")
	fs.Float64Var(&c.NoiseStep, "noise-step", c.NoiseStep, "particle noise time step")
	fs.IntVar(&c.FrameRate, "fps", c.FrameRate, "frames per second of the scene loop")
}

// ApplyFlags copies the flags explicitly set on fs onto c, so command line
// values win over a controls file.
func (c *Controls) ApplyFlags(fs *pflag.FlagSet) error {
	scratch := pflag.NewFlagSet("controls", pflag.ContinueOnError)
	c.BindFlags(scratch)
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || scratch.Lookup(f.Name) == nil {
			return
		}
		err = scratch.Set(f.Name, f.Value.String())
	})
	return errors.Wrap(err, "applying flags")
}

func (c *Controls) Validate() error {
	switch {
	case c.WindowSize < 1:
		return errors.Wrapf(ErrInvalidConfig, "window size must be positive, got %d", c.WindowSize)
	case c.SpawnThreshold < 0 || c.SpawnThreshold > 127:
		return errors.Wrapf(ErrInvalidConfig, "spawn threshold must be in [0,127], got %d", c.SpawnThreshold)
	case c.MinPitch < 0 || c.MaxPitch > 127 || c.MinPitch >= c.MaxPitch:
		return errors.Wrapf(ErrInvalidConfig, "pitch range [%d,%d] is invalid", c.MinPitch, c.MaxPitch)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "canvas %vx%v is invalid", c.Width, c.Height)
	case c.BottomBorder < 0 || c.BottomBorder > 1:
		return errors.Wrapf(ErrInvalidConfig, "bottom border must be in [0,1], got %v", c.BottomBorder)
	case c.MaxVelocity < 0:
		return errors.Wrapf(ErrInvalidConfig, "max speed must not be negative, got %v", c.MaxVelocity)
	case c.NoiseStep < 0:
		return errors.Wrapf(ErrInvalidConfig, "noise step must not be negative, got %v", c.NoiseStep)
	case c.VelocityX.Std < 0 || c.VelocityY.Std < 0:
		return errors.Wrap(ErrInvalidConfig, "initial velocity deviation must not be negative")
	case c.BgTransitionSpeed <= 0:
		return errors.Wrapf(ErrInvalidConfig, "background transition speed must be positive, got %v", c.BgTransitionSpeed)
	case c.FrameRate < 1:
		return errors.Wrapf(ErrInvalidConfig, "frame rate must be positive, got %d", c.FrameRate)
	}
	ranges := map[string]Range{
		"saturation": c.Saturation,
		"lightness":  c.Lightness,
		"alpha":      c.Alpha,
	}
	for name, r := range ranges {
		if r.Min < 0 || r.Max > 1 || r.Min > r.Max {
			return errors.Wrapf(ErrInvalidConfig, "%s range [%v,%v] is invalid", name, r.Min, r.Max)
		}
	}
	if c.Radius.Min <= 0 || c.Radius.Min > c.Radius.Max {
		return errors.Wrapf(ErrInvalidConfig, "radius range [%v,%v] is invalid", c.Radius.Min, c.Radius.Max)
	}
	return nil
}

// ValidateWindowSize checks a window size coming from outside the controls
// struct, e.g. the HTTP slider.
func ValidateWindowSize(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidConfig, "window size must be positive, got %d", n)
	}
	return nil
}
