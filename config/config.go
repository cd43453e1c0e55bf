// Package config loads YAML scenarios: simulation settings, controller tuning,
// the level layout and a scripted input sequence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/slide"
	"github.com/akmonengine/slide/actor"
	"github.com/akmonengine/slide/controller"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Controller Controller `yaml:"controller"`
	Level      Level      `yaml:"level"`
	Script     []Frame    `yaml:"script"`
}

type Simulation struct {
	Timestep  float64 `yaml:"timestep"`
	MaxBounce int     `yaml:"max_bounce"`
	PixelSnap bool    `yaml:"pixel_snap"`
}

type Controller struct {
	Speed        float64 `yaml:"speed"`
	DashSpeed    float64 `yaml:"dash_speed"`
	DashControl  float64 `yaml:"dash_control"`
	DashLength   float64 `yaml:"dash_length"`
	DashCooldown float64 `yaml:"dash_cooldown"`
}

// Settings converts the section into controller settings
func (c Controller) Settings() controller.Settings {
	return controller.Settings{
		Speed:        c.Speed,
		DashSpeed:    c.DashSpeed,
		DashControl:  c.DashControl,
		DashLength:   c.DashLength,
		DashCooldown: c.DashCooldown,
	}
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Extents struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Entity describes a box. Layer and Mask default to actor.DefaultLayer when omitted;
// an explicit 0 is kept and means the box never takes part in collisions on that side.
type Entity struct {
	Name     string  `yaml:"name"`
	Position Point   `yaml:"position"`
	Size     Extents `yaml:"size"`
	Layer    *uint32 `yaml:"layer,omitempty"`
	Mask     *uint32 `yaml:"mask,omitempty"`
	Parent   string  `yaml:"parent,omitempty"`
}

func (e Entity) LayerBits() uint32 {
	if e.Layer == nil {
		return actor.DefaultLayer
	}
	return *e.Layer
}

func (e Entity) MaskBits() uint32 {
	if e.Mask == nil {
		return actor.DefaultLayer
	}
	return *e.Mask
}

type Level struct {
	Statics []Entity `yaml:"statics"`
	Bodies  []Entity `yaml:"bodies"`
}

// Frame holds an input for a body during a number of ticks
type Frame struct {
	Body  string `yaml:"body"`
	Ticks int    `yaml:"ticks"`
	Input Point  `yaml:"input"`
	Dash  bool   `yaml:"dash"`
}

func Default() *Config {
	settings := controller.DefaultSettings()

	return &Config{
		Simulation: Simulation{
			Timestep:  slide.DEFAULT_TIMESTEP,
			MaxBounce: slide.DEFAULT_MAX_BOUNCE,
		},
		Controller: Controller{
			Speed:        settings.Speed,
			DashSpeed:    settings.DashSpeed,
			DashControl:  settings.DashControl,
			DashLength:   settings.DashLength,
			DashCooldown: settings.DashCooldown,
		},
	}
}

// Load decodes a YAML document on top of the defaults and validates it
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports every problem found, each wrapping ErrInvalid
func (c *Config) Validate() error {
	var errs error
	invalid := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Simulation.Timestep <= 0 {
		invalid("simulation.timestep must be positive, got %v", c.Simulation.Timestep)
	}
	if c.Simulation.MaxBounce < 1 {
		invalid("simulation.max_bounce must be at least 1, got %d", c.Simulation.MaxBounce)
	}

	ctrl := c.Controller
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"speed", ctrl.Speed},
		{"dash_speed", ctrl.DashSpeed},
		{"dash_control", ctrl.DashControl},
		{"dash_length", ctrl.DashLength},
		{"dash_cooldown", ctrl.DashCooldown},
	} {
		if field.value < 0 {
			invalid("controller.%s must not be negative, got %v", field.name, field.value)
		}
	}

	names := make(map[string]bool)
	bodies := make(map[string]bool)
	check := func(section string, entities []Entity) {
		for i, e := range entities {
			if e.Name == "" {
				invalid("level.%s[%d] has no name", section, i)
				continue
			}
			if names[e.Name] {
				invalid("level.%s[%d]: duplicate name %q", section, i, e.Name)
			}
			names[e.Name] = true
			if e.Size.W < 0 || e.Size.H < 0 {
				invalid("level.%s[%d] %q: negative size %vx%v", section, i, e.Name, e.Size.W, e.Size.H)
			}
		}
	}
	check("statics", c.Level.Statics)
	check("bodies", c.Level.Bodies)
	for _, e := range c.Level.Bodies {
		bodies[e.Name] = true
	}

	parents := func(section string, entities []Entity) {
		for _, e := range entities {
			if e.Parent != "" && !names[e.Parent] {
				invalid("level.%s %q: unknown parent %q", section, e.Name, e.Parent)
			}
		}
	}
	parents("statics", c.Level.Statics)
	parents("bodies", c.Level.Bodies)

	for i, f := range c.Script {
		if !bodies[f.Body] {
			invalid("script[%d]: unknown body %q", i, f.Body)
		}
		if f.Ticks < 0 {
			invalid("script[%d]: ticks must not be negative, got %d", i, f.Ticks)
		}
	}

	return errs
}
