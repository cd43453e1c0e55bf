package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akmonengine/slide"
	"github.com/akmonengine/slide/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const level = `
simulation:
  timestep: 0.02
  max_bounce: 5
  pixel_snap: true
controller:
  speed: 120
level:
  statics:
    - name: floor
      position: {x: 0, y: -10}
      size: {w: 100, h: 10}
    - name: ghost
      position: {x: 0, y: 0}
      size: {w: 1, h: 1}
      layer: 0
      mask: 0
  bodies:
    - name: player
      position: {x: 10, y: 0}
      size: {w: 8, h: 8}
      layer: 2
    - name: sword
      position: {x: 8, y: 2}
      size: {w: 4, h: 1}
      parent: player
script:
  - body: player
    ticks: 10
    input: {x: 1, y: 0}
    dash: true
`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(level))
	require.NoError(t, err)

	assert.Equal(t, 0.02, c.Simulation.Timestep)
	assert.Equal(t, 5, c.Simulation.MaxBounce)
	assert.True(t, c.Simulation.PixelSnap)

	assert.Equal(t, 120.0, c.Controller.Speed)
	assert.Equal(t, Default().Controller.DashSpeed, c.Controller.DashSpeed, "missing keys keep their default")

	require.Len(t, c.Level.Statics, 2)
	require.Len(t, c.Level.Bodies, 2)
	assert.Equal(t, Point{X: 0, Y: -10}, c.Level.Statics[0].Position)
	assert.Equal(t, Extents{W: 100, H: 10}, c.Level.Statics[0].Size)
	assert.Equal(t, "player", c.Level.Bodies[1].Parent)

	require.Len(t, c.Script, 1)
	assert.Equal(t, Frame{Body: "player", Ticks: 10, Input: Point{X: 1}, Dash: true}, c.Script[0])
}

func TestLoad_LayerAndMaskDefaults(t *testing.T) {
	c, err := Load(strings.NewReader(level))
	require.NoError(t, err)

	floor, ghost := c.Level.Statics[0], c.Level.Statics[1]
	assert.Equal(t, actor.DefaultLayer, floor.LayerBits())
	assert.Equal(t, actor.DefaultLayer, floor.MaskBits())
	assert.Equal(t, uint32(0), ghost.LayerBits(), "an explicit 0 is kept")
	assert.Equal(t, uint32(0), ghost.MaskBits())

	player := c.Level.Bodies[0]
	assert.Equal(t, uint32(2), player.LayerBits())
	assert.Equal(t, actor.DefaultLayer, player.MaskBits())
}

func TestLoad_EmptyDocumentUsesDefaults(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, slide.DEFAULT_TIMESTEP, c.Simulation.Timestep)
	assert.Equal(t, slide.DEFAULT_MAX_BOUNCE, c.Simulation.MaxBounce)
	assert.Equal(t, Default(), c)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("simulation:\n  time_step: 0.1\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   int
	}{
		{"defaults are valid", func(c *Config) {}, 0},
		{"zero timestep", func(c *Config) { c.Simulation.Timestep = 0 }, 1},
		{"zero max bounce", func(c *Config) { c.Simulation.MaxBounce = 0 }, 1},
		{"negative controller values", func(c *Config) {
			c.Controller.Speed = -1
			c.Controller.DashCooldown = -1
		}, 2},
		{"unnamed entity", func(c *Config) { c.Level.Statics = []Entity{{}} }, 1},
		{"duplicate names across sections", func(c *Config) {
			c.Level.Statics = []Entity{{Name: "a"}}
			c.Level.Bodies = []Entity{{Name: "a"}}
		}, 1},
		{"negative size", func(c *Config) {
			c.Level.Bodies = []Entity{{Name: "a", Size: Extents{W: -1, H: 2}}}
		}, 1},
		{"unknown parent", func(c *Config) {
			c.Level.Statics = []Entity{{Name: "a", Parent: "nobody"}}
		}, 1},
		{"script on a static", func(c *Config) {
			c.Level.Statics = []Entity{{Name: "wall"}}
			c.Script = []Frame{{Body: "wall", Ticks: 1}}
		}, 1},
		{"negative ticks", func(c *Config) {
			c.Level.Bodies = []Entity{{Name: "a"}}
			c.Script = []Frame{{Body: "a", Ticks: -1}}
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)

			err := c.Validate()
			if tt.want == 0 {
				assert.NoError(t, err)
				return
			}

			errs := multierr.Errors(err)
			assert.Len(t, errs, tt.want)
			for _, e := range errs {
				assert.True(t, errors.Is(e, ErrInvalid), "%v does not wrap ErrInvalid", e)
			}
		})
	}
}

func TestLoad_ReportsValidationErrors(t *testing.T) {
	_, err := Load(strings.NewReader("simulation:\n  timestep: -1\n  max_bounce: 0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "cmd", "slidesim", "testdata", "corridor.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Level.Statics, 2)
	assert.Equal(t, "player", c.Level.Bodies[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
