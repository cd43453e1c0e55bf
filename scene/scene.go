// Package scene builds a World from a scenario config and plays its input script.
package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/akmonengine/slide"
	"github.com/akmonengine/slide/actor"
	"github.com/akmonengine/slide/config"
	"github.com/akmonengine/slide/controller"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var ErrUnknownEntity = errors.New("scene: unknown entity")

type Scene struct {
	World    *slide.World
	Timestep float64

	Statics     map[string]*actor.Box
	Bodies      map[string]*slide.Body
	Controllers map[string]*controller.Controller

	// body names in declaration order, which is also the update order
	order  []string
	script []config.Frame
	ticks  int
}

// Build creates every static box and body of the level, wires parents, and attaches a
// controller to each body.
func Build(cfg *config.Config, logger *zap.Logger) (*Scene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	world := slide.NewWorld(logger)
	world.MaxBounce = cfg.Simulation.MaxBounce
	world.PixelSnap = cfg.Simulation.PixelSnap

	s := &Scene{
		World:       world,
		Timestep:    cfg.Simulation.Timestep,
		Statics:     make(map[string]*actor.Box),
		Bodies:      make(map[string]*slide.Body),
		Controllers: make(map[string]*controller.Controller),
		script:      cfg.Script,
	}

	for _, e := range cfg.Level.Statics {
		box, err := actor.NewBox(e.Position.X, e.Position.Y, e.Size.W, e.Size.H, e.LayerBits(), e.MaskBits())
		if err != nil {
			return nil, fmt.Errorf("scene: static %q: %w", e.Name, err)
		}
		s.Statics[e.Name] = box
		world.AddStatic(box)
	}

	settings := cfg.Controller.Settings()
	for _, e := range cfg.Level.Bodies {
		body, err := slide.NewBody(e.Position.X, e.Position.Y, e.Size.W, e.Size.H, e.LayerBits(), e.MaskBits())
		if err != nil {
			return nil, fmt.Errorf("scene: body %q: %w", e.Name, err)
		}
		s.Bodies[e.Name] = body
		s.order = append(s.order, e.Name)
		world.AddBody(body)
		s.Controllers[e.Name] = controller.New(body, settings, logger.With(zap.String("body", e.Name)))
	}

	for _, entities := range [][]config.Entity{cfg.Level.Statics, cfg.Level.Bodies} {
		for _, e := range entities {
			if e.Parent == "" {
				continue
			}
			child, err := s.transform(e.Name)
			if err != nil {
				return nil, err
			}
			parent, err := s.transform(e.Parent)
			if err != nil {
				return nil, err
			}
			if err := child.SetParent(parent); err != nil {
				return nil, fmt.Errorf("scene: parent of %q: %w", e.Name, err)
			}
		}
	}

	return s, nil
}

func (s *Scene) transform(name string) (*actor.Transform, error) {
	if box, ok := s.Statics[name]; ok {
		return &box.Transform, nil
	}
	if body, ok := s.Bodies[name]; ok {
		return &body.Transform, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
}

// Ticks returns the number of fixed updates run so far
func (s *Scene) Ticks() int {
	return s.ticks
}

// Tick runs one fixed update: controllers advance and write velocities, then the world steps
func (s *Scene) Tick() {
	for _, name := range s.order {
		ctrl := s.Controllers[name]
		ctrl.Update(s.Timestep)
		ctrl.FixedUpdate()
	}
	s.World.Step(s.Timestep)
	s.ticks++
}

// Play runs the whole script. A frame sets a body's intent, optionally dashes once the
// intent is latched, then runs its ticks.
func (s *Scene) Play(ctx context.Context) error {
	for i, f := range s.script {
		ctrl, ok := s.Controllers[f.Body]
		if !ok {
			return fmt.Errorf("script[%d]: %w: %q", i, ErrUnknownEntity, f.Body)
		}
		ctrl.SetIntent(mgl64.Vec2{f.Input.X, f.Input.Y})

		for tick := 0; tick < f.Ticks; tick++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			if tick == 0 && f.Dash {
				ctrl.Update(0)
				ctrl.Dash()
			}
			s.Tick()
		}
	}

	return nil
}

// Positions returns the global position of every body and static box, by name
func (s *Scene) Positions() map[string]mgl64.Vec2 {
	positions := make(map[string]mgl64.Vec2, len(s.Statics)+len(s.Bodies))
	for name, box := range s.Statics {
		positions[name] = box.Global()
	}
	for name, body := range s.Bodies {
		positions[name] = body.Global()
	}
	return positions
}

// BodyNames returns the body names in update order
func (s *Scene) BodyNames() []string {
	return append([]string(nil), s.order...)
}
