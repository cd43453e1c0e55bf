// Package controller turns an intent vector into a body velocity, with a timed dash.
package controller

import (
	"github.com/akmonengine/slide"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateDashing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDashing:
		return "dashing"
	default:
		return "unknown"
	}
}

type Settings struct {
	Speed        float64 // units per second
	DashSpeed    float64 // speed multiplier while dashing
	DashControl  float64 // share of the live intent blended into a dash
	DashLength   float64 // seconds
	DashCooldown float64 // seconds
}

func DefaultSettings() Settings {
	return Settings{
		Speed:        80,
		DashSpeed:    4,
		DashControl:  0.5,
		DashLength:   0.2,
		DashCooldown: 0.1,
	}
}

// Controller drives one body. Timers and state belong to the instance, never to the type.
type Controller struct {
	Settings Settings
	Body     *slide.Body
	Logger   *zap.Logger

	state     State
	intent    mgl64.Vec2
	direction mgl64.Vec2

	dashTimer         float64
	dashCooldownTimer float64
}

func New(body *slide.Body, settings Settings, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		Settings: settings,
		Body:     body,
		Logger:   logger,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Intent() mgl64.Vec2 {
	return c.intent
}

// Direction is the intent latched by the last Update, frozen while dashing
func (c *Controller) Direction() mgl64.Vec2 {
	return c.direction
}

// SetIntent stores the wanted direction, normalized so diagonals are not faster.
// A zero vector stays zero.
func (c *Controller) SetIntent(intent mgl64.Vec2) {
	if intent.Len() == 0 {
		c.intent = mgl64.Vec2{}
		return
	}
	c.intent = intent.Normalize()
}

// Update advances the timers by dt and latches the intent when not dashing
func (c *Controller) Update(dt float64) {
	if c.state == StateDashing {
		c.dashTimer -= dt
		if c.dashTimer <= 0 {
			c.setState(StateRunning)
		}
		return
	}

	c.dashCooldownTimer -= dt
	c.direction = c.intent
	if c.direction.Len() == 0 {
		c.setState(StateIdle)
	} else {
		c.setState(StateRunning)
	}
}

// Dash starts a dash in the latched direction. It fails while already dashing,
// while standing still, or before the cooldown is over.
func (c *Controller) Dash() bool {
	if c.state == StateDashing || c.direction.Len() == 0 || c.dashCooldownTimer > 0 {
		return false
	}

	c.setState(StateDashing)
	c.dashTimer = c.Settings.DashLength
	c.dashCooldownTimer = c.Settings.DashCooldown
	return true
}

// FixedUpdate writes the velocity for the coming physics step into the body.
// While dashing, part of the live intent steers the locked direction.
func (c *Controller) FixedUpdate() {
	if c.Body == nil {
		return
	}

	if c.state == StateDashing {
		steer := c.intent.Mul(c.Settings.DashControl)
		c.Body.Velocity = c.direction.Add(steer).Mul(c.Settings.Speed * c.Settings.DashSpeed)
		return
	}

	c.Body.Velocity = c.direction.Mul(c.Settings.Speed)
}

func (c *Controller) setState(state State) {
	if state == c.state {
		return
	}

	if c.Logger != nil {
		c.Logger.Debug("controller state changed",
			zap.Stringer("from", c.state),
			zap.Stringer("to", state),
		)
	}
	c.state = state
}
