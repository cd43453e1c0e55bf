package slide

import (
	"encoding/binary"
	"math"

	"github.com/akmonengine/slide/actor"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// DEFAULT_TIMESTEP is the fixed update cadence drivers are expected to use
const DEFAULT_TIMESTEP = 1.0 / 60.0

type World struct {
	// Everything collidable, bodies included
	Space *Space
	// Moving bodies, resolved in this order every step
	Bodies []*Body
	// Slide iterations allowed per body and step
	MaxBounce int
	// Round every body's global position to whole units after it moves, halves to even
	PixelSnap bool

	Logger *zap.Logger
	Events Events
}

// NewWorld creates an empty world. A nil logger disables logging.
func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &World{
		Space:     NewSpace(),
		MaxBounce: DEFAULT_MAX_BOUNCE,
		Logger:    logger,
		Events:    NewEvents(),
	}
}

// AddBody adds a moving body to the world and registers it in the world's space
func (w *World) AddBody(body *Body) {
	for _, b := range w.Bodies {
		if b == body {
			return
		}
	}

	w.Bodies = append(w.Bodies, body)
	body.SetSpace(w.Space)
	w.logger().Debug("body added", zap.Stringer("body", body.ID))
}

// RemoveBody removes a moving body from the world and its space.
// Members of the space parented to it become origin-relative straight away.
func (w *World) RemoveBody(body *Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	if body.Space() == w.Space {
		body.SetSpace(nil)
	}
	w.detachChildren(&body.Transform)
	w.Events.forget(&body.Box)
	w.logger().Debug("body removed", zap.Stringer("body", body.ID))
}

// AddStatic registers a box that never moves on its own
func (w *World) AddStatic(box *actor.Box) {
	w.Space.Add(box)
}

// RemoveStatic unregisters a box previously added with AddStatic.
// Members of the space parented to it become origin-relative straight away.
func (w *World) RemoveStatic(box *actor.Box) {
	w.Space.Remove(box)
	w.detachChildren(&box.Transform)
	w.Events.forget(box)
}

// detachChildren re-parents every member of the space parented to t onto the origin,
// keeping their local position
func (w *World) detachChildren(t *actor.Transform) {
	for box := range w.Space.All() {
		if box.Parent() == t {
			_ = box.SetParent(nil)
		}
	}
}

// Step runs one fixed update. Every body sweeps its velocity scaled by dt through the space,
// one after the other in registration order. Each body sees the positions the bodies before
// it already reached in this step, so the outcome depends on that order.
// Contact events are dispatched after all bodies have moved.
func (w *World) Step(dt float64) {
	logger := w.logger()

	for _, body := range w.Bodies {
		contacts := body.MoveAndSlide(w.Space, body.Velocity.Mul(dt), w.MaxBounce)

		if w.PixelSnap {
			g := body.Global()
			body.SetGlobal(mgl64.Vec2{math.RoundToEven(g.X()), math.RoundToEven(g.Y())})
		}

		for _, c := range contacts {
			logger.Debug("contact",
				zap.Stringer("body", body.ID),
				zap.Stringer("other", c.Other.ID),
				zap.Float64("time", c.Time),
				zap.Float64s("normal", c.Normal[:]),
			)
		}
		w.Events.recordContacts(body, contacts)
	}

	w.Events.flush()
}

// Checksum hashes the layer, mask, global position and size of every member of the space,
// in space order. Two runs of the same scene with the same inputs produce the same checksum.
func (w *World) Checksum() uint64 {
	digest := xxhash.New()
	var buf [8]byte

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = digest.Write(buf[:])
	}

	for box := range w.Space.All() {
		binary.LittleEndian.PutUint32(buf[:4], box.Layer)
		binary.LittleEndian.PutUint32(buf[4:], box.Mask)
		_, _ = digest.Write(buf[:])

		bounds := box.Bounds()
		writeFloat(bounds.Min.X())
		writeFloat(bounds.Min.Y())
		writeFloat(bounds.Max.X())
		writeFloat(bounds.Max.Y())
	}

	return digest.Sum64()
}

func (w *World) logger() *zap.Logger {
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}
	return w.Logger
}
