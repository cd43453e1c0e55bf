package slide

import (
	"github.com/akmonengine/slide/actor"
	"github.com/akmonengine/slide/swept"
	"github.com/go-gl/mathgl/mgl64"
)

// DEFAULT_MAX_BOUNCE is the number of slide iterations allowed per MoveAndSlide call
const DEFAULT_MAX_BOUNCE = 3

// Movable is a collidable that can sweep itself through a Space.
// Types that embed Body get it by composition; other game objects implement it to
// move through a Space without inheriting from a body type.
type Movable interface {
	actor.Collidable
	NearestCollision(space *Space, velocity mgl64.Vec2) (Contact, bool)
	Move(space *Space, velocity mgl64.Vec2) mgl64.Vec2
	MoveAndSlide(space *Space, velocity mgl64.Vec2, maxBounce int) []Contact
}

var _ Movable = (*Body)(nil)

// Contact is a swept collision against a member of the Space
type Contact struct {
	Other *actor.Box
	swept.Data
}

// Body is a box that moves through a Space by sweeping and sliding.
// A Body registered in a Space must not be copied: the Space references its embedded Box.
type Body struct {
	actor.Box

	// Velocity in units per second, consumed by World.Step
	Velocity mgl64.Vec2

	space *Space
}

// NewBody creates a body at a local position with the given extents
func NewBody(x, y, w, h float64, layer, mask uint32) (*Body, error) {
	box, err := actor.NewBox(x, y, w, h, layer, mask)
	if err != nil {
		return nil, err
	}

	return &Body{Box: *box}, nil
}

// Space returns the space the body is registered in, if any
func (b *Body) Space() *Space {
	return b.space
}

// SetSpace moves the body's registration from its current space to the new one.
// A nil space only unregisters it.
func (b *Body) SetSpace(space *Space) {
	if b.space != nil {
		b.space.Remove(&b.Box)
	}

	b.space = space
	if space != nil {
		space.Add(&b.Box)
	}
}

// NearestCollision returns the earliest swept collision against the space for this velocity.
// Candidates are skipped when they are the body itself, outside the body's mask, or outside
// the broad-phase volume. On equal times the candidate met first in space order is kept.
func (b *Body) NearestCollision(space *Space, velocity mgl64.Vec2) (Contact, bool) {
	if space == nil {
		return Contact{}, false
	}

	self := &b.Box
	broadPhase := self.BroadPhase(velocity)
	bounds := self.Bounds()

	var nearest Contact
	found := false
	for other := range space.All() {
		if other == self || !self.CanCollideWith(other) || !broadPhase.IsCollidingAABB(other) {
			continue
		}

		data := swept.Solve(bounds, other.Bounds(), velocity)
		if !data.Collided {
			continue
		}
		if !found || data.Time < nearest.Time {
			nearest = Contact{Other: other, Data: data}
			found = true
		}
	}

	return nearest, found
}

// Move travels as far as possible in one iteration and returns the leftover velocity
func (b *Body) Move(space *Space, velocity mgl64.Vec2) mgl64.Vec2 {
	leftover, _, _ := b.move(space, velocity)
	return leftover
}

func (b *Body) move(space *Space, velocity mgl64.Vec2) (mgl64.Vec2, Contact, bool) {
	contact, hit := b.NearestCollision(space, velocity)
	if !hit {
		b.Position = b.Position.Add(velocity)
		return mgl64.Vec2{}, Contact{}, false
	}

	b.Position = b.Position.Add(velocity.Mul(contact.Time))

	// keep the component along the contact surface, scaled by the time left in the step
	n := contact.Normal
	tangent := (velocity.X()*n.Y() + velocity.Y()*n.X()) * (1 - contact.Time)

	return mgl64.Vec2{tangent * n.Y(), tangent * n.X()}, contact, true
}

// MoveAndSlide repeatedly moves with the leftover velocity until it is zero or maxBounce
// iterations have run. It returns the contacts met on the way, in order.
func (b *Body) MoveAndSlide(space *Space, velocity mgl64.Vec2, maxBounce int) []Contact {
	var contacts []Contact

	for bounce := 0; bounce < maxBounce && !isZero(velocity); bounce++ {
		leftover, contact, hit := b.move(space, velocity)
		if hit {
			contacts = append(contacts, contact)
		}
		velocity = leftover
	}

	return contacts
}

func isZero(v mgl64.Vec2) bool {
	return v.X() == 0 && v.Y() == 0
}
