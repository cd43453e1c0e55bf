package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DefaultLayer is the layer (and mask) used by boxes that do not specify one
const DefaultLayer uint32 = 1 << 0

// ErrNegativeExtents is returned when a box is given a negative width or height
var ErrNegativeExtents = errors.New("actor: box extents must not be negative")

// Collidable is anything that answers static overlap queries.
// Collider returns the box identifying it inside a Space.
type Collidable interface {
	Collider() *Box
	Bounds() AABB
	IsCollidingAABB(other *Box) bool
	IsCollidingPoint(point mgl64.Vec2) bool
}

var _ Collidable = (*Box)(nil)

// Box is an axis-aligned rectangle placed by its bottom-left corner.
// Layer is what the box is, Mask is what it can collide with.
type Box struct {
	Transform

	ID    uuid.UUID
	Layer uint32
	Mask  uint32

	size mgl64.Vec2
}

// NewBox creates a box at a local position with the given extents
func NewBox(x, y, w, h float64, layer, mask uint32) (*Box, error) {
	if err := validateExtents(w, h); err != nil {
		return nil, err
	}

	return &Box{
		Transform: NewTransform(x, y),
		ID:        uuid.New(),
		Layer:     layer,
		Mask:      mask,
		size:      mgl64.Vec2{w, h},
	}, nil
}

func validateExtents(w, h float64) error {
	if w < 0 || h < 0 || math.IsNaN(w) || math.IsNaN(h) {
		return fmt.Errorf("%w: got %vx%v", ErrNegativeExtents, w, h)
	}
	return nil
}

func (b *Box) Collider() *Box {
	return b
}

// Size returns the width and height of the box
func (b *Box) Size() mgl64.Vec2 {
	return b.size
}

// SetSize changes the extents, rejecting negative values
func (b *Box) SetSize(w, h float64) error {
	if err := validateExtents(w, h); err != nil {
		return err
	}
	b.size = mgl64.Vec2{w, h}
	return nil
}

// Bounds returns the box in world coordinates
func (b *Box) Bounds() AABB {
	origin := b.Global()
	return AABB{Min: origin, Max: origin.Add(b.size)}
}

// CanCollideWith reports whether other is in one of the layers this box masks.
// The filter is one-directional: other's own mask is not consulted.
func (b *Box) CanCollideWith(other *Box) bool {
	return b.Mask&other.Layer != 0
}

// IsCollidingAABB checks for an inclusive overlap with a box this box is allowed to collide with
func (b *Box) IsCollidingAABB(other *Box) bool {
	return b.CanCollideWith(other) && b.Bounds().Overlaps(other.Bounds())
}

// IsCollidingPoint checks whether the point lies inside or on the edge of the box
func (b *Box) IsCollidingPoint(point mgl64.Vec2) bool {
	return b.Bounds().ContainsPoint(point)
}

// BroadPhase returns the smallest parentless box containing every position this box
// occupies while travelling by velocity. It keeps the layer and mask of the original.
func (b *Box) BroadPhase(velocity mgl64.Vec2) Box {
	start := b.Bounds()
	sweep := start.Union(start.Translate(velocity))

	return Box{
		Transform: NewTransform(sweep.Min.X(), sweep.Min.Y()),
		Layer:     b.Layer,
		Mask:      b.Mask,
		size:      sweep.Size(),
	}
}
