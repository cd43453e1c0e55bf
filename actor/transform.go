package actor

import (
	"errors"
	"weak"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrParentCycle is returned when a parent assignment would make a transform its own ancestor
var ErrParentCycle = errors.New("actor: parent assignment would create a cycle")

// Transform represents a local position in 2D space, optionally relative to a parent transform.
// The parent link is weak: a transform never keeps its parent alive, and once the parent
// has been collected the transform behaves as if it were parented to the world origin.
// Collection happens on the next GC cycle, not when the last reference is dropped, so code
// that needs a deterministic result detaches children with SetParent(nil) when it discards a
// parent (World.RemoveBody and World.RemoveStatic do this for members of their Space).
type Transform struct {
	Position mgl64.Vec2
	parent   weak.Pointer[Transform]
}

// NewTransform creates a transform at the given local position
func NewTransform(x, y float64) Transform {
	return Transform{Position: mgl64.Vec2{x, y}}
}

// Parent returns the current parent, or nil when parented to the origin
func (t *Transform) Parent() *Transform {
	return t.parent.Value()
}

// SetParent re-parents the transform. A nil parent attaches it to the world origin.
// The local position is left untouched, so the global position moves with the new parent.
func (t *Transform) SetParent(parent *Transform) error {
	if parent == nil {
		t.parent = weak.Pointer[Transform]{}
		return nil
	}

	for p := parent; p != nil; p = p.Parent() {
		if p == t {
			return ErrParentCycle
		}
	}

	t.parent = weak.Make(parent)
	return nil
}

// Global returns the position relative to the world origin, summing local offsets up the parent chain
func (t *Transform) Global() mgl64.Vec2 {
	global := t.Position
	for p := t.Parent(); p != nil; p = p.Parent() {
		global = global.Add(p.Position)
	}

	return global
}

// SetGlobal back-solves the local position so that Global returns the given position
func (t *Transform) SetGlobal(global mgl64.Vec2) {
	if p := t.Parent(); p != nil {
		global = global.Sub(p.Global())
	}
	t.Position = global
}

func (t *Transform) GlobalX() float64 { return t.Global().X() }
func (t *Transform) GlobalY() float64 { return t.Global().Y() }

// SetGlobalX only back-solves the X axis
func (t *Transform) SetGlobalX(x float64) {
	t.SetGlobal(mgl64.Vec2{x, t.GlobalY()})
}

// SetGlobalY only back-solves the Y axis
func (t *Transform) SetGlobalY(y float64) {
	t.SetGlobal(mgl64.Vec2{t.GlobalX(), y})
}
