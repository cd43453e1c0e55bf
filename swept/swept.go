// Package swept implements the exact swept AABB test used to find when a moving box first
// touches a static one during a single step.
//
// Times are fractions of the step: 0 is the start of the step, 1 the end. Negative times mean
// the boundary was crossed before the step began.
package swept

import (
	"math"

	"github.com/akmonengine/slide/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Data is the verdict of a single swept test
type Data struct {
	Collided bool
	Time     float64
	// Normal has one non-zero component of -1 or +1, or is zero when Collided is false
	Normal mgl64.Vec2
}

// AxisDistances returns the distance to the boundary struck first (entry) and the boundary
// left last (exit) on one axis, for a segment at p of length w travelling at v against a
// segment at op of length ow.
func AxisDistances(p, w, v, op, ow float64) (entry, exit float64) {
	rightToOtherLeft := op - (p + w)
	leftToOtherRight := (op + ow) - p

	if v > 0 {
		return rightToOtherLeft, leftToOtherRight
	}
	return leftToOtherRight, rightToOtherLeft
}

// AxisTimes converts entry and exit distances into times. An axis without motion never
// binds: its entry time is -Inf and its exit time +Inf.
func AxisTimes(entry, exit, v float64) (entryTime, exitTime float64) {
	if v == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	return entry / v, exit / v
}

// Normal picks the axis with the later entry time. When both axes enter at the same time
// the X axis wins. The component is +1 when the entry distance on that axis is negative and
// -1 otherwise.
func Normal(entryTimes, entryDistances mgl64.Vec2) mgl64.Vec2 {
	if entryTimes.X() >= entryTimes.Y() {
		return mgl64.Vec2{axisSign(entryDistances.X()), 0}
	}
	return mgl64.Vec2{0, axisSign(entryDistances.Y())}
}

func axisSign(entryDistance float64) float64 {
	if entryDistance < 0 {
		return 1
	}
	return -1
}

// Solve sweeps a by velocity against the static box b.
//
// The collision is accepted when both axes are inside at the same time (entry <= exit),
// the contact window has not already passed (exit > 0), and it starts within the step
// (entry <= 1). The reported time is whichever of entry and exit is closest to zero, so an
// ongoing overlap is resolved through its nearest boundary.
func Solve(a, b actor.AABB, velocity mgl64.Vec2) Data {
	if velocity.X() == 0 && velocity.Y() == 0 {
		return Data{}
	}

	aSize, bSize := a.Size(), b.Size()

	var entryTimes, exitTimes, entryDistances mgl64.Vec2
	for axis := range 2 {
		p, w, v := a.Min[axis], aSize[axis], velocity[axis]
		op, ow := b.Min[axis], bSize[axis]

		// a stationary axis that is not already overlapping can never start to
		if v == 0 && (p+w <= op || op+ow <= p) {
			return Data{}
		}

		entry, exit := AxisDistances(p, w, v, op, ow)
		entryDistances[axis] = entry
		entryTimes[axis], exitTimes[axis] = AxisTimes(entry, exit, v)
	}

	entryTime := math.Max(entryTimes.X(), entryTimes.Y())
	exitTime := math.Min(exitTimes.X(), exitTimes.Y())

	if entryTime > exitTime || exitTime <= 0 || entryTime > 1 {
		return Data{Time: nearest(entryTime, exitTime)}
	}

	return Data{
		Collided: true,
		Time:     nearest(entryTime, exitTime),
		Normal:   Normal(entryTimes, entryDistances),
	}
}

func nearest(entryTime, exitTime float64) float64 {
	if math.Abs(entryTime) < math.Abs(exitTime) {
		return entryTime
	}
	return exitTime
}
