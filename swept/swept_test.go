package swept

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/slide/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(x, y, w, h float64) actor.AABB {
	return actor.AABB{Min: mgl64.Vec2{x, y}, Max: mgl64.Vec2{x + w, y + h}}
}

func TestAxisDistances(t *testing.T) {
	tests := []struct {
		name          string
		p, w, v       float64
		op, ow        float64
		entry, exitTo float64
	}{
		{"moving right towards other", 0, 10, 5, 15, 10, 5, 25},
		{"moving left towards other", 30, 10, -5, 15, 10, -5, -25},
		{"still uses the negative branch", 30, 10, 0, 15, 10, -5, -25},
		{"already overlapping, moving right", 0, 10, 1, 5, 10, -5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, exit := AxisDistances(tt.p, tt.w, tt.v, tt.op, tt.ow)
			assert.Equal(t, tt.entry, entry)
			assert.Equal(t, tt.exitTo, exit)
		})
	}
}

func TestAxisTimes(t *testing.T) {
	entry, exit := AxisTimes(5, 25, 10)
	assert.Equal(t, 0.5, entry)
	assert.Equal(t, 2.5, exit)

	entry, exit = AxisTimes(-5, -25, -10)
	assert.Equal(t, 0.5, entry)
	assert.Equal(t, 2.5, exit)

	entry, exit = AxisTimes(-5, 15, 10)
	assert.Equal(t, -0.5, entry, "a boundary crossed before the step gives a negative time")
	assert.Equal(t, 1.5, exit)

	entry, exit = AxisTimes(5, 25, 0)
	assert.True(t, math.IsInf(entry, -1))
	assert.True(t, math.IsInf(exit, 1))
}

func TestNormal(t *testing.T) {
	tests := []struct {
		name      string
		times     mgl64.Vec2
		distances mgl64.Vec2
		expected  mgl64.Vec2
	}{
		{"X binds, approaching from the left", mgl64.Vec2{0.5, 0.1}, mgl64.Vec2{5, 1}, mgl64.Vec2{-1, 0}},
		{"X binds, approaching from the right", mgl64.Vec2{0.5, 0.1}, mgl64.Vec2{-5, 1}, mgl64.Vec2{1, 0}},
		{"Y binds, approaching from below", mgl64.Vec2{0.1, 0.5}, mgl64.Vec2{1, 5}, mgl64.Vec2{0, -1}},
		{"Y binds, approaching from above", mgl64.Vec2{0.1, 0.5}, mgl64.Vec2{1, -5}, mgl64.Vec2{0, 1}},
		{"tie goes to X", mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{5, 5}, mgl64.Vec2{-1, 0}},
		{"zero distance on X is not negative", mgl64.Vec2{0, -1}, mgl64.Vec2{0, 3}, mgl64.Vec2{-1, 0}},
		{"zero distance on Y is not negative", mgl64.Vec2{-1, 0}, mgl64.Vec2{3, 0}, mgl64.Vec2{0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normal(tt.times, tt.distances))
		})
	}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name     string
		a, b     actor.AABB
		velocity mgl64.Vec2
		collided bool
		time     float64
		normal   mgl64.Vec2
	}{
		{
			name:     "wall five units away",
			a:        rect(0, 0, 10, 10),
			b:        rect(15, 0, 10, 10),
			velocity: mgl64.Vec2{10, 0},
			collided: true, time: 0.5, normal: mgl64.Vec2{-1, 0},
		},
		{
			name:     "touching edges moving into each other",
			a:        rect(0, 0, 10, 10),
			b:        rect(10, 0, 10, 10),
			velocity: mgl64.Vec2{5, 0},
			collided: true, time: 0, normal: mgl64.Vec2{-1, 0},
		},
		{
			name:     "floor from above",
			a:        rect(0, 10, 10, 10),
			b:        rect(-50, -10, 100, 10),
			velocity: mgl64.Vec2{3, -20},
			collided: true, time: 0.5, normal: mgl64.Vec2{0, 1},
		},
		{
			name:     "touching on the right, moving left into it",
			a:        rect(10, 0, 10, 10),
			b:        rect(0, 0, 10, 10),
			velocity: mgl64.Vec2{-5, 3},
			collided: true, time: 0, normal: mgl64.Vec2{-1, 0},
		},
		{
			name:     "exactly at the end of the step",
			a:        rect(0, 0, 10, 10),
			b:        rect(20, 0, 10, 10),
			velocity: mgl64.Vec2{10, 0},
			collided: true, time: 1, normal: mgl64.Vec2{-1, 0},
		},
		{
			name:     "out of reach this step",
			a:        rect(0, 0, 10, 10),
			b:        rect(21, 0, 10, 10),
			velocity: mgl64.Vec2{10, 0},
		},
		{
			name:     "moving away",
			a:        rect(0, 0, 10, 10),
			b:        rect(10, 0, 10, 10),
			velocity: mgl64.Vec2{-5, 0},
		},
		{
			name:     "passing beside",
			a:        rect(0, 0, 10, 10),
			b:        rect(15, 20, 10, 10),
			velocity: mgl64.Vec2{20, 5},
		},
		{
			name:     "sliding along a touching face",
			a:        rect(0, 0, 10, 10),
			b:        rect(10, -100, 10, 200),
			velocity: mgl64.Vec2{0, -5},
		},
		{
			name:     "no motion",
			a:        rect(0, 0, 10, 10),
			b:        rect(5, 5, 10, 10),
			velocity: mgl64.Vec2{0, 0},
		},
		{
			name:     "diagonal corner hit, X and Y tie",
			a:        rect(0, 0, 10, 10),
			b:        rect(15, 15, 10, 10),
			velocity: mgl64.Vec2{10, 10},
			collided: true, time: 0.5, normal: mgl64.Vec2{-1, 0},
		},
		{
			name:     "already overlapping resolves by the nearest boundary",
			a:        rect(0, 0, 10, 10),
			b:        rect(8, 0, 10, 10),
			velocity: mgl64.Vec2{10, 0},
			collided: true, time: -0.2, normal: mgl64.Vec2{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Solve(tt.a, tt.b, tt.velocity)
			require.Equal(t, tt.collided, data.Collided)
			if !tt.collided {
				assert.Equal(t, mgl64.Vec2{}, data.Normal)
				return
			}
			assert.InDelta(t, tt.time, data.Time, 1e-12)
			assert.Equal(t, tt.normal, data.Normal)
		})
	}
}

// broadPhaseOverlaps mirrors the broad-phase filter: the swept volume of a, inclusive overlap
func broadPhaseOverlaps(t *testing.T, a actor.AABB, velocity mgl64.Vec2, b actor.AABB) bool {
	box, err := actor.NewBox(a.Min.X(), a.Min.Y(), a.Size().X(), a.Size().Y(), actor.DefaultLayer, actor.DefaultLayer)
	require.NoError(t, err)
	other, err := actor.NewBox(b.Min.X(), b.Min.Y(), b.Size().X(), b.Size().Y(), actor.DefaultLayer, actor.DefaultLayer)
	require.NoError(t, err)

	broad := box.BroadPhase(velocity)
	return broad.IsCollidingAABB(other)
}

func TestBroadPhaseNeverMissesASweptCollision(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	coord := func(n int) float64 { return float64(rng.Intn(2*n+1) - n) }
	size := func() float64 { return float64(rng.Intn(21)) }

	for i := 0; i < 1000; i++ {
		a := rect(coord(50), coord(50), size(), size())
		b := rect(coord(50), coord(50), size(), size())
		velocity := mgl64.Vec2{coord(40), coord(40)}

		if Solve(a, b, velocity).Collided {
			require.True(t, broadPhaseOverlaps(t, a, velocity, b),
				"case %d: swept hit of %v by %v against %v was culled", i, a, velocity, b)
		}

		// any overlap at a sampled time of the sweep must be inside the broad phase too
		for _, step := range []float64{0, 0.25, 0.5, 0.75, 1} {
			if a.Translate(velocity.Mul(step)).Overlaps(b) {
				require.True(t, broadPhaseOverlaps(t, a, velocity, b),
					"case %d: overlap at t=%v of %v by %v against %v was culled", i, step, a, velocity, b)
			}
		}
	}
}
