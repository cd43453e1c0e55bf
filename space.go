package slide

import (
	"iter"

	"github.com/akmonengine/slide/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Space is the set of every collidable box. Membership is by identity: adding the same
// *actor.Box twice keeps a single member. Iteration follows insertion order, which is also
// the tie-break order when two candidates are hit at exactly the same time.
//
// A Space must not be mutated while a body is scanning it.
type Space struct {
	boxes []*actor.Box
	index map[*actor.Box]int
}

func NewSpace() *Space {
	return &Space{index: make(map[*actor.Box]int)}
}

// Add inserts a box, returning false if it already was a member
func (s *Space) Add(box *actor.Box) bool {
	if s.index == nil {
		s.index = make(map[*actor.Box]int)
	}
	if _, ok := s.index[box]; ok {
		return false
	}

	s.index[box] = len(s.boxes)
	s.boxes = append(s.boxes, box)
	return true
}

// Remove deletes a box, returning false if it was not a member
func (s *Space) Remove(box *actor.Box) bool {
	k, ok := s.index[box]
	if !ok {
		return false
	}

	s.boxes = append(s.boxes[:k], s.boxes[k+1:]...)
	delete(s.index, box)
	for i := k; i < len(s.boxes); i++ {
		s.index[s.boxes[i]] = i
	}
	return true
}

func (s *Space) Contains(box *actor.Box) bool {
	_, ok := s.index[box]
	return ok
}

func (s *Space) Len() int {
	return len(s.boxes)
}

// All iterates over the members in insertion order
func (s *Space) All() iter.Seq[*actor.Box] {
	return func(yield func(*actor.Box) bool) {
		for _, box := range s.boxes {
			if !yield(box) {
				return
			}
		}
	}
}

// QueryPoint returns every member containing the point, in iteration order
func (s *Space) QueryPoint(point mgl64.Vec2) []*actor.Box {
	var hits []*actor.Box
	for box := range s.All() {
		if box.IsCollidingPoint(point) {
			hits = append(hits, box)
		}
	}
	return hits
}

// QueryOverlaps returns every member the collidable statically overlaps, skipping itself
func (s *Space) QueryOverlaps(c actor.Collidable) []*actor.Box {
	var hits []*actor.Box
	for box := range s.All() {
		if c.Collider() == box {
			continue
		}
		if c.IsCollidingAABB(box) {
			hits = append(hits, box)
		}
	}
	return hits
}
