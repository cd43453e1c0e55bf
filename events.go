package slide

import (
	"github.com/akmonengine/slide/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	CONTACT_ENTER EventType = iota
	CONTACT_STAY
	CONTACT_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ContactEnterEvent is sent the first tick a body hits another box
type ContactEnterEvent struct {
	Body   *Body
	Other  *actor.Box
	Normal mgl64.Vec2
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

// ContactStayEvent is sent on every following tick the body keeps hitting the box
type ContactStayEvent struct {
	Body   *Body
	Other  *actor.Box
	Normal mgl64.Vec2
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

// ContactExitEvent is sent the first tick the body no longer hits the box
type ContactExitEvent struct {
	Body  *Body
	Other *actor.Box
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

type pairKey struct {
	body  *Body
	other *actor.Box
}

type activePair struct {
	pairKey
	normal mgl64.Vec2
}

// Events collects contacts during a World step and dispatches Enter/Stay/Exit events
// once every body has moved. Pairs are kept in recording order so dispatch is deterministic.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previousActivePairs []activePair
	currentActivePairs  []activePair
	previousIndex       map[pairKey]bool
	currentIndex        map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:     make(map[EventType][]EventListener),
		buffer:        make([]Event, 0, 64),
		previousIndex: make(map[pairKey]bool),
		currentIndex:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts registers the contacts a body met during this step.
// A box hit several times in one step counts once, with its first normal.
func (e *Events) recordContacts(body *Body, contacts []Contact) {
	if e.currentIndex == nil {
		*e = NewEvents()
	}

	for _, c := range contacts {
		key := pairKey{body: body, other: c.Other}
		if e.currentIndex[key] {
			continue
		}
		e.currentIndex[key] = true
		e.currentActivePairs = append(e.currentActivePairs, activePair{pairKey: key, normal: c.Normal})
	}
}

// forget drops every tracked pair involving the box, without emitting Exit events
func (e *Events) forget(box *actor.Box) {
	filter := func(pairs []activePair, index map[pairKey]bool) []activePair {
		n := 0
		for _, p := range pairs {
			if &p.body.Box == box || p.other == box {
				delete(index, p.pairKey)
				continue
			}
			pairs[n] = p
			n++
		}
		return pairs[:n]
	}

	e.previousActivePairs = filter(e.previousActivePairs, e.previousIndex)
	e.currentActivePairs = filter(e.currentActivePairs, e.currentIndex)
}

// processContactEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processContactEvents() {
	for _, pair := range e.currentActivePairs {
		if e.previousIndex[pair.pairKey] {
			e.buffer = append(e.buffer, ContactStayEvent{Body: pair.body, Other: pair.other, Normal: pair.normal})
		} else {
			e.buffer = append(e.buffer, ContactEnterEvent{Body: pair.body, Other: pair.other, Normal: pair.normal})
		}
	}

	for _, pair := range e.previousActivePairs {
		if !e.currentIndex[pair.pairKey] {
			e.buffer = append(e.buffer, ContactExitEvent{Body: pair.body, Other: pair.other})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs[:0]
	e.previousIndex, e.currentIndex = e.currentIndex, e.previousIndex
	clear(e.currentIndex)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if e.currentIndex == nil {
		*e = NewEvents()
	}
	e.processContactEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
