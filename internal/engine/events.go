package engine

import "time"

// EventType is the kind of pointer event.
type EventType string

const (
	Down   EventType = "down"
	Move   EventType = "move"
	Up     EventType = "up"
	Cancel EventType = "cancel"
)

// PointerEvent is one sample from the pointer stream. Time is measured
// from any fixed origin, as long as it is monotonic within a session.
type PointerEvent struct {
	Type     EventType     `json:"type"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Pressure float64       `json:"pressure,omitempty"`
	Time     time.Duration `json:"time"`
}

// Signals are the flags callers use to enable their own controls.
type Signals struct {
	HasPainted bool `json:"has_painted"`
	CanUndo    bool `json:"can_undo"`
	Unlocked   bool `json:"unlocked"`
}
