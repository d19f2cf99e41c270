package state

import (
	"SprayBoard/internal/paint"
)

// Session is the mutable state of one drawing session. It belongs to a
// single engine and is only touched from the engine's goroutine.
type Session struct {
	ID string

	ColorSpec string
	Color     paint.Color
	CapRadius float64

	HasPainted  bool
	PointerDown bool
	LastPoint   paint.Point
	Gesture     uint64

	// Motion tracks speed, hold time, last sample time and smoothed pressure.
	Motion paint.Estimator
}

// NewSession starts a session with the given color spec and brush cap.
func NewSession(colorSpec string, capRadius float64) *Session {
	s := &Session{ID: NewSessionID(), CapRadius: capRadius}
	s.SetColor(colorSpec)
	s.Motion = paint.NewEstimator()
	return s
}

// SetColor selects the current color. Bad specs fall back silently.
func (s *Session) SetColor(spec string) {
	s.ColorSpec = spec
	s.Color = paint.ParseColor(spec)
}

// BeginGesture marks the pointer as down and numbers the new gesture.
func (s *Session) BeginGesture(p paint.Point) string {
	s.PointerDown = true
	s.LastPoint = p
	s.Gesture = nextGesture()
	return GestureID(s.ID, s.Gesture)
}

// Reset returns the session to its initial state. The color and brush
// cap are user selections and survive.
func (s *Session) Reset() {
	s.HasPainted = false
	s.PointerDown = false
	s.LastPoint = paint.Point{}
	s.Motion = paint.NewEstimator()
}
