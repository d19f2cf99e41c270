package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var gestureCounter uint64

// NewSessionID returns a unique identifier for a drawing session.
func NewSessionID() string {
	return uuid.NewString()
}

// nextGesture numbers gestures across every session in the process.
func nextGesture() uint64 {
	return atomic.AddUint64(&gestureCounter, 1)
}

// GestureID names a gesture within a session, e.g. for log lines.
func GestureID(session string, n uint64) string {
	return fmt.Sprintf("gesture-%s-%d", session, n)
}
