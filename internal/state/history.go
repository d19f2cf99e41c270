package state

import (
	"image"
	"log"
)

// HistoryCapacity is how many undo steps are kept.
const HistoryCapacity = 6

// History is a fixed-size ring of full-surface snapshots, most recent
// last. Pushing onto a full ring drops the oldest entry.
type History struct {
	entries [HistoryCapacity]*image.RGBA
	start   int
	n       int
}

// Push appends a snapshot, evicting the oldest when full.
func (h *History) Push(snap *image.RGBA) {
	if snap == nil {
		return
	}
	if h.n == HistoryCapacity {
		h.entries[h.start] = nil
		h.start = (h.start + 1) % HistoryCapacity
		h.n--
		log.Println("[HISTORY] Capacity reached, oldest snapshot dropped")
	}
	h.entries[(h.start+h.n)%HistoryCapacity] = snap
	h.n++
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (*image.RGBA, bool) {
	if h.n == 0 {
		return nil, false
	}
	i := (h.start + h.n - 1) % HistoryCapacity
	snap := h.entries[i]
	h.entries[i] = nil
	h.n--
	return snap, true
}

func (h *History) Len() int { return h.n }

// Clear drops every snapshot. This cannot be undone.
func (h *History) Clear() {
	h.entries = [HistoryCapacity]*image.RGBA{}
	h.start = 0
	h.n = 0
}
