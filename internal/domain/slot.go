package domain

import "fmt"

// Slot represents a concrete bookable [start, end) candidate
// sized to a specific service duration
type Slot struct {
	StartMinutes int
	EndMinutes   int
	IsAvailable  bool
}

// NewSlot builds a slot of the given duration starting at startMinutes
func NewSlot(startMinutes, durationMinutes int) (Slot, error) {
	if durationMinutes <= 0 {
		return Slot{}, fmt.Errorf("slot duration must be positive, got %d", durationMinutes)
	}
	end := startMinutes + durationMinutes
	if startMinutes < 0 || end > MinutesPerDay {
		return Slot{}, fmt.Errorf("slot [%d, %d) is out of day range", startMinutes, end)
	}
	return Slot{StartMinutes: startMinutes, EndMinutes: end, IsAvailable: true}, nil
}

// Duration returns the slot length in minutes
func (s Slot) Duration() int {
	return s.EndMinutes - s.StartMinutes
}
