package domain

import "time"

// WorkingWindow is a contiguous [start, end) range of minutes since midnight
// during which a provider accepts bookings
type WorkingWindow struct {
	StartMinutes int
	EndMinutes   int
}

// IsValid returns true if the window has a positive length inside one day
func (w WorkingWindow) IsValid() bool {
	return w.StartMinutes >= 0 && w.StartMinutes < w.EndMinutes && w.EndMinutes < MinutesPerDay
}

// Duration returns the window length in minutes
func (w WorkingWindow) Duration() int {
	return w.EndMinutes - w.StartMinutes
}

// Contains reports whether [start, end) lies fully inside the window
func (w WorkingWindow) Contains(startMinutes, endMinutes int) bool {
	return startMinutes >= w.StartMinutes && endMinutes <= w.EndMinutes
}

// ProviderSchedule is one weekly working-hours row of a provider:
// a working window for a weekday with an optional break inside it
type ProviderSchedule struct {
	ID           int64
	ProviderID   int64
	Weekday      time.Weekday
	StartMinutes int
	EndMinutes   int

	// Перерыв внутри рабочего окна (опционально)
	BreakStartMinutes *int
	BreakEndMinutes   *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the schedule row's working window
func (s *ProviderSchedule) Window() WorkingWindow {
	return WorkingWindow{StartMinutes: s.StartMinutes, EndMinutes: s.EndMinutes}
}

// HasBreak returns true if the row carries a configured break
func (s *ProviderSchedule) HasBreak() bool {
	return s.BreakStartMinutes != nil && s.BreakEndMinutes != nil &&
		*s.BreakStartMinutes < *s.BreakEndMinutes
}

// BreakPeriod returns the break as an occupied period for the given date,
// or nil when no break is configured
func (s *ProviderSchedule) BreakPeriod(date time.Time) *OccupiedPeriod {
	if !s.HasBreak() {
		return nil
	}
	return &OccupiedPeriod{
		ProviderID:   s.ProviderID,
		Date:         date,
		StartMinutes: *s.BreakStartMinutes,
		EndMinutes:   *s.BreakEndMinutes,
		Kind:         KindBreak,
	}
}
