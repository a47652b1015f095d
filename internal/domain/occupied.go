package domain

import "time"

// OccupiedKind is the closed set of reasons a time range is unavailable
type OccupiedKind string

const (
	// KindBreak пауза из недельного расписания провайдера
	KindBreak OccupiedKind = "break"
	// KindAppointment время, занятое записью клиента
	KindAppointment OccupiedKind = "appointment"
	// KindManual блокировка, выставленная провайдером вручную
	KindManual OccupiedKind = "manual"
	// KindSystem системный буфер после записи
	KindSystem OccupiedKind = "system"
)

// IsValid returns true for kinds belonging to the closed set
func (k OccupiedKind) IsValid() bool {
	switch k {
	case KindBreak, KindAppointment, KindManual, KindSystem:
		return true
	}
	return false
}

// OccupiedPeriod represents a persisted time range unavailable for booking
// on a provider's calendar day
type OccupiedPeriod struct {
	ID           int64
	ProviderID   int64
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	Kind         OccupiedKind

	// AppointmentID связывает период с записью (kind=appointment и kind=system)
	AppointmentID *int64
	Reason        *string

	CreatedAt time.Time
}

// Overlaps reports whether the period overlaps [start, end)
// Touching boundaries do not count as an overlap
func (p *OccupiedPeriod) Overlaps(startMinutes, endMinutes int) bool {
	return p.StartMinutes < endMinutes && p.EndMinutes > startMinutes
}

// IsValid returns true if the period has a positive length and a known kind
func (p *OccupiedPeriod) IsValid() bool {
	return p.StartMinutes < p.EndMinutes && p.Kind.IsValid()
}
