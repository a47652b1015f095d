package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a client's booking of a provider service
// for a concrete date and time range
type Appointment struct {
	ID         int64
	Reference  uuid.UUID // Публичный идентификатор для клиентских уведомлений
	ProviderID int64
	ClientID   int64
	ServiceID  int64

	Date         time.Time
	StartMinutes int
	EndMinutes   int
	Status       AppointmentStatus

	// Denormalized data for history
	ServiceName     string
	DurationMinutes int
	Notes           *string

	// Completion protocol: only the salted hash of the one-time code
	// is persisted, the plaintext goes to the client once at booking time
	ValidationCodeHash string
	ValidationAttempts int

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment is still awaiting completion
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// BlocksCalendar returns true if the appointment occupies calendar time:
// every non-cancelled appointment does, including completed ones
func (a *Appointment) BlocksCalendar() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCompleted returns true if the completion code may still be verified
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsLockedOut returns true if the validation attempt limit has been reached
func (a *Appointment) IsLockedOut(maxAttempts int) bool {
	return a.ValidationAttempts >= maxAttempts
}

// Overlaps reports whether the appointment time range overlaps [start, end)
// Touching boundaries do not count as an overlap
func (a *Appointment) Overlaps(startMinutes, endMinutes int) bool {
	return a.StartMinutes < endMinutes && a.EndMinutes > startMinutes
}

// ProviderAppointmentsFilter фильтр для выборки записей провайдера
type ProviderAppointmentsFilter struct {
	ProviderID      int64      // Обязательный параметр
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *AppointmentStatus
	IncludeInactive bool // Включать ли отмененные записи
}
