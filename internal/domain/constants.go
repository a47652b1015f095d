package domain

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// Default configuration values
const (
	// DefaultBufferMinutes системный буфер после записи
	DefaultBufferMinutes = 15
	// DefaultValidationMaxAttempts попытки ввода кода подтверждения до блокировки
	DefaultValidationMaxAttempts = 3
	// ValidationCodeLength длина одноразового кода подтверждения
	ValidationCodeLength = 6
)

// Duration thresholds for slot candidate generation
const (
	// LongServiceMinutes от этой длительности кандидаты только на круглые часы
	LongServiceMinutes = 180
	// MidServiceMinutes от этой длительности кандидаты на круглые часы и получасы
	MidServiceMinutes = 90
	// ShortServiceGapMinutes пауза между короткими услугами при плотной упаковке
	ShortServiceGapMinutes = 10
	// SnapToleranceMinutes допуск притяжки старта к ближайшему круглому времени
	SnapToleranceMinutes = 10
	// ShortServiceMinutes услуги короче этого получают паузу при упаковке
	ShortServiceMinutes = 60
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxNotesLength            = 500
	MaxBlockReasonLength      = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих время в календаре
// Используется при фильтрации для подсчета пересечений
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих время в календаре
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
