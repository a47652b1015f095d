package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startMinutes, endMinutes int) error
}

// OccupiedRepository интерфейс репозитория занятых периодов
type OccupiedRepository interface {
	Create(ctx context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error)
	DeleteByAppointmentID(ctx context.Context, appointmentID int64) error
}

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	CheckRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error
	CheckRangeExcluding(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int, excludeAppointmentID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
