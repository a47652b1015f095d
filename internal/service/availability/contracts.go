package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, includeInactive bool) ([]*domain.Appointment, error)
}

// OccupiedRepository интерфейс репозитория занятых периодов
type OccupiedRepository interface {
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.OccupiedPeriod, error)
}

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	GetByProviderAndWeekday(ctx context.Context, providerID int64, weekday time.Weekday) (*domain.ProviderSchedule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
