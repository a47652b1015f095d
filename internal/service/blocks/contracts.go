package blocks

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
	Create(ctx context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.OccupiedPeriod, error)
	DeleteManualByRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
