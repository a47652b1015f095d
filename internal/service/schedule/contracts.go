package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	GetByProvider(ctx context.Context, providerID int64) ([]*domain.ProviderSchedule, error)
	GetByProviderAndWeekday(ctx context.Context, providerID int64, weekday time.Weekday) (*domain.ProviderSchedule, error)
	ReplaceForProvider(ctx context.Context, providerID int64, schedules []*domain.ProviderSchedule) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
