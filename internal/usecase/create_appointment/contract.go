package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// OccupiedRepository интерфейс репозитория занятых периодов
type OccupiedRepository interface {
	Create(ctx context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error)
}

// AvailabilityService интерфейс сервиса доступности
// Внутри транзакции проверка читает состояние дня с блокировкой строк
type AvailabilityService interface {
	CheckRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*catalogservice.Provider, error)
	GetServiceForProvider(ctx context.Context, providerID, serviceID int64) (*catalogservice.Service, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendValidationCode(ctx context.Context, msg notifyservice.ValidationCodeMessage) error
}

// ValidationCodeIssuer интерфейс генерации кодов подтверждения
type ValidationCodeIssuer interface {
	Issue() (code string, hash string, err error)
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
