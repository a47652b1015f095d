package confirm_completion

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	IncrementValidationAttempts(ctx context.Context, id int64) (int, error)
}

// ValidationCodeVerifier интерфейс проверки кодов подтверждения
type ValidationCodeVerifier interface {
	Verify(storedHash string, code string) error
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	NotifyLockout(ctx context.Context, msg notifyservice.LockoutMessage) error
	NotifyCompletion(ctx context.Context, msg notifyservice.CompletionMessage) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
