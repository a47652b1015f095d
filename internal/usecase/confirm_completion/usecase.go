package confirm_completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	validationcode "github.com/m04kA/SMC-AppointmentService/internal/service/validationcode"
)

// Outcome результат проверки кода подтверждения
type Outcome string

const (
	// OutcomeCompleted код верен, запись завершена
	OutcomeCompleted Outcome = "completed"
	// OutcomeMismatch код неверен, остались попытки
	OutcomeMismatch Outcome = "mismatch"
	// OutcomeLockedOut попытки исчерпаны, дальнейшие проверки отклоняются
	OutcomeLockedOut Outcome = "locked_out"
)

// Request модель запроса на подтверждение завершения услуги
type Request struct {
	UserID        int64  // ID пользователя (должен быть провайдером записи)
	AppointmentID int64  // ID записи
	Code          string // Шестизначный код от клиента
}

// Response модель ответа с результатом проверки
type Response struct {
	Outcome Outcome // Итог проверки

	// RemainingAttempts оставшиеся попытки (только при Outcome=mismatch)
	RemainingAttempts *int
}

// UseCase use case подтверждения завершения услуги кодом клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	codeVerifier    ValidationCodeVerifier
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	maxAttempts     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	codeVerifier ValidationCodeVerifier,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	maxAttempts int,
	logger Logger,
) *UseCase {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultValidationMaxAttempts
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		codeVerifier:    codeVerifier,
		notifyClient:    notifyClient,
		txManager:       txManager,
		maxAttempts:     maxAttempts,
		logger:          logger,
	}
}

// Execute выполняет use case подтверждения завершения
// Проверка и инкремент счетчика попыток атомарны: конкурентные вызовы
// не могут обойти лимит. После исчерпания попыток даже верный код
// возвращает locked_out, разблокировка - внешний процесс поддержки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmCompletion: appointment=%d, user=%d", req.AppointmentID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmCompletion: validation failed: %v", err)
		return nil, err
	}

	var (
		outcome Outcome
		remain  int
		appt    *domain.Appointment
	)

	// 2. Проверяем код в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем запись с блокировкой строки
		var err error
		appt, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Код предъявляет клиент, принимает только провайдер записи
		if appt.ProviderID != req.UserID {
			return ErrAccessDenied
		}

		// 2.3. Завершенные и отмененные записи не подтверждаются
		if !appt.CanBeCompleted() {
			return ErrCannotComplete
		}

		// 2.4. Блокировка необратима: верный код её не снимает
		if appt.IsLockedOut(uc.maxAttempts) {
			outcome = OutcomeLockedOut
			return nil
		}

		// 2.5. Сравнение за константное время
		if err := uc.codeVerifier.Verify(appt.ValidationCodeHash, req.Code); err != nil {
			if !errors.Is(err, validationcode.ErrCodeMismatch) {
				return fmt.Errorf("%w: code verification failed: %v", ErrInternal, err)
			}

			attempts, err := uc.appointmentRepo.IncrementValidationAttempts(txCtx, appt.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to increment attempts: %v", ErrInternal, err)
			}

			appt.ValidationAttempts = attempts
			if attempts >= uc.maxAttempts {
				outcome = OutcomeLockedOut
			} else {
				outcome = OutcomeMismatch
				remain = uc.maxAttempts - attempts
			}
			return nil
		}

		// 2.6. Код верен - услуга завершена
		if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.StatusCompleted); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		outcome = OutcomeCompleted
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrCannotComplete) {
			uc.logger.Warn("ConfirmCompletion: rejected for appointment=%d: %v", req.AppointmentID, err)
			return nil, err
		}
		uc.logger.Error("ConfirmCompletion: transaction failed for appointment=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	// 3. Уведомления после коммита, сбои доставки только логируются
	switch outcome {
	case OutcomeCompleted:
		uc.logger.Info("ConfirmCompletion: appointment id=%d completed", appt.ID)
		uc.notifyCompletion(ctx, appt)
		return &Response{Outcome: OutcomeCompleted}, nil

	case OutcomeLockedOut:
		uc.logger.Warn("ConfirmCompletion: appointment id=%d locked out after %d attempts",
			appt.ID, appt.ValidationAttempts)
		uc.notifyLockout(ctx, appt)
		return &Response{Outcome: OutcomeLockedOut}, nil

	default:
		uc.logger.Info("ConfirmCompletion: code mismatch for appointment id=%d, %d attempts remaining",
			appt.ID, remain)
		return &Response{Outcome: OutcomeMismatch, RemainingAttempts: &remain}, nil
	}
}

func (uc *UseCase) notifyCompletion(ctx context.Context, appt *domain.Appointment) {
	msg := notifyservice.CompletionMessage{
		ClientID:             appt.ClientID,
		AppointmentReference: appt.Reference,
		ServiceName:          appt.ServiceName,
	}
	if err := uc.notifyClient.NotifyCompletion(ctx, msg); err != nil {
		uc.logger.Error("ConfirmCompletion: failed to notify completion for appointment id=%d: %v", appt.ID, err)
	}
}

func (uc *UseCase) notifyLockout(ctx context.Context, appt *domain.Appointment) {
	msg := notifyservice.LockoutMessage{
		ClientID:             appt.ClientID,
		ProviderID:           appt.ProviderID,
		AppointmentReference: appt.Reference,
		Attempts:             appt.ValidationAttempts,
	}
	if err := uc.notifyClient.NotifyLockout(ctx, msg); err != nil {
		uc.logger.Error("ConfirmCompletion: failed to notify lockout for appointment id=%d: %v", appt.ID, err)
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if len(req.Code) != domain.ValidationCodeLength {
		return fmt.Errorf("%w: code must be exactly %d digits", ErrInvalidInput, domain.ValidationCodeLength)
	}
	for _, c := range req.Code {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: code must contain only digits", ErrInvalidInput)
		}
	}

	return nil
}
