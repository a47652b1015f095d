package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// Request модель запроса на отмену записи
type Request struct {
	UserID             int64  // ID пользователя, выполняющего отмену
	AppointmentID      int64  // ID отменяемой записи
	CancellationReason string // Причина отмены
}

// UseCase use case для отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	occupiedRepo    OccupiedRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	occupiedRepo OccupiedRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		occupiedRepo:    occupiedRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи
// Запись и её периоды (включая буфер) освобождаются одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CancelAppointment: appointment=%d, user=%d", req.AppointmentID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return err
	}

	// 2. Отменяем в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем запись с блокировкой строки
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Отменять запись могут только её клиент и её провайдер
		if appt.ClientID != req.UserID && appt.ProviderID != req.UserID {
			return ErrAccessDenied
		}

		// 2.3. Завершенные и уже отмененные записи не отменяются
		if !appt.CanBeCancelled() {
			return ErrCannotCancel
		}

		// 2.4. Освобождаем периоды: запись и буфер уходят вместе
		if err := uc.occupiedRepo.DeleteByAppointmentID(txCtx, appt.ID); err != nil {
			return fmt.Errorf("%w: failed to release periods: %v", ErrInternal, err)
		}

		// 2.5. Помечаем запись отмененной
		if err := uc.appointmentRepo.Cancel(txCtx, appt.ID, req.CancellationReason); err != nil {
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrCannotCancel) {
			uc.logger.Warn("CancelAppointment: cannot cancel appointment=%d: %v", req.AppointmentID, err)
			return err
		}
		uc.logger.Error("CancelAppointment: transaction failed for appointment=%d: %v", req.AppointmentID, err)
		return err
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d", req.AppointmentID)
	return nil
}

// validateRequest валидирует входные данные запроса на отмену
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if len(req.CancellationReason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
