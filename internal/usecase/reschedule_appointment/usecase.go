package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	availabilitySvc "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для переноса записи на новое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	occupiedRepo    OccupiedRepository
	availability    AvailabilityService
	txManager       TransactionManager
	timeProvider    TimeProvider
	bufferMinutes   int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	occupiedRepo OccupiedRepository,
	availability AvailabilityService,
	txManager TransactionManager,
	bufferMinutes int,
	logger Logger,
) *UseCase {
	if bufferMinutes < 0 {
		bufferMinutes = domain.DefaultBufferMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		occupiedRepo:    occupiedRepo,
		availability:    availability,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		bufferMinutes:   bufferMinutes,
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи
// Старые периоды (запись + буфер) освобождаются и новые занимаются
// в одной сериализуемой транзакции; при недоступности нового времени
// состояние не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, user=%d, newDate=%s, newTime=%s",
		req.AppointmentID, req.UserID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Новая дата не в прошлом
	if err := validateDate(req.NewDate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	newStart := req.NewStartTime.Minutes()

	// 3. Переносим в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем запись с блокировкой строки
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 3.2. Переносить запись могут только её клиент и её провайдер
		if appt.ClientID != req.UserID && appt.ProviderID != req.UserID {
			return ErrAccessDenied
		}

		// 3.3. Завершенные и отмененные записи не переносятся
		if !appt.CanBeRescheduled() {
			return ErrCannotReschedule
		}

		// 3.4. Новое время с той же длительностью
		newEnd := newStart + appt.DurationMinutes
		if newEnd > domain.MinutesPerDay {
			return ErrSlotUnavailable
		}

		// 3.5. Проверяем доступность, игнорируя собственные периоды записи
		if err := uc.availability.CheckRangeExcluding(txCtx, appt.ProviderID, req.NewDate, newStart, newEnd, appt.ID); err != nil {
			if isAvailabilityRejection(err) {
				uc.logger.Warn("RescheduleAppointment: slot [%d, %d) unavailable for provider=%d: %v",
					newStart, newEnd, appt.ProviderID, err)
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}

		// 3.6. Освобождаем старые периоды (запись + буфер уходят вместе)
		if err := uc.occupiedRepo.DeleteByAppointmentID(txCtx, appt.ID); err != nil {
			return fmt.Errorf("%w: failed to release old periods: %v", ErrInternal, err)
		}

		// 3.7. Занимаем новое время
		if _, err := uc.occupiedRepo.Create(txCtx, &domain.OccupiedPeriod{
			ProviderID:    appt.ProviderID,
			Date:          req.NewDate,
			StartMinutes:  newStart,
			EndMinutes:    newEnd,
			Kind:          domain.KindAppointment,
			AppointmentID: ptr.Ptr(appt.ID),
		}); err != nil {
			return fmt.Errorf("%w: failed to create occupied period: %v", ErrInternal, err)
		}

		// 3.8. Обновляем дату и время записи, статус не меняется
		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.NewDate, newStart, newEnd); err != nil {
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		// 3.9. Хвостовой буфер - best effort, как при создании
		uc.createBuffer(txCtx, appt.ProviderID, req.NewDate, appt.ID, newEnd)

		appt.Date = req.NewDate
		appt.StartMinutes = newStart
		appt.EndMinutes = newEnd
		result = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrCannotReschedule) || errors.Is(err, ErrSlotUnavailable) {
			return nil, err
		}
		uc.logger.Error("RescheduleAppointment: transaction failed for appointment=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d to %s %s",
		result.ID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	startTime, _ := types.NewTimeStringFromMinutes(result.StartMinutes)
	endTime, _ := types.NewTimeStringFromMinutes(result.EndMinutes)

	return &Response{
		ID:         result.ID,
		Reference:  result.Reference,
		ProviderID: result.ProviderID,
		Date:       result.Date,
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     string(result.Status),
	}, nil
}

// createBuffer вставляет хвостовой буфер после перенесенной записи
func (uc *UseCase) createBuffer(txCtx context.Context, providerID int64, date time.Time, appointmentID int64, endMinutes int) {
	if uc.bufferMinutes <= 0 {
		return
	}

	bufferEnd := endMinutes + uc.bufferMinutes
	if bufferEnd > domain.MinutesPerDay {
		bufferEnd = domain.MinutesPerDay
	}
	if bufferEnd <= endMinutes {
		return
	}

	// Собственные периоды записи буферу не мешают, он начинается после неё
	if err := uc.availability.CheckRangeExcluding(txCtx, providerID, date, endMinutes, bufferEnd, appointmentID); err != nil {
		uc.logger.Info("RescheduleAppointment: skipping buffer [%d, %d) for appointment id=%d: %v",
			endMinutes, bufferEnd, appointmentID, err)
		return
	}

	if _, err := uc.occupiedRepo.Create(txCtx, &domain.OccupiedPeriod{
		ProviderID:    providerID,
		Date:          date,
		StartMinutes:  endMinutes,
		EndMinutes:    bufferEnd,
		Kind:          domain.KindSystem,
		AppointmentID: ptr.Ptr(appointmentID),
	}); err != nil {
		uc.logger.Warn("RescheduleAppointment: failed to create buffer for appointment id=%d: %v", appointmentID, err)
	}
}

// isAvailabilityRejection отличает штатный отказ проверки доступности
// от технической ошибки
func isAvailabilityRejection(err error) bool {
	return errors.Is(err, availabilitySvc.ErrDayOff) ||
		errors.Is(err, availabilitySvc.ErrOutsideWorkingHours) ||
		errors.Is(err, availabilitySvc.ErrTimeConflict) ||
		errors.Is(err, availabilitySvc.ErrInvalidTimeRange)
}
