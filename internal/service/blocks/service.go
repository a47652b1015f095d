package blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	occupiedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/occupied"
	"github.com/m04kA/SMC-AppointmentService/internal/service/blocks/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис ручных блокировок календаря провайдера
type Service struct {
	appointmentRepo AppointmentRepository
	occupiedRepo    OccupiedRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(
	appointmentRepo AppointmentRepository,
	occupiedRepo OccupiedRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		occupiedRepo:    occupiedRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Block выставляет ручную блокировку времени в календаре провайдера
// Блокировка не должна пересекаться с активными записями клиентов
// Проверка и вставка выполняются в одной сериализуемой транзакции
func (s *Service) Block(ctx context.Context, req *models.BlockTimeRequest) (*models.BlockResponse, error) {
	s.logger.Info("Block: blocking time for provider=%d, date=%s, %s-%s",
		req.ProviderID, req.Date, req.StartTime, req.EndTime)

	// Календарь провайдера меняет только сам провайдер
	if req.UserID != req.ProviderID {
		s.logger.Warn("Block: access denied for user=%d to provider=%d", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	date, startMinutes, endMinutes, err := parseRange(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("Block: invalid input for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxBlockReasonLength {
		s.logger.Warn("Block: reason too long for provider=%d", req.ProviderID)
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	period := &domain.OccupiedPeriod{
		ProviderID:   req.ProviderID,
		Date:         date,
		StartMinutes: startMinutes,
		EndMinutes:   endMinutes,
		Kind:         domain.KindManual,
		Reason:       req.Reason,
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокировка не должна накрывать существующие записи клиентов
		appointments, err := s.appointmentRepo.GetByProviderAndDate(txCtx, req.ProviderID, date, false)
		if err != nil {
			return fmt.Errorf("%w: Block - appointment repository error: %v", ErrInternal, err)
		}

		for _, appt := range appointments {
			if appt.Overlaps(startMinutes, endMinutes) {
				return ErrTimeConflict
			}
		}

		period, err = s.occupiedRepo.Create(txCtx, period)
		if err != nil {
			return fmt.Errorf("%w: Block - occupied repository error: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			s.logger.Warn("Block: time conflict for provider=%d, date=%s", req.ProviderID, req.Date)
			return nil, ErrTimeConflict
		}
		s.logger.Error("Block: transaction failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	s.logger.Info("Block: successfully blocked time id=%d for provider=%d", period.ID, req.ProviderID)
	return models.FromDomainPeriod(period), nil
}

// Unblock снимает ручную блокировку по точному диапазону
// Периоды других типов (перерывы, записи, буферы) снять нельзя
func (s *Service) Unblock(ctx context.Context, req *models.UnblockTimeRequest) error {
	s.logger.Info("Unblock: unblocking time for provider=%d, date=%s, %s-%s",
		req.ProviderID, req.Date, req.StartTime, req.EndTime)

	if req.UserID != req.ProviderID {
		s.logger.Warn("Unblock: access denied for user=%d to provider=%d", req.UserID, req.ProviderID)
		return ErrAccessDenied
	}

	date, startMinutes, endMinutes, err := parseRange(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("Unblock: invalid input for provider=%d: %v", req.ProviderID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.occupiedRepo.DeleteManualByRange(ctx, req.ProviderID, date, startMinutes, endMinutes)
	if err != nil {
		if errors.Is(err, occupiedRepo.ErrPeriodNotFound) {
			s.logger.Warn("Unblock: block not found for provider=%d, date=%s", req.ProviderID, req.Date)
			return ErrBlockNotFound
		}
		s.logger.Error("Unblock: repository error for provider=%d: %v", req.ProviderID, err)
		return fmt.Errorf("%w: Unblock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Unblock: successfully unblocked time for provider=%d, date=%s", req.ProviderID, req.Date)
	return nil
}

// parseRange разбирает дату и границы интервала из строковых полей запроса
func parseRange(dateStr, startStr, endStr string) (time.Time, int, int, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid date: %v", err)
	}

	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid start time: %v", err)
	}

	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("invalid end time: %v", err)
	}

	if !start.IsBefore(end) {
		return time.Time{}, 0, 0, fmt.Errorf("start time must be before end time")
	}

	return date, start.Minutes(), end.Minutes(), nil
}
