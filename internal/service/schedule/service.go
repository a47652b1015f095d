package schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис недельного расписания провайдеров
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает недельное расписание провайдера
func (s *Service) GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for provider=%d", providerID)

	schedules, err := s.scheduleRepo.GetByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	if len(schedules) == 0 {
		s.logger.Warn("GetSchedule: no schedule for provider=%d", providerID)
		return nil, ErrScheduleNotFound
	}

	s.logger.Info("GetSchedule: successfully fetched %d schedule rows for provider=%d", len(schedules), providerID)
	return models.FromDomainSchedules(providerID, schedules), nil
}

// ReplaceSchedule атомарно заменяет недельное расписание провайдера
// Доступно только самому провайдеру
// Существующие записи клиентов при смене расписания не трогаем:
// они остаются в календаре и разрешаются на стороне провайдера
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for provider=%d, days=%d", req.ProviderID, len(req.Days))

	if req.UserID != req.ProviderID {
		s.logger.Warn("ReplaceSchedule: access denied for user=%d to provider=%d", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	schedules := make([]*domain.ProviderSchedule, 0, len(req.Days))
	seen := make(map[int]bool, len(req.Days))

	for _, day := range req.Days {
		if seen[day.Weekday] {
			s.logger.Warn("ReplaceSchedule: duplicate weekday=%d for provider=%d", day.Weekday, req.ProviderID)
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		sched, err := day.ToDomain(req.ProviderID)
		if err != nil {
			s.logger.Warn("ReplaceSchedule: invalid day for provider=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		schedules = append(schedules, sched)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceForProvider(txCtx, req.ProviderID, schedules)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: transaction failed for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: successfully replaced schedule for provider=%d", req.ProviderID)
	return models.FromDomainSchedules(req.ProviderID, schedules), nil
}
