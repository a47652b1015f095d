package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// DayOccupancy собранная картина занятости дня провайдера:
// рабочее окно и все занятые периоды, включая перерыв и записи клиентов
type DayOccupancy struct {
	Window   domain.WorkingWindow
	Occupied []*domain.OccupiedPeriod
}

// Service проверяет доступность времени в календаре провайдера
// Внутри транзакции репозитории читают строки с блокировкой, поэтому
// проверка и последующая вставка образуют атомарную пару
type Service struct {
	appointmentRepo AppointmentRepository
	occupiedRepo    OccupiedRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewService создает сервис проверки доступности
func NewService(
	appointmentRepo AppointmentRepository,
	occupiedRepo OccupiedRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		occupiedRepo:    occupiedRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// GetDayOccupancy собирает рабочее окно и занятые периоды на дату
// Перерыв из недельного расписания материализуется как занятый период
// Возвращает ErrDayOff, если провайдер в этот день не работает
func (s *Service) GetDayOccupancy(ctx context.Context, providerID int64, date time.Time) (*DayOccupancy, error) {
	sched, err := s.scheduleRepo.GetByProviderAndWeekday(ctx, providerID, date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrDayOff
		}
		s.logger.Error("GetDayOccupancy: schedule repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetDayOccupancy - schedule repository error: %v", ErrInternal, err)
	}

	periods, err := s.occupiedRepo.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		s.logger.Error("GetDayOccupancy: occupied repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetDayOccupancy - occupied repository error: %v", ErrInternal, err)
	}

	occupied := make([]*domain.OccupiedPeriod, 0, len(periods)+1)
	occupied = append(occupied, periods...)

	if breakPeriod := sched.BreakPeriod(date); breakPeriod != nil {
		occupied = append(occupied, breakPeriod)
	}

	// Записи клиентов тоже занимают время. Обычно они уже представлены
	// периодами kind=appointment, но читаем таблицу записей отдельно:
	// слияние пересекающихся диапазонов дубликаты поглощает
	appointments, err := s.appointmentRepo.GetByProviderAndDate(ctx, providerID, date, false)
	if err != nil {
		s.logger.Error("GetDayOccupancy: appointment repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetDayOccupancy - appointment repository error: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if !appt.BlocksCalendar() {
			continue
		}
		occupied = append(occupied, &domain.OccupiedPeriod{
			ProviderID:    providerID,
			Date:          date,
			StartMinutes:  appt.StartMinutes,
			EndMinutes:    appt.EndMinutes,
			Kind:          domain.KindAppointment,
			AppointmentID: ptr.Ptr(appt.ID),
		})
	}

	return &DayOccupancy{
		Window:   sched.Window(),
		Occupied: occupied,
	}, nil
}

// CheckRange проверяет, что интервал [startMinutes, endMinutes) свободен
// Возвращает nil, если время можно занять, либо одну из ошибок:
// ErrDayOff, ErrOutsideWorkingHours, ErrTimeConflict
func (s *Service) CheckRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error {
	if startMinutes >= endMinutes || startMinutes < 0 || endMinutes > domain.MinutesPerDay {
		return ErrInvalidTimeRange
	}

	occupancy, err := s.GetDayOccupancy(ctx, providerID, date)
	if err != nil {
		return err
	}

	if !occupancy.Window.Contains(startMinutes, endMinutes) {
		return ErrOutsideWorkingHours
	}

	for _, period := range occupancy.Occupied {
		if period.Overlaps(startMinutes, endMinutes) {
			return ErrTimeConflict
		}
	}

	return nil
}

// CheckRangeExcluding проверяет интервал, игнорируя периоды конкретной записи
// Используется при переносе: старое время записи не должно блокировать новое
func (s *Service) CheckRangeExcluding(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int, excludeAppointmentID int64) error {
	if startMinutes >= endMinutes || startMinutes < 0 || endMinutes > domain.MinutesPerDay {
		return ErrInvalidTimeRange
	}

	occupancy, err := s.GetDayOccupancy(ctx, providerID, date)
	if err != nil {
		return err
	}

	if !occupancy.Window.Contains(startMinutes, endMinutes) {
		return ErrOutsideWorkingHours
	}

	for _, period := range occupancy.Occupied {
		if period.AppointmentID != nil && *period.AppointmentID == excludeAppointmentID {
			continue
		}
		if period.Overlaps(startMinutes, endMinutes) {
			return ErrTimeConflict
		}
	}

	return nil
}
