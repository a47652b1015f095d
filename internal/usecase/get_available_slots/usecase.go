package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	availabilitySvc "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
)

// UseCase use case для получения доступных слотов записи
type UseCase struct {
	availability  AvailabilityService
	catalogClient CatalogServiceClient
	policy        scheduling.CandidatePolicy
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityService,
	catalogClient CatalogServiceClient,
	policy scheduling.CandidatePolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability:  availability,
		catalogClient: catalogClient,
		policy:        policy,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Слоты - подсказка для клиента, а не резервация: финальная проверка
// доступности выполняется в момент бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, provider=%d, service=%d, date=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем провайдера
	if _, err := uc.catalogClient.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, catalogClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Получаем услугу с эффективной длительностью
	// (переопределение провайдера поверх каталожной). Недоступность каталога
	// не роняет запрос с 500: клиент получает явный деградированный отказ
	service, err := uc.catalogClient.GetServiceWithGracefulDegradation(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, catalogClient.ErrServiceDegraded) {
			uc.logger.Error("GetAvailableSlots: catalog degraded for service id=%d: %v", req.ServiceID, err)
			return nil, ErrCatalogUnavailable
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		uc.logger.Warn("GetAvailableSlots: service id=%d has invalid duration=%d", req.ServiceID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service duration out of range", ErrInvalidInput)
	}

	// 4. Собираем картину занятости дня
	occupancy, err := uc.availability.GetDayOccupancy(ctx, req.ProviderID, req.Date)
	if err != nil {
		if errors.Is(err, availabilitySvc.ErrDayOff) {
			uc.logger.Info("GetAvailableSlots: provider=%d does not work on %s",
				req.ProviderID, req.Date.Format(domain.DateFormat))
			return uc.emptyResponse(req, service.DurationMinutes), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get day occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to get day occupancy: %v", ErrInternal, err)
	}

	// 5. Отбрасываем некорректные периоды по одному, не валя весь запрос
	valid := uc.filterValidPeriods(occupancy.Occupied, req.ProviderID)

	// 6. Свободные блоки и кандидаты стартов по каждому блоку
	blocks := scheduling.ResolveFreeBlocks(occupancy.Window, valid)

	slots := make([]Slot, 0)
	for _, block := range blocks {
		starts := scheduling.CandidateStarts(block, service.DurationMinutes, uc.policy)
		for _, start := range starts {
			slot, err := makeSlot(start, service.DurationMinutes)
			if err != nil {
				uc.logger.Warn("GetAvailableSlots: skipping candidate start=%d: %v", start, err)
				continue
			}
			slots = append(slots, slot)
		}
	}

	// 7. Fallback: блоки ничего не дали, хотя сырое окно вмещает услугу
	// Такое возможно при битых сохраненных периодах; генерируем кандидатов
	// по всему окну и отфильтровываем занятые, чтобы не вернуть пустоту
	if len(slots) == 0 && occupancy.Window.Duration() >= service.DurationMinutes {
		slots = uc.fallbackSlots(occupancy.Window, valid, service.DurationMinutes)
		if len(slots) > 0 {
			uc.logger.Warn("GetAvailableSlots: fallback produced %d slots for provider=%d, date=%s",
				len(slots), req.ProviderID, req.Date.Format(domain.DateFormat))
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for provider=%d, service=%d, date=%s",
		len(slots), req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}

// filterValidPeriods отсеивает некорректные занятые периоды
// Каждый битый период логируется и пропускается
func (uc *UseCase) filterValidPeriods(periods []*domain.OccupiedPeriod, providerID int64) []domain.OccupiedPeriod {
	valid := make([]domain.OccupiedPeriod, 0, len(periods))
	for _, p := range periods {
		if p == nil {
			continue
		}
		if !p.IsValid() {
			uc.logger.Warn("GetAvailableSlots: skipping malformed occupied period id=%d for provider=%d: [%d, %d) kind=%s",
				p.ID, providerID, p.StartMinutes, p.EndMinutes, p.Kind)
			continue
		}
		valid = append(valid, *p)
	}
	return valid
}

// fallbackSlots генерирует кандидатов по сырому окну и исключает те,
// что пересекаются с валидными занятыми периодами
func (uc *UseCase) fallbackSlots(window domain.WorkingWindow, occupied []domain.OccupiedPeriod, durationMinutes int) []Slot {
	starts := scheduling.CandidateStarts(window, durationMinutes, uc.policy)

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		end := start + durationMinutes
		conflict := false
		for i := range occupied {
			if scheduling.Overlaps(start, end, occupied[i].StartMinutes, occupied[i].EndMinutes) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		slot, err := makeSlot(start, durationMinutes)
		if err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func (uc *UseCase) emptyResponse(req *Request, durationMinutes int) *Response {
	return &Response{
		Date:            req.Date,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Slots:           []Slot{},
	}
}
