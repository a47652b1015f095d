package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	availabilitySvc "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	occupiedRepo    OccupiedRepository
	availability    AvailabilityService
	catalogClient   CatalogServiceClient
	notifyClient    NotifyServiceClient
	codeIssuer      ValidationCodeIssuer
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
	catalogClient CatalogServiceClient,
	notifyClient NotifyServiceClient,
	codeIssuer ValidationCodeIssuer,
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
		catalogClient:   catalogClient,
		notifyClient:    notifyClient,
		codeIssuer:      codeIssuer,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		bufferMinutes:   bufferMinutes,
		logger:          logger,
	}
}

// bookingLeg подготовленное звено записи: все данные собраны и проверены,
// осталось атомарно занять время
type bookingLeg struct {
	serviceID       int64
	serviceName     string
	durationMinutes int
	startMinutes    int
	endMinutes      int
	bufferMinutes   int
	code            string
	codeHash        string
}

// Execute выполняет use case создания записи
// Проверка доступности и вставка выполняются одной сериализуемой
// транзакцией: два конкурентных бронирования пересекающегося времени
// не могут зафиксироваться оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, provider=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Провайдер существует и принимает записи
	if err := uc.checkProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	// 4. Эффективная длительность услуги
	// (переопределение провайдера поверх каталожной)
	service, err := uc.resolveService(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 5. Готовим звено записи
	leg, err := uc.prepareLeg(service, req.StartTime.Minutes(), uc.effectiveBuffer(req))
	if err != nil {
		return nil, err
	}

	// 6. Бронируем в сериализуемой транзакции
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err = uc.bookLeg(txCtx, req.ProviderID, req.UserID, req.Date, req.Notes, leg)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, reference=%s",
		created.ID, created.Reference)

	// 7. Отправляем код клиенту уже после коммита
	// Сбой доставки бронирование не откатывает
	uc.dispatchCode(ctx, created, leg.code)

	return uc.toResponse(created, leg.code), nil
}

// ExecuteChain бронирует несколько услуг подряд одной атомарной транзакцией
// Буфер вставляется только после последнего звена; если любое звено
// не помещается, вся цепочка откатывается
func (uc *UseCase) ExecuteChain(ctx context.Context, req *ChainRequest) (*ChainResponse, error) {
	uc.logger.Info("CreateAppointmentChain: user=%d, provider=%d, services=%v, date=%s, time=%s",
		req.UserID, req.ProviderID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateChainRequest(req); err != nil {
		uc.logger.Warn("CreateAppointmentChain: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointmentChain: date validation failed: %v", err)
		return nil, err
	}

	// 3. Провайдер существует и принимает записи
	if err := uc.checkProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	// 4. Собираем звенья: услуги и длительности известны до транзакции,
	// каждое следующее звено начинается там, где закончилось предыдущее
	legs := make([]bookingLeg, 0, len(req.ServiceIDs))
	cursor := req.StartTime.Minutes()

	for i, serviceID := range req.ServiceIDs {
		service, err := uc.resolveService(ctx, req.ProviderID, serviceID)
		if err != nil {
			return nil, err
		}

		// Буфер подавляется для всех звеньев, кроме последнего
		buffer := 0
		if i == len(req.ServiceIDs)-1 {
			buffer = uc.bufferMinutes
		}

		leg, err := uc.prepareLeg(service, cursor, buffer)
		if err != nil {
			return nil, err
		}

		legs = append(legs, leg)
		cursor = leg.endMinutes
	}

	// 5. Бронируем все звенья одной сериализуемой транзакцией
	created := make([]*domain.Appointment, 0, len(legs))
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]
		for _, leg := range legs {
			appt, err := uc.bookLeg(txCtx, req.ProviderID, req.UserID, req.Date, req.Notes, leg)
			if err != nil {
				return err
			}
			created = append(created, appt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointmentChain: successfully created %d appointments for user=%d",
		len(created), req.UserID)

	// 6. Рассылаем коды после коммита
	resp := &ChainResponse{Appointments: make([]Response, 0, len(created))}
	for i, appt := range created {
		uc.dispatchCode(ctx, appt, legs[i].code)
		resp.Appointments = append(resp.Appointments, *uc.toResponse(appt, legs[i].code))
	}

	return resp, nil
}

// ExecuteAnyProvider бронирует услугу у первого свободного провайдера
// Кандидаты перебираются в порядке списка; занятость и неактивность
// провайдера означают переход к следующему
func (uc *UseCase) ExecuteAnyProvider(ctx context.Context, req *AnyProviderRequest) (*AnyProviderResponse, error) {
	uc.logger.Info("CreateAppointmentAnyProvider: user=%d, service=%d, candidates=%v, date=%s, time=%s",
		req.UserID, req.ServiceID, req.ProviderIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateAnyProviderRequest(req); err != nil {
		uc.logger.Warn("CreateAppointmentAnyProvider: validation failed: %v", err)
		return nil, err
	}

	// 2. Пробуем кандидатов по порядку
	for _, providerID := range req.ProviderIDs {
		resp, err := uc.Execute(ctx, &Request{
			UserID:     req.UserID,
			ProviderID: providerID,
			ServiceID:  req.ServiceID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			Notes:      req.Notes,
		})
		if err == nil {
			uc.logger.Info("CreateAppointmentAnyProvider: booked with provider=%d, appointment id=%d",
				providerID, resp.ID)
			return &AnyProviderResponse{Appointment: *resp, ProviderID: providerID}, nil
		}

		// Занятость и проблемы конкретного провайдера - причина попробовать
		// следующего, остальные ошибки фатальны для всего запроса
		if errors.Is(err, ErrSlotUnavailable) ||
			errors.Is(err, ErrProviderNotFound) ||
			errors.Is(err, ErrProviderInactive) {
			uc.logger.Info("CreateAppointmentAnyProvider: provider=%d unavailable: %v", providerID, err)
			continue
		}

		return nil, err
	}

	uc.logger.Warn("CreateAppointmentAnyProvider: no provider available for user=%d, date=%s, time=%s",
		req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)
	return nil, ErrNoProviderAvailable
}

// checkProvider проверяет, что провайдер существует и активен
func (uc *UseCase) checkProvider(ctx context.Context, providerID int64) error {
	provider, err := uc.catalogClient.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateAppointment: provider id=%d not found", providerID)
			return ErrProviderNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get provider id=%d: %v", providerID, err)
		return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsActive {
		uc.logger.Warn("CreateAppointment: provider id=%d is inactive", providerID)
		return ErrProviderInactive
	}

	return nil
}

// resolveService получает услугу с эффективной длительностью
func (uc *UseCase) resolveService(ctx context.Context, providerID, serviceID int64) (*catalogClient.Service, error) {
	service, err := uc.catalogClient.GetServiceForProvider(ctx, providerID, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.DurationMinutes < domain.MinServiceDurationMinutes || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		uc.logger.Warn("CreateAppointment: service id=%d has invalid duration=%d", serviceID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service duration out of range", ErrInvalidInput)
	}

	return service, nil
}

// effectiveBuffer вычисляет буфер после услуги с учетом опций запроса
func (uc *UseCase) effectiveBuffer(req *Request) int {
	if req.IsMultipleService {
		return 0
	}
	if req.BufferMinutes != nil {
		return *req.BufferMinutes
	}
	return uc.bufferMinutes
}

// prepareLeg собирает звено записи и выпускает для него код подтверждения
func (uc *UseCase) prepareLeg(service *catalogClient.Service, startMinutes, bufferMinutes int) (bookingLeg, error) {
	endMinutes := startMinutes + service.DurationMinutes
	if endMinutes > domain.MinutesPerDay {
		uc.logger.Warn("CreateAppointment: service id=%d does not fit the day, start=%d, duration=%d",
			service.ID, startMinutes, service.DurationMinutes)
		return bookingLeg{}, ErrSlotUnavailable
	}

	code, hash, err := uc.codeIssuer.Issue()
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to issue validation code: %v", err)
		return bookingLeg{}, fmt.Errorf("%w: failed to issue validation code: %v", ErrInternal, err)
	}

	return bookingLeg{
		serviceID:       service.ID,
		serviceName:     service.Name,
		durationMinutes: service.DurationMinutes,
		startMinutes:    startMinutes,
		endMinutes:      endMinutes,
		bufferMinutes:   bufferMinutes,
		code:            code,
		codeHash:        hash,
	}, nil
}

// bookLeg атомарно занимает время под одно звено записи
// Вызывается строго внутри сериализуемой транзакции
func (uc *UseCase) bookLeg(txCtx context.Context, providerID, clientID int64, date time.Time, notes *string, leg bookingLeg) (*domain.Appointment, error) {
	// Повторная проверка доступности на актуальном состоянии дня
	// Листинг слотов - подсказка, а не резервация
	if err := uc.availability.CheckRange(txCtx, providerID, date, leg.startMinutes, leg.endMinutes); err != nil {
		if isAvailabilityRejection(err) {
			uc.logger.Warn("CreateAppointment: slot [%d, %d) unavailable for provider=%d: %v",
				leg.startMinutes, leg.endMinutes, providerID, err)
			return nil, ErrSlotUnavailable
		}
		uc.logger.Error("CreateAppointment: availability check failed: %v", err)
		return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}

	appointment := &domain.Appointment{
		Reference:          uuid.New(),
		ProviderID:         providerID,
		ClientID:           clientID,
		ServiceID:          leg.serviceID,
		Date:               date,
		StartMinutes:       leg.startMinutes,
		EndMinutes:         leg.endMinutes,
		Status:             domain.StatusPending,
		ServiceName:        leg.serviceName,
		DurationMinutes:    leg.durationMinutes,
		Notes:              notes,
		ValidationCodeHash: leg.codeHash,
	}

	created, err := uc.appointmentRepo.Create(txCtx, appointment)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	// Запись владеет ровно одним периодом kind=appointment
	if _, err := uc.occupiedRepo.Create(txCtx, &domain.OccupiedPeriod{
		ProviderID:    providerID,
		Date:          date,
		StartMinutes:  leg.startMinutes,
		EndMinutes:    leg.endMinutes,
		Kind:          domain.KindAppointment,
		AppointmentID: ptr.Ptr(created.ID),
	}); err != nil {
		uc.logger.Error("CreateAppointment: failed to create occupied period: %v", err)
		return nil, fmt.Errorf("%w: failed to create occupied period: %v", ErrInternal, err)
	}

	// Хвостовой системный буфер - best effort: вставляем, только если он
	// помещается в свободное время, иначе запись живет без буфера
	if leg.bufferMinutes > 0 {
		uc.createBuffer(txCtx, providerID, date, created.ID, leg)
	}

	return created, nil
}

// createBuffer вставляет хвостовой буфер после записи, если время свободно
func (uc *UseCase) createBuffer(txCtx context.Context, providerID int64, date time.Time, appointmentID int64, leg bookingLeg) {
	bufferEnd := leg.endMinutes + leg.bufferMinutes
	if bufferEnd > domain.MinutesPerDay {
		bufferEnd = domain.MinutesPerDay
	}
	if bufferEnd <= leg.endMinutes {
		return
	}

	if err := uc.availability.CheckRange(txCtx, providerID, date, leg.endMinutes, bufferEnd); err != nil {
		uc.logger.Info("CreateAppointment: skipping buffer [%d, %d) for appointment id=%d: %v",
			leg.endMinutes, bufferEnd, appointmentID, err)
		return
	}

	if _, err := uc.occupiedRepo.Create(txCtx, &domain.OccupiedPeriod{
		ProviderID:    providerID,
		Date:          date,
		StartMinutes:  leg.endMinutes,
		EndMinutes:    bufferEnd,
		Kind:          domain.KindSystem,
		AppointmentID: ptr.Ptr(appointmentID),
	}); err != nil {
		uc.logger.Warn("CreateAppointment: failed to create buffer for appointment id=%d: %v", appointmentID, err)
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

// dispatchCode отправляет клиенту код подтверждения, ошибки только логируются
func (uc *UseCase) dispatchCode(ctx context.Context, appt *domain.Appointment, code string) {
	startTime, err := types.NewTimeStringFromMinutes(appt.StartMinutes)
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid start minutes=%d for appointment id=%d", appt.StartMinutes, appt.ID)
		return
	}

	msg := notifyservice.ValidationCodeMessage{
		ClientID:             appt.ClientID,
		AppointmentReference: appt.Reference,
		Code:                 code,
		ServiceName:          appt.ServiceName,
		Date:                 appt.Date.Format(domain.DateFormat),
		StartTime:            startTime.String(),
	}

	if err := uc.notifyClient.SendValidationCode(ctx, msg); err != nil {
		uc.logger.Error("CreateAppointment: failed to send validation code for appointment id=%d: %v", appt.ID, err)
	}
}

// toResponse конвертирует созданную запись в ответ
func (uc *UseCase) toResponse(a *domain.Appointment, code string) *Response {
	startTime, _ := types.NewTimeStringFromMinutes(a.StartMinutes)
	endTime, _ := types.NewTimeStringFromMinutes(a.EndMinutes)

	return &Response{
		ID:              a.ID,
		Reference:       a.Reference,
		UserID:          a.ClientID,
		ProviderID:      a.ProviderID,
		ServiceID:       a.ServiceID,
		Date:            a.Date,
		StartTime:       startTime,
		EndTime:         endTime,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,
		ValidationCode:  code,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
