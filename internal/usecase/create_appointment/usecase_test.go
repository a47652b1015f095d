package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	nextID  int64
	created []*domain.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.nextID++
	stored := *a
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.created = append(r.created, &stored)
	return &stored, nil
}

type fakeOccupiedRepo struct {
	nextID  int64
	periods []*domain.OccupiedPeriod
}

func (r *fakeOccupiedRepo) Create(_ context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error) {
	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.periods = append(r.periods, &stored)
	return &stored, nil
}

// fakeAvailability отклоняет интервалы, пересекающиеся с настроенными конфликтами
type busyRange struct {
	providerID int64
	start, end int
}

type fakeAvailability struct {
	busy []busyRange
}

func (s *fakeAvailability) CheckRange(_ context.Context, providerID int64, _ time.Time, startMinutes, endMinutes int) error {
	for _, b := range s.busy {
		if b.providerID == providerID && b.start < endMinutes && b.end > startMinutes {
			return availability.ErrTimeConflict
		}
	}
	return nil
}

type fakeCatalog struct {
	inactiveProviders map[int64]bool
	missingProviders  map[int64]bool
	durations         map[int64]int
}

func (c *fakeCatalog) GetProvider(_ context.Context, providerID int64) (*catalogservice.Provider, error) {
	if c.missingProviders[providerID] {
		return nil, catalogservice.ErrProviderNotFound
	}
	return &catalogservice.Provider{
		ID:       providerID,
		Name:     fmt.Sprintf("provider-%d", providerID),
		IsActive: !c.inactiveProviders[providerID],
	}, nil
}

func (c *fakeCatalog) GetServiceForProvider(_ context.Context, _ int64, serviceID int64) (*catalogservice.Service, error) {
	duration, ok := c.durations[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return &catalogservice.Service{
		ID:              serviceID,
		Name:            fmt.Sprintf("service-%d", serviceID),
		DurationMinutes: duration,
		IsActive:        true,
	}, nil
}

type fakeNotify struct {
	sent []notifyservice.ValidationCodeMessage
}

func (n *fakeNotify) SendValidationCode(_ context.Context, msg notifyservice.ValidationCodeMessage) error {
	n.sent = append(n.sent, msg)
	return nil
}

type fakeCodeIssuer struct {
	counter int
}

func (i *fakeCodeIssuer) Issue() (string, string, error) {
	i.counter++
	code := fmt.Sprintf("%06d", i.counter)
	return code, "hash-" + code, nil
}

// fakeTxManager выполняет fn и откатывает фейковые репозитории при ошибке
type fakeTxManager struct {
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo

	// retryFirst имитирует конфликт сериализации на первой попытке
	retryFirst bool
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := 1
	if m.retryFirst {
		attempts = 2
	}

	var err error
	for i := 0; i < attempts; i++ {
		apptSnapshot := len(m.appointments.created)
		occSnapshot := len(m.occupied.periods)

		err = fn(ctx)
		if err != nil || i < attempts-1 {
			m.appointments.created = m.appointments.created[:apptSnapshot]
			m.occupied.periods = m.occupied.periods[:occSnapshot]
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// storeBackedAvailability проверяет диапазон по текущему состоянию
// фейкового хранилища периодов, а не по статичному списку конфликтов
type storeBackedAvailability struct {
	occupied *fakeOccupiedRepo
}

func (s *storeBackedAvailability) CheckRange(_ context.Context, providerID int64, _ time.Time, startMinutes, endMinutes int) error {
	for _, p := range s.occupied.periods {
		if p.ProviderID == providerID && p.StartMinutes < endMinutes && p.EndMinutes > startMinutes {
			return availability.ErrTimeConflict
		}
	}
	return nil
}

// serializingTxManager пропускает транзакции по одной: вторая видит
// состояние, зафиксированное первой, как при сериализуемой изоляции
type serializingTxManager struct {
	mu           sync.Mutex
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo
}

func (m *serializingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	apptSnapshot := len(m.appointments.created)
	occSnapshot := len(m.occupied.periods)
	if err := fn(ctx); err != nil {
		m.appointments.created = m.appointments.created[:apptSnapshot]
		m.occupied.periods = m.occupied.periods[:occSnapshot]
		return err
	}
	return nil
}

// concurrentCodeIssuer потокобезопасный выпуск кодов: Issue вызывается
// до входа в транзакцию
type concurrentCodeIssuer struct{ counter int64 }

func (i *concurrentCodeIssuer) Issue() (string, string, error) {
	n := atomic.AddInt64(&i.counter, 1)
	code := fmt.Sprintf("%06d", n)
	return code, "hash-" + code, nil
}

type fixedTime struct{ now time.Time }

func (t *fixedTime) Now() time.Time { return t.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Обвязка ---

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo
	availability *fakeAvailability
	catalog      *fakeCatalog
	notify       *fakeNotify
	txManager    *fakeTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	appointments := &fakeAppointmentRepo{}
	occupied := &fakeOccupiedRepo{}
	avail := &fakeAvailability{}
	catalog := &fakeCatalog{
		inactiveProviders: map[int64]bool{},
		missingProviders:  map[int64]bool{},
		durations:         map[int64]int{101: 60, 102: 30, 103: 90},
	}
	notify := &fakeNotify{}
	txManager := &fakeTxManager{appointments: appointments, occupied: occupied}

	uc := NewUseCase(appointments, occupied, avail, catalog, notify, &fakeCodeIssuer{}, txManager, 15, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)}

	return &fixture{
		uc:           uc,
		appointments: appointments,
		occupied:     occupied,
		availability: avail,
		catalog:      catalog,
		notify:       notify,
		txManager:    txManager,
	}
}

func at(s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func newRequest() *Request {
	return &Request{
		UserID:     1,
		ProviderID: 10,
		ServiceID:  101,
		Date:       time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  at("10:00"),
	}
}

// --- Тесты ---

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "service-101", resp.ServiceName)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "000001", resp.ValidationCode)
	assert.NotEqual(t, resp.Reference.String(), "00000000-0000-0000-0000-000000000000")

	// Запись владеет периодом kind=appointment и хвостовым буфером kind=system
	require.Len(t, f.occupied.periods, 2)
	assert.Equal(t, domain.KindAppointment, f.occupied.periods[0].Kind)
	assert.Equal(t, 600, f.occupied.periods[0].StartMinutes)
	assert.Equal(t, 660, f.occupied.periods[0].EndMinutes)
	assert.Equal(t, domain.KindSystem, f.occupied.periods[1].Kind)
	assert.Equal(t, 660, f.occupied.periods[1].StartMinutes)
	assert.Equal(t, 675, f.occupied.periods[1].EndMinutes)

	// Хеш в записи, открытый код только в ответе и уведомлении
	require.Len(t, f.appointments.created, 1)
	assert.Equal(t, "hash-000001", f.appointments.created[0].ValidationCodeHash)
	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, "000001", f.notify.sent[0].Code)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture(t)
	f.availability.busy = []busyRange{{providerID: 10, start: 630, end: 700}}

	_, err := f.uc.Execute(context.Background(), newRequest())
	require.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Empty(t, f.appointments.created)
	assert.Empty(t, f.occupied.periods)
	assert.Empty(t, f.notify.sent)
}

func TestExecute_BufferConflictDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	// Конфликт только с буфером [660, 675), сама услуга [600, 660) свободна
	f.availability.busy = []busyRange{{providerID: 10, start: 665, end: 680}}

	resp, err := f.uc.Execute(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, "11:00", resp.EndTime.String())

	// Запись создана, буфер пропущен
	require.Len(t, f.occupied.periods, 1)
	assert.Equal(t, domain.KindAppointment, f.occupied.periods[0].Kind)
}

func TestExecute_BufferOverride(t *testing.T) {
	f := newFixture(t)
	buffer := 30
	req := newRequest()
	req.BufferMinutes = &buffer

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.occupied.periods, 2)
	assert.Equal(t, 690, f.occupied.periods[1].EndMinutes)
}

func TestExecute_ZeroBufferSkipsSystemPeriod(t *testing.T) {
	f := newFixture(t)
	buffer := 0
	req := newRequest()
	req.BufferMinutes = &buffer

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.occupied.periods, 1)
	assert.Equal(t, domain.KindAppointment, f.occupied.periods[0].Kind)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(t)
	req := newRequest()
	req.Date = time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ProviderInactive(t *testing.T) {
	f := newFixture(t)
	f.catalog.inactiveProviders[10] = true

	_, err := f.uc.Execute(context.Background(), newRequest())
	assert.ErrorIs(t, err, ErrProviderInactive)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(t)
	req := newRequest()
	req.ServiceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceDoesNotFitDay(t *testing.T) {
	f := newFixture(t)
	req := newRequest()
	req.StartTime = at("23:30") // услуга 60 минут не помещается в сутки

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_SerializationRetryDoesNotDuplicate(t *testing.T) {
	f := newFixture(t)
	f.txManager.retryFirst = true

	resp, err := f.uc.Execute(context.Background(), newRequest())
	require.NoError(t, err)

	// Первая попытка откатилась, вторая зафиксировалась
	assert.Len(t, f.appointments.created, 1)
	assert.Len(t, f.occupied.periods, 2)
	assert.Len(t, f.notify.sent, 1)
	assert.NotZero(t, resp.ID)
}

func TestExecute_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	appointments := &fakeAppointmentRepo{}
	occupied := &fakeOccupiedRepo{}
	catalog := &fakeCatalog{
		inactiveProviders: map[int64]bool{},
		missingProviders:  map[int64]bool{},
		durations:         map[int64]int{101: 60},
	}
	notify := &fakeNotify{}
	txManager := &serializingTxManager{appointments: appointments, occupied: occupied}
	avail := &storeBackedAvailability{occupied: occupied}

	uc := NewUseCase(appointments, occupied, avail, catalog, notify, &concurrentCodeIssuer{}, txManager, 15, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)}

	// Два клиента бронируют один слот одновременно
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.Execute(context.Background(), newRequest())
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	// Зафиксировалась ровно одна запись с её периодами, код ушел один раз
	assert.Len(t, appointments.created, 1)
	require.Len(t, occupied.periods, 2)
	assert.Equal(t, domain.KindAppointment, occupied.periods[0].Kind)
	assert.Equal(t, domain.KindSystem, occupied.periods[1].Kind)
	assert.Len(t, notify.sent, 1)
}

func TestExecuteChain_LegsAreConsecutive(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.ExecuteChain(context.Background(), &ChainRequest{
		UserID:     1,
		ProviderID: 10,
		ServiceIDs: []int64{101, 102}, // 60 + 30 минут
		Date:       time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  at("10:00"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)

	assert.Equal(t, "10:00", resp.Appointments[0].StartTime.String())
	assert.Equal(t, "11:00", resp.Appointments[0].EndTime.String())
	assert.Equal(t, "11:00", resp.Appointments[1].StartTime.String())
	assert.Equal(t, "11:30", resp.Appointments[1].EndTime.String())

	// У каждого звена свой код подтверждения
	assert.NotEqual(t, resp.Appointments[0].ValidationCode, resp.Appointments[1].ValidationCode)

	// Буфер только после последнего звена
	var systemPeriods []*domain.OccupiedPeriod
	for _, p := range f.occupied.periods {
		if p.Kind == domain.KindSystem {
			systemPeriods = append(systemPeriods, p)
		}
	}
	require.Len(t, systemPeriods, 1)
	assert.Equal(t, 690, systemPeriods[0].StartMinutes)
}

func TestExecuteChain_AtomicRollback(t *testing.T) {
	f := newFixture(t)
	// Второе звено [11:00, 11:30) пересекается с занятым временем
	f.availability.busy = []busyRange{{providerID: 10, start: 670, end: 700}}

	_, err := f.uc.ExecuteChain(context.Background(), &ChainRequest{
		UserID:     1,
		ProviderID: 10,
		ServiceIDs: []int64{101, 102},
		Date:       time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  at("10:00"),
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	// Ни одно звено не должно пережить откат
	assert.Empty(t, f.appointments.created)
	assert.Empty(t, f.occupied.periods)
	assert.Empty(t, f.notify.sent)
}

func TestExecuteAnyProvider_FallsThroughBusyProviders(t *testing.T) {
	f := newFixture(t)
	f.availability.busy = []busyRange{{providerID: 10, start: 0, end: 1440}}
	f.catalog.missingProviders[11] = true

	resp, err := f.uc.ExecuteAnyProvider(context.Background(), &AnyProviderRequest{
		UserID:      1,
		ServiceID:   101,
		ProviderIDs: []int64{10, 11, 12},
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   at("10:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), resp.ProviderID)
	assert.Equal(t, int64(12), resp.Appointment.ProviderID)
}

func TestExecuteAnyProvider_AllBusy(t *testing.T) {
	f := newFixture(t)
	f.availability.busy = []busyRange{
		{providerID: 10, start: 0, end: 1440},
		{providerID: 11, start: 0, end: 1440},
	}

	_, err := f.uc.ExecuteAnyProvider(context.Background(), &AnyProviderRequest{
		UserID:      1,
		ServiceID:   101,
		ProviderIDs: []int64{10, 11},
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   at("10:00"),
	})
	assert.ErrorIs(t, err, ErrNoProviderAvailable)
}

func TestExecuteAnyProvider_FatalErrorAborts(t *testing.T) {
	f := newFixture(t)
	req := &AnyProviderRequest{
		UserID:      1,
		ServiceID:   999, // услуга не существует ни у одного провайдера
		ProviderIDs: []int64{10, 11},
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   at("10:00"),
	}

	_, err := f.uc.ExecuteAnyProvider(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.NotErrorIs(t, err, ErrNoProviderAvailable)
	assert.Empty(t, f.appointments.created)
}

