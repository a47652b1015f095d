package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	availabilitySvc "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *appt
	return &clone, nil
}

func (r *fakeAppointmentRepo) UpdateSchedule(_ context.Context, id int64, date time.Time, startMinutes, endMinutes int) error {
	appt := r.appointments[id]
	appt.Date = date
	appt.StartMinutes = startMinutes
	appt.EndMinutes = endMinutes
	return nil
}

type fakeOccupiedRepo struct {
	periods []*domain.OccupiedPeriod
	nextID  int64
}

func (r *fakeOccupiedRepo) Create(_ context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error) {
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.periods = append(r.periods, &clone)
	return &clone, nil
}

func (r *fakeOccupiedRepo) DeleteByAppointmentID(_ context.Context, appointmentID int64) error {
	kept := r.periods[:0]
	for _, p := range r.periods {
		if p.AppointmentID != nil && *p.AppointmentID == appointmentID {
			continue
		}
		kept = append(kept, p)
	}
	r.periods = kept
	return nil
}

// busyRange занятый диапазон, с которым фейковая проверка конфликтует
type busyRange struct {
	start, end int
}

type fakeAvailability struct {
	busy []busyRange
}

func (f *fakeAvailability) CheckRange(_ context.Context, _ int64, _ time.Time, startMinutes, endMinutes int) error {
	for _, b := range f.busy {
		if startMinutes < b.end && endMinutes > b.start {
			return availabilitySvc.ErrTimeConflict
		}
	}
	return nil
}

func (f *fakeAvailability) CheckRangeExcluding(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int, _ int64) error {
	return f.CheckRange(ctx, providerID, date, startMinutes, endMinutes)
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Обвязка ---

var (
	oldDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
)

func at(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo
	availability *fakeAvailability
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	apptID := int64(5)
	appointments := &fakeAppointmentRepo{appointments: map[int64]*domain.Appointment{
		5: {
			ID:              5,
			Reference:       uuid.New(),
			ProviderID:      10,
			ClientID:        1,
			ServiceID:       101,
			Date:            oldDate,
			StartMinutes:    600,
			EndMinutes:      660,
			DurationMinutes: 60,
			Status:          domain.StatusPending,
		},
	}}
	occupied := &fakeOccupiedRepo{periods: []*domain.OccupiedPeriod{
		{ID: 1, ProviderID: 10, Date: oldDate, StartMinutes: 600, EndMinutes: 660, Kind: domain.KindAppointment, AppointmentID: &apptID},
		{ID: 2, ProviderID: 10, Date: oldDate, StartMinutes: 660, EndMinutes: 675, Kind: domain.KindSystem, AppointmentID: &apptID},
	}}
	occupied.nextID = 2
	availability := &fakeAvailability{}

	uc := NewUseCase(appointments, occupied, availability, passthroughTxManager{}, 15, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, appointments: appointments, occupied: occupied, availability: availability}
}

func newRequest(t *testing.T) *Request {
	return &Request{
		UserID:        1,
		AppointmentID: 5,
		NewDate:       newDate,
		NewStartTime:  at(t, "14:00"),
	}
}

// --- Тесты ---

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest(t))
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, newDate, resp.Date)
	assert.Equal(t, "14:00", resp.StartTime.String())
	assert.Equal(t, "15:00", resp.EndTime.String())
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	// Старые периоды освобождены, новые заняты: запись 840-900 и буфер 900-915
	require.Len(t, f.occupied.periods, 2)
	assert.Equal(t, 840, f.occupied.periods[0].StartMinutes)
	assert.Equal(t, 900, f.occupied.periods[0].EndMinutes)
	assert.Equal(t, domain.KindAppointment, f.occupied.periods[0].Kind)
	assert.Equal(t, 900, f.occupied.periods[1].StartMinutes)
	assert.Equal(t, 915, f.occupied.periods[1].EndMinutes)
	assert.Equal(t, domain.KindSystem, f.occupied.periods[1].Kind)

	// Сама запись перенесена
	appt := f.appointments.appointments[5]
	assert.Equal(t, newDate, appt.Date)
	assert.Equal(t, 840, appt.StartMinutes)
	assert.Equal(t, 900, appt.EndMinutes)
}

func TestExecute_ProviderMayReschedule(t *testing.T) {
	f := newFixture(t)

	req := newRequest(t)
	req.UserID = 10 // провайдер записи

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_StrangerDenied(t *testing.T) {
	f := newFixture(t)

	req := newRequest(t)
	req.UserID = 99

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Периоды не тронуты
	assert.Len(t, f.occupied.periods, 2)
}

func TestExecute_NewSlotBusy(t *testing.T) {
	f := newFixture(t)
	f.availability.busy = []busyRange{{start: 850, end: 870}}

	_, err := f.uc.Execute(context.Background(), newRequest(t))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Старое время осталось занятым
	require.Len(t, f.occupied.periods, 2)
	assert.Equal(t, 600, f.occupied.periods[0].StartMinutes)
	appt := f.appointments.appointments[5]
	assert.Equal(t, oldDate, appt.Date)
	assert.Equal(t, 600, appt.StartMinutes)
}

func TestExecute_BufferConflictDoesNotFailReschedule(t *testing.T) {
	f := newFixture(t)
	// Занято сразу после нового времени записи: буфер не помещается
	f.availability.busy = []busyRange{{start: 900, end: 930}}

	resp, err := f.uc.Execute(context.Background(), newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "14:00", resp.StartTime.String())

	// Только период записи, без буфера
	require.Len(t, f.occupied.periods, 1)
	assert.Equal(t, domain.KindAppointment, f.occupied.periods[0].Kind)
}

func TestExecute_CancelledAppointmentRejected(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments[5].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), newRequest(t))
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_CompletedAppointmentRejected(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments[5].Status = domain.StatusCompleted

	_, err := f.uc.Execute(context.Background(), newRequest(t))
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_PastDateRejected(t *testing.T) {
	f := newFixture(t)

	req := newRequest(t)
	req.NewDate = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ServiceDoesNotFitDay(t *testing.T) {
	f := newFixture(t)

	req := newRequest(t)
	req.NewStartTime = at(t, "23:30") // 60 минут не помещаются до полуночи

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	f := newFixture(t)

	req := newRequest(t)
	req.AppointmentID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
