package cancel_appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
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

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	appt := r.appointments[id]
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	now := time.Now()
	appt.CancelledAt = &now
	return nil
}

type fakeOccupiedRepo struct {
	released []int64
}

func (r *fakeOccupiedRepo) DeleteByAppointmentID(_ context.Context, appointmentID int64) error {
	r.released = append(r.released, appointmentID)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Обвязка ---

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	appointments := &fakeAppointmentRepo{appointments: map[int64]*domain.Appointment{
		5: {
			ID:         5,
			ProviderID: 10,
			ClientID:   1,
			Status:     domain.StatusPending,
		},
	}}
	occupied := &fakeOccupiedRepo{}

	return &fixture{
		uc:           NewUseCase(appointments, occupied, passthroughTxManager{}, nopLogger{}),
		appointments: appointments,
		occupied:     occupied,
	}
}

// --- Тесты ---

func TestExecute_ClientCancels(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), &Request{UserID: 1, AppointmentID: 5, CancellationReason: "не успеваю"})
	require.NoError(t, err)

	appt := f.appointments.appointments[5]
	assert.Equal(t, domain.StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancellationReason)
	assert.Equal(t, "не успеваю", *appt.CancellationReason)
	assert.NotNil(t, appt.CancelledAt)

	// Периоды записи (включая буфер) освобождены
	assert.Equal(t, []int64{5}, f.occupied.released)
}

func TestExecute_ProviderCancels(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), &Request{UserID: 10, AppointmentID: 5})
	assert.NoError(t, err)
}

func TestExecute_StrangerDenied(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), &Request{UserID: 99, AppointmentID: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.occupied.released)
	assert.Equal(t, domain.StatusPending, f.appointments.appointments[5].Status)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments[5].Status = domain.StatusCancelled

	err := f.uc.Execute(context.Background(), &Request{UserID: 1, AppointmentID: 5})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestExecute_CompletedRejected(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments[5].Status = domain.StatusCompleted

	err := f.uc.Execute(context.Background(), &Request{UserID: 1, AppointmentID: 5})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), &Request{UserID: 1, AppointmentID: 404})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	f := newFixture(t)

	err := f.uc.Execute(context.Background(), &Request{
		UserID:             1,
		AppointmentID:      5,
		CancellationReason: strings.Repeat("x", domain.MaxNotesLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
