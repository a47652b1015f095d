package blocks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	occupiedRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/occupied"
	"github.com/m04kA/SMC-AppointmentService/internal/service/blocks/models"
)

// --- Фейки ---

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByProviderAndDate(_ context.Context, _ int64, _ time.Time, includeInactive bool) ([]*domain.Appointment, error) {
	if includeInactive {
		return r.appointments, nil
	}
	active := make([]*domain.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if a.Status != domain.StatusCancelled {
			active = append(active, a)
		}
	}
	return active, nil
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

func (r *fakeOccupiedRepo) GetByProviderAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.OccupiedPeriod, error) {
	return r.periods, nil
}

func (r *fakeOccupiedRepo) DeleteManualByRange(_ context.Context, _ int64, _ time.Time, startMinutes, endMinutes int) error {
	for i, p := range r.periods {
		if p.Kind == domain.KindManual && p.StartMinutes == startMinutes && p.EndMinutes == endMinutes {
			r.periods = append(r.periods[:i], r.periods[i+1:]...)
			return nil
		}
	}
	return occupiedRepo.ErrPeriodNotFound
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Обвязка ---

type fixture struct {
	svc          *Service
	appointments *fakeAppointmentRepo
	occupied     *fakeOccupiedRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	appointments := &fakeAppointmentRepo{}
	occupied := &fakeOccupiedRepo{}

	return &fixture{
		svc:          NewService(appointments, occupied, passthroughTxManager{}, nopLogger{}),
		appointments: appointments,
		occupied:     occupied,
	}
}

func strPtr(s string) *string { return &s }

func blockRequest() *models.BlockTimeRequest {
	return &models.BlockTimeRequest{
		UserID:     10,
		ProviderID: 10,
		Date:       "2025-10-15",
		StartTime:  "13:00",
		EndTime:    "15:00",
		Reason:     strPtr("обед"),
	}
}

// --- Тесты ---

func TestBlock_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Block(context.Background(), blockRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Equal(t, "13:00", resp.StartTime)
	assert.Equal(t, "15:00", resp.EndTime)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "обед", *resp.Reason)

	require.Len(t, f.occupied.periods, 1)
	assert.Equal(t, domain.KindManual, f.occupied.periods[0].Kind)
	assert.Equal(t, 780, f.occupied.periods[0].StartMinutes)
	assert.Equal(t, 900, f.occupied.periods[0].EndMinutes)
}

func TestBlock_OnlyOwnerMayBlock(t *testing.T) {
	f := newFixture(t)

	req := blockRequest()
	req.UserID = 99

	_, err := f.svc.Block(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.occupied.periods)
}

func TestBlock_ConflictWithActiveAppointment(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments = []*domain.Appointment{
		{ID: 1, StartMinutes: 840, EndMinutes: 900, Status: domain.StatusConfirmed}, // 14:00-15:00
	}

	_, err := f.svc.Block(context.Background(), blockRequest())
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.Empty(t, f.occupied.periods)
}

func TestBlock_CancelledAppointmentDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments = []*domain.Appointment{
		{ID: 1, StartMinutes: 840, EndMinutes: 900, Status: domain.StatusCancelled},
	}

	_, err := f.svc.Block(context.Background(), blockRequest())
	assert.NoError(t, err)
}

func TestBlock_InvalidInput(t *testing.T) {
	f := newFixture(t)

	req := blockRequest()
	req.Date = "15.10.2025"
	_, err := f.svc.Block(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = blockRequest()
	req.StartTime = "15:00"
	req.EndTime = "13:00"
	_, err = f.svc.Block(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = blockRequest()
	req.Reason = strPtr(strings.Repeat("x", domain.MaxBlockReasonLength+1))
	_, err = f.svc.Block(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnblock_Success(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Block(context.Background(), blockRequest())
	require.NoError(t, err)

	err = f.svc.Unblock(context.Background(), &models.UnblockTimeRequest{
		UserID:     10,
		ProviderID: 10,
		Date:       "2025-10-15",
		StartTime:  "13:00",
		EndTime:    "15:00",
	})
	require.NoError(t, err)
	assert.Empty(t, f.occupied.periods)
}

func TestUnblock_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Unblock(context.Background(), &models.UnblockTimeRequest{
		UserID:     10,
		ProviderID: 10,
		Date:       "2025-10-15",
		StartTime:  "13:00",
		EndTime:    "15:00",
	})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestUnblock_OnlyOwnerMayUnblock(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Unblock(context.Background(), &models.UnblockTimeRequest{
		UserID:     99,
		ProviderID: 10,
		Date:       "2025-10-15",
		StartTime:  "13:00",
		EndTime:    "15:00",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
