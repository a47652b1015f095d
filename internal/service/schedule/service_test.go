package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// --- Фейки ---

type fakeScheduleRepo struct {
	rows map[int64][]*domain.ProviderSchedule
}

func (r *fakeScheduleRepo) GetByProvider(_ context.Context, providerID int64) ([]*domain.ProviderSchedule, error) {
	return r.rows[providerID], nil
}

func (r *fakeScheduleRepo) GetByProviderAndWeekday(_ context.Context, providerID int64, weekday time.Weekday) (*domain.ProviderSchedule, error) {
	for _, row := range r.rows[providerID] {
		if row.Weekday == weekday {
			return row, nil
		}
	}
	return nil, scheduleRepo.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) ReplaceForProvider(_ context.Context, providerID int64, schedules []*domain.ProviderSchedule) error {
	r.rows[providerID] = schedules
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

func newService() (*Service, *fakeScheduleRepo) {
	repo := &fakeScheduleRepo{rows: make(map[int64][]*domain.ProviderSchedule)}
	return NewService(repo, passthroughTxManager{}, nopLogger{}), repo
}

func strPtr(s string) *string { return &s }

func workweek() []models.ScheduleDayRequest {
	days := make([]models.ScheduleDayRequest, 0, 5)
	for wd := 1; wd <= 5; wd++ {
		days = append(days, models.ScheduleDayRequest{
			Weekday:   wd,
			StartTime: "09:00",
			EndTime:   "18:00",
		})
	}
	return days
}

// --- Тесты ---

func TestReplaceSchedule_Success(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
		UserID:     10,
		ProviderID: 10,
		Days:       workweek(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ProviderID)
	require.Len(t, resp.Days, 5)
	assert.Equal(t, 1, resp.Days[0].Weekday)
	assert.Equal(t, "09:00", resp.Days[0].StartTime)
	assert.Equal(t, "18:00", resp.Days[0].EndTime)

	require.Len(t, repo.rows[10], 5)
	assert.Equal(t, 540, repo.rows[10][0].StartMinutes)
	assert.Equal(t, 1080, repo.rows[10][0].EndMinutes)
}

func TestReplaceSchedule_WithBreak(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
		UserID:     10,
		ProviderID: 10,
		Days: []models.ScheduleDayRequest{{
			Weekday:    1,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: strPtr("13:00"),
			BreakEnd:   strPtr("14:00"),
		}},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Days[0].BreakStart)
	assert.Equal(t, "13:00", *resp.Days[0].BreakStart)
	assert.Equal(t, "14:00", *resp.Days[0].BreakEnd)

	row := repo.rows[10][0]
	require.True(t, row.HasBreak())
	assert.Equal(t, 780, *row.BreakStartMinutes)
	assert.Equal(t, 840, *row.BreakEndMinutes)
}

func TestReplaceSchedule_OnlyOwnerMayReplace(t *testing.T) {
	svc, repo := newService()

	_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
		UserID:     99,
		ProviderID: 10,
		Days:       workweek(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.rows[10])
}

func TestReplaceSchedule_DuplicateWeekday(t *testing.T) {
	svc, _ := newService()

	days := workweek()
	days = append(days, days[0])

	_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
		UserID:     10,
		ProviderID: 10,
		Days:       days,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceSchedule_InvalidDays(t *testing.T) {
	svc, _ := newService()

	cases := []struct {
		name string
		day  models.ScheduleDayRequest
	}{
		{"weekday out of range", models.ScheduleDayRequest{Weekday: 7, StartTime: "09:00", EndTime: "18:00"}},
		{"end before start", models.ScheduleDayRequest{Weekday: 1, StartTime: "18:00", EndTime: "09:00"}},
		{"malformed time", models.ScheduleDayRequest{Weekday: 1, StartTime: "9am", EndTime: "18:00"}},
		{"break without end", models.ScheduleDayRequest{Weekday: 1, StartTime: "09:00", EndTime: "18:00", BreakStart: strPtr("13:00")}},
		{"break outside window", models.ScheduleDayRequest{Weekday: 1, StartTime: "09:00", EndTime: "18:00", BreakStart: strPtr("18:00"), BreakEnd: strPtr("19:00")}},
		{"inverted break", models.ScheduleDayRequest{Weekday: 1, StartTime: "09:00", EndTime: "18:00", BreakStart: strPtr("14:00"), BreakEnd: strPtr("13:00")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ReplaceSchedule(context.Background(), &models.ReplaceScheduleRequest{
				UserID:     10,
				ProviderID: 10,
				Days:       []models.ScheduleDayRequest{tc.day},
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetSchedule_Success(t *testing.T) {
	svc, repo := newService()
	repo.rows[10] = []*domain.ProviderSchedule{
		{ProviderID: 10, Weekday: time.Monday, StartMinutes: 540, EndMinutes: 1080},
	}

	resp, err := svc.GetSchedule(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "09:00", resp.Days[0].StartTime)
}

func TestGetSchedule_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetSchedule(context.Background(), 10)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
