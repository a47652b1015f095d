package confirm_completion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifyservice"
	validationcode "github.com/m04kA/SMC-AppointmentService/internal/service/validationcode"
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
	copied := *appt
	return &copied, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := r.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func (r *fakeAppointmentRepo) IncrementValidationAttempts(_ context.Context, id int64) (int, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return 0, appointmentRepo.ErrAppointmentNotFound
	}
	appt.ValidationAttempts++
	return appt.ValidationAttempts, nil
}

type fakeNotify struct {
	lockouts    []notifyservice.LockoutMessage
	completions []notifyservice.CompletionMessage
}

func (n *fakeNotify) NotifyLockout(_ context.Context, msg notifyservice.LockoutMessage) error {
	n.lockouts = append(n.lockouts, msg)
	return nil
}

func (n *fakeNotify) NotifyCompletion(_ context.Context, msg notifyservice.CompletionMessage) error {
	n.completions = append(n.completions, msg)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Обвязка ---

const (
	providerID = int64(10)
	clientID   = int64(1)
	goodCode   = "123456"
	badCode    = "654321"
)

type fixture struct {
	uc     *UseCase
	repo   *fakeAppointmentRepo
	notify *fakeNotify
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &fakeAppointmentRepo{appointments: map[int64]*domain.Appointment{}}
	notify := &fakeNotify{}

	// Реальный сервис кодов: хеш в записи соответствует goodCode
	svc := validationcode.NewService("test-salt")
	repo.appointments[1] = &domain.Appointment{
		ID:                 1,
		Reference:          uuid.New(),
		ProviderID:         providerID,
		ClientID:           clientID,
		ServiceID:          101,
		Date:               time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartMinutes:       600,
		EndMinutes:         660,
		Status:             domain.StatusPending,
		ServiceName:        "service-101",
		ValidationCodeHash: svc.Hash(goodCode),
	}

	uc := NewUseCase(repo, svc, notify, passthroughTxManager{}, 3, nopLogger{})

	return &fixture{uc: uc, repo: repo, notify: notify}
}

func confirmRequest(code string) *Request {
	return &Request{UserID: providerID, AppointmentID: 1, Code: code}
}

// --- Тесты ---

func TestExecute_CorrectCodeCompletes(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), confirmRequest(goodCode))
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, resp.Outcome)
	assert.Nil(t, resp.RemainingAttempts)
	assert.Equal(t, domain.StatusCompleted, f.repo.appointments[1].Status)
	assert.Len(t, f.notify.completions, 1)
	assert.Empty(t, f.notify.lockouts)
}

func TestExecute_WrongCodeCountsAttempt(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), confirmRequest(badCode))
	require.NoError(t, err)

	assert.Equal(t, OutcomeMismatch, resp.Outcome)
	require.NotNil(t, resp.RemainingAttempts)
	assert.Equal(t, 2, *resp.RemainingAttempts)
	assert.Equal(t, 1, f.repo.appointments[1].ValidationAttempts)
	assert.Equal(t, domain.StatusPending, f.repo.appointments[1].Status)
}

func TestExecute_ThirdWrongCodeLocksOut(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		resp, err := f.uc.Execute(context.Background(), confirmRequest(badCode))
		require.NoError(t, err)
		assert.Equal(t, OutcomeMismatch, resp.Outcome)
	}

	// Третья неверная попытка исчерпывает лимит
	resp, err := f.uc.Execute(context.Background(), confirmRequest(badCode))
	require.NoError(t, err)

	assert.Equal(t, OutcomeLockedOut, resp.Outcome)
	assert.Nil(t, resp.RemainingAttempts)
	assert.Equal(t, 3, f.repo.appointments[1].ValidationAttempts)
	// Обе стороны узнают о блокировке
	assert.Len(t, f.notify.lockouts, 1)
	assert.Equal(t, providerID, f.notify.lockouts[0].ProviderID)
	assert.Equal(t, clientID, f.notify.lockouts[0].ClientID)
	assert.Equal(t, 3, f.notify.lockouts[0].Attempts)
}

func TestExecute_CorrectCodeAfterLockoutStaysLocked(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.uc.Execute(context.Background(), confirmRequest(badCode))
		require.NoError(t, err)
	}

	// Блокировка необратима: даже верный код не завершает запись
	resp, err := f.uc.Execute(context.Background(), confirmRequest(goodCode))
	require.NoError(t, err)

	assert.Equal(t, OutcomeLockedOut, resp.Outcome)
	assert.Equal(t, domain.StatusPending, f.repo.appointments[1].Status)

	// Счетчик не растет после блокировки
	assert.Equal(t, 3, f.repo.appointments[1].ValidationAttempts)
}

func TestExecute_OnlyProviderMayConfirm(t *testing.T) {
	f := newFixture(t)

	req := confirmRequest(goodCode)
	req.UserID = clientID

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.repo.appointments[1].Status)
}

func TestExecute_CancelledAppointmentRejected(t *testing.T) {
	f := newFixture(t)
	f.repo.appointments[1].Status = domain.StatusCancelled

	_, err := f.uc.Execute(context.Background(), confirmRequest(goodCode))
	assert.ErrorIs(t, err, ErrCannotComplete)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	f := newFixture(t)

	req := confirmRequest(goodCode)
	req.AppointmentID = 42

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_MalformedCodeRejected(t *testing.T) {
	f := newFixture(t)

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := f.uc.Execute(context.Background(), confirmRequest(code))
		assert.ErrorIs(t, err, ErrInvalidInput, "code %q", code)
	}

	// Некорректный ввод не тратит попытки
	assert.Equal(t, 0, f.repo.appointments[1].ValidationAttempts)
}
