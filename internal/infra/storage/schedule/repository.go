package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var scheduleColumns = []string{
	"id",
	"provider_id",
	"weekday",
	"start_minutes",
	"end_minutes",
	"break_start_minutes",
	"break_end_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProviderAndWeekday получает строку расписания провайдера на день недели
// Возвращает ErrScheduleNotFound если провайдер в этот день не работает
func (r *Repository) GetByProviderAndWeekday(ctx context.Context, providerID int64, weekday time.Weekday) (*domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("provider_schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	sched, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndWeekday - scan schedule: %v", ErrScanRow, err)
	}

	return sched, nil
}

// GetByProvider получает все строки недельного расписания провайдера
func (r *Repository) GetByProvider(ctx context.Context, providerID int64) ([]*domain.ProviderSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("provider_schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.ProviderSchedule, 0)
	for rows.Next() {
		sched, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, sched)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// ReplaceForProvider атомарно заменяет недельное расписание провайдера
// Вызывается внутри транзакции: сначала удаляем старые строки, затем вставляем новые
func (r *Repository) ReplaceForProvider(ctx context.Context, providerID int64, schedules []*domain.ProviderSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("provider_schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err = executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - execute delete: %v", ErrExecQuery, err)
	}

	if len(schedules) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("provider_schedules").
		Columns(
			"provider_id",
			"weekday",
			"start_minutes",
			"end_minutes",
			"break_start_minutes",
			"break_end_minutes",
		)

	for _, s := range schedules {
		insertBuilder = insertBuilder.Values(
			providerID,
			int(s.Weekday),
			s.StartMinutes,
			s.EndMinutes,
			s.BreakStartMinutes,
			s.BreakEndMinutes,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err = executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func scanSchedule(scan func(dest ...interface{}) error) (*domain.ProviderSchedule, error) {
	var s domain.ProviderSchedule
	var weekday int
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&s.ID,
		&s.ProviderID,
		&weekday,
		&s.StartMinutes,
		&s.EndMinutes,
		&s.BreakStartMinutes,
		&s.BreakEndMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Weekday = time.Weekday(weekday)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
