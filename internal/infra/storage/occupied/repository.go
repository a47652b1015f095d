package occupied

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

var periodColumns = []string{
	"id",
	"provider_id",
	"date",
	"start_minutes",
	"end_minutes",
	"kind",
	"appointment_id",
	"reason",
	"created_at",
}

// Repository репозиторий занятых периодов календаря провайдера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятых периодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает занятый период
func (r *Repository) Create(ctx context.Context, p *domain.OccupiedPeriod) (*domain.OccupiedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("occupied_periods").
		Columns(
			"provider_id",
			"date",
			"start_minutes",
			"end_minutes",
			"kind",
			"appointment_id",
			"reason",
		).
		Values(
			p.ProviderID,
			p.Date,
			p.StartMinutes,
			p.EndMinutes,
			p.Kind,
			p.AppointmentID,
			p.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time

	return p, nil
}

// GetByID получает занятый период по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.OccupiedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(periodColumns...).
		From("occupied_periods").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	period, err := scanPeriod(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPeriodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan period: %v", ErrScanRow, err)
	}

	return period, nil
}

// GetByProviderAndDate получает занятые периоды провайдера на дату
// Внутри транзакции блокирует строки через FOR UPDATE - проверка
// доступности при бронировании читает их перед вставкой
func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.OccupiedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(periodColumns...).
		From("occupied_periods").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"date": date}).
		OrderBy("start_minutes ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanPeriods(rows)
}

// DeleteByAppointmentID удаляет периоды, связанные с записью
// Используется при отмене и переносе - вместе с записью уходит и её буфер
func (r *Repository) DeleteByAppointmentID(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("occupied_periods").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByAppointmentID - build delete query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByAppointmentID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteManualByRange удаляет ручную блокировку провайдера по точному диапазону
func (r *Repository) DeleteManualByRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("occupied_periods").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"start_minutes": startMinutes}).
		Where(squirrel.Eq{"end_minutes": endMinutes}).
		Where(squirrel.Eq{"kind": domain.KindManual}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteManualByRange - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteManualByRange - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteManualByRange - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPeriodNotFound
	}

	return nil
}

// scanPeriods сканирует результаты запроса в слайс периодов
func (r *Repository) scanPeriods(rows *sql.Rows) ([]*domain.OccupiedPeriod, error) {
	periods := make([]*domain.OccupiedPeriod, 0)

	for rows.Next() {
		period, err := scanPeriod(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanPeriods - scan row: %v", ErrScanRow, err)
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPeriods - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}

func scanPeriod(scan func(dest ...interface{}) error) (*domain.OccupiedPeriod, error) {
	var p domain.OccupiedPeriod
	var createdAt sql.NullTime

	err := scan(
		&p.ID,
		&p.ProviderID,
		&p.Date,
		&p.StartMinutes,
		&p.EndMinutes,
		&p.Kind,
		&p.AppointmentID,
		&p.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time

	return &p, nil
}
