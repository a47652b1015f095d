package occupied

import "errors"

var (
	// ErrPeriodNotFound занятый период не найден
	ErrPeriodNotFound = errors.New("occupied.repository: period not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("occupied.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("occupied.repository: failed to execute query")

	// ErrScanRow ошибка сканирования строки результата
	ErrScanRow = errors.New("occupied.repository: failed to scan row")
)
