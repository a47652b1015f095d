package check_availability

import (
	"context"
	"time"
)

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	CheckRange(ctx context.Context, providerID int64, date time.Time, startMinutes, endMinutes int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
