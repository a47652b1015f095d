package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)

	// BufferMinutes переопределяет системный буфер после услуги (опционально)
	BufferMinutes *int

	// IsMultipleService подавляет буфер: запись - не последнее звено цепочки
	IsMultipleService bool
}

// ChainRequest модель запроса на последовательную запись нескольких услуг
type ChainRequest struct {
	UserID     int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceIDs []int64          // Услуги в порядке выполнения
	Date       time.Time        // Дата записи
	StartTime  types.TimeString // Время начала первой услуги
	Notes      *string          // Заметки (прикрепляются к каждому звену)
}

// AnyProviderRequest модель запроса на запись к первому свободному провайдеру
type AnyProviderRequest struct {
	UserID      int64            // ID клиента
	ServiceID   int64            // ID услуги
	ProviderIDs []int64          // Кандидаты в порядке приоритета
	Date        time.Time        // Дата записи
	StartTime   types.TimeString // Время начала
	Notes       *string          // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64            // ID созданной записи
	Reference  uuid.UUID        // Публичный идентификатор записи
	UserID     int64            // ID клиента
	ProviderID int64            // ID провайдера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	Status     string           // Статус записи

	// Денормализованные данные
	ServiceName     string  // Название услуги
	DurationMinutes int     // Эффективная длительность
	Notes           *string // Заметки

	// ValidationCode одноразовый код подтверждения завершения
	// Показывается клиенту ровно один раз, сервер хранит только хеш
	ValidationCode string

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// ChainResponse модель ответа с цепочкой созданных записей
type ChainResponse struct {
	Appointments []Response // Звенья цепочки в порядке выполнения
}

// AnyProviderResponse модель ответа на запись к первому свободному провайдеру
type AnyProviderResponse struct {
	Appointment Response // Созданная запись
	ProviderID  int64    // Провайдер, принявший запись
}
