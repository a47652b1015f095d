package reschedule_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	UserID        int64            // ID пользователя, выполняющего перенос
	AppointmentID int64            // ID переносимой записи
	NewDate       time.Time        // Новая дата
	NewStartTime  types.TimeString // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID         int64            // ID записи
	Reference  uuid.UUID        // Публичный идентификатор записи
	ProviderID int64            // ID провайдера
	Date       time.Time        // Новая дата
	StartTime  types.TimeString // Новое время начала
	EndTime    types.TimeString // Новое время окончания
	Status     string           // Статус записи (не меняется при переносе)
}
