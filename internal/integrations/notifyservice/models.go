package notifyservice

import "github.com/google/uuid"

// ValidationCodeMessage уведомление клиенту с одноразовым кодом подтверждения
// Код передается в открытом виде только здесь, в хранилище попадает лишь хеш
type ValidationCodeMessage struct {
	ClientID             int64     `json:"client_id"`
	AppointmentReference uuid.UUID `json:"appointment_reference"`
	Code                 string    `json:"code"`
	ServiceName          string    `json:"service_name"`
	Date                 string    `json:"date"`
	StartTime            string    `json:"start_time"`
}

// LockoutMessage уведомление о блокировке ввода кода
// Уходит обеим сторонам: клиент узнает, что его код больше не примут,
// провайдер - что завершение возможно только через поддержку
type LockoutMessage struct {
	ClientID             int64     `json:"client_id"`
	ProviderID           int64     `json:"provider_id"`
	AppointmentReference uuid.UUID `json:"appointment_reference"`
	Attempts             int       `json:"attempts"`
}

// CompletionMessage уведомление клиенту о завершении записи
type CompletionMessage struct {
	ClientID             int64     `json:"client_id"`
	AppointmentReference uuid.UUID `json:"appointment_reference"`
	ServiceName          string    `json:"service_name"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
