package create_appointment

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("create_appointment: provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrProviderInactive возвращается, когда провайдер не принимает записи
	ErrProviderInactive = errors.New("create_appointment: provider is inactive")

	// ErrSlotUnavailable возвращается, когда выбранное время занято
	// или выходит за рабочее окно провайдера
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid date")

	// ErrNoProviderAvailable возвращается, когда ни один из кандидатов
	// не может принять запись на запрошенное время
	ErrNoProviderAvailable = errors.New("create_appointment: no provider available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
