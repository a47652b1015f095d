package confirm_completion

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("confirm_completion: appointment not found")

	// ErrAccessDenied возвращается, когда подтверждает не провайдер записи
	ErrAccessDenied = errors.New("confirm_completion: access denied")

	// ErrCannotComplete возвращается, когда запись нельзя завершить
	// (уже завершена или отменена)
	ErrCannotComplete = errors.New("confirm_completion: appointment cannot be completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_completion: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_completion: internal error")
)
