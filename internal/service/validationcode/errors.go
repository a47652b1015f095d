package validationcode

import "errors"

var (
	// ErrCodeMismatch возвращается при неверном коде подтверждения
	ErrCodeMismatch = errors.New("validation code mismatch")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("validationcode service: internal error")
)
