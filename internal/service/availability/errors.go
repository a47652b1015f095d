package availability

import "errors"

var (
	// ErrDayOff возвращается, когда провайдер не работает в запрошенный день
	ErrDayOff = errors.New("provider does not work on this day")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочее окно
	ErrOutsideWorkingHours = errors.New("time range is outside working hours")

	// ErrTimeConflict возвращается при пересечении с занятым временем
	ErrTimeConflict = errors.New("time range conflicts with occupied time")

	// ErrInvalidTimeRange возвращается при некорректном интервале
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
