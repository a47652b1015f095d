package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// TimeString тип для работы с временем дня в формате "HH:MM"
// Внутри хранит минуты от полуночи, что позволяет выполнять
// арифметику без повторного парсинга строки
type TimeString struct {
	minutes int
}

// NewTimeString создает TimeString из time.Time (берет только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute()}
}

// NewTimeStringFromString парсит строку формата "HH:MM"
// Возвращает ошибку при некорректном формате или выходе за диапазон [00:00, 23:59]
func NewTimeStringFromString(s string) (TimeString, error) {
	// Все четыре позиции должны быть цифрами: Sscanf пропускает мусор
	// после короткого числа ("12:3x"), поэтому разбираем строку сами
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return TimeString{}, fmt.Errorf("invalid time string format: %q, expected HH:MM", s)
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return TimeString{}, fmt.Errorf("time string out of range: %q", s)
	}
	return TimeString{minutes: hours*60 + mins}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// NewTimeStringFromMinutes создает TimeString из минут от полуночи
// Допустимый диапазон [0, 1440)
func NewTimeStringFromMinutes(m int) (TimeString, error) {
	if m < 0 || m >= MinutesPerDay {
		return TimeString{}, fmt.Errorf("minutes out of range: %d", m)
	}
	return TimeString{minutes: m}, nil
}

// Minutes возвращает количество минут от полуночи
func (ts TimeString) Minutes() int {
	return ts.minutes
}

// String возвращает строковое представление в формате "HH:MM"
func (ts TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", ts.minutes/60, ts.minutes%60)
}

// AddMinutes возвращает новый TimeString, сдвинутый на m минут вперед
// Возвращает ошибку, если результат выходит за пределы суток
func (ts TimeString) AddMinutes(m int) (TimeString, error) {
	result := ts.minutes + m
	if result < 0 || result >= MinutesPerDay {
		return TimeString{}, fmt.Errorf("time %s + %d minutes is out of day range", ts, m)
	}
	return TimeString{minutes: result}, nil
}

// IsBefore проверяет, что время строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return ts.minutes < other.minutes
}

// IsAfter проверяет, что время строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return ts.minutes > other.minutes
}

// Equal проверяет равенство времен
func (ts TimeString) Equal(other TimeString) bool {
	return ts.minutes == other.minutes
}

// Value реализует driver.Valuer для сохранения в БД строкой "HH:MM"
func (ts TimeString) Value() (driver.Value, error) {
	return ts.String(), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает форматы "HH:MM" и "HH:MM:SS" (time колонка postgres)
func (ts *TimeString) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON сериализует время строкой "HH:MM"
func (ts TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON парсит время из строки "HH:MM"
func (ts *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
