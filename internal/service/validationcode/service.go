package validationcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Service генерирует и проверяет одноразовые коды подтверждения записи
// Открытый текст кода существует только в момент выдачи, в хранилище
// попадает хеш с серверной солью
type Service struct {
	salt string
}

// NewService создает сервис кодов подтверждения
// Соль берется из конфигурации и должна быть одинаковой на всех инстансах
func NewService(salt string) *Service {
	return &Service{salt: salt}
}

// Issue генерирует новый шестизначный код и возвращает его вместе с хешем
// Ведущие нули допустимы: код всегда ровно шесть цифр
func (s *Service) Issue() (code string, hash string, err error) {
	max := big.NewInt(1)
	for i := 0; i < domain.ValidationCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", "", fmt.Errorf("%w: generate code: %v", ErrInternal, err)
	}

	code = fmt.Sprintf("%0*d", domain.ValidationCodeLength, n)
	return code, s.Hash(code), nil
}

// Hash возвращает hex-представление SHA-256 от кода с серверной солью
func (s *Service) Hash(code string) string {
	sum := sha256.Sum256([]byte(code + s.salt))
	return hex.EncodeToString(sum[:])
}

// Verify сравнивает код с сохраненным хешем за константное время
// Возвращает ErrCodeMismatch при несовпадении
func (s *Service) Verify(storedHash string, code string) error {
	candidate := s.Hash(code)
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) != 1 {
		return ErrCodeMismatch
	}
	return nil
}
