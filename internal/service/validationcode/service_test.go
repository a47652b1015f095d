package validationcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestIssue_CodeFormat(t *testing.T) {
	svc := NewService("salt")

	for i := 0; i < 50; i++ {
		code, hash, err := svc.Issue()
		require.NoError(t, err)

		assert.Len(t, code, domain.ValidationCodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in code %q", code)
		}
		assert.Len(t, hash, 64) // hex SHA-256
	}
}

func TestIssue_HashMatchesCode(t *testing.T) {
	svc := NewService("salt")

	code, hash, err := svc.Issue()
	require.NoError(t, err)

	assert.Equal(t, svc.Hash(code), hash)
	assert.NoError(t, svc.Verify(hash, code))
}

func TestVerify_Mismatch(t *testing.T) {
	svc := NewService("salt")

	hash := svc.Hash("123456")

	assert.NoError(t, svc.Verify(hash, "123456"))
	assert.ErrorIs(t, svc.Verify(hash, "123457"), ErrCodeMismatch)
	assert.ErrorIs(t, svc.Verify(hash, ""), ErrCodeMismatch)
}

func TestHash_SaltChangesDigest(t *testing.T) {
	a := NewService("salt-a")
	b := NewService("salt-b")

	assert.NotEqual(t, a.Hash("123456"), b.Hash("123456"))

	// Хеш детерминирован в рамках одной соли
	assert.Equal(t, a.Hash("123456"), a.Hash("123456"))
}
