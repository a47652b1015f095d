package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestCandidateStarts_BlockTooShort(t *testing.T) {
	policy := DefaultCandidatePolicy()

	assert.Nil(t, CandidateStarts(window(600, 650), 60, policy))
	assert.Nil(t, CandidateStarts(window(600, 660), 0, policy))
	assert.Nil(t, CandidateStarts(window(660, 600), 30, policy))
}

func TestCandidateStarts_ShortService_DensePacking(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Окно 08:00-12:00, услуга 30 минут: все получасовые старты
	starts := CandidateStarts(window(480, 720), 30, policy)
	expected := []int{480, 510, 540, 570, 600, 630, 660, 690}
	assert.Equal(t, expected, starts)
}

func TestCandidateStarts_ShortService_Backfill(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Услуга 45 минут (шаг 55 с паузой): последовательный проход с притяжкой
	// плюс добивка пропущенных получасовых стартов
	starts := CandidateStarts(window(480, 720), 45, policy)

	// Каждый получасовой старт в диапазоне присутствует
	for s := 480; s+45 <= 720; s += 30 {
		assert.Contains(t, starts, s, "missing round start %d", s)
	}
	assertCandidateInvariants(t, starts, window(480, 720), 45)
}

func TestCandidateStarts_ShortService_UnalignedBlockStart(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Блок начинается в 08:05: притяжка к 08:00 невозможна (вне блока),
	// поэтому первый кандидат - начало блока
	starts := CandidateStarts(window(485, 720), 30, policy)
	require.NotEmpty(t, starts)
	assert.Equal(t, 485, starts[0])
	assertCandidateInvariants(t, starts, window(485, 720), 30)
}

func TestCandidateStarts_MidService_PacksOnGrid(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Окно 13:00-18:00, услуга 120 минут: упаковка 13:00, 15:00
	starts := CandidateStarts(window(780, 1080), 120, policy)
	assert.Equal(t, []int{780, 900}, starts)

	// Блок ровно на одну услугу
	starts = CandidateStarts(window(480, 600), 120, policy)
	assert.Equal(t, []int{480}, starts)
}

func TestCandidateStarts_MidService_UnalignedBlock(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Блок 13:20-18:00: сетка дает 13:30, 15:30
	starts := CandidateStarts(window(800, 1080), 120, policy)
	assert.Equal(t, []int{810, 930}, starts)

	// Сетка не помещается, но блок помещается: берем начало блока
	starts = CandidateStarts(window(485, 610), 120, policy)
	assert.Equal(t, []int{485}, starts)
}

func TestCandidateStarts_LongService_WholeHours(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Окно 08:00-18:00, услуга 180 минут: каждый круглый час до 15:00
	starts := CandidateStarts(window(480, 1080), 180, policy)
	assert.Equal(t, []int{480, 540, 600, 660, 720, 780, 840, 900}, starts)
}

func TestCandidateStarts_LongService_BlockStartIncluded(t *testing.T) {
	policy := DefaultCandidatePolicy()

	// Блок начинается в 08:10: точное начало блока добавляется перед
	// круглыми часами
	starts := CandidateStarts(window(490, 1080), 180, policy)
	require.NotEmpty(t, starts)
	assert.Equal(t, 490, starts[0])
	assert.Contains(t, starts, 540)
	assert.NotContains(t, starts, 480)
}

func TestCandidateStarts_LongService_ReservedStarts(t *testing.T) {
	policy := DefaultCandidatePolicy()
	// 10:00 и 14:00 зарезервированы за короткими услугами
	policy.ReservedStarts = []int{600, 840}

	starts := CandidateStarts(window(480, 1080), 180, policy)
	assert.NotContains(t, starts, 600)
	assert.NotContains(t, starts, 840)
	assert.Contains(t, starts, 540)

	// Короткие услуги зарезервированные старты получают
	shortStarts := CandidateStarts(window(480, 1080), 30, policy)
	assert.Contains(t, shortStarts, 600)
}

func TestCandidateStarts_NoDuplicatesSorted(t *testing.T) {
	policy := DefaultCandidatePolicy()

	for _, duration := range []int{15, 20, 30, 45, 60, 90, 120, 180, 240} {
		starts := CandidateStarts(window(495, 1075), duration, policy)
		assertCandidateInvariants(t, starts, window(495, 1075), duration)
	}
}

// assertCandidateInvariants проверяет гарантии генератора: уникальность,
// сортировку и попадание услуги целиком в блок
func assertCandidateInvariants(t *testing.T, starts []int, block domain.WorkingWindow, duration int) {
	t.Helper()
	seen := make(map[int]struct{})
	prev := -1
	for _, s := range starts {
		_, dup := seen[s]
		require.False(t, dup, "duplicate start %d", s)
		seen[s] = struct{}{}

		require.Greater(t, s, prev, "starts are not sorted ascending")
		prev = s

		require.GreaterOrEqual(t, s, block.StartMinutes)
		require.LessOrEqual(t, s+duration, block.EndMinutes)
	}
}
