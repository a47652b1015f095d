package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const halfHour = 30

// CandidatePolicy настройки генерации кандидатов времени начала
type CandidatePolicy struct {
	// LongServiceMinutes от этой длительности старты только на круглых часах
	LongServiceMinutes int
	// MidServiceMinutes от этой длительности упаковка по получасовой сетке
	MidServiceMinutes int
	// ShortServiceMinutes услуги короче получают паузу между стартами
	ShortServiceMinutes int
	// ShortGapMinutes пауза между короткими услугами при плотной упаковке
	ShortGapMinutes int
	// SnapToleranceMinutes допуск притяжки старта к круглому времени
	SnapToleranceMinutes int
	// ReservedStarts минуты от полуночи, закрытые для длинных услуг
	// (бизнес-правило: круглые часы, зарезервированные за короткими услугами)
	ReservedStarts []int
}

// DefaultCandidatePolicy возвращает политику с дефолтами движка
func DefaultCandidatePolicy() CandidatePolicy {
	return CandidatePolicy{
		LongServiceMinutes:   domain.LongServiceMinutes,
		MidServiceMinutes:    domain.MidServiceMinutes,
		ShortServiceMinutes:  domain.ShortServiceMinutes,
		ShortGapMinutes:      domain.ShortServiceGapMinutes,
		SnapToleranceMinutes: domain.SnapToleranceMinutes,
	}
}

// CandidateStarts генерирует времена начала (минуты от полуночи) для услуги
// заданной длительности внутри свободного блока
//
// Политика зависит от длительности:
//   - длинные услуги (>= LongServiceMinutes): старты на круглых часах плюс
//     точное начало блока; зарезервированные старты исключаются
//   - средние услуги (>= MidServiceMinutes): последовательная упаковка по
//     получасовой сетке, шаг равен длительности
//   - короткие услуги: плотная упаковка от начала блока с притяжкой к круглым
//     временам и добивкой пропущенных получасовых стартов
//
// Гарантии: старты уникальны, отсортированы по возрастанию,
// каждый старт s удовлетворяет s >= block.Start и s+duration <= block.End
func CandidateStarts(block domain.WorkingWindow, durationMinutes int, policy CandidatePolicy) []int {
	if durationMinutes <= 0 || !block.IsValid() {
		return nil
	}
	latest := block.EndMinutes - durationMinutes
	if latest < block.StartMinutes {
		// Блок короче услуги
		return nil
	}

	switch {
	case durationMinutes >= policy.LongServiceMinutes:
		return longServiceStarts(block, latest, policy)
	case durationMinutes >= policy.MidServiceMinutes:
		return packedGridStarts(block, latest, durationMinutes)
	default:
		return shortServiceStarts(block, latest, durationMinutes, policy)
	}
}

// longServiceStarts старты на круглых часах, плюс начало блока
func longServiceStarts(block domain.WorkingWindow, latest int, policy CandidatePolicy) []int {
	starts := make([]int, 0)

	if block.StartMinutes%60 != 0 {
		starts = append(starts, block.StartMinutes)
	}
	first := ceilTo(block.StartMinutes, 60)
	for s := first; s <= latest; s += 60 {
		starts = append(starts, s)
	}

	return filterReserved(starts, policy.ReservedStarts)
}

// packedGridStarts последовательная упаковка: каждый следующий старт
// начинается на конце предыдущей услуги, с притяжкой вверх к получасовой сетке
func packedGridStarts(block domain.WorkingWindow, latest, durationMinutes int) []int {
	starts := make([]int, 0)

	s := ceilTo(block.StartMinutes, halfHour)
	if s > latest && block.StartMinutes <= latest {
		// Сетка не помещается, но сам блок помещается - берем начало блока
		return []int{block.StartMinutes}
	}
	for s <= latest {
		starts = append(starts, s)
		s = ceilTo(s+durationMinutes, halfHour)
	}

	return starts
}

// shortServiceStarts плотная упаковка коротких услуг с добивкой
// пропущенных получасовых стартов
func shortServiceStarts(block domain.WorkingWindow, latest, durationMinutes int, policy CandidatePolicy) []int {
	step := durationMinutes
	if durationMinutes < policy.ShortServiceMinutes {
		step += policy.ShortGapMinutes
	}

	seen := make(map[int]struct{})
	starts := make([]int, 0)
	add := func(s int) {
		if s < block.StartMinutes || s > latest {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		starts = append(starts, s)
	}

	// Последовательный проход от начала блока
	cur := snapToRound(block.StartMinutes, policy.SnapToleranceMinutes)
	if cur < block.StartMinutes {
		cur = block.StartMinutes
	}
	for cur <= latest {
		add(cur)
		next := cur + step
		snapped := snapToRound(next, policy.SnapToleranceMinutes)
		if snapped <= cur {
			snapped = next
		}
		cur = snapped
	}

	// Добивка: получасовые старты, которые проход пропустил
	for s := ceilTo(block.StartMinutes, halfHour); s <= latest; s += halfHour {
		add(s)
	}

	sort.Ints(starts)
	return starts
}

// snapToRound притягивает время к ближайшему кратному получасу,
// если оно в пределах допуска; иначе возвращает исходное
func snapToRound(m, tolerance int) int {
	rounded := ((m + halfHour/2) / halfHour) * halfHour
	if abs(m-rounded) <= tolerance {
		return rounded
	}
	return m
}

// ceilTo округляет вверх до ближайшего кратного step
func ceilTo(m, step int) int {
	if m%step == 0 {
		return m
	}
	return (m/step + 1) * step
}

func filterReserved(starts, reserved []int) []int {
	if len(reserved) == 0 {
		return starts
	}
	filtered := starts[:0]
	for _, s := range starts {
		blocked := false
		for _, r := range reserved {
			if s == r {
				blocked = true
				break
			}
		}
		if !blocked {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
