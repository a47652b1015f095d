package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Overlaps проверяет строгое пересечение интервалов [aStart, aEnd) и [bStart, bEnd)
// Граничащие интервалы пересечением не считаются
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ResolveFreeBlocks вычисляет максимальные свободные интервалы рабочего окна
// за вычетом объединения занятых периодов
//
// Алгоритм:
//  1. Каждый занятый период обрезается по границам окна, пустые и
//     некорректные отбрасываются
//  2. Периоды сортируются по началу и сливаются (пересекающиеся и граничащие)
//  3. Свободные блоки - промежутки до, между и после слитых периодов
//
// Результат отсортирован, блоки не пересекаются. Функция идемпотентна и
// не зависит от порядка занятых периодов на входе
func ResolveFreeBlocks(window domain.WorkingWindow, occupied []domain.OccupiedPeriod) []domain.WorkingWindow {
	if !window.IsValid() {
		return nil
	}

	// Шаг 1: обрезаем периоды по окну
	clipped := make([][2]int, 0, len(occupied))
	for _, p := range occupied {
		start := p.StartMinutes
		end := p.EndMinutes
		if start < window.StartMinutes {
			start = window.StartMinutes
		}
		if end > window.EndMinutes {
			end = window.EndMinutes
		}
		// Пустые после обрезки и изначально некорректные пропускаем
		if start >= end {
			continue
		}
		clipped = append(clipped, [2]int{start, end})
	}

	if len(clipped) == 0 {
		return []domain.WorkingWindow{window}
	}

	// Шаг 2: сортировка и слияние
	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i][0] == clipped[j][0] {
			return clipped[i][1] < clipped[j][1]
		}
		return clipped[i][0] < clipped[j][0]
	})

	merged := make([][2]int, 0, len(clipped))
	current := clipped[0]
	for _, p := range clipped[1:] {
		if p[0] <= current[1] {
			// Пересечение или стык - расширяем текущий период
			if p[1] > current[1] {
				current[1] = p[1]
			}
			continue
		}
		merged = append(merged, current)
		current = p
	}
	merged = append(merged, current)

	// Шаг 3: выделяем промежутки
	free := make([]domain.WorkingWindow, 0, len(merged)+1)
	cursor := window.StartMinutes
	for _, p := range merged {
		if p[0] > cursor {
			free = append(free, domain.WorkingWindow{StartMinutes: cursor, EndMinutes: p[0]})
		}
		cursor = p[1]
	}
	if cursor < window.EndMinutes {
		free = append(free, domain.WorkingWindow{StartMinutes: cursor, EndMinutes: window.EndMinutes})
	}

	return free
}
