package scheduling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func window(start, end int) domain.WorkingWindow {
	return domain.WorkingWindow{StartMinutes: start, EndMinutes: end}
}

func occupied(start, end int) domain.OccupiedPeriod {
	return domain.OccupiedPeriod{StartMinutes: start, EndMinutes: end, Kind: domain.KindManual}
}

func TestResolveFreeBlocks_NoOccupied(t *testing.T) {
	blocks := ResolveFreeBlocks(window(480, 720), nil)
	require.Len(t, blocks, 1)
	assert.Equal(t, window(480, 720), blocks[0])
}

func TestResolveFreeBlocks_FullyOccupied(t *testing.T) {
	blocks := ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{occupied(480, 720)})
	assert.Empty(t, blocks)

	// Период шире окна тоже закрывает его полностью
	blocks = ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{occupied(400, 800)})
	assert.Empty(t, blocks)
}

func TestResolveFreeBlocks_Gaps(t *testing.T) {
	// Окно 08:00-12:00, занято 09:00-10:00 и 11:00-11:30
	blocks := ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{
		occupied(540, 600),
		occupied(660, 690),
	})

	require.Len(t, blocks, 3)
	assert.Equal(t, window(480, 540), blocks[0])
	assert.Equal(t, window(600, 660), blocks[1])
	assert.Equal(t, window(690, 720), blocks[2])
}

func TestResolveFreeBlocks_MergesOverlapping(t *testing.T) {
	blocks := ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{
		occupied(500, 560),
		occupied(540, 600), // пересекается с предыдущим
		occupied(600, 620), // граничит - тоже сливается
	})

	require.Len(t, blocks, 2)
	assert.Equal(t, window(480, 500), blocks[0])
	assert.Equal(t, window(620, 720), blocks[1])
}

func TestResolveFreeBlocks_ClipsToWindow(t *testing.T) {
	blocks := ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{
		occupied(400, 500), // частично до окна
		occupied(700, 800), // частично после окна
		occupied(100, 200), // целиком вне окна - игнорируется
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, window(500, 700), blocks[0])
}

func TestResolveFreeBlocks_DropsInvalidPeriods(t *testing.T) {
	blocks := ResolveFreeBlocks(window(480, 720), []domain.OccupiedPeriod{
		occupied(600, 600), // нулевая длина
		occupied(650, 640), // start > end
	})

	require.Len(t, blocks, 1)
	assert.Equal(t, window(480, 720), blocks[0])
}

func TestResolveFreeBlocks_InvalidWindow(t *testing.T) {
	assert.Nil(t, ResolveFreeBlocks(window(720, 480), nil))
	assert.Nil(t, ResolveFreeBlocks(window(480, 480), nil))
}

// Идемпотентность и независимость от порядка занятых периодов
func TestResolveFreeBlocks_OrderIndependent(t *testing.T) {
	periods := []domain.OccupiedPeriod{
		occupied(540, 600),
		occupied(660, 690),
		occupied(500, 530),
	}

	expected := ResolveFreeBlocks(window(480, 720), periods)

	for i := 0; i < 20; i++ {
		shuffled := make([]domain.OccupiedPeriod, len(periods))
		copy(shuffled, periods)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, expected, ResolveFreeBlocks(window(480, 720), shuffled))
	}
}

// Свойство покрытия: сумма свободных блоков и слитых занятых периодов
// внутри окна равна длине окна; блоки не пересекаются ни между собой,
// ни с занятыми периодами
func TestResolveFreeBlocks_CoverageProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		start := rng.Intn(600)
		end := start + 1 + rng.Intn(800)
		if end >= domain.MinutesPerDay {
			end = domain.MinutesPerDay - 1
		}
		if start >= end {
			continue
		}
		w := window(start, end)

		periods := make([]domain.OccupiedPeriod, rng.Intn(8))
		for j := range periods {
			ps := rng.Intn(domain.MinutesPerDay - 60)
			periods[j] = occupied(ps, ps+1+rng.Intn(120))
		}

		blocks := ResolveFreeBlocks(w, periods)

		freeTotal := 0
		for k, b := range blocks {
			require.Less(t, b.StartMinutes, b.EndMinutes)
			freeTotal += b.Duration()

			// Блоки отсортированы и не пересекаются между собой
			if k > 0 {
				require.GreaterOrEqual(t, b.StartMinutes, blocks[k-1].EndMinutes)
			}
			// Блоки не пересекаются ни с одним занятым периодом
			for _, p := range periods {
				if p.StartMinutes < p.EndMinutes {
					require.False(t, Overlaps(b.StartMinutes, b.EndMinutes, p.StartMinutes, p.EndMinutes),
						"free block [%d,%d) overlaps occupied [%d,%d)", b.StartMinutes, b.EndMinutes, p.StartMinutes, p.EndMinutes)
				}
			}
		}

		// Покрытие: свободное время + занятое время внутри окна = длина окна
		occupiedTotal := mergedOccupiedLength(w, periods)
		require.Equal(t, w.Duration(), freeTotal+occupiedTotal)
	}
}

// mergedOccupiedLength считает длину объединения занятых периодов внутри окна
// напрямую по минутам - медленный, но очевидно корректный эталон
func mergedOccupiedLength(w domain.WorkingWindow, periods []domain.OccupiedPeriod) int {
	total := 0
	for m := w.StartMinutes; m < w.EndMinutes; m++ {
		for _, p := range periods {
			if p.StartMinutes < p.EndMinutes && m >= p.StartMinutes && m < p.EndMinutes {
				total++
				break
			}
		}
	}
	return total
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(100, 200, 150, 250))
	assert.True(t, Overlaps(150, 250, 100, 200))
	assert.True(t, Overlaps(100, 200, 120, 180))

	// Граничащие интервалы не пересекаются
	assert.False(t, Overlaps(100, 200, 200, 300))
	assert.False(t, Overlaps(200, 300, 100, 200))
	assert.False(t, Overlaps(100, 200, 300, 400))
}
