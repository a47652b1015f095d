package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// makeSlot материализует кандидата в слот с точным временем окончания
func makeSlot(startMinutes, durationMinutes int) (Slot, error) {
	start, err := types.NewTimeStringFromMinutes(startMinutes)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid start: %v", err)
	}

	end, err := types.NewTimeStringFromMinutes(startMinutes + durationMinutes)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid end: %v", err)
	}

	return Slot{
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}, nil
}
