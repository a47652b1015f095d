package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// ScheduleDayRequest строка недельного расписания в запросе
type ScheduleDayRequest struct {
	Weekday    int     `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// ReplaceScheduleRequest запрос на полную замену недельного расписания
type ReplaceScheduleRequest struct {
	UserID     int64                `json:"userId"`
	ProviderID int64                `json:"providerId"`
	Days       []ScheduleDayRequest `json:"days"`
}

// ToDomain конвертирует строку запроса в domain модель с валидацией
func (r *ScheduleDayRequest) ToDomain(providerID int64) (*domain.ProviderSchedule, error) {
	if r.Weekday < 0 || r.Weekday > 6 {
		return nil, fmt.Errorf("weekday must be between 0 and 6, got %d", r.Weekday)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %v", err)
	}

	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %v", err)
	}

	sched := &domain.ProviderSchedule{
		ProviderID:   providerID,
		Weekday:      time.Weekday(r.Weekday),
		StartMinutes: start.Minutes(),
		EndMinutes:   end.Minutes(),
	}

	if !sched.Window().IsValid() {
		return nil, fmt.Errorf("invalid working window %s-%s", r.StartTime, r.EndTime)
	}

	// Перерыв указывается двумя границами сразу и лежит внутри окна
	if (r.BreakStart == nil) != (r.BreakEnd == nil) {
		return nil, fmt.Errorf("break requires both start and end")
	}

	if r.BreakStart != nil {
		breakStart, err := types.NewTimeStringFromString(*r.BreakStart)
		if err != nil {
			return nil, fmt.Errorf("invalid break start: %v", err)
		}

		breakEnd, err := types.NewTimeStringFromString(*r.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid break end: %v", err)
		}

		if !breakStart.IsBefore(breakEnd) {
			return nil, fmt.Errorf("break start must be before break end")
		}
		if !sched.Window().Contains(breakStart.Minutes(), breakEnd.Minutes()) {
			return nil, fmt.Errorf("break must lie inside the working window")
		}

		bs := breakStart.Minutes()
		be := breakEnd.Minutes()
		sched.BreakStartMinutes = &bs
		sched.BreakEndMinutes = &be
	}

	return sched, nil
}

// Response модели

// ScheduleDayResponse строка недельного расписания в ответе
type ScheduleDayResponse struct {
	Weekday    int     `json:"weekday"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// ScheduleResponse ответ с недельным расписанием провайдера
type ScheduleResponse struct {
	ProviderID int64                 `json:"providerId"`
	Days       []ScheduleDayResponse `json:"days"`
}

// FromDomainSchedules конвертирует domain модели в DTO
func FromDomainSchedules(providerID int64, list []*domain.ProviderSchedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		ProviderID: providerID,
		Days:       make([]ScheduleDayResponse, 0, len(list)),
	}

	for _, s := range list {
		day := ScheduleDayResponse{
			Weekday:   int(s.Weekday),
			StartTime: minutesToTime(s.StartMinutes),
			EndTime:   minutesToTime(s.EndMinutes),
		}
		if s.HasBreak() {
			bs := minutesToTime(*s.BreakStartMinutes)
			be := minutesToTime(*s.BreakEndMinutes)
			day.BreakStart = &bs
			day.BreakEnd = &be
		}
		resp.Days = append(resp.Days, day)
	}

	return resp
}

func minutesToTime(minutes int) string {
	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return ""
	}
	return ts.String()
}
