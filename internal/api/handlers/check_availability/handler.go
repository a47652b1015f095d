package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilitySvc "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime       = "некорректное время, ожидается HH:MM"
	msgInvalidRange      = "время начала должно быть раньше времени окончания"
)

// Причины отказа в ответе
const (
	reasonDayOff       = "day_off"
	reasonOutsideHours = "outside_working_hours"
	reasonTimeConflict = "time_conflict"
)

// CheckAvailabilityResponse ответ точечной проверки интервала
type CheckAvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type Handler struct {
	availability AvailabilityService
	logger       Logger
}

func NewHandler(availability AvailabilityService, logger Logger) *Handler {
	return &Handler{
		availability: availability,
		logger:       logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability
// Query params: date (YYYY-MM-DD), startTime, endTime (HH:MM)
// Ответ - подсказка, а не резервация: бронирование перепроверяет
// интервал в своей транзакции
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /providers/{id}/availability - Missing date: provider_id=%d", providerID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := types.NewTimeStringFromString(r.URL.Query().Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	end, err := types.NewTimeStringFromString(r.URL.Query().Get("endTime"))
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid end time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	if !start.IsBefore(end) {
		h.logger.Warn("GET /providers/{id}/availability - Inverted range: provider_id=%d, %s-%s",
			providerID, start, end)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	err = h.availability.CheckRange(r.Context(), providerID, date, start.Minutes(), end.Minutes())
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, availabilitySvc.ErrDayOff):
			reason = reasonDayOff
		case errors.Is(err, availabilitySvc.ErrOutsideWorkingHours):
			reason = reasonOutsideHours
		case errors.Is(err, availabilitySvc.ErrTimeConflict):
			reason = reasonTimeConflict
		case errors.Is(err, availabilitySvc.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		default:
			h.logger.Error("GET /providers/{id}/availability - Check failed: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Info("GET /providers/{id}/availability - Unavailable: provider_id=%d, date=%s, %s-%s, reason=%s",
			providerID, dateStr, start, end, reason)
		handlers.RespondJSON(w, http.StatusOK, &CheckAvailabilityResponse{Available: false, Reason: reason})
		return
	}

	h.logger.Info("GET /providers/{id}/availability - Available: provider_id=%d, date=%s, %s-%s",
		providerID, dateStr, start, end)
	handlers.RespondJSON(w, http.StatusOK, &CheckAvailabilityResponse{Available: true})
}
