package confirm_completion

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	confirmCompletion "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_completion"
)

const (
	msgMissingUserID        = "не удалось определить пользователя"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "подтверждать завершение может только провайдер записи"
	msgCannotComplete       = "запись нельзя завершить в текущем статусе"
	msgInvalidInput         = "некорректные данные запроса"
)

// ConfirmCompletionRequest HTTP request model
type ConfirmCompletionRequest struct {
	Code string `json:"code"` // Шестизначный код от клиента
}

// ConfirmCompletionResponse HTTP response model
type ConfirmCompletionResponse struct {
	Outcome           string `json:"outcome"` // completed | mismatch | locked_out
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
}

type Handler struct {
	useCase ConfirmCompletionUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmCompletionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/{id}/confirm - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ConfirmCompletionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmCompletion.Request{
		UserID:        userID,
		AppointmentID: appointmentID,
		Code:          req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmCompletion.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/confirm - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmCompletion.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/confirm - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmCompletion.ErrCannotComplete):
			h.logger.Warn("POST /appointments/{id}/confirm - Cannot complete: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotComplete)

		case errors.Is(err, confirmCompletion.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/confirm - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/{id}/confirm - Failed to confirm: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := &ConfirmCompletionResponse{
		Outcome:           string(result.Outcome),
		RemainingAttempts: result.RemainingAttempts,
	}

	// Итог проверки кодируется статусом ответа: неверный код и блокировка - не 200
	switch result.Outcome {
	case confirmCompletion.OutcomeCompleted:
		h.logger.Info("POST /appointments/{id}/confirm - Appointment completed: appointment_id=%d, provider_id=%d",
			appointmentID, userID)
		handlers.RespondJSON(w, http.StatusOK, response)

	case confirmCompletion.OutcomeMismatch:
		h.logger.Warn("POST /appointments/{id}/confirm - Code mismatch: appointment_id=%d", appointmentID)
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, response)

	case confirmCompletion.OutcomeLockedOut:
		h.logger.Warn("POST /appointments/{id}/confirm - Validation locked out: appointment_id=%d", appointmentID)
		handlers.RespondJSON(w, http.StatusLocked, response)

	default:
		h.logger.Error("POST /appointments/{id}/confirm - Unknown outcome: appointment_id=%d, outcome=%s",
			appointmentID, result.Outcome)
		handlers.RespondInternalError(w)
	}
}
