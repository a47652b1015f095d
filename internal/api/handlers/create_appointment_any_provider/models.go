package create_appointment_any_provider

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentAnyProviderRequest HTTP request model
type CreateAppointmentAnyProviderRequest struct {
	ProviderIDs []int64 `json:"providerIds"` // Кандидаты в порядке приоритета
	ServiceID   int64   `json:"serviceId"`
	Date        string  `json:"date"`      // "2025-10-15"
	StartTime   string  `json:"startTime"` // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// AnyProviderResponse HTTP модель ответа
type AnyProviderResponse struct {
	ProviderID      int64   `json:"providerId"` // Провайдер, принявший запись
	ID              int64   `json:"id"`
	Reference       string  `json:"reference"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	ValidationCode  string  `json:"validationCode"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentAnyProviderRequest) ToUseCaseRequest(userID int64) (*createAppointment.AnyProviderRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.AnyProviderRequest{
		UserID:      userID,
		ServiceID:   r.ServiceID,
		ProviderIDs: r.ProviderIDs,
		Date:        date,
		StartTime:   startTime,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.AnyProviderResponse) *AnyProviderResponse {
	appt := resp.Appointment

	return &AnyProviderResponse{
		ProviderID:      resp.ProviderID,
		ID:              appt.ID,
		Reference:       appt.Reference.String(),
		ServiceID:       appt.ServiceID,
		ServiceName:     appt.ServiceName,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		EndTime:         appt.EndTime.String(),
		DurationMinutes: appt.DurationMinutes,
		Status:          appt.Status,
		Notes:           appt.Notes,
		ValidationCode:  appt.ValidationCode,
		CreatedAt:       appt.CreatedAt.Format(time.RFC3339),
	}
}
