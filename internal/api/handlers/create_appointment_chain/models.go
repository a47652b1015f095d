package create_appointment_chain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentChainRequest HTTP request model
type CreateAppointmentChainRequest struct {
	ProviderID int64   `json:"providerId"`
	ServiceIDs []int64 `json:"serviceIds"` // Услуги в порядке выполнения
	Date       string  `json:"date"`       // "2025-10-15"
	StartTime  string  `json:"startTime"`  // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// ChainLinkResponse HTTP модель одного звена цепочки
type ChainLinkResponse struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	ServiceID       int64  `json:"serviceId"`
	ServiceName     string `json:"serviceName"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	ValidationCode  string `json:"validationCode"`
}

// ChainResponse HTTP модель ответа с цепочкой записей
type ChainResponse struct {
	ProviderID   int64               `json:"providerId"`
	Appointments []ChainLinkResponse `json:"appointments"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentChainRequest) ToUseCaseRequest(userID int64) (*createAppointment.ChainRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.ChainRequest{
		UserID:     userID,
		ProviderID: r.ProviderID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(providerID int64, resp *createAppointment.ChainResponse) *ChainResponse {
	links := make([]ChainLinkResponse, 0, len(resp.Appointments))
	for _, appt := range resp.Appointments {
		links = append(links, ChainLinkResponse{
			ID:              appt.ID,
			Reference:       appt.Reference.String(),
			ServiceID:       appt.ServiceID,
			ServiceName:     appt.ServiceName,
			Date:            appt.Date.Format(domain.DateFormat),
			StartTime:       appt.StartTime.String(),
			EndTime:         appt.EndTime.String(),
			DurationMinutes: appt.DurationMinutes,
			Status:          appt.Status,
			ValidationCode:  appt.ValidationCode,
		})
	}

	return &ChainResponse{
		ProviderID:   providerID,
		Appointments: links,
	}
}
