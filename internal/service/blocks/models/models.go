package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// BlockTimeRequest запрос на ручную блокировку времени провайдера
type BlockTimeRequest struct {
	UserID     int64   `json:"userId"`
	ProviderID int64   `json:"providerId"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	EndTime    string  `json:"endTime"`   // "12:00"
	Reason     *string `json:"reason,omitempty"`
}

// UnblockTimeRequest запрос на снятие ручной блокировки
type UnblockTimeRequest struct {
	UserID     int64  `json:"userId"`
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// Response модели

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID         int64   `json:"id"`
	ProviderID int64   `json:"providerId"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Reason     *string `json:"reason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainPeriod конвертирует domain модель в DTO
func FromDomainPeriod(p *domain.OccupiedPeriod) *BlockResponse {
	if p == nil {
		return nil
	}

	return &BlockResponse{
		ID:         p.ID,
		ProviderID: p.ProviderID,
		Date:       p.Date.Format(domain.DateFormat),
		StartTime:  minutesToTime(p.StartMinutes),
		EndTime:    minutesToTime(p.EndMinutes),
		Reason:     p.Reason,
		CreatedAt:  p.CreatedAt,
	}
}

func minutesToTime(minutes int) string {
	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return ""
	}
	return ts.String()
}
