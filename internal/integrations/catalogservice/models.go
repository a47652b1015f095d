package catalogservice

// Provider модель провайдера из CatalogService
type Provider struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Service модель услуги из CatalogService
type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
}

// ProviderService связка провайдер-услуга: провайдер может переопределить
// длительность услуги из каталога
type ProviderService struct {
	ProviderID      int64 `json:"provider_id"`
	ServiceID       int64 `json:"service_id"`
	DurationMinutes *int  `json:"duration_minutes,omitempty"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
