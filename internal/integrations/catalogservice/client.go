package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с CatalogService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProvider получает провайдера по ID
func (c *Client) GetProvider(ctx context.Context, providerID int64) (*Provider, error) {
	url := fmt.Sprintf("%s/internal/providers/%d", c.baseURL, providerID)

	var provider Provider
	if err := c.getJSON(ctx, url, &provider, ErrProviderNotFound); err != nil {
		return nil, err
	}

	return &provider, nil
}

// GetService получает услугу по ID вместе с базовой длительностью
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return &service, nil
}

// GetServiceForProvider получает услугу с учетом переопределения длительности
// конкретным провайдером. Если переопределения нет, возвращает данные каталога
func (c *Client) GetServiceForProvider(ctx context.Context, providerID, serviceID int64) (*Service, error) {
	service, err := c.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/internal/providers/%d/services/%d", c.baseURL, providerID, serviceID)

	var override ProviderService
	err = c.getJSON(ctx, url, &override, ErrServiceNotFound)
	if err != nil {
		// Отсутствие связки не ошибка - провайдер использует длительность каталога
		if errors.Is(err, ErrServiceNotFound) {
			return service, nil
		}
		return nil, err
	}

	if override.DurationMinutes != nil && *override.DurationMinutes > 0 {
		service.DurationMinutes = *override.DurationMinutes
	}

	return service, nil
}

// GetServiceWithGracefulDegradation получает услугу с graceful degradation
// При недоступности CatalogService возвращает ErrServiceDegraded: читающие
// операции отвечают клиенту явным деградированным отказом вместо 500
func (c *Client) GetServiceWithGracefulDegradation(ctx context.Context, providerID, serviceID int64) (*Service, error) {
	c.log.Info("Fetching service_id=%d for provider_id=%d", serviceID, providerID)

	service, err := c.GetServiceForProvider(ctx, providerID, serviceID)
	if err != nil {
		// Критичные бизнес-ошибки пробрасываем дальше
		if errors.Is(err, ErrServiceNotFound) || errors.Is(err, ErrProviderNotFound) {
			c.log.Info("Service not found in catalog: service_id=%d", serviceID)
			return nil, err
		}

		// Для остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("CatalogService unavailable, applying graceful degradation for service_id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: service_id=%d, error=%v", ErrServiceDegraded, serviceID, err)
	}

	c.log.Info("Successfully fetched service_id=%d, duration_minutes=%d", serviceID, service.DurationMinutes)
	return service, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
func (c *Client) getJSON(ctx context.Context, url string, dest interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid request parameters", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
