package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifyService
// Все методы best-effort: ошибки доставки логируются вызывающей стороной
// и никогда не откатывают уже зафиксированную запись
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendValidationCode отправляет клиенту одноразовый код подтверждения
func (c *Client) SendValidationCode(ctx context.Context, msg ValidationCodeMessage) error {
	return c.postJSON(ctx, "/internal/notifications/validation-code", msg)
}

// NotifyLockout уведомляет провайдера об исчерпании попыток ввода кода
func (c *Client) NotifyLockout(ctx context.Context, msg LockoutMessage) error {
	return c.postJSON(ctx, "/internal/notifications/lockout", msg)
}

// NotifyCompletion уведомляет клиента о завершении записи
func (c *Client) NotifyCompletion(ctx context.Context, msg CompletionMessage) error {
	return c.postJSON(ctx, "/internal/notifications/completion", msg)
}

// postJSON выполняет POST запрос с JSON телом
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
