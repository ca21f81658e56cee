package directoryservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника клиник и врачей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDoctor получает врача по ID
func (c *Client) GetDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	endpoint := fmt.Sprintf("%s/internal/doctors/%s", c.baseURL, url.PathEscape(doctorID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrDoctorNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var doctor Doctor
	if err := json.NewDecoder(resp.Body).Decode(&doctor); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if doctor.ID == "" || doctor.ClinicID == "" {
		return nil, fmt.Errorf("%w: doctor id and clinic id are required", ErrInvalidResponse)
	}

	return &doctor, nil
}

// GetDoctorWithGracefulDegradation как GetDoctor, но недоступность справочника
// возвращается как ErrServiceDegraded, чтобы вызывающий мог продолжить без проверки
func (c *Client) GetDoctorWithGracefulDegradation(ctx context.Context, doctorID string) (*Doctor, error) {
	doctor, err := c.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			c.log.Info("Doctor id=%s not found in directory", doctorID)
			return nil, err
		}

		c.log.Error("DirectoryService unavailable, applying graceful degradation for doctor_id=%s: %v", doctorID, err)
		return nil, fmt.Errorf("%w: doctor_id=%s, error=%v", ErrServiceDegraded, doctorID, err)
	}

	return doctor, nil
}
