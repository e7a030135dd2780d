package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client REST клиент внешнего календарного сервиса
// Календарь - внешний источник истины о занятости; его данные
// никогда не кэшируются дольше одного запроса
type Client struct {
	baseURL    string
	calendarID string
	apiToken   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календаря
func NewClient(baseURL, calendarID, apiToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		calendarID: calendarID,
		apiToken:   apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// QueryFreeBusy возвращает занятые интервалы календаря за период [timeMin, timeMax)
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]domain.BusyInterval, error) {
	url := fmt.Sprintf("%s/v1/calendars/%s/freebusy", c.baseURL, c.calendarID)

	body, err := json.Marshal(freeBusyRequest{TimeMin: timeMin, TimeMax: timeMax})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInvalidResponse, err)
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus("QueryFreeBusy", resp)
	}

	var fbResp freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&fbResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	intervals := make([]domain.BusyInterval, 0, len(fbResp.Busy))
	for _, b := range fbResp.Busy {
		intervals = append(intervals, domain.BusyInterval{Start: b.Start, End: b.End})
	}

	return intervals, nil
}

// CreateEvent создает событие и возвращает его ID
// 409 от календаря означает пересечение с существующим событием (ErrConflict)
func (c *Client) CreateEvent(ctx context.Context, event *Event) (string, error) {
	url := fmt.Sprintf("%s/v1/calendars/%s/events", c.baseURL, c.calendarID)

	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal event: %v", ErrInvalidResponse, err)
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusConflict:
		return "", ErrConflict
	default:
		return "", c.unexpectedStatus("CreateEvent", resp)
	}

	var created createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: created event without id", ErrInvalidResponse)
	}

	return created.ID, nil
}

// GetEvent возвращает событие по ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	url := fmt.Sprintf("%s/v1/calendars/%s/events/%s", c.baseURL, c.calendarID, eventID)

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrEventNotFound
	default:
		return nil, c.unexpectedStatus("GetEvent", resp)
	}

	var event Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode event: %v", ErrInvalidResponse, err)
	}

	return &event, nil
}

// UpdateEvent обновляет событие частичным патчем
func (c *Client) UpdateEvent(ctx context.Context, eventID string, patch *EventPatch) error {
	url := fmt.Sprintf("%s/v1/calendars/%s/events/%s", c.baseURL, c.calendarID, eventID)

	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal patch: %v", ErrInvalidResponse, err)
	}

	resp, err := c.do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return c.unexpectedStatus("UpdateEvent", resp)
	}
}

// DeleteEvent удаляет событие из календаря
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	url := fmt.Sprintf("%s/v1/calendars/%s/events/%s", c.baseURL, c.calendarID, eventID)

	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	default:
		return c.unexpectedStatus("DeleteEvent", resp)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrCalendarUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Calendar service unreachable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	return resp, nil
}

func (c *Client) unexpectedStatus(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.log.Warn("Calendar %s returned status %d: %s", operation, resp.StatusCode, string(body))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status code %d", ErrCalendarUnavailable, resp.StatusCode)
	}
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}
