package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	createBooking "github.com/m04kA/SMC-MeetingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	MeetingType   string  `json:"meetingType"`
	Date          string  `json:"date"`      // "2026-09-15"
	StartTime     string  `json:"startTime"` // "10:00"
	Timezone      string  `json:"timezone,omitempty"`
	AttendeeName  string  `json:"attendeeName"`
	AttendeeEmail string  `json:"attendeeEmail"`
	Notes         *string `json:"notes,omitempty"`
	PaymentID     *string `json:"paymentId,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	EventID         string  `json:"eventId"`
	MeetingType     string  `json:"meetingType"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	AttendeeName    string  `json:"attendeeName"`
	AttendeeEmail   string  `json:"attendeeEmail"`
	Notes           *string `json:"notes,omitempty"`
	PaymentID       *string `json:"paymentId,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		MeetingType:   r.MeetingType,
		Date:          date,
		StartTime:     startTime,
		Timezone:      r.Timezone,
		AttendeeName:  r.AttendeeName,
		AttendeeEmail: r.AttendeeEmail,
		Notes:         r.Notes,
		PaymentID:     r.PaymentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		EventID:         resp.ExternalEventID,
		MeetingType:     resp.MeetingType,
		Date:            resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		AttendeeName:    resp.AttendeeName,
		AttendeeEmail:   resp.AttendeeEmail,
		Notes:           resp.Notes,
		PaymentID:       resp.PaymentID,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
