package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-MeetingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-MeetingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewDate      string `json:"newDate"`      // "2026-09-20"
	NewStartTime string `json:"newStartTime"` // "14:00"
	Timezone     string `json:"timezone,omitempty"`
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
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(eventID string) (*rescheduleBooking.Request, error) {
	newDate, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	newStartTime, err := types.NewTimeStringFromString(r.NewStartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		EventID:      eventID,
		NewDate:      newDate,
		NewStartTime: newStartTime,
		Timezone:     r.Timezone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
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
	}
}
