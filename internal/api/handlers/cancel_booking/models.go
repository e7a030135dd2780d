package cancel_booking

import (
	cancelBooking "github.com/m04kA/SMC-MeetingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(eventID string) *cancelBooking.Request {
	return &cancelBooking.Request{
		EventID: eventID,
		Reason:  r.Reason,
	}
}
