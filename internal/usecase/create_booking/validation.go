package create_booking

import (
	"fmt"
	"net/mail"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MeetingType == "" {
		return fmt.Errorf("%w: meeting type is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}

	if req.AttendeeName == "" {
		return fmt.Errorf("%w: attendee name is required", ErrInvalidInput)
	}

	if len(req.AttendeeName) > domain.MaxAttendeeNameLength {
		return fmt.Errorf("%w: attendee name exceeds %d characters", ErrInvalidInput, domain.MaxAttendeeNameLength)
	}

	if req.AttendeeEmail == "" {
		return fmt.Errorf("%w: attendee email is required", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(req.AttendeeEmail); err != nil {
		return fmt.Errorf("%w: attendee email is not a valid address", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.PaymentID != nil && *req.PaymentID == "" {
		return fmt.Errorf("%w: payment id must not be empty", ErrInvalidInput)
	}

	return nil
}
