package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-MeetingService/internal/usecase/get_available_slots"
)

// SlotResponse один доступный слот
type SlotResponse struct {
	Start string `json:"start"` // RFC 3339, в запрошенной таймзоне
	End   string `json:"end"`
}

// GetAvailableSlotsResponse HTTP response model
// CalendarDegraded выставляется, когда внешний календарь был недоступен
// и занятость посчитана только по локальным бронированиям
type GetAvailableSlotsResponse struct {
	Date             string         `json:"date"`
	Slots            []SlotResponse `json:"slots"`
	CalendarDegraded bool           `json:"calendarDegraded,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *GetAvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
		}
	}

	return &GetAvailableSlotsResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		Slots:            slots,
		CalendarDegraded: resp.CalendarDegraded,
	}
}
