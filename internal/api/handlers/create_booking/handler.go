package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MeetingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-MeetingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgUnknownMeetingType  = "неизвестный тип встречи"
	msgPaymentRequired     = "данный тип встречи требует оплаты, инициализируйте платеж"
	msgPaymentNotFound     = "платежная транзакция не найдена"
	msgPaymentPending      = "платеж еще не подтвержден, повторите запрос после подтверждения"
	msgPaymentFailed       = "платеж отклонен, требуется новый платеж"
	msgPaymentMismatch     = "платеж оформлен за другой тип встречи"
	msgPaymentAlreadyUsed  = "платеж уже использован другим бронированием"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgCalendarUnavailable = "календарь временно недоступен, повторите запрос позже"
	msgLedgerUnavailable   = "леджер временно недоступен, повторите запрос позже"
	msgInvalidRequest      = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrUnknownMeetingType):
			h.logger.Warn("POST /bookings - Unknown meeting type: %q", req.MeetingType)
			handlers.RespondBadRequest(w, msgUnknownMeetingType)

		case errors.Is(err, createBooking.ErrPaymentRequired):
			h.logger.Warn("POST /bookings - Payment required: meeting_type=%s", req.MeetingType)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentRequired)

		case errors.Is(err, createBooking.ErrPaymentNotFound):
			h.logger.Warn("POST /bookings - Payment not found: meeting_type=%s", req.MeetingType)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, createBooking.ErrPaymentPending):
			// Отличаем от отсутствия платежа: клиент должен поллить verify
			h.logger.Info("POST /bookings - Payment pending: meeting_type=%s", req.MeetingType)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentPending)

		case errors.Is(err, createBooking.ErrPaymentFailed):
			h.logger.Warn("POST /bookings - Payment failed: meeting_type=%s", req.MeetingType)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)

		case errors.Is(err, createBooking.ErrPaymentMismatch):
			h.logger.Warn("POST /bookings - Payment mismatch: meeting_type=%s", req.MeetingType)
			handlers.RespondBadRequest(w, msgPaymentMismatch)

		case errors.Is(err, createBooking.ErrPaymentAlreadyUsed):
			h.logger.Warn("POST /bookings - Payment already used: meeting_type=%s", req.MeetingType)
			handlers.RespondConflict(w, msgPaymentAlreadyUsed)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrCalendarUnavailable):
			h.logger.Warn("POST /bookings - Calendar unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgCalendarUnavailable)

		case errors.Is(err, createBooking.ErrLedgerUnavailable):
			h.logger.Warn("POST /bookings - Ledger unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgLedgerUnavailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: meeting_type=%s, error=%v",
				req.MeetingType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, event_id=%s",
		result.ID, result.ExternalEventID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
