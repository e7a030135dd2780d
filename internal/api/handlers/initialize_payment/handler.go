package initialize_payment

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/m04kA/SMC-MeetingService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingService/internal/api/middleware"
	"github.com/m04kA/SMC-MeetingService/internal/service/payments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownMeetingType = "неизвестный тип встречи"
	msgPaymentNotRequired = "данный тип встречи не требует оплаты"
)

// qrSize размер QR-кода в пикселях
const qrSize = 256

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req InitializePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Опциональная привязка к пользователю из X-User-ID
	userID := middleware.UserIDFromContext(r.Context())

	result, err := h.service.Initialize(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrUnknownMeetingType):
			h.logger.Warn("POST /payments - Unknown meeting type: %s", req.MeetingType)
			handlers.RespondBadRequest(w, msgUnknownMeetingType)

		case errors.Is(err, payments.ErrPaymentNotRequired):
			h.logger.Warn("POST /payments - Payment not required: %s", req.MeetingType)
			handlers.RespondBadRequest(w, msgPaymentNotRequired)

		default:
			h.logger.Error("POST /payments - Failed to initialize payment: meeting_type=%s, error=%v",
				req.MeetingType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// QR-код опционален: ошибка рендера не блокирует платеж,
	// URL в ответе остается пригодным для ручного использования
	qrCode := ""
	png, err := qrcode.Encode(result.PaymentRequest.URL, qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Warn("POST /payments - Failed to render QR code: %v", err)
	} else {
		qrCode = base64.StdEncoding.EncodeToString(png)
	}

	h.logger.Info("POST /payments - Payment initialized: transaction_id=%s, meeting_type=%s",
		result.TransactionID, req.MeetingType)
	handlers.RespondJSON(w, http.StatusCreated, FromServiceResponse(result, qrCode))
}
