package verify_payment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MeetingService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingService/internal/service/payments"
)

const (
	msgTransactionNotFound = "платежная транзакция не найдена"
	msgLedgerUnavailable   = "леджер временно недоступен, повторите запрос позже"
)

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

// Handle POST /api/v1/payments/{transactionId}/verify
//
// Идемпотентен: повторные вызовы для терминальной транзакции возвращают
// сохраненный результат без обращения к леджеру
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	transactionID := vars["transactionId"]

	result, err := h.service.Verify(r.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrTransactionNotFound):
			h.logger.Warn("POST /payments/{id}/verify - Transaction not found: %s", transactionID)
			handlers.RespondNotFound(w, msgTransactionNotFound)

		case errors.Is(err, payments.ErrLedgerUnavailable):
			h.logger.Warn("POST /payments/{id}/verify - Ledger unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgLedgerUnavailable)

		default:
			h.logger.Error("POST /payments/{id}/verify - Failed to verify payment: transaction_id=%s, error=%v",
				transactionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/verify - Verified: transaction_id=%s, status=%s",
		result.TransactionID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
