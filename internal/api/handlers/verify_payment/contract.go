package verify_payment

import (
	"context"

	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

type PaymentService interface {
	Verify(ctx context.Context, transactionID string) (*models.VerifyPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
