package initialize_payment

import (
	"context"

	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

type PaymentService interface {
	Initialize(ctx context.Context, req *models.InitializePaymentRequest) (*models.InitializePaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
