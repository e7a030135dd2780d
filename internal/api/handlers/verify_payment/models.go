package verify_payment

import (
	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	TransactionID string  `json:"transactionId"`
	MeetingType   string  `json:"meetingType"`
	Status        string  `json:"status"`
	Signature     *string `json:"signature,omitempty"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.VerifyPaymentResponse) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		TransactionID: resp.TransactionID,
		MeetingType:   resp.MeetingType,
		Status:        string(resp.Status),
		Signature:     resp.Signature,
	}
}
