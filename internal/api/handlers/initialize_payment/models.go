package initialize_payment

import (
	"github.com/m04kA/SMC-MeetingService/internal/service/payments/models"
)

// InitializePaymentRequest HTTP request model
type InitializePaymentRequest struct {
	MeetingType string `json:"meetingType"`
}

// PaymentRequestResponse платежный запрос для отображения пользователю
type PaymentRequestResponse struct {
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Label     string  `json:"label"`
	Message   string  `json:"message"`
	URL       string  `json:"url"`
}

// InitializePaymentResponse HTTP response model
// QRCode - PNG с закодированным платежным URL, base64
type InitializePaymentResponse struct {
	TransactionID  string                 `json:"transactionId"`
	Reference      string                 `json:"reference"`
	PaymentRequest PaymentRequestResponse `json:"paymentRequest"`
	QRCode         string                 `json:"qrCode,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *InitializePaymentRequest) ToServiceRequest(userID *int64) *models.InitializePaymentRequest {
	return &models.InitializePaymentRequest{
		MeetingType: r.MeetingType,
		UserID:      userID,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.InitializePaymentResponse, qrCode string) *InitializePaymentResponse {
	return &InitializePaymentResponse{
		TransactionID: resp.TransactionID,
		Reference:     resp.Reference,
		PaymentRequest: PaymentRequestResponse{
			Recipient: resp.PaymentRequest.Recipient,
			Amount:    resp.PaymentRequest.Amount,
			Reference: resp.PaymentRequest.Reference,
			Label:     resp.PaymentRequest.Label,
			Message:   resp.PaymentRequest.Message,
			URL:       resp.PaymentRequest.URL,
		},
		QRCode: qrCode,
	}
}
