package models

import "github.com/m04kA/SMC-MeetingService/internal/domain"

// InitializePaymentRequest запрос на инициализацию платежа
type InitializePaymentRequest struct {
	MeetingType string
	UserID      *int64 // Опционально, для привязки к пользователю
}

// InitializePaymentResponse результат инициализации платежа
type InitializePaymentResponse struct {
	TransactionID  string
	Reference      string
	PaymentRequest domain.PaymentRequest
}

// VerifyPaymentResponse результат верификации платежа
// Для терминальных транзакций возвращается сохраненный результат
// без обращения к леджеру
type VerifyPaymentResponse struct {
	TransactionID string
	MeetingType   string
	Status        domain.PaymentStatus
	Signature     *string
}
