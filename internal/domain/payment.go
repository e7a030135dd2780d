package domain

import "time"

// PaymentStatus represents the state of a payment transaction
// Переходы строго монотонны: pending -> confirmed | pending -> failed.
// Терминальные статусы (confirmed, failed) не изменяются.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsTerminal returns true for statuses that never change once reached
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentConfirmed || s == PaymentFailed
}

// PaymentTransaction represents a ledger payment awaiting or past verification
// Ровно одна транзакция может существовать на один reference;
// поиск по id и по reference должен быть O(1) (ключи в БД).
type PaymentTransaction struct {
	ID          string // UUID, генерируется при инициализации
	MeetingType string
	Amount      float64 // В нативных единицах леджера
	Reference   string  // Уникальный корреляционный токен, base58

	Status PaymentStatus

	// Signature доказательство из леджера, выставляется только при confirmed
	Signature *string

	UserID *int64

	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// IsTerminal returns true if the transaction reached a final state
func (t *PaymentTransaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// PaymentRequest описание платежного запроса для отображения пользователю
// Кодируется в URL, пригодный для рендера в сканируемый код
type PaymentRequest struct {
	Recipient string  // Адрес кошелька получателя
	Amount    float64 // Сумма в нативных единицах
	Reference string  // Корреляционный токен, вшивается в транзакцию
	Label     string  // Человекочитаемая подпись
	Message   string  // Описание платежа
	URL       string  // Закодированный платежный запрос
}
