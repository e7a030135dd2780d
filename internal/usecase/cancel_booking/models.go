package cancel_booking

// Request модель запроса на отмену бронирования
// Отмена не трогает платежную транзакцию: автоматических возвратов нет
type Request struct {
	EventID string  // ID события во внешнем календаре
	Reason  *string // Причина отмены (опционально)
}
