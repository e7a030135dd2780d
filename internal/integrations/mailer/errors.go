package mailer

import "errors"

var (
	// ErrSendFailed возвращается, когда письмо не удалось отправить.
	// Уведомления best-effort: эта ошибка логируется, но никогда
	// не приводит к откату бронирования.
	ErrSendFailed = errors.New("mailer: failed to send notification")
)
