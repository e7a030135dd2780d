package calendar

import "time"

// Attendee участник события
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event событие во внешнем календаре
type Event struct {
	ID          string            `json:"id,omitempty"`
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Attendees   []Attendee        `json:"attendees,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// EventPatch частичное обновление события
// nil-поля не изменяются
type EventPatch struct {
	Summary *string    `json:"summary,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

// freeBusyRequest запрос занятых интервалов
type freeBusyRequest struct {
	TimeMin time.Time `json:"timeMin"`
	TimeMax time.Time `json:"timeMax"`
}

// busyInterval занятый интервал в ответе freebusy
type busyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// freeBusyResponse ответ со списком занятых интервалов
type freeBusyResponse struct {
	Busy []busyInterval `json:"busy"`
}

// createEventResponse ответ на создание события
type createEventResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки календарного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
