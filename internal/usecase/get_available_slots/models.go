package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	Date        time.Time // Дата для получения слотов (без времени)
	Timezone    string    // IANA таймзона для отображения слотов
	MeetingType string    // Тип встречи (опционально, определяет длительность слота)
}

// Slot доступный временной слот
type Slot struct {
	Start time.Time // Начало слота
	End   time.Time // Конец слота
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date  time.Time // Дата, на которую запрашивались слоты
	Slots []Slot    // Доступные слоты в хронологическом порядке

	// CalendarDegraded внешний календарь был недоступен: занятость
	// рассчитана только по локальным бронированиям (fail open)
	CalendarDegraded bool
}
