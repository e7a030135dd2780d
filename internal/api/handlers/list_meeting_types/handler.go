package list_meeting_types

import (
	"net/http"
	"sort"

	"github.com/m04kA/SMC-MeetingService/internal/api/handlers"
	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

type Logger interface {
	Info(format string, v ...interface{})
}

// MeetingTypeResponse описание типа встречи
type MeetingTypeResponse struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"` // В нативных единицах леджера
	PriceUSD        float64 `json:"priceUsd,omitempty"`
	RequiresPayment bool    `json:"requiresPayment"`
	Description     string  `json:"description,omitempty"`
}

// ListMeetingTypesResponse HTTP response model
type ListMeetingTypesResponse struct {
	MeetingTypes []MeetingTypeResponse `json:"meetingTypes"`
}

// Handler отдает каталог типов встреч из конфигурации
// Каталог статичен на время жизни процесса
type Handler struct {
	response *ListMeetingTypesResponse
	logger   Logger
}

func NewHandler(meetingTypes map[string]domain.MeetingTypeConfig, logger Logger) *Handler {
	items := make([]MeetingTypeResponse, 0, len(meetingTypes))
	for _, meetingType := range meetingTypes {
		items = append(items, MeetingTypeResponse{
			Name:            meetingType.Name,
			DurationMinutes: meetingType.DurationMinutes,
			Price:           meetingType.Price,
			PriceUSD:        meetingType.PriceUSD,
			RequiresPayment: meetingType.RequiresPayment,
			Description:     meetingType.Description,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return &Handler{
		response: &ListMeetingTypesResponse{MeetingTypes: items},
		logger:   logger,
	}
}

// Handle GET /api/v1/meeting-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("GET /meeting-types - %d types returned", len(h.response.MeetingTypes))
	handlers.RespondJSON(w, http.StatusOK, h.response)
}
