package dto

import (
	"time"

	"eventdesk/internal/draft"
	"eventdesk/internal/model"
	"eventdesk/internal/schema"
	"eventdesk/internal/workspace"
)

type ModuleTemplate struct {
	schema.Definition
	Fields []schema.Field `json:"fields"`
}

type AddModuleRequest struct {
	ModuleType string `json:"module_type" validate:"required,oneof=tickets transportation hospitality"`
}

type AddModuleResponse struct {
	Added bool           `json:"added"`
	Draft workspace.View `json:"draft"`
}

type AddCustomModuleResponse struct {
	ModuleID string         `json:"module_id"`
	Draft    workspace.View `json:"draft"`
}

type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Issues draft.Issues `json:"issues"`
}

type CreateEventResponse struct {
	EventID int64             `json:"event_id"`
	Status  model.EventStatus `json:"status"`
}

type EventDetailResponse struct {
	model.Event
	Modules   []model.EventModule `json:"modules"`
	Tickets   []model.TicketType  `json:"tickets"`
	Faq       []model.FaqItem     `json:"faq"`
	Taken     int                 `json:"taken"`
	SeatsLeft *int                `json:"seats_left,omitempty"`
}

type RegisterRequest struct {
	Email        string         `json:"email" validate:"required,email"`
	TicketTypeID *int64         `json:"ticket_type_id,omitempty"`
	Quantity     int            `json:"quantity" validate:"omitempty,min=1,max=100"`
	Answers      map[string]any `json:"answers,omitempty"`
}

type RegistrationResponse struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	Email        string    `json:"email"`
	TicketTypeID *int64    `json:"ticket_type_id,omitempty"`
	Quantity     int       `json:"quantity"`
	TicketNumber string    `json:"ticket_number"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewRegistrationResponse(reg *model.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           reg.ID,
		EventID:      reg.EventID,
		Email:        reg.Email,
		TicketTypeID: reg.TicketTypeID,
		Quantity:     reg.Quantity,
		TicketNumber: reg.TicketNumber,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt,
	}
}

// RegistrationMessage asks the confirmation worker to email a participant.
// Attempt counts earlier failed sends.
type RegistrationMessage struct {
	RegistrationID int64 `json:"registration_id"`
	EventID        int64 `json:"event_id"`
	Attempt        int   `json:"attempt"`
}
