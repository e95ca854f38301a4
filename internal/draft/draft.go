// Package draft holds the unsaved event payload an organizer edits and the
// rules it must satisfy before anything is written.
package draft

import (
	"time"

	"eventdesk/internal/schema"
)

type ImageRef struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	Width     *int   `json:"width,omitempty"`
	Height    *int   `json:"height,omitempty"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`
}

type Images struct {
	Main    *ImageRef  `json:"main"`
	Gallery []ImageRef `json:"gallery"`
}

type FaqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TicketType struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            float64  `json:"price"`
	Fee              *float64 `json:"fee,omitempty"`
	QuantityPerOrder float64  `json:"quantityPerOrder"`
	Active           bool     `json:"active"`
}

// OrderFormField describes one question of the checkout form.
type OrderFormField struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
}

type ConfirmationEmail struct {
	From     string `json:"from"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

type EventDraft struct {
	Title                   string            `json:"title"`
	ShortDescription        string            `json:"shortDescription"`
	Overview                string            `json:"overview"`
	Location                string            `json:"location"`
	StartDate               string            `json:"startDate"`
	EndDate                 string            `json:"endDate"`
	PrimaryEventDate        string            `json:"primaryEventDate"`
	Category                string            `json:"category,omitempty"`
	Capacity                *int              `json:"capacity,omitempty"`
	Images                  Images            `json:"images"`
	Faq                     []FaqItem         `json:"faq"`
	Tickets                 []TicketType      `json:"tickets"`
	OrderForm               []OrderFormField  `json:"orderForm"`
	SpecialInstructions     []string          `json:"specialInstructions"`
	ConfirmationPageMessage string            `json:"confirmationPageMessage"`
	ConfirmationEmail       ConfirmationEmail `json:"confirmationEmail"`
	Hashtags                []string          `json:"hashtags,omitempty"`
	Metadata                map[string]any    `json:"metadata,omitempty"`
	Modules                 []schema.Module   `json:"modules"`
}

// Validated is a draft that passed every rule, with its dates parsed.
type Validated struct {
	Draft       EventDraft
	StartDate   time.Time
	EndDate     time.Time
	PrimaryDate time.Time
}
