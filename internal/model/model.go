package model

import "time"

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
)

func ParseEventStatus(s string) (EventStatus, bool) {
	switch st := EventStatus(s); st {
	case StatusDraft, StatusPublished:
		return st, true
	}
	return "", false
}

type Event struct {
	ID                  int64               `db:"id" json:"id"`
	OrganizerID         string              `db:"organizer_id" json:"organizer_id"`
	Title               string              `db:"title" json:"title"`
	ShortDescription    string              `db:"short_description" json:"short_description"`
	Overview            string              `db:"overview" json:"overview"`
	Location            string              `db:"location" json:"location"`
	StartDate           Date                `db:"start_date" json:"start_date"`
	EndDate             Date                `db:"end_date" json:"end_date"`
	PrimaryEventDate    Date                `db:"primary_event_date" json:"primary_event_date"`
	Category            string              `db:"category" json:"category,omitempty"`
	Capacity            *int                `db:"capacity" json:"capacity,omitempty"`
	MainImageURL        string              `db:"main_image_url" json:"main_image_url,omitempty"`
	GalleryImages       JSON[[]ImageRef]    `db:"gallery_images" json:"gallery_images"`
	OrderForm           JSON[[]FormField]   `db:"order_form" json:"order_form"`
	SpecialInstructions JSON[[]string]      `db:"special_instructions" json:"special_instructions"`
	ConfirmationMessage string              `db:"confirmation_message" json:"confirmation_message"`
	ConfirmationEmail   JSON[EmailTemplate] `db:"confirmation_email" json:"confirmation_email"`
	Hashtags            JSON[[]string]      `db:"hashtags" json:"hashtags"`
	Status              EventStatus         `db:"status" json:"status"`
	CreatedAt           time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updated_at"`
}

type ImageRef struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	Width     *int   `json:"width,omitempty"`
	Height    *int   `json:"height,omitempty"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`
}

type FormField struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
}

// EmailTemplate is the organizer-authored confirmation email. HTMLBody may
// reference placeholders such as {{event_title}}.
type EmailTemplate struct {
	From     string `json:"from"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

type EventModule struct {
	ID          int64         `db:"id" json:"id"`
	EventID     int64         `db:"event_id" json:"event_id"`
	ModuleType  string        `db:"module_type" json:"module_type"`
	Name        string        `db:"module_name" json:"module_name"`
	Icon        string        `db:"module_icon" json:"module_icon,omitempty"`
	ImageURL    string        `db:"module_image_url" json:"module_image_url,omitempty"`
	Description string        `db:"module_description" json:"module_description,omitempty"`
	IsActive    bool          `db:"is_active" json:"is_active"`
	SortOrder   int           `db:"sort_order" json:"sort_order"`
	Fields      []ModuleField `db:"-" json:"fields"`
}

// ModuleField.Options is only set for select fields; the store rejects any
// other combination.
type ModuleField struct {
	ID          int64          `db:"id" json:"id"`
	ModuleID    int64          `db:"module_id" json:"module_id"`
	Key         string         `db:"field_key" json:"field_key"`
	Type        string         `db:"field_type" json:"field_type"`
	Label       string         `db:"field_label" json:"field_label"`
	Placeholder string         `db:"field_placeholder" json:"field_placeholder,omitempty"`
	Options     JSON[[]string] `db:"field_options" json:"field_options,omitempty"`
	IsRequired  bool           `db:"is_required" json:"is_required"`
	SortOrder   int            `db:"sort_order" json:"sort_order"`
}

type TicketType struct {
	ID               int64    `db:"id" json:"id"`
	EventID          int64    `db:"event_id" json:"event_id"`
	Name             string   `db:"name" json:"name"`
	Description      string   `db:"description" json:"description"`
	Price            float64  `db:"price" json:"price"`
	Fee              *float64 `db:"fee" json:"fee,omitempty"`
	QuantityPerOrder int      `db:"quantity_per_order" json:"quantity_per_order"`
	IsActive         bool     `db:"is_active" json:"is_active"`
	SortOrder        int      `db:"sort_order" json:"sort_order"`
}

type FaqItem struct {
	ID        int64  `db:"id" json:"id"`
	EventID   int64  `db:"event_id" json:"event_id"`
	Question  string `db:"question" json:"question"`
	Answer    string `db:"answer" json:"answer"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

type Registration struct {
	ID           int64                `db:"id" json:"id"`
	EventID      int64                `db:"event_id" json:"event_id"`
	UserID       string               `db:"user_id" json:"user_id"`
	Email        string               `db:"email" json:"email"`
	TicketTypeID *int64               `db:"ticket_type_id" json:"ticket_type_id,omitempty"`
	Quantity     int                  `db:"quantity" json:"quantity"`
	Answers      JSON[map[string]any] `db:"answers" json:"answers"`
	TicketNumber string               `db:"ticket_number" json:"ticket_number"`
	Status       string               `db:"status" json:"status"`
	RegisteredAt time.Time            `db:"registered_at" json:"registered_at"`
}

const (
	RegistrationConfirmed = "confirmed"
	RegistrationCanceled  = "canceled"
)
