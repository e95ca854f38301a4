// Package schema defines the closed sets of module and field types an organizer
// can compose registration questions from, and the templates that seed the
// predefined module types.
package schema

import (
	"errors"
	"fmt"
)

type ModuleType string

const (
	ModuleTickets        ModuleType = "tickets"
	ModuleTransportation ModuleType = "transportation"
	ModuleHospitality    ModuleType = "hospitality"
	ModuleCustom         ModuleType = "custom"
)

type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldText    FieldType = "text"
	FieldSelect  FieldType = "select"
	FieldImage   FieldType = "image"
)

var (
	ErrUnknownModuleType = errors.New("unknown module type")
	ErrUnknownFieldType  = errors.New("unknown field type")
)

func ParseModuleType(s string) (ModuleType, error) {
	switch t := ModuleType(s); t {
	case ModuleTickets, ModuleTransportation, ModuleHospitality, ModuleCustom:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModuleType, s)
}

// IsPredefined reports whether t has a built-in template. At most one module
// of a predefined type may exist per event.
func (t ModuleType) IsPredefined() bool {
	switch t {
	case ModuleTickets, ModuleTransportation, ModuleHospitality:
		return true
	}
	return false
}

func ParseFieldType(s string) (FieldType, error) {
	switch t := FieldType(s); t {
	case FieldString, FieldNumber, FieldBoolean, FieldText, FieldSelect, FieldImage:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// Definition is the static template of a predefined module type.
type Definition struct {
	Type        ModuleType `json:"module_type"`
	Name        string     `json:"module_name"`
	Icon        string     `json:"module_icon"`
	Description string     `json:"module_description"`
}

var predefined = []Definition{
	{
		Type:        ModuleTickets,
		Name:        "Tickets",
		Icon:        "Ticket",
		Description: "Manage ticket types and pricing",
	},
	{
		Type:        ModuleTransportation,
		Name:        "Transportation",
		Icon:        "Bus",
		Description: "Transportation options and logistics",
	},
	{
		Type:        ModuleHospitality,
		Name:        "Hospitality",
		Icon:        "Hotel",
		Description: "Accommodation and lodging information",
	},
}

// Predefined returns the templates in display order.
func Predefined() []Definition {
	out := make([]Definition, len(predefined))
	copy(out, predefined)
	return out
}

// PredefinedDefinition returns the template for t. Custom modules have none.
func PredefinedDefinition(t ModuleType) (Definition, bool) {
	for _, d := range predefined {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// DefaultFields returns a fresh copy of the fields a predefined module is
// seeded with. Custom and unknown types get an empty list.
func DefaultFields(t ModuleType) []Field {
	src := defaultFields[t]
	out := make([]Field, len(src))
	for i, f := range src {
		out[i] = f.Clone()
	}
	return out
}

var defaultFields = map[ModuleType][]Field{
	ModuleTickets: {
		{Key: "ticket_name", Input: Scalar(FieldString), Label: "Ticket Name", Placeholder: "e.g., Early Bird, VIP, General Admission", Required: true, SortOrder: 0},
		{Key: "ticket_price", Input: Scalar(FieldNumber), Label: "Price", Placeholder: "0.00", Required: true, SortOrder: 1},
		{Key: "ticket_quantity", Input: Scalar(FieldNumber), Label: "Quantity Available", Placeholder: "100", SortOrder: 2},
		{Key: "ticket_description", Input: Scalar(FieldText), Label: "Description", Placeholder: "What is included with this ticket?", SortOrder: 3},
	},
	ModuleTransportation: {
		{Key: "transport_type", Input: Choice("Bus", "Shuttle", "Car Pool", "Other"), Label: "Transportation Type", Required: true, SortOrder: 0},
		{Key: "pickup_location", Input: Scalar(FieldString), Label: "Pickup Location", Placeholder: "e.g., Main Square, Hotel Lobby", SortOrder: 1},
		{Key: "departure_time", Input: Scalar(FieldString), Label: "Departure Time", Placeholder: "e.g., 08:00 AM", SortOrder: 2},
		{Key: "transport_cost", Input: Scalar(FieldNumber), Label: "Cost per Person", Placeholder: "0.00", SortOrder: 3},
		{Key: "transport_notes", Input: Scalar(FieldText), Label: "Additional Notes", Placeholder: "Any special instructions...", SortOrder: 4},
	},
	ModuleHospitality: {
		{Key: "accommodation_type", Input: Choice("Hotel", "Hostel", "Airbnb", "Camping", "Other"), Label: "Accommodation Type", Required: true, SortOrder: 0},
		{Key: "room_type", Input: Choice("Single", "Double", "Suite", "Dormitory"), Label: "Room Type", SortOrder: 1},
		{Key: "number_of_rooms", Input: Scalar(FieldNumber), Label: "Number of Rooms Needed", Placeholder: "1", SortOrder: 2},
		{Key: "check_in_date", Input: Scalar(FieldString), Label: "Check-in Date", Placeholder: "YYYY-MM-DD", SortOrder: 3},
		{Key: "check_out_date", Input: Scalar(FieldString), Label: "Check-out Date", Placeholder: "YYYY-MM-DD", SortOrder: 4},
		{Key: "accommodation_cost", Input: Scalar(FieldNumber), Label: "Cost per Night", Placeholder: "0.00", SortOrder: 5},
		{Key: "special_requests", Input: Scalar(FieldText), Label: "Special Requests", Placeholder: "Any special requirements...", SortOrder: 6},
	},
}
