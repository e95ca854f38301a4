// Package mapper turns a validated draft into rows: one event, then its FAQ
// items and ticket types, then each module followed by its fields.
package mapper

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"eventdesk/internal/draft"
	"eventdesk/internal/model"
	"eventdesk/internal/schema"
)

const (
	StepEvent   = "event"
	StepFaq     = "faq"
	StepTickets = "tickets"
	StepModules = "modules"
)

var ErrInvalidStatus = errors.New("status must be draft or published")

// Store is the write side of the event store. Deleting an event must remove
// every row that references it.
type Store interface {
	InsertEvent(ctx context.Context, e *model.Event) (int64, error)
	InsertFaqItems(ctx context.Context, eventID int64, items []model.FaqItem) error
	InsertTicketTypes(ctx context.Context, eventID int64, tickets []model.TicketType) error
	InsertModule(ctx context.Context, m *model.EventModule) (int64, error)
	InsertModuleFields(ctx context.Context, moduleID int64, fields []model.ModuleField) error
	DeleteEvent(ctx context.Context, eventID int64) error
}

// StepError reports the step that failed. EventID is zero when the event row
// was never written.
type StepError struct {
	Step            string
	EventID         int64
	Err             error
	Compensated     bool
	CompensationErr error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("persist %s: %v", e.Step, e.Err)
	if e.CompensationErr != nil {
		msg += fmt.Sprintf(" (cleanup of event %d failed: %v)", e.EventID, e.CompensationErr)
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Mapper struct {
	store Store
	log   *zerolog.Logger
}

func NewMapper(store Store, log *zerolog.Logger) *Mapper {
	return &Mapper{store: store, log: log}
}

// Persist writes v for organizerID and returns the new event id. When a step
// after the event insert fails, the event is deleted again so no partial
// event is left behind.
func (m *Mapper) Persist(ctx context.Context, organizerID string, v draft.Validated, status model.EventStatus) (int64, error) {
	if _, ok := model.ParseEventStatus(string(status)); !ok {
		return 0, ErrInvalidStatus
	}

	event := EventRow(organizerID, v, status)
	eventID, err := m.store.InsertEvent(ctx, event)
	if err != nil {
		return 0, &StepError{Step: StepEvent, Err: err}
	}

	if step, err := m.writeChildren(ctx, eventID, v.Draft); err != nil {
		return 0, m.compensate(ctx, step, eventID, err)
	}

	m.log.Info().
		Int64("event_id", eventID).
		Str("organizer_id", organizerID).
		Str("status", string(status)).
		Int("modules", len(v.Draft.Modules)).
		Msg("event persisted")
	return eventID, nil
}

func (m *Mapper) writeChildren(ctx context.Context, eventID int64, d draft.EventDraft) (string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := m.store.InsertFaqItems(gctx, eventID, FaqRows(d.Faq)); err != nil {
			return &StepError{Step: StepFaq, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := m.store.InsertTicketTypes(gctx, eventID, TicketRows(d.Tickets)); err != nil {
			return &StepError{Step: StepTickets, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		var se *StepError
		if errors.As(err, &se) {
			return se.Step, se.Err
		}
		return StepFaq, err
	}

	for i, mod := range d.Modules {
		row := ModuleRow(eventID, i, mod)
		moduleID, err := m.store.InsertModule(ctx, row)
		if err != nil {
			return StepModules, fmt.Errorf("module %d: %w", i, err)
		}
		if len(mod.Fields) == 0 {
			continue
		}
		if err := m.store.InsertModuleFields(ctx, moduleID, FieldRows(moduleID, mod.Fields)); err != nil {
			return StepModules, fmt.Errorf("fields of module %d: %w", i, err)
		}
	}
	return "", nil
}

func (m *Mapper) compensate(ctx context.Context, step string, eventID int64, cause error) error {
	se := &StepError{Step: step, EventID: eventID, Err: cause}
	// The request context may already be canceled; cleanup still has to run.
	if err := m.store.DeleteEvent(context.WithoutCancel(ctx), eventID); err != nil {
		se.CompensationErr = err
		m.log.Error().
			Err(err).
			Int64("event_id", eventID).
			Str("step", step).
			Msg("failed to remove partially written event")
		return se
	}
	se.Compensated = true
	m.log.Warn().
		Err(cause).
		Int64("event_id", eventID).
		Str("step", step).
		Msg("event write failed, event removed")
	return se
}

func EventRow(organizerID string, v draft.Validated, status model.EventStatus) *model.Event {
	d := v.Draft
	e := &model.Event{
		OrganizerID:         organizerID,
		Title:               d.Title,
		ShortDescription:    d.ShortDescription,
		Overview:            d.Overview,
		Location:            d.Location,
		StartDate:           model.NewDate(v.StartDate),
		EndDate:             model.NewDate(v.EndDate),
		PrimaryEventDate:    model.NewDate(v.PrimaryDate),
		Category:            d.Category,
		Capacity:            d.Capacity,
		GalleryImages:       model.NewJSON(imageRows(d.Images.Gallery)),
		OrderForm:           model.NewJSON(formRows(d.OrderForm)),
		SpecialInstructions: model.NewJSON(nonNil(d.SpecialInstructions)),
		ConfirmationMessage: d.ConfirmationPageMessage,
		ConfirmationEmail: model.NewJSON(model.EmailTemplate{
			From:     d.ConfirmationEmail.From,
			Subject:  d.ConfirmationEmail.Subject,
			HTMLBody: d.ConfirmationEmail.HTMLBody,
		}),
		Hashtags: model.NewJSON(nonNil(d.Hashtags)),
		Status:   status,
	}
	if d.Images.Main != nil {
		e.MainImageURL = d.Images.Main.URL
	}
	return e
}

func FaqRows(items []draft.FaqItem) []model.FaqItem {
	out := make([]model.FaqItem, len(items))
	for i, it := range items {
		out[i] = model.FaqItem{Question: it.Question, Answer: it.Answer, SortOrder: i}
	}
	return out
}

func TicketRows(tickets []draft.TicketType) []model.TicketType {
	out := make([]model.TicketType, len(tickets))
	for i, t := range tickets {
		out[i] = model.TicketType{
			Name:             t.Name,
			Description:      t.Description,
			Price:            t.Price,
			Fee:              t.Fee,
			QuantityPerOrder: int(t.QuantityPerOrder),
			IsActive:         t.Active,
			SortOrder:        i,
		}
	}
	return out
}

func ModuleRow(eventID int64, position int, m schema.Module) *model.EventModule {
	return &model.EventModule{
		EventID:     eventID,
		ModuleType:  string(m.Type),
		Name:        m.Name,
		Icon:        m.Icon,
		ImageURL:    m.ImageURL,
		Description: m.Description,
		IsActive:    m.Active,
		SortOrder:   position,
	}
}

// FieldRows keeps options only for select fields.
func FieldRows(moduleID int64, fields []schema.Field) []model.ModuleField {
	out := make([]model.ModuleField, len(fields))
	for i, f := range fields {
		row := model.ModuleField{
			ModuleID:    moduleID,
			Key:         f.Key,
			Type:        string(f.Type()),
			Label:       f.Label,
			Placeholder: f.Placeholder,
			IsRequired:  f.Required,
			SortOrder:   i,
		}
		if f.Type() == schema.FieldSelect {
			row.Options = model.NewJSON(f.Options())
		}
		out[i] = row
	}
	return out
}

func imageRows(imgs []draft.ImageRef) []model.ImageRef {
	out := make([]model.ImageRef, len(imgs))
	for i, img := range imgs {
		out[i] = model.ImageRef{
			URL:       img.URL,
			MimeType:  img.MimeType,
			Width:     img.Width,
			Height:    img.Height,
			SizeBytes: img.SizeBytes,
		}
	}
	return out
}

func formRows(fields []draft.OrderFormField) []model.FormField {
	out := make([]model.FormField, len(fields))
	for i, f := range fields {
		out[i] = model.FormField{
			Key:         f.Key,
			Type:        f.Type,
			Required:    f.Required,
			Label:       f.Label,
			Placeholder: f.Placeholder,
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
