package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/model"
)

const eventColumns = `
	id, organizer_id, title, short_description, overview, location,
	start_date, end_date, primary_event_date, category, capacity, main_image_url,
	gallery_images, order_form, special_instructions, confirmation_message,
	confirmation_email, hashtags, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.ShortDescription, &e.Overview, &e.Location,
		&e.StartDate, &e.EndDate, &e.PrimaryEventDate, &e.Category, &e.Capacity, &e.MainImageURL,
		&e.GalleryImages, &e.OrderForm, &e.SpecialInstructions, &e.ConfirmationMessage,
		&e.ConfirmationEmail, &e.Hashtags, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) InsertEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (
			organizer_id, title, short_description, overview, location,
			start_date, end_date, primary_event_date, category, capacity, main_image_url,
			gallery_images, order_form, special_instructions, confirmation_message,
			confirmation_email, hashtags, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`

	row := r.db.QueryRowContext(ctx, query,
		e.OrganizerID, e.Title, e.ShortDescription, e.Overview, e.Location,
		e.StartDate, e.EndDate, e.PrimaryEventDate, e.Category, e.Capacity, e.MainImageURL,
		e.GalleryImages, e.OrderForm, e.SpecialInstructions, e.ConfirmationMessage,
		e.ConfirmationEmail, e.Hashtags, string(e.Status),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	e.ID = id
	return id, nil
}

func (r *repository) InsertFaqItems(ctx context.Context, eventID int64, items []model.FaqItem) error {
	query := `
		INSERT INTO faq_items (event_id, question, answer, sort_order)
		VALUES ($1, $2, $3, $4)
	`
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, it := range items {
			if _, err := tx.ExecContext(ctx, query, eventID, it.Question, it.Answer, it.SortOrder); err != nil {
				return fmt.Errorf("failed to insert faq item %d: %w", it.SortOrder, err)
			}
		}
		return nil
	})
}

func (r *repository) InsertTicketTypes(ctx context.Context, eventID int64, tickets []model.TicketType) error {
	query := `
		INSERT INTO ticket_types (event_id, name, description, price, fee, quantity_per_order, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range tickets {
			if _, err := tx.ExecContext(ctx, query,
				eventID, t.Name, t.Description, t.Price, t.Fee, t.QuantityPerOrder, t.IsActive, t.SortOrder,
			); err != nil {
				return fmt.Errorf("failed to insert ticket type %d: %w", t.SortOrder, err)
			}
		}
		return nil
	})
}

func (r *repository) DeleteEvent(ctx context.Context, eventID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectOne(res)
}

func (r *repository) DeleteOwnedEvent(ctx context.Context, eventID int64, organizerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND organizer_id = $2`, eventID, organizerID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	r.log.Info().Int64("event_id", eventID).Str("organizer_id", organizerID).Msg("event deleted")
	return nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListPublishedEvents returns published events that have not ended before
// from, soonest first.
func (r *repository) ListPublishedEvents(ctx context.Context, from model.Date) ([]model.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE status = $1 AND end_date >= $2
		ORDER BY start_date ASC, id ASC
	`
	return r.listEvents(ctx, query, string(model.StatusPublished), from)
}

func (r *repository) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.listEvents(ctx, query, organizerID)
}

func (r *repository) listEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *repository) GetTicketTypes(ctx context.Context, eventID int64) ([]model.TicketType, error) {
	query := `
		SELECT id, event_id, name, description, price, fee, quantity_per_order, is_active, sort_order
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket types: %w", err)
	}
	defer rows.Close()

	tickets := []model.TicketType{}
	for rows.Next() {
		var t model.TicketType
		if err := rows.Scan(
			&t.ID, &t.EventID, &t.Name, &t.Description, &t.Price, &t.Fee,
			&t.QuantityPerOrder, &t.IsActive, &t.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *repository) GetFaqItems(ctx context.Context, eventID int64) ([]model.FaqItem, error) {
	query := `
		SELECT id, event_id, question, answer, sort_order
		FROM faq_items
		WHERE event_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get faq items: %w", err)
	}
	defer rows.Close()

	items := []model.FaqItem{}
	for rows.Next() {
		var it model.FaqItem
		if err := rows.Scan(&it.ID, &it.EventID, &it.Question, &it.Answer, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan faq item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
