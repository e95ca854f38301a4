package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventdesk/internal/model"
)

const registrationColumns = `
	id, event_id, user_id, email, ticket_type_id, quantity, answers,
	ticket_number, status, registered_at`

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	if err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Email, &reg.TicketTypeID, &reg.Quantity, &reg.Answers,
		&reg.TicketNumber, &reg.Status, &reg.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

func newTicketNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("TICKET-%d-%s", time.Now().UnixMilli(), suffix)
}

// CreateRegistrationTx books reg for a published event. It fills in the
// ticket number and status of reg on success.
func (r *repository) CreateRegistrationTx(ctx context.Context, reg *model.Registration) (int64, error) {
	if reg.Quantity < 1 {
		reg.Quantity = 1
	}

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			status   string
			capacity sql.NullInt64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT status, capacity FROM events WHERE id = $1`+r.forUpdate,
			reg.EventID,
		).Scan(&status, &capacity)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock event: %w", err)
		}
		if status != string(model.StatusPublished) {
			return ErrEventNotPublished
		}

		if reg.TicketTypeID != nil {
			var perOrder int
			err := tx.QueryRowContext(ctx, `
				SELECT quantity_per_order
				FROM ticket_types
				WHERE id = $1 AND event_id = $2 AND is_active = $3
			`, *reg.TicketTypeID, reg.EventID, true).Scan(&perOrder)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTicketTypeNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to get ticket type: %w", err)
			}
			if reg.Quantity > perOrder {
				return ErrQuantityExceeded
			}
		}

		var existing int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM event_registrations
			WHERE event_id = $1 AND user_id = $2
		`, reg.EventID, reg.UserID).Scan(&existing); err != nil {
			return fmt.Errorf("failed to check duplicate registration: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateRegistration
		}

		if capacity.Valid {
			var taken int64
			if err := tx.QueryRowContext(ctx, `
				SELECT COALESCE(SUM(quantity), 0)
				FROM event_registrations
				WHERE event_id = $1 AND status = $2
			`, reg.EventID, model.RegistrationConfirmed).Scan(&taken); err != nil {
				return fmt.Errorf("failed to count registrations: %w", err)
			}
			if taken+int64(reg.Quantity) > capacity.Int64 {
				return ErrEventFull
			}
		}

		reg.Status = model.RegistrationConfirmed
		reg.TicketNumber = newTicketNumber()
		reg.RegisteredAt = time.Now().UTC()
		if reg.Answers.V == nil {
			reg.Answers = model.NewJSON(map[string]any{})
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO event_registrations (
				event_id, user_id, email, ticket_type_id, quantity, answers, ticket_number, status, registered_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, reg.EventID, reg.UserID, reg.Email, reg.TicketTypeID, reg.Quantity, reg.Answers,
			reg.TicketNumber, reg.Status, reg.RegisteredAt,
		).Scan(&id)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrDuplicateRegistration
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	reg.ID = id
	r.log.Info().
		Int64("registration_id", id).
		Int64("event_id", reg.EventID).
		Str("ticket_number", reg.TicketNumber).
		Msg("registration created")
	return id, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `SELECT` + registrationColumns + ` FROM event_registrations WHERE id = $1`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (r *repository) GetRegistrationForEvent(ctx context.Context, eventID int64, userID string) (*model.Registration, error) {
	query := `SELECT` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, eventID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// ListRegistrationsByUser returns the user's registrations, newest first.
func (r *repository) ListRegistrationsByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	query := `SELECT` + registrationColumns + `
		FROM event_registrations
		WHERE user_id = $1
		ORDER BY registered_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	regs := []model.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *repository) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM event_registrations
		WHERE event_id = $1 AND status = $2
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID, model.RegistrationConfirmed).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
