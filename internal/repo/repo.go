package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventdesk/internal/model"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventNotPublished     = errors.New("event is not published")
	ErrEventFull             = errors.New("event is full")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrTicketTypeNotFound    = errors.New("ticket type not found")
	ErrQuantityExceeded      = errors.New("quantity exceeds ticket limit per order")
)

type Repository interface {
	InsertEvent(ctx context.Context, e *model.Event) (int64, error)
	InsertFaqItems(ctx context.Context, eventID int64, items []model.FaqItem) error
	InsertTicketTypes(ctx context.Context, eventID int64, tickets []model.TicketType) error
	InsertModule(ctx context.Context, m *model.EventModule) (int64, error)
	InsertModuleFields(ctx context.Context, moduleID int64, fields []model.ModuleField) error
	DeleteEvent(ctx context.Context, eventID int64) error
	DeleteOwnedEvent(ctx context.Context, eventID int64, organizerID string) error

	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	ListPublishedEvents(ctx context.Context, from model.Date) ([]model.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
	GetModulesByEventID(ctx context.Context, eventID int64) ([]model.EventModule, error)
	GetTicketTypes(ctx context.Context, eventID int64) ([]model.TicketType, error)
	GetFaqItems(ctx context.Context, eventID int64) ([]model.FaqItem, error)

	CreateRegistrationTx(ctx context.Context, reg *model.Registration) (int64, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetRegistrationForEvent(ctx context.Context, eventID int64, userID string) (*model.Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID string) ([]model.Registration, error)
	CountRegistrations(ctx context.Context, eventID int64) (int, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *sql.DB
	log *zerolog.Logger
	// appended to the row lock query inside registration transactions
	forUpdate string
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	return newRepository(db.Master, log)
}

func newRepository(db *sql.DB, log *zerolog.Logger) (*repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log, forUpdate: " FOR UPDATE"}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	if err := r.applyFiles(files); err != nil {
		return fmt.Errorf("failed to apply migration %w", err)
	}
	r.log.Info().Int("files", len(files)).Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

// MigrateDown runs the rollback files newest first so dependent tables go
// before the tables they reference.
func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if err := r.applyFiles(files); err != nil {
		return fmt.Errorf("failed to rollback migration %w", err)
	}
	r.log.Info().Int("files", len(files)).Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) applyFiles(files []string) error {
	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// withTx commits when fn returns nil and rolls back otherwise.
func (r *repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
