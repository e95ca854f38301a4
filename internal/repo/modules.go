package repo

import (
	"context"
	"database/sql"
	"fmt"

	"eventdesk/internal/model"
)

func (r *repository) InsertModule(ctx context.Context, m *model.EventModule) (int64, error) {
	query := `
		INSERT INTO event_modules (
			event_id, module_type, module_name, module_icon, module_image_url,
			module_description, is_active, sort_order
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		m.EventID, m.ModuleType, m.Name, m.Icon, m.ImageURL, m.Description, m.IsActive, m.SortOrder,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert module: %w", err)
	}
	m.ID = id
	return id, nil
}

func (r *repository) InsertModuleFields(ctx context.Context, moduleID int64, fields []model.ModuleField) error {
	query := `
		INSERT INTO module_fields (
			module_id, field_key, field_type, field_label, field_placeholder,
			field_options, is_required, sort_order
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, f := range fields {
			if _, err := tx.ExecContext(ctx, query,
				moduleID, f.Key, f.Type, f.Label, f.Placeholder, fieldOptions(f), f.IsRequired, f.SortOrder,
			); err != nil {
				return fmt.Errorf("failed to insert field %q: %w", f.Key, err)
			}
		}
		return nil
	})
}

// fieldOptions is NULL for every field type but select.
func fieldOptions(f model.ModuleField) any {
	if f.Options.V == nil {
		return nil
	}
	return f.Options
}

// GetModulesByEventID returns the modules of an event in display order, each
// with its fields in display order.
func (r *repository) GetModulesByEventID(ctx context.Context, eventID int64) ([]model.EventModule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, module_type, module_name, module_icon, module_image_url,
		       module_description, is_active, sort_order
		FROM event_modules
		WHERE event_id = $1
		ORDER BY sort_order ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}
	defer rows.Close()

	modules := []model.EventModule{}
	byID := make(map[int64]int)
	for rows.Next() {
		var m model.EventModule
		if err := rows.Scan(
			&m.ID, &m.EventID, &m.ModuleType, &m.Name, &m.Icon, &m.ImageURL,
			&m.Description, &m.IsActive, &m.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		m.Fields = []model.ModuleField{}
		byID[m.ID] = len(modules)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate modules: %w", err)
	}
	if len(modules) == 0 {
		return modules, nil
	}

	fieldRows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.module_id, f.field_key, f.field_type, f.field_label, f.field_placeholder,
		       f.field_options, f.is_required, f.sort_order
		FROM module_fields f
		JOIN event_modules m ON m.id = f.module_id
		WHERE m.event_id = $1
		ORDER BY f.module_id ASC, f.sort_order ASC, f.id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get module fields: %w", err)
	}
	defer fieldRows.Close()

	for fieldRows.Next() {
		var f model.ModuleField
		if err := fieldRows.Scan(
			&f.ID, &f.ModuleID, &f.Key, &f.Type, &f.Label, &f.Placeholder,
			&f.Options, &f.IsRequired, &f.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan module field: %w", err)
		}
		if i, ok := byID[f.ModuleID]; ok {
			modules[i].Fields = append(modules[i].Fields, f)
		}
	}
	if err := fieldRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate module fields: %w", err)
	}
	return modules, nil
}
