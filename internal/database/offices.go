package database

import (
	"context"
	"database/sql"
	"time"

	"officebook/internal/domain"
)

// GetOffice returns the office or nil when absent.
func (db *DB) GetOffice(ctx context.Context, id int64) (*domain.Office, error) {
	var o domain.Office
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		"SELECT id, name, capacity, description FROM offices WHERE id = ?",
		id,
	).Scan(&o.ID, &o.Name, &o.Capacity, &description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Description = description.String
	return &o, nil
}

// ListOffices returns all offices ordered by id.
func (db *DB) ListOffices(ctx context.Context) ([]domain.Office, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, capacity, description FROM offices ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offices []domain.Office
	for rows.Next() {
		var o domain.Office
		var description sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &o.Capacity, &description); err != nil {
			return nil, err
		}
		o.Description = description.String
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// SaveOffice upserts an office by id.
func (db *DB) SaveOffice(ctx context.Context, office *domain.Office) (*domain.Office, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO offices (id, name, capacity, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		office.ID, office.Name, office.Capacity, office.Description, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	return office, nil
}
