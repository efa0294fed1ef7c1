package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"officebook/internal/domain"
)

const reservationColumns = `id, office_id, user_name, user_email, user_phone,
	start_time, end_time, status, created_at`

// Overlap predicate for active reservations, half-open semantics.
const overlapWhere = `office_id = ?
	AND start_time < ?
	AND end_time > ?
	AND status IN ('pending', 'confirmed')`

// GetReservation returns the reservation or nil when absent.
func (db *DB) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// ListOverlapping returns all active reservations for the office whose slot
// overlaps the requested one, ordered by start time.
func (db *DB) ListOverlapping(ctx context.Context, officeID int64, slot domain.TimeSlot) ([]*domain.Reservation, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE "+overlapWhere+" ORDER BY start_time",
		officeID, slot.End().UTC(), slot.Start().UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// ListReservationsBetween returns every reservation, regardless of status,
// whose slot falls inside [from, to). Used by the audit export.
func (db *DB) ListReservationsBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+reservationColumns+` FROM reservations
			WHERE start_time >= ? AND start_time < ?
			ORDER BY office_id, start_time`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// ListDueReminders returns confirmed reservations starting within the window
// that have not been reminded yet.
func (db *DB) ListDueReminders(ctx context.Context, now time.Time, within time.Duration) ([]*domain.Reservation, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+reservationColumns+` FROM reservations
			WHERE status = 'confirmed'
			AND reminder_sent = 0
			AND start_time > ? AND start_time <= ?
			ORDER BY start_time`,
		now.UTC(), now.Add(within).UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// MarkReminded records that the reminder for a reservation went out, so a
// restarted service does not send it twice.
func (db *DB) MarkReminded(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE reservations SET reminder_sent = 1 WHERE id = ?", id)
	return err
}

// SaveReservation persists a new reservation and assigns its id. The insert
// runs in an IMMEDIATE transaction that re-checks the overlap predicate, so
// two concurrent bookings for overlapping slots cannot both commit; the loser
// gets a ConflictError built from the winning row. The service-level check is
// only an optimization, this is the correctness boundary.
func (db *DB) SaveReservation(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save reservation: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE "+overlapWhere+" ORDER BY start_time LIMIT 1",
		r.OfficeID, r.Slot.End().UTC(), r.Slot.Start().UTC(),
	)
	blocking, err := scanReservation(row)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("conflict recheck: %w", err)
	}
	if blocking != nil {
		return nil, &domain.ConflictError{
			OfficeID: r.OfficeID,
			UserName: blocking.User.Name,
			Email:    blocking.User.Contact.Email,
			Phone:    blocking.User.Contact.Phone,
			Until:    blocking.Slot.End(),
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations
			(office_id, user_name, user_email, user_phone, start_time, end_time, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OfficeID, r.User.Name, r.User.Contact.Email, r.User.Contact.Phone,
		r.Slot.Start().UTC(), r.Slot.End().UTC(), string(r.Status), r.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	r.ID = id
	return r, nil
}

// DeleteReservation removes a reservation. Reports whether a row was deleted.
func (db *DB) DeleteReservation(ctx context.Context, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		id, officeID          int64
		name, email, phone    string
		start, end, createdAt time.Time
		status                string
	)
	if err := row.Scan(&id, &officeID, &name, &email, &phone, &start, &end, &status, &createdAt); err != nil {
		return nil, err
	}

	slot, err := domain.NewTimeSlot(start, end)
	if err != nil {
		return nil, fmt.Errorf("reservation %d has corrupt slot: %w", id, err)
	}
	return &domain.Reservation{
		ID:       id,
		OfficeID: officeID,
		User: domain.User{
			Name:    name,
			Contact: domain.ContactInfo{Email: email, Phone: phone},
		},
		Slot:      slot,
		Status:    domain.Status(status),
		CreatedAt: createdAt,
	}, nil
}
