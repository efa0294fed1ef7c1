package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officebook/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func slotAt(t *testing.T, startHour, endHour int) domain.TimeSlot {
	t.Helper()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	slot, err := domain.NewTimeSlot(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return slot
}

func pendingReservation(t *testing.T, officeID int64, slot domain.TimeSlot, name string) *domain.Reservation {
	t.Helper()
	contact, err := domain.NewContactInfo(name+"@example.com", "+12345678901")
	require.NoError(t, err)
	user, err := domain.NewUser(name, contact)
	require.NoError(t, err)
	r, err := domain.NewReservation(officeID, user, slot)
	require.NoError(t, err)
	require.NoError(t, r.Confirm())
	return r
}

func TestSeededOffices(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	offices, err := db.ListOffices(ctx)
	require.NoError(t, err)
	assert.Len(t, offices, 5)
	assert.Equal(t, "Conference Room A", offices[0].Name)

	office, err := db.GetOffice(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, office)
	assert.Equal(t, 4, office.Capacity)

	missing, err := db.GetOffice(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveOfficeUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	office, err := db.GetOffice(ctx, 1)
	require.NoError(t, err)
	office.Capacity = 20

	_, err = db.SaveOffice(ctx, office)
	require.NoError(t, err)

	updated, err := db.GetOffice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Capacity)

	offices, err := db.ListOffices(ctx)
	require.NoError(t, err)
	assert.Len(t, offices, 5, "upsert does not duplicate")
}

func TestSaveReservationAssignsID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	loaded, err := db.GetReservation(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "alice", loaded.User.Name)
	assert.Equal(t, domain.StatusConfirmed, loaded.Status)
	assert.True(t, loaded.Slot.Equal(slotAt(t, 10, 12)))
}

func TestSaveReservationRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)

	_, err = db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 11, 13), "bob"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "alice", conflict.UserName)
	assert.Equal(t, "alice@example.com", conflict.Email)
	assert.True(t, conflict.Until.Equal(slotAt(t, 10, 12).End()))

	// Adjacent slot is fine, other office is fine.
	_, err = db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 12, 13), "carol"))
	assert.NoError(t, err)
	_, err = db.SaveReservation(ctx, pendingReservation(t, 2, slotAt(t, 11, 13), "dave"))
	assert.NoError(t, err)
}

func TestListOverlapping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 9, 11), "alice"))
	require.NoError(t, err)
	_, err = db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 14, 16), "bob"))
	require.NoError(t, err)

	hits, err := db.ListOverlapping(ctx, 1, slotAt(t, 10, 15))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, first.ID, hits[0].ID, "ordered by start time")

	hits, err = db.ListOverlapping(ctx, 1, slotAt(t, 11, 14))
	require.NoError(t, err)
	assert.Empty(t, hits, "half-open boundaries do not overlap")
}

func TestListOverlappingSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "UPDATE reservations SET status = 'cancelled' WHERE id = ?", saved.ID)
	require.NoError(t, err)

	hits, err := db.ListOverlapping(ctx, 1, slotAt(t, 10, 12))
	require.NoError(t, err)
	assert.Empty(t, hits)

	// And a cancelled row no longer blocks a save.
	_, err = db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "bob"))
	assert.NoError(t, err)
}

func TestListReservationsBetween(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	june, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)
	_, err = db.SaveReservation(ctx, pendingReservation(t, 2, slotAt(t, 9, 11), "bob"))
	require.NoError(t, err)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	all, err := db.ListReservationsBetween(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, june.ID, all[0].ID, "ordered by office then start")

	july, err := db.ListReservationsBetween(ctx, to, to.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, july)
}

func TestDueReminders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)

	now := slotAt(t, 10, 12).Start().Add(-30 * time.Minute)

	due, err := db.ListDueReminders(ctx, now, time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, saved.ID, due[0].ID)

	// Outside the lead window, nothing is due.
	early, err := db.ListDueReminders(ctx, now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	assert.Empty(t, early)

	require.NoError(t, db.MarkReminded(ctx, saved.ID))
	due, err = db.ListDueReminders(ctx, now, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, due, "reminded rows are not returned again")
}

func TestDeleteReservation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved, err := db.SaveReservation(ctx, pendingReservation(t, 1, slotAt(t, 10, 12), "alice"))
	require.NoError(t, err)

	deleted, err := db.DeleteReservation(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = db.DeleteReservation(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	gone, err := db.GetReservation(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
