package audit

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"officebook/internal/domain"
)

type stubSource struct {
	offices      []domain.Office
	reservations []*domain.Reservation
}

func (s *stubSource) ListOffices(ctx context.Context) ([]domain.Office, error) {
	return s.offices, nil
}

func (s *stubSource) ListReservationsBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	return s.reservations, nil
}

func reservation(t *testing.T, id, officeID int64, name string, startHour int) *domain.Reservation {
	t.Helper()
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	slot, err := domain.NewTimeSlot(
		day.Add(time.Duration(startHour)*time.Hour),
		day.Add(time.Duration(startHour+2)*time.Hour),
	)
	require.NoError(t, err)
	return &domain.Reservation{
		ID:       id,
		OfficeID: officeID,
		User: domain.User{
			Name:    name,
			Contact: domain.ContactInfo{Email: name + "@example.com", Phone: "+12345678901"},
		},
		Slot:      slot,
		Status:    domain.StatusConfirmed,
		CreatedAt: day,
	}
}

func TestExport(t *testing.T) {
	logger := zerolog.Nop()
	source := &stubSource{
		offices: []domain.Office{
			{ID: 1, Name: "Conference Room A", Capacity: 10},
			{ID: 2, Name: "Meeting Room B", Capacity: 6},
		},
		reservations: []*domain.Reservation{
			reservation(t, 1, 1, "alice", 10),
			reservation(t, 2, 1, "bob", 14),
			reservation(t, 3, 2, "carol", 9),
		},
	}
	exporter := NewExporter(source, &logger)
	from, to := MonthRange(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), from, to, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Office 1", "Office 2"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Office", "Name", "Reservations"}, summary[0])
	assert.Equal(t, []string{"1", "Conference Room A", "2"}, summary[1])
	assert.Equal(t, []string{"2", "Meeting Room B", "1"}, summary[2])

	office1, err := f.GetRows("Office 1")
	require.NoError(t, err)
	require.Len(t, office1, 3)
	assert.Equal(t, "alice", office1[1][1])
	assert.Equal(t, "2025-06-02 10:00", office1[1][4])
	assert.Equal(t, "confirmed", office1[1][6])
	assert.Equal(t, "bob", office1[2][1])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "reservations_2025-06.xlsx",
		Filename(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), to)
}
