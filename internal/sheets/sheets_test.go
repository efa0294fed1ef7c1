package sheets

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"officebook/internal/events"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestRowValues(t *testing.T) {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	row := &reservationRow{
		ReservationID: 42,
		OfficeID:      1,
		OfficeName:    "Conference Room A",
		UserName:      "Alice",
		UserEmail:     "alice@example.com",
		UserPhone:     "+12345678901",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		Status:        "confirmed",
	}

	values := rowValues(row)

	expected := []any{
		int64(42),
		int64(1),
		"Conference Room A",
		"Alice",
		"alice@example.com",
		"+12345678901",
		"2025-06-02 10:00:00",
		"2025-06-02 12:00:00",
		"confirmed",
	}

	if len(values) != len(expected) {
		t.Fatalf("Expected %d values, got %d", len(expected), len(values))
	}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("At index %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestEventPayloadDecoding(t *testing.T) {
	payload := []byte(`{
		"reservation_id": 7,
		"office_id": 2,
		"office_name": "Meeting Room B",
		"user_name": "Bob",
		"user_email": "bob@example.com",
		"user_phone": "+10987654321",
		"start_time": "2025-06-02T10:00:00Z",
		"end_time": "2025-06-02T12:00:00Z",
		"status": "confirmed"
	}`)

	var row reservationRow
	if err := json.Unmarshal(payload, &row); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if row.ReservationID != 7 || row.OfficeName != "Meeting Room B" {
		t.Errorf("Unexpected row: %+v", row)
	}
	if !row.Start.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start: %v", row.Start)
	}
}

func TestMirrorBadPayloadDoesNotPanic(t *testing.T) {
	// The handler must tolerate garbage payloads; there is no sheets client
	// behind it in this test, so a decode failure is the only path exercised.
	m := &Mirror{logger: nopLogger()}
	m.onConfirmed(events.Event{Type: events.TypeReservationConfirmed, Payload: []byte("{bad")})
}
