// Package sheets mirrors confirmed reservations into a Google Sheets
// spreadsheet. The mirror is an observer: failures are logged and never
// affect the booking workflow.
package sheets

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"officebook/internal/events"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var headerRow = []any{
	"Reservation ID", "Office ID", "Office", "User", "Email", "Phone",
	"Start", "End", "Status",
}

const rowTimeFormat = "2006-01-02 15:04:05"

// reservationRow mirrors the confirmed-reservation event payload.
type reservationRow struct {
	ReservationID int64     `json:"reservation_id"`
	OfficeID      int64     `json:"office_id"`
	OfficeName    string    `json:"office_name"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserPhone     string    `json:"user_phone"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	Status        string    `json:"status"`
}

// Mirror appends reservation rows to one sheet of a spreadsheet.
type Mirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        *zerolog.Logger

	mu            sync.Mutex
	headerWritten bool
}

// New builds a Mirror from a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger *zerolog.Logger) (*Mirror, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(creds, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Mirror{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

// Subscribe attaches the mirror to the event bus.
func (m *Mirror) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.TypeReservationConfirmed, m.onConfirmed)
}

func (m *Mirror) onConfirmed(event events.Event) {
	var row reservationRow
	if err := json.Unmarshal(event.Payload, &row); err != nil {
		m.logger.Error().Err(err).Msg("sheets mirror: bad event payload")
		return
	}
	if err := m.appendRow(context.Background(), rowValues(&row)); err != nil {
		m.logger.Error().Err(err).
			Int64("reservation_id", row.ReservationID).
			Msg("sheets mirror: append failed")
	}
}

func (m *Mirror) appendRow(ctx context.Context, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := [][]any{}
	if !m.headerWritten {
		rows = append(rows, headerRow)
	}
	rows = append(rows, values)

	_, err := m.service.Spreadsheets.Values.
		Append(m.spreadsheetID, m.sheetName, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}
	m.headerWritten = true
	return nil
}

func rowValues(r *reservationRow) []any {
	return []any{
		r.ReservationID,
		r.OfficeID,
		r.OfficeName,
		r.UserName,
		r.UserEmail,
		r.UserPhone,
		r.Start.Format(rowTimeFormat),
		r.End.Format(rowTimeFormat),
		r.Status,
	}
}
