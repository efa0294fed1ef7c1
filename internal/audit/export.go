// Package audit exports reservation history as Excel workbooks, one sheet
// per office plus a summary sheet.
package audit

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"officebook/internal/domain"
)

// Source supplies the data for an export.
type Source interface {
	ListOffices(ctx context.Context) ([]domain.Office, error)
	ListReservationsBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
}

var reservationColumns = []string{
	"ID", "User", "Email", "Phone", "Start", "End", "Status", "Created",
}

const cellTimeFormat = "2006-01-02 15:04"

// Exporter builds reservation reports.
type Exporter struct {
	source Source
	logger *zerolog.Logger
}

func NewExporter(source Source, logger *zerolog.Logger) *Exporter {
	return &Exporter{source: source, logger: logger}
}

// Filename returns the report filename for the month containing t,
// e.g. "reservations_2026-08.xlsx".
func Filename(t time.Time) string {
	return fmt.Sprintf("reservations_%s.xlsx", t.Format("2006-01"))
}

// MonthRange returns the [from, to) bounds of the month containing t in UTC.
func MonthRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Export writes a workbook covering [from, to) to w.
func (e *Exporter) Export(ctx context.Context, from, to time.Time, w io.Writer) error {
	wb, err := e.build(ctx, from, to)
	if err != nil {
		return err
	}
	defer wb.close()
	return wb.save(w)
}

// ExportToFile writes a workbook covering [from, to) to path.
func (e *Exporter) ExportToFile(ctx context.Context, from, to time.Time, path string) error {
	wb, err := e.build(ctx, from, to)
	if err != nil {
		return err
	}
	defer wb.close()

	if err := wb.saveToFile(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	e.logger.Info().Str("path", path).Msg("audit report written")
	return nil
}

func (e *Exporter) build(ctx context.Context, from, to time.Time) (*workbook, error) {
	offices, err := e.source.ListOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	reservations, err := e.source.ListReservationsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	byOffice := make(map[int64][]*domain.Reservation, len(offices))
	for _, r := range reservations {
		byOffice[r.OfficeID] = append(byOffice[r.OfficeID], r)
	}

	wb := newWorkbook()

	if err := wb.addSheet("Summary"); err != nil {
		return nil, err
	}
	if err := wb.writeHeader([]string{"Office", "Name", "Reservations"}); err != nil {
		return nil, err
	}
	for _, office := range offices {
		row := []any{office.ID, office.Name, len(byOffice[office.ID])}
		if err := wb.writeRow(row); err != nil {
			return nil, err
		}
	}

	for _, office := range offices {
		sheet := fmt.Sprintf("Office %d", office.ID)
		if err := wb.addSheet(sheet); err != nil {
			return nil, err
		}
		if err := wb.writeHeader(reservationColumns); err != nil {
			return nil, err
		}
		for _, r := range byOffice[office.ID] {
			row := []any{
				r.ID,
				r.User.Name,
				r.User.Contact.Email,
				r.User.Contact.Phone,
				r.Slot.Start().Format(cellTimeFormat),
				r.Slot.End().Format(cellTimeFormat),
				string(r.Status),
				r.CreatedAt.Format(cellTimeFormat),
			}
			if err := wb.writeRow(row); err != nil {
				return nil, err
			}
		}
	}

	return wb, nil
}
