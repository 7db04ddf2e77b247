// Package report renders attendance history for export and keeps the
// dashboard summaries fresh. It only reads.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/xuri/excelize/v2"
)

// Header is the column order shared by every export format.
var Header = []string{"AttendanceID", "MemberID", "Name", "Role", "Date", "Login", "Logout", "Event"}

const (
	timestampLayout = "2006-01-02 15:04:05"
	sheet           = "Sheet1"
)

type HistorySource interface {
	History(ctx context.Context, filter attendance.HistoryFilter) ([]model.AttendanceRow, error)
}

// Exporter writes history in the store's history order, timestamps in loc.
type Exporter struct {
	history HistorySource
	loc     *time.Location
}

func NewExporter(history HistorySource, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{history: history, loc: loc}
}

func (e *Exporter) CSV(ctx context.Context, w io.Writer, filter attendance.HistoryFilter) (int, error) {
	rows, err := e.history.History(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(rows), WriteCSV(w, rows, e.loc)
}

func (e *Exporter) XLSX(ctx context.Context, w io.Writer, filter attendance.HistoryFilter) (int, error) {
	rows, err := e.history.History(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(rows), WriteXLSX(w, rows, e.loc)
}

func WriteCSV(w io.Writer, rows []model.AttendanceRow, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatUint(r.AttendanceID, 10),
			strconv.FormatUint(uint64(r.MemberID), 10),
			r.Name,
			string(r.Role),
			r.Day,
			formatTimestamp(r.LoginAt, loc),
			formatTimestamp(r.LogoutAt, loc),
			string(r.Event),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []model.AttendanceRow, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("style xlsx header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.AttendanceID,
			r.MemberID,
			r.Name,
			string(r.Role),
			r.Day,
			formatTimestamp(r.LoginAt, loc),
			formatTimestamp(r.LogoutAt, loc),
			string(r.Event),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheet, "C", "C", 28); err != nil {
		return fmt.Errorf("size xlsx columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "F", "G", 20); err != nil {
		return fmt.Errorf("size xlsx columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func formatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timestampLayout)
}
