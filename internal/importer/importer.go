// Package importer reads bulk sale sheets.  A sheet is CSV or XLSX with
// a header row naming at least Ticket_ID and Customer; other columns are
// ignored and blank lines skipped.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
)

// Column headers every sheet must carry.
const (
	ColumnTicketID = "Ticket_ID"
	ColumnCustomer = "Customer"
)

// Row is one data line.  Err is set when Ticket_ID could not be
// normalized; TicketID then holds the raw cell.
type Row struct {
	Line     int
	TicketID string
	Customer string
	Err      error
}

// SaleRows converts parsed rows for inventory.BulkSell.
func SaleRows(rows []Row) []inventory.SaleRow {
	out := make([]inventory.SaleRow, len(rows))
	for i, r := range rows {
		out[i] = inventory.SaleRow{TicketID: r.TicketID, Customer: r.Customer, Err: r.Err}
	}
	return out
}

// Parse picks the reader from the file extension.
func Parse(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	}
	return nil, &inventory.ValidationError{Field: "file", Value: filename, Reason: "want a .csv or .xlsx file"}
}

// ParseCSV reads a comma separated sheet.  A UTF-8 byte order mark on
// the header is tolerated.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &inventory.ValidationError{Field: "file", Reason: "unreadable csv: " + err.Error()}
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return fromRecords(records)
}

// ParseXLSX reads the first worksheet of an Excel workbook.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &inventory.ValidationError{Field: "file", Reason: "unreadable xlsx: " + err.Error()}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &inventory.ValidationError{Field: "file", Reason: "workbook has no sheets"}
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(records)
}

var errNoHeader = &inventory.ValidationError{Field: "file", Reason: "empty sheet, missing header row"}

func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, errNoHeader
	}
	idCol, custCol := -1, -1
	for i, h := range records[0] {
		switch strings.TrimSpace(h) {
		case ColumnTicketID:
			if idCol < 0 {
				idCol = i
			}
		case ColumnCustomer:
			if custCol < 0 {
				custCol = i
			}
		}
	}
	var missing []string
	if idCol < 0 {
		missing = append(missing, ColumnTicketID)
	}
	if custCol < 0 {
		missing = append(missing, ColumnCustomer)
	}
	if len(missing) > 0 {
		return nil, &inventory.ValidationError{Field: "columns", Value: strings.Join(missing, ","), Reason: "required column missing"}
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		raw, customer := cell(rec, idCol), strings.TrimSpace(cell(rec, custCol))
		if strings.TrimSpace(raw) == "" && customer == "" {
			continue
		}
		row := Row{Line: n + 2, Customer: customer}
		id, err := inventory.NormalizeTicketID(raw)
		if err != nil {
			row.TicketID = strings.TrimSpace(raw)
			row.Err = err
		} else {
			row.TicketID = id
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// IsMissingColumns reports whether err rejected a sheet for its header.
func IsMissingColumns(err error) bool {
	var v *inventory.ValidationError
	return errors.As(err, &v) && v.Field == "columns"
}
