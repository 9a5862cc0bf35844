package importer

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
)

func TestParseCSV(t *testing.T) {
	in := "\ufeffNote,Ticket_ID,Customer\n" +
		"x,1,  Ann \n" +
		",,\n" +
		"y,12.0,Bob\n" +
		"z,abc,Cara\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %+v, want 3 (blank line skipped)", rows)
	}
	got := []string{rows[0].TicketID, rows[1].TicketID, rows[2].TicketID}
	if want := []string{"0001", "0012", "abc"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if rows[0].Customer != "Ann" || rows[0].Line != 2 || rows[1].Line != 4 {
		t.Fatalf("row = %+v / %+v", rows[0], rows[1])
	}
	if !errors.Is(rows[2].Err, inventory.ErrValidation) {
		t.Fatalf("row 3 err = %v, want validation", rows[2].Err)
	}
}

func TestMissingColumns(t *testing.T) {
	cases := map[string]string{
		"no customer": "Ticket_ID\n1\n",
		"no id":       "Customer,Seat\nAnn,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(in))
			if !IsMissingColumns(err) || !errors.Is(err, inventory.ErrValidation) {
				t.Fatalf("err = %v, want missing column validation", err)
			}
		})
	}
	if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, inventory.ErrValidation) {
		t.Fatalf("empty sheet err = %v", err)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Ticket_ID", "B1": "Customer", "C1": "Phone",
		"A2": 7, "B2": "Dan", "C2": "555",
		"A3": 12.0, "B3": "Eve",
	}
	for ref, v := range cells {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatalf("SetCellValue(%s): %v", ref, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	rows, err := Parse("sales.XLSX", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 2 || rows[0].TicketID != "0007" || rows[1].TicketID != "0012" || rows[1].Customer != "Eve" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestParseRejectsExtension(t *testing.T) {
	if _, err := Parse("sales.txt", strings.NewReader("")); !errors.Is(err, inventory.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSaleRowsCarryErrors(t *testing.T) {
	bad := errors.New("bad id")
	got := SaleRows([]Row{{TicketID: "0001", Customer: "A"}, {TicketID: "x", Err: bad}})
	if got[0].Err != nil || got[1].Err != bad || got[1].TicketID != "x" {
		t.Fatalf("SaleRows = %+v", got)
	}
}
