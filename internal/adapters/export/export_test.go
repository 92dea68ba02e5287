package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"bookinsight/internal/adapters/export"
	"bookinsight/internal/domain"
)

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	records := [][]string{
		{"hotel", "adr"},
		{"Resort Hotel", "100"},
		{"City Hotel", "80.5"},
	}
	if err := export.WriteRecords(&buf, records); err != nil {
		t.Fatal(err)
	}
	want := "hotel,adr\nResort Hotel,100\nCity Hotel,80.5\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteRecords_QuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteRecords(&buf, [][]string{{"a,b", "c"}}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\"a,b\",c\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteTableCSV(t *testing.T) {
	table := domain.Table{
		Dimension: "arrival_date_year",
		Labels:    []string{"2016", "2017"},
		Series: []domain.Series{
			{Name: "City Hotel", Values: []float64{2, 3}},
			{Name: "Resort Hotel", Values: []float64{1.5, 0}},
		},
	}
	var buf bytes.Buffer
	if err := export.WriteTableCSV(&buf, table); err != nil {
		t.Fatal(err)
	}
	want := "arrival_date_year,City Hotel,Resort Hotel\n2016,2,1.5\n2017,3,0\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteTableCSV_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteTableCSV(&buf, domain.Table{Dimension: "hotel"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "hotel\n" {
		t.Fatalf("got %q, want header only", got)
	}
}

func TestWriteRecordsXLSX(t *testing.T) {
	var buf bytes.Buffer
	records := [][]string{
		{"hotel", "adr"},
		{"Resort Hotel", "100"},
	}
	if err := export.WriteRecordsXLSX(&buf, records); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Bookings" {
		t.Fatalf("sheets = %v", sheets)
	}
	for _, tc := range []struct{ cell, want string }{
		{"A1", "hotel"}, {"B1", "adr"},
		{"A2", "Resort Hotel"}, {"B2", "100"},
	} {
		got, err := f.GetCellValue("Bookings", tc.cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Fatalf("%s = %q, want %q", tc.cell, got, tc.want)
		}
	}
	if !strings.HasPrefix(buf.String(), "PK") { // zip container
		t.Fatal("output is not a zip archive")
	}
}
