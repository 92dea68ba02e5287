package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"bookinsight/internal/domain"
)

// WriteRecords streams CSV-shaped records, header row first.
func WriteRecords(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTableCSV serialises one chart table: the label column followed by
// one column per series.
func WriteTableCSV(w io.Writer, t domain.Table) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{t.Dimension}
	for _, s := range t.Series {
		header = append(header, s.Name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, label := range t.Labels {
		rec := []string{label}
		for _, s := range t.Series {
			v := 0.0
			if i < len(s.Values) {
				v = s.Values[i]
			}
			rec = append(rec, formatFloat(v))
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
