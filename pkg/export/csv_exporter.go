package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ReportTable is a rendered schedule or capacity report: ordered columns and
// one row per program day.
type ReportTable struct {
	Columns []string
	Rows    []map[string]string
}

func (t ReportTable) record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, column := range t.Columns {
		record[i] = row[column]
	}
	return record
}

// CSVExporter renders report tables into CSV bytes for download endpoints.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes with a header row followed by the table body.
func (e *CSVExporter) Render(table ReportTable) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("report table needs at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(table.record(row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
