package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNoLeads 没有可导出的线索
var ErrNoLeads = errors.New("No leads to export.")

// Header 所有记录字段的并集，按首次出现顺序
func Header(rows []Lead) []string {
	seen := make(map[string]bool)
	var header []string
	for _, r := range rows {
		for _, k := range r.Keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	return header
}

// WriteCSV 导出为 CSV，缺失字段留空
func WriteCSV(w io.Writer, rows []Lead) error {
	if len(rows) == 0 {
		return ErrNoLeads
	}
	header := Header(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, r := range rows {
		for i, k := range header {
			record[i] = cell(r.Values[k])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName 默认导出文件名 leads-YYYY-MM-DD.csv
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("leads-%s.csv", now.UTC().Format("2006-01-02"))
}
