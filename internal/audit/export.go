package audit

import (
	"bytes"
	"encoding/csv"
	"time"
)

// WriteCSV encodes timeline rows with a header line.
func WriteCSV(rows []TimelineRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "action", "performed_by", "details"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stamp := row.Raw
		if !row.At.IsZero() {
			stamp = row.At.Format(time.RFC3339)
		}
		if err := w.Write([]string{stamp, row.Action, row.Actor, row.Details}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
