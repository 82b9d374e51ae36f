package logging

import (
	"bytes"
	"encoding/csv"

	"github.com/sirupsen/logrus"
)

const timeFormatCSV = "2006-01-02T15:04:05.000Z07:00"

// csvFormatter renders one CSV record per log event: timestamp, level,
// component, message. Extra fields beyond "component" are ignored to
// keep the column count fixed.
type csvFormatter struct{}

func (f *csvFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	component, _ := entry.Data["component"].(string)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := []string{
		entry.Time.Format(timeFormatCSV),
		entry.Level.String(),
		component,
		entry.Message,
	}
	if err := w.Write(record); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
