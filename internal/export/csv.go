package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/amitgupta-mai/work-logger/internal/models"
)

// ToCSV streams entries as CSV, one row per entry. The writer is flushed
// before returning so callers can hand it an HTTP response body directly.
func ToCSV(out io.Writer, entries []models.Entry) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Type", "Project", "Person", "Duration (min)", "Description"}); err != nil {
		return err
	}

	for _, e := range entries {
		entryType := e.Type
		if entryType == "" {
			entryType = models.LogTask
		}
		row := []string{
			e.Date,
			string(entryType),
			e.Project,
			e.Person,
			strconv.Itoa(e.Duration),
			e.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
