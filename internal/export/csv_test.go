package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/amitgupta-mai/work-logger/internal/models"
)

func sampleEntries() []models.Entry {
	return []models.Entry{
		{
			ID:       "2026-08-29T14:30:00Z",
			Text:     "Project: backend - 1h 30m",
			Date:     "2026-08-29",
			Type:     models.LogTask,
			Project:  "backend",
			Duration: 90,
		},
		{
			ID:       "2026-08-29T10:00:00Z",
			Text:     "Meeting: Sam - 45m (Project: backend)",
			Date:     "2026-08-29",
			Type:     models.LogMeeting,
			Project:  "backend",
			Person:   "Sam",
			Duration: 45,
		},
	}
}

func TestToCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ToCSV(&buf, sampleEntries()); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}

	expectedHeader := []string{"Date", "Type", "Project", "Person", "Duration (min)", "Description"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2026-08-29" || row[1] != "Task" || row[2] != "backend" {
		t.Fatalf("row = %v", row)
	}
	if row[3] != "" {
		t.Fatalf("task row should have no person, got %q", row[3])
	}
	if row[4] != "90" {
		t.Fatalf("duration = %q, want 90", row[4])
	}
	if row[5] != "Project: backend - 1h 30m" {
		t.Fatalf("description = %q", row[5])
	}

	meeting := records[2]
	if meeting[1] != "Meeting" || meeting[3] != "Sam" {
		t.Fatalf("meeting row = %v", meeting)
	}
}

func TestToCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ToCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVDefaultsMissingType(t *testing.T) {
	entries := []models.Entry{{ID: "x", Text: "legacy entry", Date: "2026-08-29"}}

	var buf bytes.Buffer
	if err := ToCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][1] != "Task" {
		t.Fatalf("missing type should default to Task, got %q", records[1][1])
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	entries := []models.Entry{{
		ID:       "x",
		Text:     `notes with "quotes" and, commas`,
		Date:     "2026-08-29",
		Type:     models.LogTask,
		Project:  `Project "Special"`,
		Duration: 30,
	}}

	var buf bytes.Buffer
	if err := ToCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][2] != `Project "Special"` {
		t.Fatalf("project mangled: %q", records[1][2])
	}
	if records[1][5] != `notes with "quotes" and, commas` {
		t.Fatalf("description mangled: %q", records[1][5])
	}
}
