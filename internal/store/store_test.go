package store

import (
	"testing"

	"github.com/amitgupta-mai/work-logger/internal/database"
	"github.com/amitgupta-mai/work-logger/internal/models"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("new memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db.DB, zap.NewNop())
}

func TestGetMissingKeysAbsent(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Get(KeyIsRunning, KeyElapsedTime)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Has(KeyIsRunning) || doc.Has(KeyElapsedTime) {
		t.Fatalf("expected no keys, got %v", doc)
	}
	// Absent keys read as zero values
	if doc.Bool(KeyIsRunning) {
		t.Fatal("absent bool should read false")
	}
	if doc.Int(KeyElapsedTime) != 0 {
		t.Fatal("absent int should read 0")
	}
}

func TestSetMergesAtKeyLevel(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(map[string]interface{}{
		KeyIsRunning:   true,
		KeyElapsedTime: 42,
	}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Writing one key must not disturb the other
	if err := s.Set(map[string]interface{}{KeyIsRunning: false}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc, err := s.Get(KeyIsRunning, KeyElapsedTime)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Bool(KeyIsRunning) {
		t.Fatal("isRunning should be false after overwrite")
	}
	if got := doc.Int(KeyElapsedTime); got != 42 {
		t.Fatalf("elapsedTime = %d, want 42", got)
	}
}

func TestSetNilStoresNull(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(map[string]interface{}{KeyActiveProject: "backend"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(map[string]interface{}{KeyActiveProject: nil}); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Get(KeyActiveProject)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Has(KeyActiveProject) {
		t.Fatal("null value should read as absent")
	}
	if got := doc.String(KeyActiveProject); got != "" {
		t.Fatalf("activeProject = %q, want empty", got)
	}
}

func TestStructRoundTrip(t *testing.T) {
	s := newTestStore(t)

	settings := models.DefaultBreakSettings()
	settings.Enabled = true
	settings.Interval = 45
	settings.NextBreakTime = 1700000000000

	if err := s.Set(map[string]interface{}{KeyBreakSettings: settings}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc, err := s.Get(KeyBreakSettings)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var got models.BreakSettings
	if !doc.Decode(KeyBreakSettings, &got) {
		t.Fatal("Decode failed")
	}
	if !got.Enabled || got.Interval != 45 || got.NextBreakTime != 1700000000000 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.BreakActivities) != len(settings.BreakActivities) {
		t.Fatalf("activities = %d, want %d", len(got.BreakActivities), len(settings.BreakActivities))
	}
}

func TestNestedDocumentReplacedWholesale(t *testing.T) {
	s := newTestStore(t)

	first := map[string][]models.Entry{
		"2026-08-29": {{ID: "a", Text: "Project: x - 1h"}},
	}
	if err := s.Set(map[string]interface{}{KeyAllEntries: first}); err != nil {
		t.Fatal(err)
	}

	// A second write of allEntries replaces the whole nested document;
	// there is no deep merge.
	second := map[string][]models.Entry{
		"2026-08-30": {{ID: "b", Text: "Project: y - 2h"}},
	}
	if err := s.Set(map[string]interface{}{KeyAllEntries: second}); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Get(KeyAllEntries)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string][]models.Entry
	doc.Decode(KeyAllEntries, &got)
	if _, ok := got["2026-08-29"]; ok {
		t.Fatal("old day bucket should be gone after wholesale replace")
	}
	if len(got["2026-08-30"]) != 1 {
		t.Fatalf("new bucket = %v", got["2026-08-30"])
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(map[string]interface{}{
		KeyIsRunning:   true,
		KeyElapsedTime: 7,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(KeyIsRunning, "neverExisted"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	doc, err := s.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Has(KeyIsRunning) {
		t.Fatal("isRunning should be removed")
	}
	if doc.Int(KeyElapsedTime) != 7 {
		t.Fatal("elapsedTime should survive")
	}
}

func TestSeedDefaultsDoesNotOverwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(map[string]interface{}{KeyCompletedPomodoros: 9}); err != nil {
		t.Fatal(err)
	}
	if err := s.SeedDefaults(models.DefaultDocument()); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	doc, err := s.Get(KeyCompletedPomodoros, KeyPomodoroSettings, KeyBreakSettings)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Int(KeyCompletedPomodoros); got != 9 {
		t.Fatalf("completedPomodoros = %d, want 9 (seed must not overwrite)", got)
	}

	var ps models.PomodoroSettings
	if !doc.Decode(KeyPomodoroSettings, &ps) {
		t.Fatal("pomodoroSettings should be seeded")
	}
	if ps.WorkDuration != 25 || ps.LongBreakInterval != 4 {
		t.Fatalf("unexpected seeded settings: %+v", ps)
	}

	var bs models.BreakSettings
	if !doc.Decode(KeyBreakSettings, &bs) {
		t.Fatal("breakSettings should be seeded")
	}
	if bs.Enabled {
		t.Fatal("break reminders should be seeded disabled")
	}

	// Seeding twice is a no-op
	if err := s.SeedDefaults(models.DefaultDocument()); err != nil {
		t.Fatal(err)
	}
}

func TestDocumentMalformedValueReadsZero(t *testing.T) {
	doc := Document{"elapsedTime": []byte(`"not a number"`)}
	if got := doc.Int("elapsedTime"); got != 0 {
		t.Fatalf("malformed int = %d, want 0", got)
	}
	if doc.Decode("elapsedTime", new(int)) {
		t.Fatal("Decode of malformed value should report false")
	}
}
