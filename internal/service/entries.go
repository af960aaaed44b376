package service

import (
	"fmt"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/models"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// EntryService owns the work-log entry document and the project/person
// suggestion lists. Entries are bucketed per day and kept newest-first.
// Updates are last-write-wins; with a single user driving one surface at
// a time that is an accepted trade-off.
type EntryService struct {
	store  *store.Store
	logger *zap.Logger

	// now is the clock; replaced in tests.
	now func() time.Time
}

func NewEntryService(st *store.Store, logger *zap.Logger) *EntryService {
	return &EntryService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// AddEntryRequest carries the fields of a new log entry. Date may be
// empty (meaning today) but is otherwise required to be today's date.
type AddEntryRequest struct {
	Type     models.LogType `json:"type"`
	Project  string         `json:"project"`
	Person   string         `json:"person,omitempty"`
	Duration int            `json:"duration"`
	Date     string         `json:"date,omitempty"`
}

// ValidationError reports a request the caller can correct; transport
// layers map it to a client error rather than a server fault.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func (r AddEntryRequest) validate(today string) error {
	if r.Date != "" && r.Date != today {
		return ValidationError("entries can only be added for today")
	}
	if r.Project == "" {
		return ValidationError("project is required")
	}
	if r.Duration <= 0 {
		return ValidationError("duration must be positive")
	}
	if r.Type == models.LogMeeting && r.Person == "" {
		return ValidationError("person is required for meetings")
	}
	if r.Type != models.LogTask && r.Type != models.LogMeeting {
		return ValidationError("unknown entry type: " + string(r.Type))
	}
	return nil
}

// AddEntry appends a new entry to the front of today's bucket and records
// the project (and person, for meetings) as suggestions for future
// entries. The entry's identifier is its creation instant.
func (s *EntryService) AddEntry(req AddEntryRequest) (models.Entry, error) {
	now := s.now()
	today := dateKey(now)

	if err := req.validate(today); err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		ID:        now.Format(time.RFC3339Nano),
		Text:      renderEntryText(req),
		Date:      today,
		Timestamp: now.UnixMilli(),
		Type:      req.Type,
		Project:   req.Project,
		Duration:  req.Duration,
		Person:    req.Person,
	}

	doc, err := s.store.Get(store.KeyAllEntries, store.KeyProjects, store.KeyPeople)
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to read entries: %w", err)
	}

	all := map[string][]models.Entry{}
	doc.Decode(store.KeyAllEntries, &all)
	all[today] = append([]models.Entry{entry}, all[today]...)

	set := map[string]interface{}{store.KeyAllEntries: all}

	var projects []models.Option
	doc.Decode(store.KeyProjects, &projects)
	if updated, changed := addOption(projects, req.Project); changed {
		set[store.KeyProjects] = updated
	}

	if req.Type == models.LogMeeting {
		var people []models.Option
		doc.Decode(store.KeyPeople, &people)
		if updated, changed := addOption(people, req.Person); changed {
			set[store.KeyPeople] = updated
		}
	}

	if err := s.store.Set(set); err != nil {
		return models.Entry{}, fmt.Errorf("failed to save entry: %w", err)
	}

	s.logger.Info("Entry added",
		zap.String("type", string(entry.Type)),
		zap.String("project", entry.Project),
		zap.Int("duration_minutes", entry.Duration),
	)
	return entry, nil
}

// DeleteEntry removes an entry from today's bucket. Past days are
// immutable: a non-today date is rejected before anything is read or
// written, no matter how many times it is retried.
func (s *EntryService) DeleteEntry(id, date string) error {
	today := dateKey(s.now())
	if date != today {
		return ValidationError("entries can only be deleted on the day they were logged")
	}

	doc, err := s.store.Get(store.KeyAllEntries)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	all := map[string][]models.Entry{}
	doc.Decode(store.KeyAllEntries, &all)

	bucket := all[today]
	kept := bucket[:0:0]
	for _, e := range bucket {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(bucket) {
		// Nothing to remove; deleting an absent entry is a no-op.
		return nil
	}
	all[today] = kept

	if err := s.store.Set(map[string]interface{}{store.KeyAllEntries: all}); err != nil {
		return fmt.Errorf("failed to save entries: %w", err)
	}

	s.logger.Info("Entry deleted", zap.String("id", id))
	return nil
}

// Entries returns the bucket for the given date (empty string means
// today), newest first.
func (s *EntryService) Entries(date string) ([]models.Entry, error) {
	if date == "" {
		date = dateKey(s.now())
	}

	doc, err := s.store.Get(store.KeyAllEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	all := map[string][]models.Entry{}
	doc.Decode(store.KeyAllEntries, &all)
	return all[date], nil
}

// TotalMinutes sums the logged durations for a date.
func (s *EntryService) TotalMinutes(date string) (int, error) {
	entries, err := s.Entries(date)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, e := range entries {
		total += e.Duration
	}
	return total, nil
}

// Suggestions returns the remembered project and person options.
func (s *EntryService) Suggestions() (projects, people []models.Option, err error) {
	doc, err := s.store.Get(store.KeyProjects, store.KeyPeople)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read suggestions: %w", err)
	}
	doc.Decode(store.KeyProjects, &projects)
	doc.Decode(store.KeyPeople, &people)
	return projects, people, nil
}

// renderEntryText composes the display line shown in the log, e.g.
// "Project: backend - 1h 30m" or "Meeting: Sam - 45m (Project: backend)".
func renderEntryText(req AddEntryRequest) string {
	duration := FormatMinutesToHM(req.Duration)
	if req.Type == models.LogMeeting {
		return fmt.Sprintf("Meeting: %s - %s (Project: %s)", req.Person, duration, req.Project)
	}
	return fmt.Sprintf("Project: %s - %s", req.Project, duration)
}

// FormatMinutesToHM renders a minute count as "2h", "45m" or "1h 30m".
func FormatMinutesToHM(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// addOption appends value to opts unless already present. Label and value
// are kept equal, matching how user-created options are stored.
func addOption(opts []models.Option, value string) ([]models.Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return opts, false
		}
	}
	return append(opts, models.Option{Label: value, Value: value}), true
}

// dateKey renders the local calendar date as a bucket key.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
