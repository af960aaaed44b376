package models

// LogType distinguishes the two kinds of logged entries.
type LogType string

const (
	LogTask    LogType = "Task"
	LogMeeting LogType = "Meeting"
)

// Entry is one logged unit of work, stored newest-first in its day bucket.
type Entry struct {
	ID        string  `json:"id"`
	Text      string  `json:"entry"`
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Type      LogType `json:"type,omitempty"`
	Project   string  `json:"project,omitempty"`
	Duration  int     `json:"duration,omitempty"`
	Person    string  `json:"person,omitempty"`
}

// Option is a creatable-select suggestion (label and value are kept equal
// for user-created options, matching the popup's behavior).
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PomodoroSettings configures work/break cycle durations, in minutes.
type PomodoroSettings struct {
	WorkDuration      int  `json:"workDuration"`
	BreakDuration     int  `json:"breakDuration"`
	LongBreakDuration int  `json:"longBreakDuration"`
	AutoStartBreaks   bool `json:"autoStartBreaks"`
	AutoStartWork     bool `json:"autoStartWork"`
	LongBreakInterval int  `json:"longBreakInterval"`
}

// ReminderType selects how a break reminder is surfaced.
type ReminderType string

const (
	ReminderNotification ReminderType = "notification"
	ReminderPopup        ReminderType = "popup"
	ReminderBoth         ReminderType = "both"
)

// BreakSettings is the recurring break reminder configuration.
// LastBreakTime and NextBreakTime are unix milliseconds.
type BreakSettings struct {
	Enabled         bool         `json:"enabled"`
	Interval        int          `json:"interval"`
	ReminderType    ReminderType `json:"reminderType"`
	BreakActivities []string     `json:"breakActivities"`
	CustomMessage   string       `json:"customMessage"`
	LastBreakTime   int64        `json:"lastBreakTime"`
	NextBreakTime   int64        `json:"nextBreakTime"`
}

// DefaultDocument returns the state written on first run, mirroring the
// extension's install-time defaults.
func DefaultDocument() map[string]interface{} {
	return map[string]interface{}{
		"completedPomodoros": 0,
		"pomodoroSettings":   DefaultPomodoroSettings(),
		"breakSettings":      DefaultBreakSettings(),
	}
}

// DefaultPomodoroSettings returns the install-time pomodoro configuration.
func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		WorkDuration:      25,
		BreakDuration:     5,
		LongBreakDuration: 15,
		AutoStartBreaks:   false,
		AutoStartWork:     false,
		LongBreakInterval: 4,
	}
}

// DefaultBreakSettings returns the install-time break reminder configuration.
func DefaultBreakSettings() BreakSettings {
	return BreakSettings{
		Enabled:      false,
		Interval:     60,
		ReminderType: ReminderNotification,
		BreakActivities: []string{
			"Take a short walk",
			"Stretch your legs",
			"Look away from screen",
			"Drink some water",
			"Deep breathing exercise",
		},
		CustomMessage: "Time for a break!",
		LastBreakTime: 0,
		NextBreakTime: 0,
	}
}
