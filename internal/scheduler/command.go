package scheduler

import "github.com/amitgupta-mai/work-logger/internal/models"

// Recognized command actions.
const (
	ActionStartTimer            = "startTimer"
	ActionStopTimer             = "stopTimer"
	ActionResetTimer            = "resetTimer"
	ActionStartPomodoro         = "startPomodoro"
	ActionStopPomodoro          = "stopPomodoro"
	ActionEnableBreakReminders  = "enableBreakReminders"
	ActionDisableBreakReminders = "disableBreakReminders"
	ActionUpdateBreakReminders  = "updateBreakReminders"
	ActionMarkBreakTaken        = "markBreakTaken"
	ActionShowBreakReminder     = "showBreakReminder"
)

// Command is the message a UI surface sends to the scheduler. Fields
// beyond Action are action-specific; unused ones are left zero.
type Command struct {
	Action string `json:"action"`

	// startTimer
	ActiveProject *string `json:"activeProject,omitempty"`

	// startPomodoro: Duration in minutes. CompletedPomodoros is the
	// caller's view of the count; it is informational only, since the
	// count advances exclusively on completion or stop.
	Duration           int  `json:"duration,omitempty"`
	IsBreak            bool `json:"isBreak,omitempty"`
	CompletedPomodoros int  `json:"completedPomodoros,omitempty"`

	// break reminder commands: Interval in minutes.
	Interval int                   `json:"interval,omitempty"`
	Settings *models.BreakSettings `json:"settings,omitempty"`

	// showBreakReminder
	Message string `json:"message,omitempty"`
}

// Response is the acknowledgment returned for every command.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Response {
	return Response{Success: true}
}

func fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
