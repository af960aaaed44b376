package store

// Top-level state keys. These names are the durable storage contract and
// must not change without a migration.
const (
	KeyIsRunning          = "isRunning"
	KeyElapsedTime        = "elapsedTime"
	KeyActiveProject      = "activeProject"
	KeyIsPomodoroRunning  = "isPomodoroRunning"
	KeyPomodoroStartTime  = "pomodoroStartTime"
	KeyPomodoroDuration   = "pomodoroDuration"
	KeyIsBreak            = "isBreak"
	KeyCompletedPomodoros = "completedPomodoros"
	KeyPomodoroSettings   = "pomodoroSettings"
	KeyBreakSettings      = "breakSettings"
	KeyPeople             = "people"
	KeyProjects           = "projects"
	KeyAllEntries         = "allEntries"
)
