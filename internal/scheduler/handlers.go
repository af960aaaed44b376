package scheduler

import (
	"math/rand"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/models"
	"github.com/amitgupta-mai/work-logger/internal/notify"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// fallbackActivity is suggested when the configured activity list is empty.
const fallbackActivity = "Step away from your screen for a moment"

// startTimer arms the 1-second tick and marks the timer running. Starting
// an already-running timer is a successful no-op.
func (s *Scheduler) startTimer(cmd Command) Response {
	doc, err := s.store.Get(store.KeyIsRunning)
	if err != nil {
		return fail(err)
	}
	if doc.Bool(store.KeyIsRunning) {
		return ok()
	}

	// The alarm must be armed before the running flag is persisted and
	// the command acknowledged, or the first tick can be missed.
	if err := s.alarms.CreatePeriodic(AlarmTimer, time.Second); err != nil {
		return fail(err)
	}

	set := map[string]interface{}{store.KeyIsRunning: true}
	if cmd.ActiveProject != nil {
		set[store.KeyActiveProject] = *cmd.ActiveProject
	}
	if err := s.store.Set(set); err != nil {
		// A live alarm with a cleared running flag is worse than a
		// failed start; disarm before reporting the failure.
		s.alarms.Clear(AlarmTimer)
		return fail(err)
	}

	s.logger.Info("Task timer started")
	return ok()
}

// stopTimer disarms the tick and clears the running flag in one logical
// operation. Stopping a stopped timer is a successful no-op. Elapsed time
// is preserved until the user commits or resets it.
func (s *Scheduler) stopTimer() Response {
	doc, err := s.store.Get(store.KeyIsRunning)
	if err != nil {
		return fail(err)
	}
	if !doc.Bool(store.KeyIsRunning) {
		return ok()
	}

	s.alarms.Clear(AlarmTimer)
	if err := s.store.Set(map[string]interface{}{
		store.KeyIsRunning:     false,
		store.KeyActiveProject: nil,
	}); err != nil {
		return fail(err)
	}

	s.logger.Info("Task timer stopped")
	return ok()
}

// resetTimer stops the timer and zeroes the accumulated elapsed time.
func (s *Scheduler) resetTimer() Response {
	s.alarms.Clear(AlarmTimer)
	if err := s.store.Set(map[string]interface{}{
		store.KeyIsRunning:     false,
		store.KeyActiveProject: nil,
		store.KeyElapsedTime:   0,
	}); err != nil {
		return fail(err)
	}

	s.logger.Info("Task timer reset")
	return ok()
}

func (s *Scheduler) timerTicked() {
	doc, err := s.store.Get(store.KeyIsRunning, store.KeyElapsedTime)
	if err != nil {
		s.logger.Error("Failed to read timer state on tick", zap.Error(err))
		return
	}
	if !doc.Bool(store.KeyIsRunning) {
		// Stale tick; the timer was stopped while this firing was in
		// flight.
		return
	}

	if err := s.store.Set(map[string]interface{}{
		store.KeyElapsedTime: doc.Int(store.KeyElapsedTime) + 1,
	}); err != nil {
		s.logger.Error("Failed to persist elapsed time", zap.Error(err))
	}
}

func (s *Scheduler) startPomodoro(cmd Command) Response {
	duration := cmd.Duration
	if duration <= 0 {
		duration = models.DefaultPomodoroSettings().WorkDuration
	}
	if err := s.beginPomodoro(duration, cmd.IsBreak); err != nil {
		return fail(err)
	}
	return ok()
}

// beginPomodoro arms the one-shot session alarm and persists the running
// state. The completed count is deliberately untouched: it advances only
// when a work session ends.
func (s *Scheduler) beginPomodoro(durationMinutes int, isBreak bool) error {
	if err := s.alarms.Create(AlarmPomodoro, time.Duration(durationMinutes)*time.Minute); err != nil {
		return err
	}

	if err := s.store.Set(map[string]interface{}{
		store.KeyIsPomodoroRunning: true,
		store.KeyPomodoroStartTime: s.now().UnixMilli(),
		store.KeyPomodoroDuration:  durationMinutes * 60,
		store.KeyIsBreak:           isBreak,
	}); err != nil {
		s.alarms.Clear(AlarmPomodoro)
		return err
	}

	s.logger.Info("Pomodoro session started",
		zap.Int("duration_minutes", durationMinutes),
		zap.Bool("is_break", isBreak),
	)
	return nil
}

// stopPomodoro ends the session early. A manually-stopped work session
// still counts as completed (partial credit), a stopped break never does.
func (s *Scheduler) stopPomodoro() Response {
	doc, err := s.store.Get(store.KeyIsPomodoroRunning, store.KeyIsBreak, store.KeyCompletedPomodoros)
	if err != nil {
		return fail(err)
	}

	s.alarms.Clear(AlarmPomodoro)

	set := map[string]interface{}{
		store.KeyIsPomodoroRunning: false,
		store.KeyPomodoroStartTime: nil,
		store.KeyPomodoroDuration:  nil,
		store.KeyIsBreak:           false,
	}
	wasWork := doc.Bool(store.KeyIsPomodoroRunning) && !doc.Bool(store.KeyIsBreak)
	if wasWork {
		set[store.KeyCompletedPomodoros] = doc.Int(store.KeyCompletedPomodoros) + 1
	}

	if err := s.store.Set(set); err != nil {
		return fail(err)
	}

	s.logger.Info("Pomodoro session stopped", zap.Bool("counted", wasWork))
	return ok()
}

func (s *Scheduler) pomodoroExpired() {
	doc, err := s.store.Get(
		store.KeyIsPomodoroRunning,
		store.KeyIsBreak,
		store.KeyCompletedPomodoros,
		store.KeyPomodoroSettings,
	)
	if err != nil {
		s.logger.Error("Failed to read pomodoro state on expiry", zap.Error(err))
		return
	}
	if !doc.Bool(store.KeyIsPomodoroRunning) {
		// Stale alarm; the session was stopped while the firing was in
		// flight.
		return
	}

	isBreak := doc.Bool(store.KeyIsBreak)
	notification := notify.Notification{
		Title:    "Pomodoro Complete! 🍅",
		Body:     "Great work! Take a break 🍅⏲️",
		Priority: 2,
	}
	if isBreak {
		notification.Title = "Break Complete! 🎯"
		notification.Body = "Break time is over. Ready to work?"
	}
	if err := s.notifier.Notify(notification); err != nil {
		s.logger.Error("Failed to deliver pomodoro notification", zap.Error(err))
	}

	completed := doc.Int(store.KeyCompletedPomodoros)
	set := map[string]interface{}{
		store.KeyIsPomodoroRunning: false,
		store.KeyPomodoroStartTime: nil,
		store.KeyPomodoroDuration:  nil,
		store.KeyIsBreak:           false,
	}
	if !isBreak {
		completed++
		set[store.KeyCompletedPomodoros] = completed
	}
	if err := s.store.Set(set); err != nil {
		s.logger.Error("Failed to reset pomodoro state", zap.Error(err))
		return
	}

	settings := models.DefaultPomodoroSettings()
	doc.Decode(store.KeyPomodoroSettings, &settings)

	switch {
	case !isBreak && settings.AutoStartBreaks:
		duration := settings.BreakDuration
		if settings.LongBreakInterval > 0 && completed%settings.LongBreakInterval == 0 {
			duration = settings.LongBreakDuration
		}
		if err := s.beginPomodoro(duration, true); err != nil {
			s.logger.Error("Failed to auto-start break", zap.Error(err))
		}
	case isBreak && settings.AutoStartWork:
		if err := s.beginPomodoro(settings.WorkDuration, false); err != nil {
			s.logger.Error("Failed to auto-start work session", zap.Error(err))
		}
	}
}

func (s *Scheduler) enableBreakReminders(cmd Command) Response {
	if err := s.scheduleBreakReminders(cmd); err != nil {
		return fail(err)
	}
	s.logger.Info("Break reminders enabled")
	return ok()
}

// rescheduleBreakReminders backs both updateBreakReminders and
// markBreakTaken; the two intents produce the same transition.
func (s *Scheduler) rescheduleBreakReminders(cmd Command) Response {
	if err := s.scheduleBreakReminders(cmd); err != nil {
		return fail(err)
	}
	return ok()
}

// scheduleBreakReminders re-arms the break alarm for one interval from now
// and resets the last/next pair. The alarm is one-shot and re-armed on
// every firing, which keeps a restart from drifting the schedule.
func (s *Scheduler) scheduleBreakReminders(cmd Command) error {
	settings := models.DefaultBreakSettings()
	if cmd.Settings != nil {
		settings = *cmd.Settings
	} else {
		// markBreakTaken carries no settings; keep the stored ones.
		doc, err := s.store.Get(store.KeyBreakSettings)
		if err != nil {
			return err
		}
		doc.Decode(store.KeyBreakSettings, &settings)
	}
	if cmd.Interval > 0 {
		settings.Interval = cmd.Interval
	}
	if settings.Interval <= 0 {
		settings.Interval = models.DefaultBreakSettings().Interval
	}

	interval := time.Duration(settings.Interval) * time.Minute
	if err := s.alarms.Create(AlarmBreak, interval); err != nil {
		return err
	}

	now := s.now()
	settings.Enabled = true
	settings.LastBreakTime = now.UnixMilli()
	settings.NextBreakTime = now.Add(interval).UnixMilli()

	if err := s.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		s.alarms.Clear(AlarmBreak)
		return err
	}
	return nil
}

// disableBreakReminders persists the disabled flag before clearing the
// alarm. If the write fails the alarm stays armed and the state stays
// consistent; the enabled guard in breakReminderDue already swallows a
// firing that lands between the write and the clear. The other order
// would strand a cleared alarm behind enabled=true.
func (s *Scheduler) disableBreakReminders() Response {
	doc, err := s.store.Get(store.KeyBreakSettings)
	if err != nil {
		return fail(err)
	}
	settings := models.DefaultBreakSettings()
	doc.Decode(store.KeyBreakSettings, &settings)
	settings.Enabled = false

	if err := s.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		return fail(err)
	}

	s.alarms.Clear(AlarmBreak)

	s.logger.Info("Break reminders disabled")
	return ok()
}

// showBreakReminder surfaces a break notification immediately, outside
// the recurring schedule.
func (s *Scheduler) showBreakReminder(cmd Command) Response {
	message := cmd.Message
	if message == "" {
		message = models.DefaultBreakSettings().CustomMessage
	}

	if err := s.notifier.Notify(notify.Notification{
		Title:    "Break Reminder",
		Body:     message,
		Priority: 1,
	}); err != nil {
		return fail(err)
	}
	return ok()
}

func (s *Scheduler) breakReminderDue() {
	doc, err := s.store.Get(store.KeyBreakSettings)
	if err != nil {
		s.logger.Error("Failed to read break settings on reminder", zap.Error(err))
		return
	}

	settings := models.DefaultBreakSettings()
	if !doc.Decode(store.KeyBreakSettings, &settings) || !settings.Enabled {
		// Stale alarm; reminders were disabled after this firing was
		// already scheduled.
		return
	}

	activity := fallbackActivity
	if len(settings.BreakActivities) > 0 {
		activity = settings.BreakActivities[rand.Intn(len(settings.BreakActivities))]
	}

	message := settings.CustomMessage
	if message == "" {
		message = models.DefaultBreakSettings().CustomMessage
	}

	if settings.ReminderType == models.ReminderNotification || settings.ReminderType == models.ReminderBoth {
		if err := s.notifier.Notify(notify.Notification{
			Title:    "Break Reminder",
			Body:     message + "\n" + activity,
			Priority: 1,
		}); err != nil {
			s.logger.Error("Failed to deliver break reminder", zap.Error(err))
		}
	}

	interval := time.Duration(settings.Interval) * time.Minute
	now := s.now()
	settings.LastBreakTime = now.UnixMilli()
	settings.NextBreakTime = now.Add(interval).UnixMilli()

	if err := s.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		s.logger.Error("Failed to advance break schedule", zap.Error(err))
		return
	}

	// Re-arm the next occurrence.
	if err := s.alarms.Create(AlarmBreak, interval); err != nil {
		s.logger.Error("Failed to re-arm break reminder", zap.Error(err))
	}
}
