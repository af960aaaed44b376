package scheduler

import (
	"fmt"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/models"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// Restore re-arms alarms from the persisted state after a restart. Alarms
// die with the process but the flags that say they should exist do not, so
// a running timer gets its tick back, a running pomodoro is resumed for
// its remaining time (or expired inline if it ran out while the process
// was down), and enabled break reminders pick up at the persisted next
// occurrence.
//
// Restore must be called before Start; it touches the store directly
// instead of going through the event loop.
func (s *Scheduler) Restore() error {
	doc, err := s.store.Get(
		store.KeyIsRunning,
		store.KeyIsPomodoroRunning,
		store.KeyPomodoroStartTime,
		store.KeyPomodoroDuration,
		store.KeyBreakSettings,
	)
	if err != nil {
		return fmt.Errorf("failed to read persisted state: %w", err)
	}

	if doc.Bool(store.KeyIsRunning) {
		if err := s.alarms.CreatePeriodic(AlarmTimer, time.Second); err != nil {
			return fmt.Errorf("failed to restore timer tick: %w", err)
		}
		s.logger.Info("Restored running task timer")
	}

	if doc.Bool(store.KeyIsPomodoroRunning) {
		if err := s.restorePomodoro(doc); err != nil {
			return err
		}
	}

	settings := models.DefaultBreakSettings()
	if doc.Decode(store.KeyBreakSettings, &settings) && settings.Enabled {
		if err := s.restoreBreakReminders(settings); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scheduler) restorePomodoro(doc store.Document) error {
	started := time.UnixMilli(doc.Int64(store.KeyPomodoroStartTime))
	duration := time.Duration(doc.Int(store.KeyPomodoroDuration)) * time.Second
	remaining := duration - s.now().Sub(started)

	if remaining <= 0 {
		// The session ran out while the process was down; settle it now
		// so the count and notification are not lost.
		s.logger.Info("Pomodoro session expired while offline")
		s.pomodoroExpired()
		return nil
	}

	if err := s.alarms.Create(AlarmPomodoro, remaining); err != nil {
		return fmt.Errorf("failed to restore pomodoro alarm: %w", err)
	}
	s.logger.Info("Restored pomodoro session", zap.Duration("remaining", remaining))
	return nil
}

func (s *Scheduler) restoreBreakReminders(settings models.BreakSettings) error {
	interval := time.Duration(settings.Interval) * time.Minute
	if interval <= 0 {
		interval = time.Duration(models.DefaultBreakSettings().Interval) * time.Minute
	}

	delay := time.UnixMilli(settings.NextBreakTime).Sub(s.now())
	if settings.NextBreakTime <= 0 || delay <= 0 {
		// The occurrence was missed while offline; fire one interval out
		// rather than immediately on boot.
		delay = interval
	}

	if err := s.alarms.Create(AlarmBreak, delay); err != nil {
		return fmt.Errorf("failed to restore break reminder: %w", err)
	}
	s.logger.Info("Restored break reminders", zap.Duration("next_in", delay))
	return nil
}
