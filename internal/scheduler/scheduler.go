package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/alarm"
	"github.com/amitgupta-mai/work-logger/internal/notify"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// Alarm names owned by the scheduler.
const (
	AlarmTimer    = "timer"
	AlarmPomodoro = "pomodoro"
	AlarmBreak    = "break"
)

// Scheduler owns wall-clock alarms and performs the authoritative state
// transitions for the task timer, the pomodoro cycle and break reminders.
// It is the sole writer of those state keys. Commands and alarm firings
// funnel through a single event loop and are processed to completion one
// at a time, so handlers never interleave.
type Scheduler struct {
	store    *store.Store
	alarms   alarm.Service
	notifier notify.Notifier
	logger   *zap.Logger

	// now is the clock; replaced in tests.
	now func() time.Time

	events   chan event
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	started bool
}

type event struct {
	cmd   *Command
	alarm string
	reply chan Response
}

// New creates a scheduler. Call Start before dispatching commands.
func New(st *store.Store, alarms alarm.Service, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:    st,
		alarms:   alarms,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		events:   make(chan event),
		stopChan: make(chan struct{}),
	}
}

// Start launches the event loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	s.logger.Info("Scheduler started")
}

// Stop terminates the event loop. In-flight dispatches receive a failure
// response. The alarm service must be stopped by the caller first so no
// new firings arrive.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// Dispatch executes one command to completion and returns its
// acknowledgment. Safe for concurrent use; commands are serialized.
func (s *Scheduler) Dispatch(cmd Command) Response {
	ev := event{cmd: &cmd, reply: make(chan Response, 1)}

	select {
	case s.events <- ev:
	case <-s.stopChan:
		return fail(fmt.Errorf("scheduler is not running"))
	}

	select {
	case resp := <-ev.reply:
		return resp
	case <-s.stopChan:
		return fail(fmt.Errorf("scheduler is not running"))
	}
}

// HandleAlarm delivers an alarm firing into the event loop and blocks
// until it has been processed. Wired as the alarm manager's handler.
func (s *Scheduler) HandleAlarm(name string) {
	ev := event{alarm: name, reply: make(chan Response, 1)}

	select {
	case s.events <- ev:
	case <-s.stopChan:
		return
	}

	select {
	case <-ev.reply:
	case <-s.stopChan:
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case ev := <-s.events:
			var resp Response
			if ev.cmd != nil {
				resp = s.handleCommand(*ev.cmd)
			} else {
				s.handleAlarmFired(ev.alarm)
				resp = ok()
			}
			ev.reply <- resp
		}
	}
}

func (s *Scheduler) handleCommand(cmd Command) Response {
	var resp Response
	switch cmd.Action {
	case ActionStartTimer:
		resp = s.startTimer(cmd)
	case ActionStopTimer:
		resp = s.stopTimer()
	case ActionResetTimer:
		resp = s.resetTimer()
	case ActionStartPomodoro:
		resp = s.startPomodoro(cmd)
	case ActionStopPomodoro:
		resp = s.stopPomodoro()
	case ActionEnableBreakReminders:
		resp = s.enableBreakReminders(cmd)
	case ActionDisableBreakReminders:
		resp = s.disableBreakReminders()
	case ActionUpdateBreakReminders, ActionMarkBreakTaken:
		// Two public names, one transition: reset the schedule.
		resp = s.rescheduleBreakReminders(cmd)
	case ActionShowBreakReminder:
		resp = s.showBreakReminder(cmd)
	default:
		resp = fail(fmt.Errorf("unknown action: %s", cmd.Action))
	}

	if !resp.Success {
		s.logger.Warn("Command failed",
			zap.String("action", cmd.Action),
			zap.String("error", resp.Error),
		)
	}
	return resp
}

func (s *Scheduler) handleAlarmFired(name string) {
	switch name {
	case AlarmTimer:
		s.timerTicked()
	case AlarmPomodoro:
		s.pomodoroExpired()
	case AlarmBreak:
		s.breakReminderDue()
	default:
		s.logger.Warn("Unknown alarm fired", zap.String("name", name))
	}
}
