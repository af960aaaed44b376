package tray

import (
	"github.com/amitgupta-mai/work-logger/internal/scheduler"

	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

// Tray is the in-process UI surface. It issues the same commands as the
// browser extension and owns no state of its own.
type Tray struct {
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
}

func New(sched *scheduler.Scheduler, logger *zap.Logger) *Tray {
	return &Tray{
		scheduler: sched,
		logger:    logger,
	}
}

// Run blocks until the tray's quit item is chosen, then invokes onQuit.
// Must be called from the main goroutine; systray owns the main thread
// on macOS.
func (t *Tray) Run(onQuit func()) {
	systray.Run(func() { t.onReady() }, onQuit)
}

// Quit tears the tray down, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Work Logger")
	systray.SetTooltip("Work Logger")

	startItem := systray.AddMenuItem("Start timer", "Start the task timer")
	stopItem := systray.AddMenuItem("Stop timer", "Stop the task timer")
	systray.AddSeparator()
	breakItem := systray.AddMenuItem("Take a break now", "Mark a break as taken and reset the reminder")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Quit Work Logger")

	go func() {
		for {
			select {
			case <-startItem.ClickedCh:
				t.dispatch(scheduler.Command{Action: scheduler.ActionStartTimer})
			case <-stopItem.ClickedCh:
				t.dispatch(scheduler.Command{Action: scheduler.ActionStopTimer})
			case <-breakItem.ClickedCh:
				t.dispatch(scheduler.Command{Action: scheduler.ActionMarkBreakTaken})
			case <-quitItem.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) dispatch(cmd scheduler.Command) {
	if resp := t.scheduler.Dispatch(cmd); !resp.Success {
		t.logger.Warn("Tray command failed",
			zap.String("action", cmd.Action),
			zap.String("error", resp.Error),
		)
	}
}
