package scheduler

import (
	"testing"
	"time"

	"github.com/amitgupta-mai/work-logger/internal/database"
	"github.com/amitgupta-mai/work-logger/internal/models"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// newRestoreFixture builds a scheduler without starting its loop, the
// state Restore runs in.
func newRestoreFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewMemory(zap.NewNop())
	if err != nil {
		t.Fatalf("new memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db.DB, zap.NewNop())
	alarms := newFakeAlarms()
	notifier := &recordingNotifier{}

	sched := New(st, alarms, notifier, zap.NewNop())
	sched.now = func() time.Time { return testNow }

	return &fixture{sched: sched, db: db, store: st, alarms: alarms, notifier: notifier}
}

func TestRestoreNothingPersisted(t *testing.T) {
	f := newRestoreFixture(t)

	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if f.alarms.createCount(AlarmTimer)+f.alarms.createCount(AlarmPomodoro)+f.alarms.createCount(AlarmBreak) != 0 {
		t.Fatal("no alarms should be armed from an empty store")
	}
}

func TestRestoreRunningTimer(t *testing.T) {
	f := newRestoreFixture(t)

	if err := f.store.Set(map[string]interface{}{store.KeyIsRunning: true}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if period, ok := f.alarms.periodicPeriod(AlarmTimer); !ok || period != time.Second {
		t.Fatalf("timer alarm = %v, %v; want periodic 1s", period, ok)
	}
}

func TestRestorePomodoroWithRemainingTime(t *testing.T) {
	f := newRestoreFixture(t)

	// Started 10 minutes ago with 25 to run: 15 remain
	if err := f.store.Set(map[string]interface{}{
		store.KeyIsPomodoroRunning: true,
		store.KeyPomodoroStartTime: testNow.Add(-10 * time.Minute).UnixMilli(),
		store.KeyPomodoroDuration:  25 * 60,
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if delay, ok := f.alarms.oneShotDelay(AlarmPomodoro); !ok || delay != 15*time.Minute {
		t.Fatalf("pomodoro alarm = %v, %v; want 15m", delay, ok)
	}
}

func TestRestorePomodoroExpiredOffline(t *testing.T) {
	f := newRestoreFixture(t)

	// Started an hour ago with 25 minutes to run: settled on restore
	if err := f.store.Set(map[string]interface{}{
		store.KeyIsPomodoroRunning: true,
		store.KeyPomodoroStartTime: testNow.Add(-time.Hour).UnixMilli(),
		store.KeyPomodoroDuration:  25 * 60,
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if _, armed := f.alarms.oneShotDelay(AlarmPomodoro); armed {
		t.Fatal("expired session should not re-arm an alarm")
	}
	if got := len(f.notifier.all()); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}

	doc, err := f.store.Get(store.KeyIsPomodoroRunning, store.KeyCompletedPomodoros)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Bool(store.KeyIsPomodoroRunning) {
		t.Fatal("session should be settled")
	}
	if got := doc.Int(store.KeyCompletedPomodoros); got != 1 {
		t.Fatalf("completedPomodoros = %d, want 1", got)
	}
}

func TestRestoreEnabledBreakReminders(t *testing.T) {
	f := newRestoreFixture(t)

	settings := models.DefaultBreakSettings()
	settings.Enabled = true
	settings.Interval = 30
	settings.NextBreakTime = testNow.Add(12 * time.Minute).UnixMilli()
	if err := f.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if delay, ok := f.alarms.oneShotDelay(AlarmBreak); !ok || delay != 12*time.Minute {
		t.Fatalf("break alarm = %v, %v; want 12m", delay, ok)
	}
}

func TestRestoreMissedBreakOccurrence(t *testing.T) {
	f := newRestoreFixture(t)

	settings := models.DefaultBreakSettings()
	settings.Enabled = true
	settings.Interval = 30
	settings.NextBreakTime = testNow.Add(-5 * time.Minute).UnixMilli()
	if err := f.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	// A missed occurrence re-arms a full interval out, not immediately
	if delay, ok := f.alarms.oneShotDelay(AlarmBreak); !ok || delay != 30*time.Minute {
		t.Fatalf("break alarm = %v, %v; want 30m", delay, ok)
	}
}

func TestRestoreDisabledBreakRemindersNoAlarm(t *testing.T) {
	f := newRestoreFixture(t)

	settings := models.DefaultBreakSettings()
	settings.Enabled = false
	if err := f.store.Set(map[string]interface{}{store.KeyBreakSettings: settings}); err != nil {
		t.Fatal(err)
	}
	if err := f.sched.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got := f.alarms.createCount(AlarmBreak); got != 0 {
		t.Fatalf("break alarm created %d times, want 0", got)
	}
}
