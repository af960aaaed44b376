package alarm

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service is the alarm surface the scheduler depends on. Creating an alarm
// under an existing name replaces it; Clear reports whether an alarm with
// that name existed. A firing already in flight when Clear returns may
// still be delivered, so handlers must re-check the state that the alarm
// was armed for.
type Service interface {
	Create(name string, delay time.Duration) error
	CreatePeriodic(name string, period time.Duration) error
	Clear(name string) bool
}

// Manager owns wall-clock alarms: named one-shot timers and periodic
// tickers, each backed by its own goroutine, all firing into a single
// handler.
type Manager struct {
	mu      sync.Mutex
	alarms  map[string]chan struct{}
	handler func(name string)
	logger  *zap.Logger
	stopped bool
	wg      sync.WaitGroup
}

// NewManager creates a manager with no alarms armed.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		alarms: make(map[string]chan struct{}),
		logger: logger,
	}
}

// SetHandler installs the firing callback. Must be called before any
// alarm is created.
func (m *Manager) SetHandler(handler func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// Create arms a one-shot alarm that fires once after delay.
func (m *Manager) Create(name string, delay time.Duration) error {
	cancel, err := m.arm(name)
	if err != nil {
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-cancel:
			return
		case <-timer.C:
			m.disarm(name, cancel)
			m.fire(name)
		}
	}()

	m.logger.Debug("Alarm armed",
		zap.String("name", name),
		zap.Duration("delay", delay),
	)
	return nil
}

// CreatePeriodic arms a recurring alarm that fires every period until
// cleared.
func (m *Manager) CreatePeriodic(name string, period time.Duration) error {
	cancel, err := m.arm(name)
	if err != nil {
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				m.fire(name)
			}
		}
	}()

	m.logger.Debug("Periodic alarm armed",
		zap.String("name", name),
		zap.Duration("period", period),
	)
	return nil
}

// Clear disarms the named alarm if it exists.
func (m *Manager) Clear(name string) bool {
	m.mu.Lock()
	cancel, ok := m.alarms[name]
	if ok {
		close(cancel)
		delete(m.alarms, name)
	}
	m.mu.Unlock()

	if ok {
		m.logger.Debug("Alarm cleared", zap.String("name", name))
	}
	return ok
}

// Stop disarms all alarms and waits for alarm goroutines to exit. The
// manager cannot be reused afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopped = true
	for name, cancel := range m.alarms {
		close(cancel)
		delete(m.alarms, name)
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("Alarm manager stopped")
}

func (m *Manager) arm(name string) (chan struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return nil, fmt.Errorf("alarm manager stopped")
	}
	if m.handler == nil {
		return nil, fmt.Errorf("alarm handler not set")
	}

	// Replace an existing alarm with the same name.
	if cancel, ok := m.alarms[name]; ok {
		close(cancel)
	}
	cancel := make(chan struct{})
	m.alarms[name] = cancel
	return cancel, nil
}

func (m *Manager) disarm(name string, cancel chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Only remove the entry if it still belongs to this firing; the name
	// may have been re-armed since.
	if current, ok := m.alarms[name]; ok && current == cancel {
		delete(m.alarms, name)
	}
}

func (m *Manager) fire(name string) {
	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()
	if handler != nil {
		handler(name)
	}
}
