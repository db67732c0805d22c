package cache

import (
	"log/slog"
	"time"
)

// Cache is a keyed store with expiry. Keys are namespaced by callers as
// "<owner>|<rest>" so everything owned by one session can be dropped at once.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// DeletePrefix removes every key starting with prefix and returns the count.
	DeletePrefix(prefix string) int
	Size() int
}

// Cleaner is anything the Manager can sweep periodically.
type Cleaner interface {
	CleanExpired() int
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc func() int

func (f CleanerFunc) CleanExpired() int { return f() }

// Manager runs periodic cleanup for registered caches and stores.
type Manager struct {
	logger      *slog.Logger
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:      logger,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cleaner. Call before StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanNow(); n > 0 {
				m.logger.Debug("Cache cleanup", "removed", n)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// CleanNow sweeps every registered cleaner once.
func (m *Manager) CleanNow() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	select {
	case <-m.stopCleanup:
		return
	default:
	}
	close(m.stopCleanup)
	if m.started {
		<-m.cleanupDone
	}
}
