package validation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/logger"
)

// NameStore is the slice of the persistence layer the checker needs.
type NameStore interface {
	NameExists(name string, excludeID string) (bool, error)
}

// NameChecker runs the asynchronous duplicate-name check. Each keystroke
// may start a new check; the previous in-flight check is cancelled when
// superseded, so a slow query can never overwrite a newer result. The
// store is only queried after the input has been stable for the debounce
// interval.
type NameChecker struct {
	store    NameStore
	debounce time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewNameChecker(store NameStore) *NameChecker {
	return &NameChecker{store: store, debounce: constants.NameCheckDebounce}
}

// NewNameCheckerWithDebounce exists for tests that cannot wait 500ms.
func NewNameCheckerWithDebounce(store NameStore, debounce time.Duration) *NameChecker {
	return &NameChecker{store: store, debounce: debounce}
}

// Check schedules a uniqueness check for name, excluding excludeID (the
// record being edited, empty for the add flow). apply receives
// ErrDuplicateName or nil; it is invoked only if this check is still the
// latest when the result arrives.
func (c *NameChecker) Check(name, excludeID string, apply func(error)) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	go func() {
		timer := time.NewTimer(c.debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		exists, err := c.store.NameExists(strings.TrimSpace(name), excludeID)
		if err != nil {
			logger.Warn("Name existence check failed", "name", name, "error", err)
			return
		}
		if ctx.Err() != nil {
			return
		}

		c.mu.Lock()
		latest := seq == c.seq
		c.mu.Unlock()
		if !latest {
			return
		}

		if exists {
			apply(ErrDuplicateName)
		} else {
			apply(nil)
		}
	}()
}

// Stop cancels any in-flight check.
func (c *NameChecker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
