package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pricewish/tracker/internal/persist"
)

var (
	id     string
	idMu   sync.RWMutex
	idOnce sync.Once
)

// Init loads the persisted session id or generates and persists a new one.
// Safe for concurrent use; only the first call does work.
func Init(store persist.Store) error {
	var initErr error
	idOnce.Do(func() {
		raw, err := store.Get(persist.KeySession)
		if err == nil && len(raw) > 0 {
			idMu.Lock()
			id = string(raw)
			idMu.Unlock()
			return
		}

		newID := uuid.NewString()
		if err := store.Put(persist.KeySession, []byte(newID)); err != nil {
			initErr = fmt.Errorf("failed to persist session id: %w", err)
			return
		}

		idMu.Lock()
		id = newID
		idMu.Unlock()
	})

	if initErr != nil {
		idOnce = sync.Once{} // reset on failure
		return initErr
	}
	return nil
}

// ID returns the session id, or empty string before Init
func ID() string {
	idMu.RLock()
	defer idMu.RUnlock()
	return id
}

// Reset clears the in-process session id so Init can run again (tests)
func Reset() {
	idMu.Lock()
	id = ""
	idMu.Unlock()
	idOnce = sync.Once{}
}
