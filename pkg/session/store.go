package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/fold/pkg/metrics"
)

// sessionFileName is the filename for the persisted session.
const sessionFileName = "session.json"

// Locator resolves the directory the session file lives in. The primary
// location is usually a sync-managed folder; implementations fall back to
// a local directory when the sync layer is unavailable, and return an
// error only when neither can be resolved.
type Locator interface {
	SessionDir() (string, error)
}

// DirLocator is a Locator for a fixed directory.
type DirLocator string

// SessionDir implements Locator.
func (d DirLocator) SessionDir() (string, error) {
	if d == "" {
		return "", fmt.Errorf("no session directory configured")
	}
	return string(d), nil
}

// Store reads and writes the session file. All failures are absorbed:
// Save logs and drops the write, Load logs and reports no session. Session
// files are small, so the synchronous I/O stays on the calling goroutine.
type Store struct {
	locator Locator
}

// NewStore creates a store over the given locator.
func NewStore(locator Locator) *Store {
	return &Store{locator: locator}
}

// Path returns the resolved session file path.
func (st *Store) Path() (string, error) {
	dir, err := st.locator.SessionDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// Save writes the state as pretty-printed JSON. The write goes through a
// temp file and rename so a concurrent reader (the sync layer) never
// observes a partial file. Failures are logged and swallowed.
func (st *Store) Save(state *State) {
	defer metrics.Timer(metrics.SessionSave)()

	path, err := st.Path()
	if err != nil {
		log.Printf("warning: session save skipped: %v", err)
		return
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal session: %v", err)
		return
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("warning: failed to create session directory: %v", err)
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), sessionFileName+".tmp-*")
	if err != nil {
		log.Printf("warning: failed to create session temp file: %v", err)
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("warning: failed to write session: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("warning: failed to write session: %v", err)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		log.Printf("warning: failed to replace session file: %v", err)
		return
	}
}

// Load reads the session file. A missing file, an unresolvable location or
// a decode failure all return nil: there is simply nothing to restore.
func (st *Store) Load() *State {
	defer metrics.Timer(metrics.SessionLoad)()

	path, err := st.Path()
	if err != nil {
		log.Printf("warning: session load skipped: %v", err)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: failed to read session file: %v", err)
		}
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: failed to parse session file %s: %v", path, err)
		return nil
	}
	state.normalize()
	return &state
}
