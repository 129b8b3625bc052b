package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Status is the two-state edit privilege of this device.
type Status string

const (
	StatusReadOnly   Status = "read_only"
	StatusAuthorized Status = "authorized"
)

// MarkerStore persists the authorized-on-this-device marker across
// restarts. The marker is the literal shared secret, matching the
// original contract of the app.
type MarkerStore interface {
	Load() (string, error)
	Save(marker string) error
	Clear() error
}

// fileMarkerStore keeps the marker in a plain file.
type fileMarkerStore struct {
	path string
}

// NewFileMarkerStore creates a MarkerStore at the given path.
func NewFileMarkerStore(path string) MarkerStore {
	return &fileMarkerStore{path: path}
}

// DefaultMarkerPath resolves the per-user marker location.
func DefaultMarkerPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, appName, "auth_marker"), nil
}

func (s *fileMarkerStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read auth marker: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *fileMarkerStore) Save(marker string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create marker dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(marker), 0o600); err != nil {
		return fmt.Errorf("failed to write auth marker: %w", err)
	}
	return nil
}

func (s *fileMarkerStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear auth marker: %w", err)
	}
	return nil
}

// Gate guards mutation privileges behind the shared secret. Read is
// always allowed; every mutator consults the gate and silently no-ops
// while read-only.
type Gate struct {
	mu         sync.RWMutex
	secret     string
	authorized bool
	marker     MarkerStore
}

// New creates a gate for the given secret. A persisted marker equal to
// the secret restores the Authorized state from a previous session.
func New(secret string, marker MarkerStore) *Gate {
	g := &Gate{secret: secret, marker: marker}
	if marker != nil {
		if stored, err := marker.Load(); err == nil && stored != "" && stored == secret {
			g.authorized = true
		}
	}
	return g
}

// Authorize transitions to Authorized when the presented value equals
// the shared secret, persisting the device marker. A wrong value leaves
// the gate untouched and returns false.
func (g *Gate) Authorize(presented string) bool {
	if presented != g.secret {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.authorized = true
	if g.marker != nil {
		if err := g.marker.Save(presented); err != nil {
			// The session stays authorized; only persistence failed.
			fmt.Fprintf(os.Stderr, "gate: %v\n", err)
		}
	}
	return true
}

// Logout is the explicit transition back to ReadOnly. The caller is
// responsible for confirming the action with the user first.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authorized = false
	if g.marker != nil {
		if err := g.marker.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "gate: %v\n", err)
		}
	}
}

func (g *Gate) Authorized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authorized
}

func (g *Gate) Status() Status {
	if g.Authorized() {
		return StatusAuthorized
	}
	return StatusReadOnly
}
