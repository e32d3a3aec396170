// Package prefs persists small window-level preferences, such as the
// last directory a photo was opened from, as a JSON file in the user
// config directory.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Prefs is a string key-value store backed by a JSON file. The zero
// value is not usable; call Load.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
}

// Load reads preferences from stylemark/preferences.json under the
// user config directory. A missing or unreadable file yields empty
// preferences, never an error.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p := &Prefs{
		values: make(map[string]string),
		path:   filepath.Join(configDir, "stylemark", "preferences.json"),
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// String returns the preference for key, or "" when unset.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values[key]
}

// SetString stores a preference. Call Save to persist it.
func (p *Prefs) SetString(key, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Save writes the preferences file, creating the config directory on
// first use.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
