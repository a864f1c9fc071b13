package store

import (
	"sync"
)

// Prefs is a string key-value preference file.
// Every Set is written through with Autosave.
type Prefs struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

type prefsDoc struct {
	Values map[string]string `json:"values"`
}

func (d *prefsDoc) Normalize() {
	if d.Values == nil {
		d.Values = map[string]string{}
	}
}

func newPrefsDoc() prefsDoc {
	return prefsDoc{Values: map[string]string{}}
}

// OpenPrefs loads the preference file at path, recovering from corruption
// when possible. The returned message is non-empty when recovery happened.
func OpenPrefs(path string) (*Prefs, string, error) {
	doc, msg, err := LoadWithRecovery(path, newPrefsDoc)
	if err != nil {
		return nil, "", err
	}
	return &Prefs{path: path, values: doc.Values}, msg, nil
}

// Path returns the backing file.
func (p *Prefs) Path() string {
	return p.path
}

// Get returns the stored value for key and whether it was present.
func (p *Prefs) Get(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

// Set stores value under key and writes the file. A failed write leaves the
// previous value in place.
func (p *Prefs) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev, had := p.values[key]
	p.values[key] = value
	if err := Autosave(p.path, prefsDoc{Values: p.values}); err != nil {
		if had {
			p.values[key] = prev
		} else {
			delete(p.values, key)
		}
		return err
	}
	return nil
}

// Reload re-reads the file, picking up writes made by other processes.
func (p *Prefs) Reload() error {
	doc, err := Load(p.path, newPrefsDoc)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.values = doc.Values
	p.mu.Unlock()
	return nil
}
