package arena

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrTemplateNotFound = errors.New("arena template not found")
	ErrInvalidTemplate  = errors.New("invalid arena template")
)

// Manager loads arena templates from a directory and caches them by name.
// An empty directory path yields a manager that only serves the built-in
// default.
type Manager struct {
	dir       string
	templates map[string]*Template
	mu        sync.RWMutex
}

// NewManager creates a template manager. When dir is non-empty it must
// exist; templates are loaded lazily on first request.
func NewManager(dir string) (*Manager, error) {
	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("template directory does not exist: %s", dir)
		}
	}
	return &Manager{
		dir:       dir,
		templates: make(map[string]*Template),
	}, nil
}

// Default returns the built-in default template.
func (m *Manager) Default() *Template {
	return DefaultTemplate()
}

// Load returns the named template, reading it from disk on first use.
// The empty name resolves to the built-in default.
func (m *Manager) Load(name string) (*Template, error) {
	if name == "" || name == "default" {
		return m.Default(), nil
	}

	m.mu.RLock()
	if tpl, ok := m.templates[name]; ok {
		m.mu.RUnlock()
		return tpl, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if tpl, ok := m.templates[name]; ok {
		return tpl, nil
	}
	if m.dir == "" {
		return nil, ErrTemplateNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if err := Validate(&tpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	m.templates[name] = &tpl
	return &tpl, nil
}

// List returns every template available in the directory plus the default,
// sorted by filename order as returned by the filesystem.
func (m *Manager) List() ([]*Template, error) {
	out := []*Template{m.Default()}
	if m.dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		tpl, err := m.Load(name)
		if err != nil {
			// Skip unreadable files; List is advisory.
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}
