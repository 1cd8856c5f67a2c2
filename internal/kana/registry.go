package kana

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds named tables. The standard "rom" table is always present.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewRegistry() *Registry {
	r := &Registry{tables: make(map[string]*Table)}
	r.Register(NewRomTable())
	return r
}

func (r *Registry) Register(t *Table) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.Name()] = t
}

func (r *Registry) Get(name string) (*Table, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = DefaultTableName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[normalized]
	if !ok {
		return nil, fmt.Errorf("unknown kana table %q (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return t, nil
}

// LoadFile reads a custom table file and registers it over the rom table.
func (r *Registry) LoadFile(name, path string) (*Table, error) {
	custom, err := LoadCustomEntries(path)
	if err != nil {
		return nil, err
	}
	base, err := r.Get(DefaultTableName)
	if err != nil {
		return nil, err
	}
	table, err := ApplyCustomEntries(base, strings.ToLower(strings.TrimSpace(name)), custom)
	if err != nil {
		return nil, err
	}
	r.Register(table)
	tracer().Infof("registered kana table %s from %s (%d entries)", table.Name(), path, table.Len())
	return table, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
