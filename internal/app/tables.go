package app

import (
	"fmt"
	"sort"

	"github.com/gg582/skkfe/internal/kana"
)

func (rt *Runtime) prepareTables() error {
	registry := kana.NewRegistry()
	names := make([]string, 0, len(rt.cfg.UserKanaTables))
	for name := range rt.cfg.UserKanaTables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := registry.LoadFile(name, rt.cfg.UserKanaTables[name]); err != nil {
			return fmt.Errorf("kana table %s: %w", name, err)
		}
	}
	table, err := registry.Get(rt.cfg.KanaTable)
	if err != nil {
		return err
	}
	rt.registry = registry
	rt.table = table
	return nil
}

// Tables lists the kana tables available after Prepare.
func (rt *Runtime) Tables() []string {
	if rt.registry == nil {
		return kana.NewRegistry().Names()
	}
	return rt.registry.Names()
}

// ListTables loads configuration and kana tables without opening any
// dictionary.
func (rt *Runtime) ListTables() ([]string, error) {
	if err := rt.prepareConfig(); err != nil {
		return nil, err
	}
	if err := rt.prepareTables(); err != nil {
		return nil, err
	}
	return rt.Tables(), nil
}
