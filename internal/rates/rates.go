// Package rates holds the unit-rate table that measured quantities are priced against.
package rates

import (
	"fmt"
	"math"
)

// Entry is one priced category. Rate is per Unit in the table's currency.
type Entry struct {
	Key         string  `json:"key" yaml:"key"`
	Component   string  `json:"component" yaml:"component"`
	Description string  `json:"description" yaml:"description"`
	Unit        string  `json:"unit" yaml:"unit"`
	Rate        float64 `json:"rate" yaml:"rate"`
}

// Table looks up rate entries by category key.
type Table interface {
	Lookup(key string) (Entry, bool)
	// Keys lists every key in a stable order.
	Keys() []string
}

// StaticTable is an immutable in-memory Table.
type StaticTable struct {
	keys    []string
	entries map[string]Entry
}

// New builds a StaticTable, keeping entry order for Keys.
func New(entries []Entry) (*StaticTable, error) {
	t := &StaticTable{
		keys:    make([]string, 0, len(entries)),
		entries: make(map[string]Entry, len(entries)),
	}
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("rate entry %d: key is required", i)
		}
		if _, dup := t.entries[e.Key]; dup {
			return nil, fmt.Errorf("rate entry %q: duplicate key", e.Key)
		}
		if err := validRate(e.Rate); err != nil {
			return nil, fmt.Errorf("rate entry %q: %w", e.Key, err)
		}
		t.keys = append(t.keys, e.Key)
		t.entries[e.Key] = e
	}
	return t, nil
}

func (t *StaticTable) Lookup(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

func (t *StaticTable) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Entries returns every entry of t in Keys order.
func Entries(t Table) []Entry {
	keys := t.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := t.Lookup(k); ok {
			out = append(out, e)
		}
	}
	return out
}

// WithOverrides returns a copy of t with the given rates replaced.
// t itself is left untouched. Unknown keys and negative rates are rejected.
func WithOverrides(t Table, overrides map[string]float64) (*StaticTable, error) {
	entries := Entries(t)
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	for key, rate := range overrides {
		i, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("override %q: unknown rate key", key)
		}
		if err := validRate(rate); err != nil {
			return nil, fmt.Errorf("override %q: %w", key, err)
		}
		entries[i].Rate = rate
	}
	return New(entries)
}

func validRate(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("rate must be finite")
	}
	if r < 0 {
		return fmt.Errorf("rate must be >= 0, got %v", r)
	}
	return nil
}
