package lut

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Aggregate holds one decoded table per jewel type.
//
// It is owned by the caller and safe for concurrent use: every write stores
// a whole JewelTable, so readers never observe a partially inserted table.
type Aggregate struct {
	mu     sync.RWMutex
	tables map[Jewel]*JewelTable
}

// NewAggregate returns an empty aggregate
func NewAggregate() *Aggregate {
	return &Aggregate{tables: make(map[Jewel]*JewelTable)}
}

// Insert adds the table of a jewel type. It returns ErrAlreadyExists if the
// aggregate already holds a table for that jewel; use Replace to overwrite.
func (a *Aggregate) Insert(t *JewelTable) error {
	if t == nil {
		return fmt.Errorf("nil jewel table")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tables == nil {
		a.tables = make(map[Jewel]*JewelTable)
	}
	if _, ok := a.tables[t.Jewel]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, t.Jewel)
	}
	a.tables[t.Jewel] = t
	return nil
}

// Replace stores the table of a jewel type, overwriting any previous one.
func (a *Aggregate) Replace(t *JewelTable) {
	if t == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tables == nil {
		a.tables = make(map[Jewel]*JewelTable)
	}
	a.tables[t.Jewel] = t
}

// Get returns the table of a jewel type
func (a *Aggregate) Get(j Jewel) (*JewelTable, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.tables[j]
	return t, ok
}

// Jewels returns the jewel types present, in Jewels() order
func (a *Aggregate) Jewels() []Jewel {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []Jewel
	for _, j := range Jewels() {
		if _, ok := a.tables[j]; ok {
			out = append(out, j)
		}
	}
	return out
}

// Len returns the number of jewel tables held
func (a *Aggregate) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.tables)
}

// Tables returns a snapshot of the aggregate keyed by jewel type name
func (a *Aggregate) Tables() map[string]*JewelTable {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]*JewelTable, len(a.tables))
	for j, t := range a.tables {
		out[j.String()] = t
	}
	return out
}

// MarshalJSON encodes the aggregate as {"<jewel>": {...}}.
func (a *Aggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Tables())
}

// UnmarshalJSON replaces the aggregate's contents with the encoded tables.
func (a *Aggregate) UnmarshalJSON(data []byte) error {
	var tables map[string]*JewelTable
	if err := json.Unmarshal(data, &tables); err != nil {
		return err
	}
	next := make(map[Jewel]*JewelTable, len(tables))
	for name, t := range tables {
		j, err := Lookup(name)
		if err != nil {
			return err
		}
		if t == nil {
			continue
		}
		t.Jewel = j
		next[j] = t
	}
	a.mu.Lock()
	a.tables = next
	a.mu.Unlock()
	return nil
}
