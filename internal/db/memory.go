package db

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/timeless-lut/tjlut/internal/model"
	"github.com/timeless-lut/tjlut/pkg/lut"
)

type memoryJewel struct {
	Min, Max uint32
	Table    lut.Table
}

// Memory is a database that keeps tables in memory and persists them to a gob file on Close.
type Memory struct {
	Jewels map[string]memoryJewel
	Path   string

	mu sync.RWMutex
}

// NewInMemory creates a new in-memory database.
func NewInMemory(path string) (Database, error) {
	if path == "" {
		return nil, fmt.Errorf("'path' is required")
	}
	return &Memory{
		Jewels: make(map[string]memoryJewel),
		Path:   path,
	}, nil
}

// Connect loads the gob file if it exists.
func (m *Memory) Connect() error {
	f, err := os.Open(m.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	m.mu.Lock()
	defer m.mu.Unlock()
	return gob.NewDecoder(f).Decode(&m.Jewels)
}

func (m *Memory) SaveJewel(t *lut.JewelTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Jewels[t.Jewel.String()] = memoryJewel{Min: t.Seeds.Min, Max: t.Seeds.Max, Table: t.Table}
	return nil
}

func (m *Memory) GetJewel(j lut.Jewel) (*lut.JewelTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mj, ok := m.Jewels[j.String()]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &lut.JewelTable{
		Jewel: j,
		Seeds: lut.SeedRange{Min: mj.Min, Max: mj.Max},
		Table: mj.Table,
	}, nil
}

func (m *Memory) GetToken(j lut.Jewel, seed uint32, node int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mj, ok := m.Jewels[j.String()]
	if !ok {
		return "", model.ErrNotFound
	}
	tok, ok := mj.Table.Get(seed, node)
	if !ok {
		return "", model.ErrNotFound
	}
	return tok, nil
}

// Close writes the tables to the gob file.
func (m *Memory) Close() error {
	f, err := os.Create(m.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return gob.NewEncoder(f).Encode(m.Jewels)
}
