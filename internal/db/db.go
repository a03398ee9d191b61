// Package db provides a database interface and implementations.
package db

import (
	"fmt"

	"github.com/timeless-lut/tjlut/pkg/lut"
)

// Database is the interface that wraps the basic database operations.
type Database interface {
	// Connect connects to the database.
	Connect() error

	// SaveJewel stores a decoded table.
	// It replaces any previous table of the same jewel type.
	SaveJewel(t *lut.JewelTable) error

	// GetJewel returns the stored table of a jewel type.
	// It returns model.ErrNotFound if the jewel was never saved.
	GetJewel(j lut.Jewel) (*lut.JewelTable, error)

	// GetToken returns a single cell.
	// It returns model.ErrNotFound if the cell is empty.
	GetToken(j lut.Jewel, seed uint32, node int) (string, error)

	// Close closes the database.
	Close() error
}

// Open returns the Database for a configured driver; "none" returns nil.
// For postgres, path is the connection DSN.
func Open(driver, path string, batchSize int) (Database, error) {
	switch driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		return NewSqlite(path, batchSize)
	case "memory":
		return NewInMemory(path)
	case "postgres":
		return NewPostgres(path, batchSize)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
