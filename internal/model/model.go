// Package model contains the lookup table model for the database.
package model

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Jewel is one decoded jewel type.
type Jewel struct {
	Name      string `gorm:"primaryKey" json:"name"`
	MinSeed   uint32 `json:"min_seed"`
	MaxSeed   uint32 `json:"max_seed"`
	Seeds     int    `json:"seeds"`
	Entries   int    `json:"entries"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cells []Cell `gorm:"foreignKey:JewelName;constraint:OnDelete:CASCADE" json:"cells,omitempty"`
}

// Cell is one non-empty (seed, node index) entry of a jewel's table.
type Cell struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	JewelName string `gorm:"uniqueIndex:idx_cell;not null" json:"jewel"`
	Seed      uint32 `gorm:"uniqueIndex:idx_cell;not null" json:"seed"`
	Node      int    `gorm:"uniqueIndex:idx_cell;not null" json:"node"`
	Token     string `gorm:"not null" json:"token"`
}
