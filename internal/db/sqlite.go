package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/timeless-lut/tjlut/internal/model"
	"github.com/timeless-lut/tjlut/pkg/lut"
)

// Sqlite is a database that stores data in a sqlite database.
type Sqlite struct {
	URL string
	// Config
	BatchSize int

	db *gorm.DB
}

// NewSqlite creates a new Sqlite database.
func NewSqlite(path string, batchSize int) (Database, error) {
	if path == "" {
		return nil, fmt.Errorf("'path' is required")
	}
	return &Sqlite{
		URL:       path,
		BatchSize: batchSize,
	}, nil
}

// Connect connects to the database.
func (s *Sqlite) Connect() (err error) {
	s.db, err = gorm.Open(sqlite.Open(s.URL), gormConfig(s.BatchSize))
	if err != nil {
		return fmt.Errorf("failed to connect sqlite database: %w", err)
	}
	return migrate(s.db)
}

func (s *Sqlite) SaveJewel(t *lut.JewelTable) error { return saveJewel(s.db, t, s.BatchSize) }
func (s *Sqlite) GetJewel(j lut.Jewel) (*lut.JewelTable, error) { return getJewel(s.db, j) }
func (s *Sqlite) GetToken(j lut.Jewel, seed uint32, node int) (string, error) {
	return getToken(s.db, j, seed, node)
}

// Close closes the database.
func (s *Sqlite) Close() error {
	if s.db == nil {
		return nil
	}
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func gormConfig(batchSize int) *gorm.Config {
	return &gorm.Config{
		CreateBatchSize:        batchSize,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Jewel{},
		&model.Cell{},
	)
}

// saveJewel replaces a jewel and all of its cells in one transaction.
func saveJewel(db *gorm.DB, t *lut.JewelTable, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 1000
	}
	name := t.Jewel.String()

	cells := make([]model.Cell, 0, t.Table.Entries())
	for _, seed := range t.Table.Seeds() {
		for node, tok := range t.Table[seed] {
			cells = append(cells, model.Cell{
				JewelName: name,
				Seed:      seed,
				Node:      node,
				Token:     tok,
			})
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("jewel_name = ?", name).Delete(&model.Cell{}).Error; err != nil {
			return err
		}
		jewel := model.Jewel{
			Name:    name,
			MinSeed: t.Seeds.Min,
			MaxSeed: t.Seeds.Max,
			Seeds:   t.Table.Len(),
			Entries: len(cells),
		}
		if err := tx.Save(&jewel).Error; err != nil {
			return err
		}
		if len(cells) == 0 {
			return nil
		}
		return tx.CreateInBatches(cells, batchSize).Error
	})
}

func getJewel(db *gorm.DB, j lut.Jewel) (*lut.JewelTable, error) {
	var jewel model.Jewel
	if err := db.Preload("Cells").Where("name = ?", j.String()).First(&jewel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	table := make(lut.Table, jewel.Seeds)
	for _, c := range jewel.Cells {
		if table[c.Seed] == nil {
			table[c.Seed] = make(map[int]string)
		}
		table[c.Seed][c.Node] = c.Token
	}
	return &lut.JewelTable{
		Jewel: j,
		Seeds: lut.SeedRange{Min: jewel.MinSeed, Max: jewel.MaxSeed},
		Table: table,
	}, nil
}

func getToken(db *gorm.DB, j lut.Jewel, seed uint32, node int) (string, error) {
	var cell model.Cell
	if err := db.Where("jewel_name = ? AND seed = ? AND node = ?", j.String(), seed, node).First(&cell).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", model.ErrNotFound
		}
		return "", err
	}
	return cell.Token, nil
}
