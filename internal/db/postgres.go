package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/timeless-lut/tjlut/pkg/lut"
)

// Postgres is a database that stores data in a Postgres database.
type Postgres struct {
	DSN       string
	BatchSize int

	db *gorm.DB
}

// NewPostgres creates a new Postgres database from a DSN such as
// "host=localhost port=5432 user=tjlut dbname=tjlut sslmode=disable".
func NewPostgres(dsn string, batchSize int) (Database, error) {
	if dsn == "" {
		return nil, fmt.Errorf("'dsn' is required")
	}
	return &Postgres{
		DSN:       dsn,
		BatchSize: batchSize,
	}, nil
}

// Connect connects to the database.
func (p *Postgres) Connect() (err error) {
	p.db, err = gorm.Open(postgres.Open(p.DSN), gormConfig(p.BatchSize))
	if err != nil {
		return fmt.Errorf("failed to connect postgres database: %w", err)
	}
	return migrate(p.db)
}

func (p *Postgres) SaveJewel(t *lut.JewelTable) error { return saveJewel(p.db, t, p.BatchSize) }
func (p *Postgres) GetJewel(j lut.Jewel) (*lut.JewelTable, error) { return getJewel(p.db, j) }
func (p *Postgres) GetToken(j lut.Jewel, seed uint32, node int) (string, error) {
	return getToken(p.db, j, seed, node)
}

// Close closes the database.
func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	db, err := p.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
