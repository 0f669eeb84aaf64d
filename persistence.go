package fishsynth

import (
	"fmt"
	"path/filepath"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	gorm "gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nickandperla.net/fishsynth/deadfish"
)

type PersistenceConfig struct {
	Name          string   `toml:"name"`
	Path          string   `toml:"path"`
	InMemory      bool     `toml:"in_memory"`
	SQLitePragmas []string `toml:"sqlite_pragmas"`
	SQLiteOptions []string `toml:"sqlite_options"`
}

// DSN builds the sqlite data source name. In-memory databases are shared
// between the connections of one process under their name.
func (c *PersistenceConfig) DSN() (string, error) {
	if len(c.Name) == 0 {
		return "", fmt.Errorf("Name of database must be defined")
	}

	var base string
	params := make([]string, 0, len(c.SQLitePragmas)+len(c.SQLiteOptions)+2)
	if c.InMemory {
		base = "file:" + c.Name
		params = append(params, "mode=memory", "cache=shared")
	} else {
		if len(c.Path) == 0 {
			return "", fmt.Errorf("Path to database must be defined")
		}
		base = filepath.Join(c.Path, c.Name)
	}

	for _, pragma := range c.SQLitePragmas {
		params = append(params, fmt.Sprintf("_pragma=%s", pragma))
	}
	params = append(params, c.SQLiteOptions...)

	if len(params) == 0 {
		return base, nil
	}
	return base + "?" + strings.Join(params, "&"), nil
}

// Persistence caches encodings in sqlite.
type Persistence struct {
	Config *PersistenceConfig
	DB     *gorm.DB
}

func NewPersistence(config *PersistenceConfig) (*Persistence, error) {
	if config == nil {
		return nil, ErrNilConfig
	}

	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to open database [%s]: %w", dsn, err)
	}

	db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: 1000})

	p := &Persistence{Config: config, DB: db}
	if err = p.initialize(); err != nil {
		return nil, err
	}

	log.WithField("dsn", dsn).Debug("Opened encoding cache")
	return p, nil
}

func (p *Persistence) initialize() error {
	if err := p.DB.AutoMigrate(&Encoding{}); err != nil {
		return fmt.Errorf("Failed to migrate schema: %w", err)
	}
	return nil
}

func (p *Persistence) Shutdown() {
	if sqldb, err := p.DB.DB(); err != nil {
		log.Errorf("Failed to retrieve raw DB: %v", err)
	} else {
		sqldb.Close()
	}
}

var encodingKeyColumns = []clause.Column{
	{Name: "from_value"},
	{Name: "to_value"},
	{Name: "strategy"},
	{Name: "bound"},
}

// Lookup returns the cached encoding for the given search, or nil if
// there is none.
func (p *Persistence) Lookup(from, to deadfish.Value, strategy Strategy, bound uint) (*Encoding, error) {
	var enc Encoding
	result := p.DB.
		Where("from_value = ? AND to_value = ? AND strategy = ? AND bound = ?", from.Uint32(), to.Uint32(), string(strategy), bound).
		Limit(1).
		Find(&enc)
	if result.Error != nil {
		return nil, fmt.Errorf("Failed to look up encoding %v -> %v: %w", from, to, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &enc, nil
}

// Save stores enc, replacing any encoding for the same search.
func (p *Persistence) Save(enc *Encoding) error {
	if enc == nil {
		return fmt.Errorf("Encoding cannot be nil")
	}

	if result := p.upsert().Create(enc); result.Error != nil {
		return fmt.Errorf("Failed to call gorm.Create(): %w", result.Error)
	}
	return nil
}

func (p *Persistence) SaveAll(encs []*Encoding) error {
	if len(encs) == 0 {
		return nil
	}

	if result := p.upsert().Create(&encs); result.Error != nil {
		return fmt.Errorf("Failed to call gorm.Create() for [%d] encodings: %w", len(encs), result.Error)
	}
	return nil
}

func (p *Persistence) upsert() *gorm.DB {
	return p.DB.Clauses(clause.OnConflict{
		Columns:   encodingKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"length", "optimal", "program"}),
	})
}
