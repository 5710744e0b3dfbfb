// Package gormstore implements store.Store on a relational database through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// Store is the gorm-backed store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open gorm handle. Call Migrate before serving traffic.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OpenPostgres connects to PostgreSQL with the given DSN.
func OpenPostgres(dsn string, log *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return New(db), nil
}

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" is accepted.
func OpenSQLite(path string, log *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer, and an in-memory database lives only as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	return New(db), nil
}

func gormConfig(log *logrus.Logger) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if log != nil {
		cfg.Logger = gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	} else {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return cfg
}

// counter holds the last ID handed out for one sequence.
type counter struct {
	Name string `gorm:"primaryKey;size:32"`
	Seq  int64  `gorm:"not null"`
}

func (counter) TableName() string { return "counters" }

var sequenceTables = []struct {
	seq   store.Sequence
	table string
}{
	{store.SequenceUsers, "users"},
	{store.SequenceProducts, "products"},
	{store.SequenceOrders, "orders"},
}

// Migrate creates the schema and seeds each ID counter from the current maximum ID of its table,
// so existing rows keep the max+1 numbering.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.CartItem{},
		&models.Favorite{},
		&counter{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, st := range sequenceTables {
		// WHERE true keeps SQLite from reading ON CONFLICT as part of the SELECT.
		err := db.Exec(
			"INSERT INTO counters (name, seq) SELECT ?, COALESCE(MAX(id), 0) FROM "+st.table+
				" WHERE true ON CONFLICT (name) DO NOTHING",
			string(st.seq),
		).Error
		if err != nil {
			return fmt.Errorf("seed %s counter: %w", st.seq, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	}
	return err
}

// productsExist fails with store.ErrInvalidReference unless every id names a product.
func productsExist(tx *gorm.DB, ids ...uint) error {
	ids = store.UniqueIDs(ids)
	var n int64
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return fmt.Errorf("check products: %w", err)
	}
	if int(n) != len(ids) {
		return store.ErrInvalidReference
	}
	return nil
}
