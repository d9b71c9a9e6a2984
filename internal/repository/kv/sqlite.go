package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// kvEntry is the gorm model backing the key-value table.
type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value"`
}

// TableName overrides the gorm default pluralization.
func (kvEntry) TableName() string {
	return "kv_entries"
}

// SQLiteKV is the default local backend: a single key-value table in a
// sqlite file, mirroring the device storage the journal data originally
// lived in.
type SQLiteKV struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the sqlite database at path and migrates
// the key-value table.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv table: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

// Get returns the value stored under key, with ok false for an absent key.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return e.Value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	e := kvEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
