package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntryModel is the GORM model for the kv_entries table.
type KVEntryModel struct {
	Key       string         `gorm:"column:kv_key;primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"column:kv_value;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (KVEntryModel) TableName() string { return "kv_entries" }

// GormStore is a Store backed by a SQL table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var model KVEntryModel
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return []byte(model.Value), nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	return put(s.db.WithContext(ctx), key, value)
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	var models []KVEntryModel
	q := s.db.WithContext(ctx).Order("kv_key ASC")
	if prefix != "" {
		// LIKE may over-match on wildcard characters; the loop below filters exactly.
		q = q.Where("kv_key LIKE ?", prefix+"%")
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		if hasPrefix(m.Key, prefix) {
			entries = append(entries, Entry{Key: m.Key, Value: []byte(m.Value)})
		}
	}
	return entries, nil
}

// placeholder marks a row seeded by Update that no caller has written yet.
var placeholder = datatypes.JSON("null")

// Update runs fn inside a transaction holding a row lock on key (where the
// dialect supports one). A missing key is seeded first so concurrent first
// writers queue on the same row.
func (s *GormStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := KVEntryModel{Key: key, Value: placeholder, UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed key %s: %w", key, err)
		}

		var model KVEntryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("kv_key = ?", key).First(&model).Error; err != nil {
			return fmt.Errorf("failed to lock key %s: %w", key, err)
		}

		var current []byte
		if !bytes.Equal(bytes.TrimSpace(model.Value), placeholder) {
			current = []byte(model.Value)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		return put(tx, key, next)
	})
}

func put(db *gorm.DB, key string, value []byte) error {
	model := KVEntryModel{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}
