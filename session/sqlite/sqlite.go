// Package sqlite provides a persistent SessionStore backed by SQLite via
// GORM. Each conversation thread is stored as one row holding the message
// history as JSON, so histories survive process restarts.
package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentrelay/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Thread is the GORM model for one conversation thread.
type Thread struct {
	ThreadID string `gorm:"primaryKey;column:thread_id"`
	History  string `gorm:"column:history"` // JSON-encoded []core.Message
	Turns    int    `gorm:"column:turns"`
	gorm.Model
}

// TableName overrides the default pluralized table name.
func (Thread) TableName() string { return "conversation_threads" }

// Store implements core.SessionStore on a SQLite database.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the SQLite database at path and migrates the
// thread schema.
func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&Thread{}); err != nil {
		return nil, fmt.Errorf("failed to migrate thread schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing GORM connection, migrating the schema.
func NewStoreFromDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Thread{}); err != nil {
		return nil, fmt.Errorf("failed to migrate thread schema: %w", err)
	}
	return &Store{db: db}, nil
}

// GetOrCreate returns the thread id (assigning a fresh one when empty) and
// the decoded history snapshot, inserting an empty row for unknown threads.
func (s *Store) GetOrCreate(threadID string) (string, []core.Message, error) {
	if threadID == "" {
		threadID = core.NewID()
	}

	var record Thread
	err := s.db.Where("thread_id = ?", threadID).First(&record).Error
	switch {
	case err == nil:
		var history []core.Message
		if record.History != "" {
			if err := json.Unmarshal([]byte(record.History), &history); err != nil {
				return "", nil, fmt.Errorf("failed to decode history for thread %s: %w", threadID, err)
			}
		}
		return threadID, history, nil
	case err == gorm.ErrRecordNotFound:
		record = Thread{ThreadID: threadID, History: "[]"}
		if err := s.db.Create(&record).Error; err != nil {
			return "", nil, fmt.Errorf("failed to create thread %s: %w", threadID, err)
		}
		return threadID, nil, nil
	default:
		return "", nil, fmt.Errorf("failed to load thread %s: %w", threadID, err)
	}
}

// Replace overwrites the thread's history.
func (s *Store) Replace(threadID string, history []core.Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history for thread %s: %w", threadID, err)
	}

	res := s.db.Model(&Thread{}).
		Where("thread_id = ?", threadID).
		Updates(map[string]any{
			"history": string(data),
			"turns":   gorm.Expr("turns + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to store history for thread %s: %w", threadID, res.Error)
	}
	if res.RowsAffected == 0 {
		record := Thread{ThreadID: threadID, History: string(data), Turns: 1}
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create thread %s: %w", threadID, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
