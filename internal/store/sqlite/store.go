// Package sqlite is a session.SessionStore backed by a SQLite database via
// gorm.
package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fakeyudi/screener/internal/session"
)

// Store persists sessions to SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&sessionRow{}, &questionRow{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save upserts the session and replaces its question rows in one transaction.
func (s *Store) Save(sess *session.Session) error {
	row := toRow(sess)
	questions := row.Questions
	row.Questions = nil

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sess.ID).Delete(&questionRow{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return fmt.Errorf("failed to persist session state: %w", err)
	}
	return nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Get loads a session with its questions in order.
func (s *Store) Get(id string) (*session.Session, error) {
	var row sessionRow
	err := s.db.Preload("Questions", byPosition).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	return row.toSession(), nil
}

// List returns summaries of every stored session, oldest first.
func (s *Store) List() ([]session.Summary, error) {
	var rows []sessionRow
	if err := s.db.Preload("Questions", byPosition).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := make([]session.Summary, len(rows))
	for i, r := range rows {
		out[i] = r.toSession().Summarize()
	}
	return out, nil
}

// Delete removes a session and its questions.
func (s *Store) Delete(id string) error {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&questionRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&sessionRow{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	if deleted == 0 {
		return session.ErrNotFound
	}
	return nil
}

var _ session.SessionStore = (*Store)(nil)
