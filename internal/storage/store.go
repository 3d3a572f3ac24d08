package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/raine/menu-translator/internal/cache"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ChatSettings holds per-chat preferences for the Telegram front-end.
type ChatSettings struct {
	ChatID         int64
	TargetCurrency string
	Model          string
}

// SettingsStore defines per-chat settings persistence.
type SettingsStore interface {
	GetChatSettings(chatID int64) (*ChatSettings, error)
	SetChatCurrency(chatID int64, currency string) error
	SetChatModel(chatID int64, model string) error
}

// SQLiteStore is a persistent key/value store for memoized API results and
// chat settings. Cache entries are grouped by namespace, one per external
// collaborator.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// WAL mode and busy timeout let the HTTP server and the bot share the file
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	cacheQuery := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		namespace TEXT NOT NULL,
		cache_key TEXT NOT NULL,
		value BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, cache_key)
	);
	`
	if _, err := s.db.Exec(cacheQuery); err != nil {
		return fmt.Errorf("failed to create cache_entries table: %w", err)
	}

	settingsQuery := `
	CREATE TABLE IF NOT EXISTS chat_settings (
		chat_id INTEGER PRIMARY KEY,
		target_currency TEXT
	);
	`
	if _, err := s.db.Exec(settingsQuery); err != nil {
		return fmt.Errorf("failed to create chat_settings table: %w", err)
	}

	// Migration: model column was added after target_currency
	if _, err := s.db.Exec("ALTER TABLE chat_settings ADD COLUMN model TEXT"); err != nil {
		if !strings.Contains(err.Error(), "duplicate column name") {
			log.Warn().Err(err).Msg("failed to add model column (migration)")
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Namespace returns a cache.Cache view of the store limited to one
// namespace. A ttl of zero means entries never expire.
func (s *SQLiteStore) Namespace(name string, ttl time.Duration) cache.Cache {
	return &namespaceCache{store: s, name: name, ttl: ttl}
}

// ClearNamespace deletes every cache entry in the namespace and returns the
// number of removed rows.
func (s *SQLiteStore) ClearNamespace(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM cache_entries WHERE namespace = ?", name)
	if err != nil {
		return 0, fmt.Errorf("failed to clear namespace %s: %w", name, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) getEntry(ctx context.Context, namespace, key string, ttl time.Duration) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value, created_at FROM cache_entries WHERE namespace = ? AND cache_key = ?",
		namespace, key,
	).Scan(&value, &createdAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache entry: %w", err)
	}

	if ttl > 0 && s.now().Sub(time.Unix(createdAt, 0)) > ttl {
		return nil, false, nil
	}

	return value, true, nil
}

func (s *SQLiteStore) putEntry(ctx context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (namespace, cache_key, value, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, cache_key) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at
	`, namespace, key, value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

type namespaceCache struct {
	store *SQLiteStore
	name  string
	ttl   time.Duration
}

func (n *namespaceCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.store.getEntry(ctx, n.name, key, n.ttl)
}

func (n *namespaceCache) Put(ctx context.Context, key string, value []byte) error {
	return n.store.putEntry(ctx, n.name, key, value)
}

// GetChatSettings returns the settings for a chat.
// Returns nil, nil if the chat has no stored settings.
func (s *SQLiteStore) GetChatSettings(chatID int64) (*ChatSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var currency, model sql.NullString
	err := s.db.QueryRow(
		"SELECT target_currency, model FROM chat_settings WHERE chat_id = ?",
		chatID,
	).Scan(&currency, &model)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chat settings: %w", err)
	}

	return &ChatSettings{
		ChatID:         chatID,
		TargetCurrency: currency.String,
		Model:          model.String,
	}, nil
}

// SetChatCurrency sets the target currency for a chat.
func (s *SQLiteStore) SetChatCurrency(chatID int64, currency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO chat_settings (chat_id, target_currency)
		VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET target_currency = excluded.target_currency
	`, chatID, currency)
	if err != nil {
		return fmt.Errorf("failed to set chat currency: %w", err)
	}
	return nil
}

// SetChatModel sets the vision model for a chat.
func (s *SQLiteStore) SetChatModel(chatID int64, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO chat_settings (chat_id, model)
		VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET model = excluded.model
	`, chatID, model)
	if err != nil {
		return fmt.Errorf("failed to set chat model: %w", err)
	}
	return nil
}
