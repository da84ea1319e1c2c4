// Package sqlite persists the query audit log. The dataset itself lives in
// memory; only what admins asked, and what they were told, is written here.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/storage/models"
	"github.com/edu-agent/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_history (
		id TEXT PRIMARY KEY,
		admin_id TEXT NOT NULL,
		query_text TEXT NOT NULL,
		intent TEXT,
		response TEXT,
		confidence INTEGER,
		fallback_used INTEGER DEFAULT 0,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_admin ON query_history(admin_id);
	CREATE INDEX IF NOT EXISTS idx_query_created ON query_history(created_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (c *Client) InsertQueryRecord(record *models.QueryRecord) error {
	_, err := c.db.Exec(`
		INSERT INTO query_history
			(id, admin_id, query_text, intent, response, confidence, fallback_used, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.AdminID,
		record.QueryText,
		record.Intent,
		record.Response,
		record.Confidence,
		boolToInt(record.FallbackUsed),
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	return nil
}

// RecentQueries returns an admin's newest audit rows, most recent first.
func (c *Client) RecentQueries(adminID string, limit int) ([]models.QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(`
		SELECT id, admin_id, query_text, intent, response, confidence, fallback_used, latency_ms, created_at
		FROM query_history
		WHERE admin_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		adminID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		var r models.QueryRecord
		var fallback int
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.AdminID, &r.QueryText, &r.Intent, &r.Response,
			&r.Confidence, &fallback, &r.LatencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		r.FallbackUsed = fallback != 0
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query history: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
