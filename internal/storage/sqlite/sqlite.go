package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"autoaccept/internal/models"
)

// Migrations holds the embedded goose migrations for the schema
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads from
const MigrationsDir = "migrations"

type SQLiteDB struct {
	conn *sqlx.DB
	now  func() time.Time
}

type adConfigRow struct {
	PhotoFileID sql.NullString `db:"photo_file_id"`
	MessageText sql.NullString `db:"message_text"`
	UpdatedAt   int64          `db:"updated_at"`
}

type adButtonRow struct {
	ID       int64  `db:"id"`
	Label    string `db:"label"`
	URL      string `db:"url"`
	Position int    `db:"position"`
}

type statsRow struct {
	TotalJoins   int64 `db:"total_joins"`
	RecentJoins  int64 `db:"recent_joins"`
	TotalClicks  int64 `db:"total_clicks"`
	RecentClicks int64 `db:"recent_clicks"`
	UniqueGroups int64 `db:"unique_groups"`
}

// NewSQLiteDB opens (creating if needed) the database file at path
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)

	conn, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection serialises writers and keeps transactions simple
	conn.SetMaxOpenConns(1)

	return &SQLiteDB{conn: conn, now: time.Now}, nil
}

// Initialize applies the embedded schema migrations
func (db *SQLiteDB) Initialize(ctx context.Context) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.conn.DB, MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// GetAdConfig returns the stored config or nil if none exists
func (db *SQLiteDB) GetAdConfig(ctx context.Context) (*models.AdConfig, error) {
	return getAdConfig(ctx, db.conn)
}

func getAdConfig(ctx context.Context, q sqlx.QueryerContext) (*models.AdConfig, error) {
	var row adConfigRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT photo_file_id, message_text, updated_at FROM ad_config WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad config: %w", err)
	}

	config := &models.AdConfig{UpdatedAt: time.UnixMilli(row.UpdatedAt).UTC()}
	if row.PhotoFileID.Valid {
		config.PhotoFileID = &row.PhotoFileID.String
	}
	if row.MessageText.Valid {
		config.MessageText = &row.MessageText.String
	}
	return config, nil
}

// GetAdButtons returns the ad buttons in display order
func (db *SQLiteDB) GetAdButtons(ctx context.Context) ([]models.AdButton, error) {
	var rows []adButtonRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT id, label, url, position FROM ad_buttons ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ad buttons: %w", err)
	}

	buttons := make([]models.AdButton, 0, len(rows))
	for _, row := range rows {
		buttons = append(buttons, models.AdButton{
			ID:       row.ID,
			Label:    row.Label,
			URL:      row.URL,
			Position: row.Position,
		})
	}
	return buttons, nil
}

// SetAdConfig upserts the singleton config
func (db *SQLiteDB) SetAdConfig(ctx context.Context, patch models.AdConfigPatch) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		return db.setAdConfig(ctx, tx, patch)
	})
}

// ReplaceAdButtons swaps the whole button list atomically
func (db *SQLiteDB) ReplaceAdButtons(ctx context.Context, buttons []models.AdButton) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		return replaceAdButtons(ctx, tx, buttons)
	})
}

// SaveAd writes the config and the buttons in one transaction
func (db *SQLiteDB) SaveAd(ctx context.Context, patch models.AdConfigPatch, buttons []models.AdButton) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := db.setAdConfig(ctx, tx, patch); err != nil {
			return err
		}
		return replaceAdButtons(ctx, tx, buttons)
	})
}

// ClearAdButtons deletes every ad button
func (db *SQLiteDB) ClearAdButtons(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM ad_buttons`); err != nil {
		return fmt.Errorf("failed to clear ad buttons: %w", err)
	}
	return nil
}

// ClearAll deletes the buttons and the config
func (db *SQLiteDB) ClearAll(ctx context.Context) error {
	return db.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ad_buttons`); err != nil {
			return fmt.Errorf("failed to clear ad buttons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ad_config`); err != nil {
			return fmt.Errorf("failed to clear ad config: %w", err)
		}
		return nil
	})
}

// RecordJoin appends a join event
func (db *SQLiteDB) RecordJoin(ctx context.Context, event models.JoinEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = db.now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO join_events (user_id, username, first_name, chat_id, chat_title, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		event.UserID, event.Username, event.FirstName, event.ChatID, event.ChatTitle, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record join: %w", err)
	}
	return nil
}

// RecordClick appends a click event
func (db *SQLiteDB) RecordClick(ctx context.Context, event models.ClickEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = db.now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO click_events (user_id, username, created_at) VALUES (?, ?, ?)`,
		event.UserID, event.Username, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// GetStats returns event counters; recent counters start at since
func (db *SQLiteDB) GetStats(ctx context.Context, since time.Time) (models.Stats, error) {
	var row statsRow
	err := db.conn.GetContext(ctx, &row, `
		SELECT
			(SELECT COUNT(*) FROM join_events) AS total_joins,
			(SELECT COUNT(*) FROM join_events WHERE created_at >= ?) AS recent_joins,
			(SELECT COUNT(*) FROM click_events) AS total_clicks,
			(SELECT COUNT(*) FROM click_events WHERE created_at >= ?) AS recent_clicks,
			(SELECT COUNT(DISTINCT chat_id) FROM join_events) AS unique_groups
	`, since.UnixMilli(), since.UnixMilli())
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return models.Stats{
		TotalJoins:   row.TotalJoins,
		RecentJoins:  row.RecentJoins,
		TotalClicks:  row.TotalClicks,
		RecentClicks: row.RecentClicks,
		UniqueGroups: row.UniqueGroups,
	}, nil
}

// Close closes the database connection
func (db *SQLiteDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on any error
func (db *SQLiteDB) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *SQLiteDB) setAdConfig(ctx context.Context, tx *sqlx.Tx, patch models.AdConfigPatch) error {
	current, err := getAdConfig(ctx, tx)
	if err != nil {
		return err
	}

	next := patch.Apply(current, db.now())

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ad_config (id, photo_file_id, message_text, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			photo_file_id = excluded.photo_file_id,
			message_text = excluded.message_text,
			updated_at = excluded.updated_at
	`, nullString(next.PhotoFileID), nullString(next.MessageText), next.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set ad config: %w", err)
	}
	return nil
}

func replaceAdButtons(ctx context.Context, tx *sqlx.Tx, buttons []models.AdButton) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM ad_buttons`); err != nil {
		return fmt.Errorf("failed to clear ad buttons: %w", err)
	}

	for i, button := range buttons {
		_, err := tx.ExecContext(ctx, `INSERT INTO ad_buttons (label, url, position) VALUES (?, ?, ?)`,
			button.Label, button.URL, i)
		if err != nil {
			return fmt.Errorf("failed to insert ad button %q: %w", button.Label, err)
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
