package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ykvlv/birthday-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

var _ Repo = (*SQLiteRepo)(nil)

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// AddPersonal stores a friend's birthday unless the exact (owner, name, date) triple exists.
func (r *SQLiteRepo) AddPersonal(ctx context.Context, b domain.PersonalBirthday) error {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM personal_birthdays
		WHERE owner_id = ? AND name = ? AND date = ?`,
		b.OwnerID, b.Name, b.Date,
	).Scan(&one)
	switch {
	case err == nil:
		return domain.ErrAlreadyExists
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO personal_birthdays (owner_id, name, date, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, name, date) DO NOTHING`,
		b.OwnerID, b.Name, b.Date, createdAt(b.CreatedAt),
	)
	return insertResult(res, err)
}

// DeletePersonal removes the oldest entry with the given name from the owner's list.
func (r *SQLiteRepo) DeletePersonal(ctx context.Context, ownerID int64, name string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM personal_birthdays
		WHERE id = (
			SELECT id FROM personal_birthdays
			WHERE owner_id = ? AND name = ?
			ORDER BY id ASC
			LIMIT 1
		)`,
		ownerID, name,
	)
	return deleteResult(res, err)
}

// ListPersonal returns the owner's list in insertion order.
func (r *SQLiteRepo) ListPersonal(ctx context.Context, ownerID int64) ([]domain.PersonalBirthday, error) {
	return r.queryPersonal(ctx, `
		SELECT owner_id, name, date, created_at
		FROM personal_birthdays
		WHERE owner_id = ?
		ORDER BY id ASC`,
		ownerID,
	)
}

// FindPersonalByDayMonth returns every personal entry whose date starts with key (DD-MM).
func (r *SQLiteRepo) FindPersonalByDayMonth(ctx context.Context, key string) ([]domain.PersonalBirthday, error) {
	return r.queryPersonal(ctx, `
		SELECT owner_id, name, date, created_at
		FROM personal_birthdays
		WHERE date LIKE ?
		ORDER BY id ASC`,
		key+"-%",
	)
}

func (r *SQLiteRepo) queryPersonal(ctx context.Context, query string, args ...any) ([]domain.PersonalBirthday, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.PersonalBirthday
	for rows.Next() {
		var (
			b       domain.PersonalBirthday
			created int64
		)
		if err := rows.Scan(&b.OwnerID, &b.Name, &b.Date, &created); err != nil {
			return nil, err
		}
		b.CreatedAt = time.Unix(created, 0).UTC()
		res = append(res, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// AddGroup stores a member's own birthday for a chat; one per (user, chat).
func (r *SQLiteRepo) AddGroup(ctx context.Context, b domain.GroupBirthday) error {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM group_birthdays
		WHERE user_id = ? AND chat_id = ?`,
		b.UserID, b.ChatID,
	).Scan(&one)
	switch {
	case err == nil:
		return domain.ErrAlreadyExists
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO group_birthdays (user_id, chat_id, date, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, chat_id) DO NOTHING`,
		b.UserID, b.ChatID, b.Date, createdAt(b.CreatedAt),
	)
	return insertResult(res, err)
}

// DeleteGroup removes the member's birthday from the chat.
func (r *SQLiteRepo) DeleteGroup(ctx context.Context, userID, chatID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM group_birthdays
		WHERE user_id = ? AND chat_id = ?`,
		userID, chatID,
	)
	return deleteResult(res, err)
}

// ListGroup returns the chat's birthdays in insertion order.
func (r *SQLiteRepo) ListGroup(ctx context.Context, chatID int64) ([]domain.GroupBirthday, error) {
	return r.queryGroup(ctx, `
		SELECT user_id, chat_id, date, created_at
		FROM group_birthdays
		WHERE chat_id = ?
		ORDER BY id ASC`,
		chatID,
	)
}

// FindGroupByDayMonth returns every group entry whose date starts with key (DD-MM).
func (r *SQLiteRepo) FindGroupByDayMonth(ctx context.Context, key string) ([]domain.GroupBirthday, error) {
	return r.queryGroup(ctx, `
		SELECT user_id, chat_id, date, created_at
		FROM group_birthdays
		WHERE date LIKE ?
		ORDER BY id ASC`,
		key+"-%",
	)
}

func (r *SQLiteRepo) queryGroup(ctx context.Context, query string, args ...any) ([]domain.GroupBirthday, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.GroupBirthday
	for rows.Next() {
		var (
			b       domain.GroupBirthday
			created int64
		)
		if err := rows.Scan(&b.UserID, &b.ChatID, &b.Date, &created); err != nil {
			return nil, err
		}
		b.CreatedAt = time.Unix(created, 0).UTC()
		res = append(res, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// TrackUser records that a user talked to the bot. Re-inserting is a no-op.
func (r *SQLiteRepo) TrackUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracked_users (user_id, first_seen) VALUES (?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		userID, time.Now().UTC().Unix(),
	)
	return err
}

// TrackGroup records that the bot saw a group chat. Re-inserting is a no-op.
func (r *SQLiteRepo) TrackGroup(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracked_groups (chat_id, first_seen) VALUES (?, ?)
		ON CONFLICT(chat_id) DO NOTHING`,
		chatID, time.Now().UTC().Unix(),
	)
	return err
}

// CountTracked returns the number of tracked users and groups.
func (r *SQLiteRepo) CountTracked(ctx context.Context) (domain.Tracked, error) {
	var t domain.Tracked
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tracked_users),
			(SELECT COUNT(*) FROM tracked_groups)`,
	).Scan(&t.Users, &t.Groups)
	return t, err
}

func (r *SQLiteRepo) ListTrackedUsers(ctx context.Context) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT user_id FROM tracked_users ORDER BY first_seen, user_id`)
}

func (r *SQLiteRepo) ListTrackedGroups(ctx context.Context) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT chat_id FROM tracked_groups ORDER BY first_seen, chat_id`)
}

func (r *SQLiteRepo) queryIDs(ctx context.Context, query string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func createdAt(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().UTC().Unix()
	}
	return t.UTC().Unix()
}

// insertResult maps an ON CONFLICT DO NOTHING insert that touched no rows to ErrAlreadyExists.
func insertResult(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func deleteResult(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
