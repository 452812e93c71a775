package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const gameColumns = `id, publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at`

// SQLGameRepository handles database operations for games
type SQLGameRepository struct {
	db *DB
}

var _ GameRepository = (*SQLGameRepository)(nil)

func NewGameRepository(db *DB) *SQLGameRepository {
	return &SQLGameRepository{db: db}
}

func (r *SQLGameRepository) List(ctx context.Context) ([]Game, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

func (r *SQLGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

// GetByID returns the game with the given id, or nil when no such record
// exists.
func (r *SQLGameRepository) GetByID(ctx context.Context, id int64) (*Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = ?
	`, id)

	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (r *SQLGameRepository) Create(ctx context.Context, params GameParams) (*Game, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, params.PublisherID, params.Name, params.Platform, params.StoreID,
		params.BundleID, params.AppVersion, params.IsPublished, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return newGame(id, params, now), nil
}

// BulkCreate inserts all records in a single transaction, preserving input
// order. A failure rolls back the whole batch.
func (r *SQLGameRepository) BulkCreate(ctx context.Context, params []GameParams) ([]Game, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (publisher_id, name, platform, store_id, bundle_id, app_version, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	games := make([]Game, 0, len(params))
	for i, p := range params {
		result, err := stmt.ExecContext(ctx, p.PublisherID, p.Name, p.Platform,
			p.StoreID, p.BundleID, p.AppVersion, p.IsPublished, now, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert game %d of %d: %w", i+1, len(params), err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get inserted id: %w", err)
		}

		games = append(games, *newGame(id, p, now))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bulk insert: %w", err)
	}

	return games, nil
}

// Update overwrites all mutable fields of the game with the given id.
// Returns ErrNotFound when the id does not exist.
func (r *SQLGameRepository) Update(ctx context.Context, id int64, params GameParams) (*Game, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE games
		SET publisher_id = ?, name = ?, platform = ?, store_id = ?,
		    bundle_id = ?, app_version = ?, is_published = ?, updated_at = ?
		WHERE id = ?
	`, params.PublisherID, params.Name, params.Platform, params.StoreID,
		params.BundleID, params.AppVersion, params.IsPublished, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	game, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNotFound
	}

	return game, nil
}

// Delete removes the game with the given id. Returns ErrNotFound when the id
// does not exist.
func (r *SQLGameRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SQLGameRepository) Search(ctx context.Context, query SearchQuery) ([]Game, error) {
	sqlStr := `SELECT ` + gameColumns + ` FROM games`

	var conds []string
	var args []interface{}
	if query.Platform != "" {
		conds = append(conds, "platform = ?")
		args = append(args, query.Platform)
	}
	if query.Name != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+query.Name+"%")
	}
	if len(conds) > 0 {
		sqlStr += " WHERE " + strings.Join(conds, " AND ")
	}
	sqlStr += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

func newGame(id int64, params GameParams, now time.Time) *Game {
	return &Game{
		ID:          id,
		PublisherID: params.PublisherID,
		Name:        params.Name,
		Platform:    params.Platform,
		StoreID:     params.StoreID,
		BundleID:    params.BundleID,
		AppVersion:  params.AppVersion,
		IsPublished: params.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.PublisherID, &g.Name, &g.Platform, &g.StoreID,
		&g.BundleID, &g.AppVersion, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func scanGames(rows *sql.Rows) ([]Game, error) {
	games := []Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}
