package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/gameet/models"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrGameTagNotFound    = errors.New("tag is not associated with this game")
	ErrGameTagGameInvalid = errors.New("invalid game reference")
)

type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	ListByGame(ctx context.Context, gameID int) ([]models.Tag, error)
	Upsert(ctx context.Context, name string) (*models.Tag, error)
	AttachToGame(ctx context.Context, gameID, tagID int) error
	DetachFromGame(ctx context.Context, gameID, tagID int) error
}

type postgresTagRepository struct {
	db *sql.DB
}

func NewPostgresTagRepository(db *sql.DB) TagRepository {
	return &postgresTagRepository{db: db}
}

func (r *postgresTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	return r.queryTags(ctx, `SELECT t.id, t.name FROM tag t ORDER BY t.name ASC`)
}

func (r *postgresTagRepository) ListByGame(ctx context.Context, gameID int) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name
		FROM tag t
		JOIN game_tag gt ON gt.tag_id = t.id
		WHERE gt.game_id = $1
		ORDER BY t.name ASC`
	return r.queryTags(ctx, query, gameID)
}

// Upsert returns the tag named name, creating it when missing.
func (r *postgresTagRepository) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		INSERT INTO tag (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	tag := &models.Tag{}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name); err != nil {
		return nil, fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}
	return tag, nil
}

// AttachToGame is idempotent: the (game_id, tag_id) primary key absorbs repeats.
func (r *postgresTagRepository) AttachToGame(ctx context.Context, gameID, tagID int) error {
	query := `INSERT INTO game_tag (game_id, tag_id) VALUES ($1, $2) ON CONFLICT (game_id, tag_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, gameID, tagID); err != nil {
		if code, constraint, ok := pqError(err); ok && code == pqForeignKeyViolation {
			if constraint == "game_tag_game_id_fkey" {
				return ErrGameTagGameInvalid
			}
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to attach tag %d to game %d: %w", tagID, gameID, err)
	}
	return nil
}

func (r *postgresTagRepository) DetachFromGame(ctx context.Context, gameID, tagID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM game_tag WHERE game_id = $1 AND tag_id = $2`, gameID, tagID)
	if err != nil {
		return fmt.Errorf("failed to detach tag %d from game %d: %w", tagID, gameID, err)
	}
	return checkAffectedRows(result, ErrGameTagNotFound)
}

func (r *postgresTagRepository) queryTags(ctx context.Context, query string, args ...interface{}) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
