package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/gameet/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGamePhotoInvalid = errors.New("invalid game photo reference")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, id int) error
	CountExisting(ctx context.Context, ids []int) (int, error)
	Count(ctx context.Context, approved *bool) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `g.id, g.name, g.studio, g.publisher, g.platforms, g.release_date, g.description,
	g.banner_id, g.logo_id, g.grid_id, g.is_approved, g.created_at`

// JoinPlatforms stores the platform list as one comma-joined column.
func JoinPlatforms(platforms []string) *string {
	cleaned := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}

func SplitPlatforms(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	query := `
		INSERT INTO game (name, studio, publisher, platforms, release_date, description,
			banner_id, logo_id, grid_id, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		g.Name, g.Studio, g.Publisher, JoinPlatforms(g.Platforms), g.ReleaseDate, g.Description,
		g.BannerID, g.LogoID, g.GridID, g.IsApproved,
	).Scan(&g.ID, &g.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM game g WHERE g.id = $1`

	g, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *postgresGameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM game g WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Approved != nil {
		query += fmt.Sprintf(" AND g.is_approved = $%d", argID)
		args = append(args, *filter.Approved)
		argID++
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM game_tag gt JOIN tag t ON t.id = gt.tag_id
			WHERE gt.game_id = g.id AND lower(t.name) = lower($%d))`, argID)
		args = append(args, tag)
	}
	query += " ORDER BY g.name ASC, g.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	query := `
		UPDATE game SET
			name = $1,
			studio = $2,
			publisher = $3,
			platforms = $4,
			release_date = $5,
			description = $6,
			banner_id = $7,
			logo_id = $8,
			grid_id = $9,
			is_approved = $10
		WHERE id = $11`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		g.Name, g.Studio, g.Publisher, JoinPlatforms(g.Platforms), g.ReleaseDate, g.Description,
		g.BannerID, g.LogoID, g.GridID, g.IsApproved, g.ID,
	)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM game WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) CountExisting(ctx context.Context, ids []int) (int, error) {
	return countExisting(ctx, r.db, "game", ids)
}

func (r *postgresGameRepository) Count(ctx context.Context, approved *bool) (int, error) {
	var n int
	var err error
	if approved != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game WHERE is_approved = $1`, *approved).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game`).Scan(&n)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanGame(row rowScanner) (*models.Game, error) {
	g := &models.Game{}
	var studio, publisher, platforms, description sql.NullString
	var releaseDate sql.NullTime
	var bannerID, logoID, gridID sql.NullInt64

	err := row.Scan(
		&g.ID, &g.Name, &studio, &publisher, &platforms, &releaseDate, &description,
		&bannerID, &logoID, &gridID, &g.IsApproved, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Studio = nullableString(studio)
	g.Publisher = nullableString(publisher)
	g.Platforms = SplitPlatforms(platforms.String)
	g.Description = nullableString(description)
	if releaseDate.Valid {
		t := releaseDate.Time
		g.ReleaseDate = &t
	}
	g.BannerID = nullableInt(bannerID)
	g.LogoID = nullableInt(logoID)
	g.GridID = nullableInt(gridID)
	return g, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqError(err); ok && code == pqForeignKeyViolation {
		switch constraint {
		case "game_banner_id_fkey", "game_logo_id_fkey", "game_grid_id_fkey":
			return ErrGamePhotoInvalid
		}
	}
	return err
}
