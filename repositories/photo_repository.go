package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/lib/pq"
)

var (
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrPhotoURLConflict = errors.New("photo url conflict")
)

// photoUnreferenced is true when no row points at photo p. Used by every photo
// deletion so the reference check and the delete run as one statement.
const photoUnreferenced = `
	NOT EXISTS (SELECT 1 FROM users u WHERE u.photo_id = p.id)
	AND NOT EXISTS (SELECT 1 FROM game g WHERE p.id IN (g.banner_id, g.logo_id, g.grid_id))
	AND NOT EXISTS (SELECT 1 FROM event_photo ep WHERE ep.photo_id = p.id)
	AND NOT EXISTS (SELECT 1 FROM review r WHERE r.photo_id = p.id)`

type PhotoRepository interface {
	Create(ctx context.Context, exec SQLExecutor, photo *models.Photo) error
	GetByID(ctx context.Context, id int) (*models.Photo, error)
	GetByURL(ctx context.Context, url string) (*models.Photo, error)
	Ensure(ctx context.Context, url string) (*models.Photo, error)
	UpdateURL(ctx context.Context, id int, url string) error
	IsReferenced(ctx context.Context, id int) (bool, error)
	DeleteIfUnreferenced(ctx context.Context, id int, protectedURL string) (url string, deleted bool, err error)
	ListOrphans(ctx context.Context, createdBefore time.Time, protectedURL string, limit int) ([]models.Photo, error)
	CountExisting(ctx context.Context, ids []int) (int, error)
	Count(ctx context.Context) (int, error)
}

type postgresPhotoRepository struct {
	db *sql.DB
}

func NewPostgresPhotoRepository(db *sql.DB) PhotoRepository {
	return &postgresPhotoRepository{db: db}
}

func (r *postgresPhotoRepository) Create(ctx context.Context, exec SQLExecutor, photo *models.Photo) error {
	query := `INSERT INTO photo (url) VALUES ($1) RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, photo.URL).Scan(&photo.ID, &photo.CreatedAt)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqUniqueViolation {
			return ErrPhotoURLConflict
		}
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (r *postgresPhotoRepository) GetByID(ctx context.Context, id int) (*models.Photo, error) {
	return r.scanPhoto(ctx, `SELECT id, url, created_at FROM photo WHERE id = $1`, id)
}

func (r *postgresPhotoRepository) GetByURL(ctx context.Context, url string) (*models.Photo, error) {
	return r.scanPhoto(ctx, `SELECT id, url, created_at FROM photo WHERE url = $1`, url)
}

// Ensure returns the photo row for url, inserting it when missing.
func (r *postgresPhotoRepository) Ensure(ctx context.Context, url string) (*models.Photo, error) {
	query := `
		INSERT INTO photo (url) VALUES ($1)
		ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
		RETURNING id, url, created_at`

	photo := &models.Photo{}
	if err := r.db.QueryRowContext(ctx, query, url).Scan(&photo.ID, &photo.URL, &photo.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to ensure photo %q: %w", url, err)
	}
	return photo, nil
}

func (r *postgresPhotoRepository) UpdateURL(ctx context.Context, id int, url string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE photo SET url = $1 WHERE id = $2`, url, id)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqUniqueViolation {
			return ErrPhotoURLConflict
		}
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}

func (r *postgresPhotoRepository) IsReferenced(ctx context.Context, id int) (bool, error) {
	query := `SELECT NOT (` + photoUnreferenced + `) FROM photo p WHERE p.id = $1`

	var referenced bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&referenced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrPhotoNotFound
		}
		return false, fmt.Errorf("failed to check photo references: %w", err)
	}
	return referenced, nil
}

// DeleteIfUnreferenced removes the photo row unless it is referenced or its url is protectedURL.
// It reports the removed url so the caller can delete the stored file.
func (r *postgresPhotoRepository) DeleteIfUnreferenced(ctx context.Context, id int, protectedURL string) (string, bool, error) {
	query := `DELETE FROM photo p WHERE p.id = $1 AND p.url <> $2 AND ` + photoUnreferenced + ` RETURNING p.url`

	var url string
	err := r.db.QueryRowContext(ctx, query, id, protectedURL).Scan(&url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to delete photo %d: %w", id, err)
	}
	return url, true, nil
}

func (r *postgresPhotoRepository) ListOrphans(ctx context.Context, createdBefore time.Time, protectedURL string, limit int) ([]models.Photo, error) {
	query := `
		SELECT p.id, p.url, p.created_at
		FROM photo p
		WHERE p.created_at < $1 AND p.url <> $2 AND ` + photoUnreferenced + `
		ORDER BY p.id ASC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, createdBefore, protectedURL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.URL, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

// CountExisting returns how many of the distinct ids exist.
func (r *postgresPhotoRepository) CountExisting(ctx context.Context, ids []int) (int, error) {
	return countExisting(ctx, r.db, "photo", ids)
}

func (r *postgresPhotoRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photo`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresPhotoRepository) scanPhoto(ctx context.Context, query string, args ...interface{}) (*models.Photo, error) {
	photo := &models.Photo{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&photo.ID, &photo.URL, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return photo, nil
}

// countExisting counts rows of table whose id is in ids. table is always a constant.
func countExisting(ctx context.Context, db *sql.DB, table string, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ANY($1)`, table)

	var n int
	if err := db.QueryRowContext(ctx, query, pq.Array(ids)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	return n, nil
}
