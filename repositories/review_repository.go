package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/gameet/models"
)

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrReviewPhotoInvalid = errors.New("invalid review photo reference")
	ErrReviewNoteInvalid  = errors.New("review note out of range")
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int) (*models.Review, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int) error
	DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error
	Count(ctx context.Context) (int, error)
}

type postgresReviewRepository struct {
	db *sql.DB
}

func NewPostgresReviewRepository(db *sql.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

const reviewColumns = `r.id, r.event_id, r.user_id, r.note, r.description, r.photo_id, r.created_at,
	u.pseudo, u.photo_id, p.url, p.created_at`

const reviewFrom = `
	FROM review r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN photo p ON p.id = r.photo_id`

func (r *postgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO review (event_id, user_id, note, description, photo_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		review.EventID, review.UserID, review.Note, review.Description, review.PhotoID,
	).Scan(&review.ID, &review.CreatedAt)
	return r.handleReviewError(err)
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + reviewFrom + ` WHERE r.id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (r *postgresReviewRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + reviewFrom + ` WHERE r.event_id = $1 ORDER BY r.created_at DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `UPDATE review SET note = $1, description = $2, photo_id = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, review.Note, review.Description, review.PhotoID, review.ID)
	if err != nil {
		return r.handleReviewError(err)
	}
	return checkAffectedRows(result, ErrReviewNotFound)
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM review WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrReviewNotFound)
}

func (r *postgresReviewRepository) DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM review WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete reviews of user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresReviewRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanReview(row rowScanner) (*models.Review, error) {
	review := &models.Review{}
	user := &models.UserSummary{}
	var description, photoURL sql.NullString
	var photoID, userPhotoID sql.NullInt64
	var photoCreatedAt sql.NullTime

	err := row.Scan(
		&review.ID, &review.EventID, &review.UserID, &review.Note, &description, &photoID, &review.CreatedAt,
		&user.Pseudo, &userPhotoID, &photoURL, &photoCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.Description = nullableString(description)
	review.PhotoID = nullableInt(photoID)
	user.ID = review.UserID
	user.PhotoID = nullableInt(userPhotoID)
	review.User = user
	if photoID.Valid && photoURL.Valid {
		review.Photo = &models.Photo{ID: int(photoID.Int64), URL: photoURL.String, CreatedAt: photoCreatedAt.Time}
	}
	return review, nil
}

func (r *postgresReviewRepository) handleReviewError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqError(err); ok {
		switch {
		case code == pqForeignKeyViolation && constraint == "review_photo_id_fkey":
			return ErrReviewPhotoInvalid
		case code == pqCheckViolation:
			return ErrReviewNoteInvalid
		}
	}
	return err
}
