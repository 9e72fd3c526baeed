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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrUserPhotoInvalid  = errors.New("user photo reference invalid")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, exec SQLExecutor, user *models.User) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Count(ctx context.Context, adminsOnly bool) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `u.id, u.pseudo, u.email, u.password, u.birth_date, u.bio, u.is_admin, u.photo_id, u.creation_date`

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		INSERT INTO users (pseudo, email, password, birth_date, bio, is_admin, photo_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, creation_date`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		user.Pseudo,
		user.Email,
		user.PasswordHash,
		user.BirthDate,
		user.Bio,
		user.IsAdmin,
		user.PhotoID,
	).Scan(&user.ID, &user.CreationDate)

	return mapUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `, p.id, p.url, p.created_at
		FROM users u
		LEFT JOIN photo p ON p.id = u.photo_id
		WHERE u.id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var user models.User
	var bio sql.NullString
	var photoID, pID sql.NullInt64
	var pURL sql.NullString
	var pCreatedAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Pseudo, &user.Email, &user.PasswordHash, &user.BirthDate,
		&bio, &user.IsAdmin, &photoID, &user.CreationDate,
		&pID, &pURL, &pCreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user with photo: %w", err)
	}

	user.Bio = nullableString(bio)
	user.PhotoID = nullableInt(photoID)
	if pID.Valid {
		user.Photo = &models.Photo{ID: int(pID.Int64), URL: pURL.String, CreatedAt: pCreatedAt.Time}
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE lower(u.email) = lower($1)`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		UPDATE users SET
			pseudo = $1,
			email = $2,
			password = $3,
			birth_date = $4,
			bio = $5,
			photo_id = $6
		WHERE id = $7`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		user.Pseudo,
		user.Email,
		user.PasswordHash,
		user.BirthDate,
		user.Bio,
		user.PhotoID,
		user.ID,
	)
	if err != nil {
		return mapUserError(err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := ""
	args := []interface{}{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = ` WHERE u.pseudo ILIKE $1 OR u.email ILIKE $1`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users u%s ORDER BY u.id ASC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *postgresUserRepository) Count(ctx context.Context, adminsOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	if adminsOnly {
		query += ` WHERE is_admin`
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var bio sql.NullString
	var photoID sql.NullInt64
	err := row.Scan(
		&user.ID, &user.Pseudo, &user.Email, &user.PasswordHash, &user.BirthDate,
		&bio, &user.IsAdmin, &photoID, &user.CreationDate,
	)
	if err != nil {
		return nil, err
	}
	user.Bio = nullableString(bio)
	user.PhotoID = nullableInt(photoID)
	return user, nil
}

func mapUserError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqError(err); ok {
		switch code {
		case pqUniqueViolation:
			if constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		case pqForeignKeyViolation:
			if constraint == "users_photo_id_fkey" {
				return ErrUserPhotoInvalid
			}
		}
	}
	return err
}
