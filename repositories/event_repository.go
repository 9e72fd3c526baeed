package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/gameet/models"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventGameInvalid   = errors.New("invalid game reference")
	ErrEventPhotoInvalid  = errors.New("invalid photo reference")
	ErrEventAuthorInvalid = errors.New("invalid author reference")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.EventSummary, error)
	Update(ctx context.Context, exec SQLExecutor, event *models.Event) error
	Delete(ctx context.Context, id int) error
	ReplaceGames(ctx context.Context, exec SQLExecutor, eventID int, gameIDs []int) error
	ReplacePhotos(ctx context.Context, exec SQLExecutor, eventID int, photoIDs []int) error
	ListGames(ctx context.Context, eventID int) ([]models.Game, error)
	ListPhotos(ctx context.Context, eventID int) ([]models.Photo, error)
	Count(ctx context.Context, upcomingAfter *time.Time) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `e.id, e.name, e.scheduled_date, e.description, e.location, e.max_capacity, e.author_id, e.created_at,
	a.id, a.pseudo, a.photo_id`

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		INSERT INTO event (name, scheduled_date, description, location, max_capacity, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		e.Name, e.ScheduledDate, e.Description, e.Location, e.MaxCapacity, e.AuthorID,
	).Scan(&e.ID, &e.CreatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM event e
		JOIN users a ON a.id = e.author_id
		WHERE e.id = $1`
	return r.scanEvent(r.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate locks the event row until the surrounding transaction ends.
func (r *postgresEventRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM event e
		JOIN users a ON a.id = e.author_id
		WHERE e.id = $1
		FOR UPDATE OF e`
	return r.scanEvent(getExecutor(r.db, exec).QueryRowContext(ctx, query, id))
}

func (r *postgresEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.EventSummary, error) {
	query := `
		SELECT e.id, e.name, e.scheduled_date, e.location, e.max_capacity
		FROM event e
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.UpcomingAfter != nil {
		query += fmt.Sprintf(" AND e.scheduled_date > $%d", argID)
		args = append(args, *filter.UpcomingAfter)
		argID++
	}
	if filter.GameID != nil {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM event_game eg WHERE eg.event_id = e.id AND eg.game_id = $%d)", argID)
		args = append(args, *filter.GameID)
	}
	query += " ORDER BY e.scheduled_date ASC, e.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.EventSummary, 0)
	for rows.Next() {
		var s models.EventSummary
		var location sql.NullString
		var capacity sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &s.ScheduledDate, &location, &capacity); err != nil {
			return nil, err
		}
		s.Location = nullableString(location)
		s.MaxCapacity = nullableInt(capacity)
		events = append(events, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		UPDATE event SET
			name = $1,
			scheduled_date = $2,
			description = $3,
			location = $4,
			max_capacity = $5
		WHERE id = $6`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		e.Name, e.ScheduledDate, e.Description, e.Location, e.MaxCapacity, e.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// ReplaceGames deletes every event_game row of the event and inserts gameIDs.
func (r *postgresEventRepository) ReplaceGames(ctx context.Context, exec SQLExecutor, eventID int, gameIDs []int) error {
	executor := getExecutor(r.db, exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_game WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear event games: %w", err)
	}
	for _, gameID := range gameIDs {
		_, err := executor.ExecContext(ctx,
			`INSERT INTO event_game (event_id, game_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, eventID, gameID)
		if err != nil {
			return r.handleEventError(err)
		}
	}
	return nil
}

// ReplacePhotos deletes every event_photo row of the event and inserts photoIDs.
func (r *postgresEventRepository) ReplacePhotos(ctx context.Context, exec SQLExecutor, eventID int, photoIDs []int) error {
	executor := getExecutor(r.db, exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_photo WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear event photos: %w", err)
	}
	for _, photoID := range photoIDs {
		_, err := executor.ExecContext(ctx,
			`INSERT INTO event_photo (event_id, photo_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, eventID, photoID)
		if err != nil {
			return r.handleEventError(err)
		}
	}
	return nil
}

func (r *postgresEventRepository) ListGames(ctx context.Context, eventID int) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game g
		JOIN event_game eg ON eg.game_id = g.id
		WHERE eg.event_id = $1
		ORDER BY g.name ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event games: %w", err)
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

func (r *postgresEventRepository) ListPhotos(ctx context.Context, eventID int) ([]models.Photo, error) {
	query := `
		SELECT p.id, p.url, p.created_at
		FROM photo p
		JOIN event_photo ep ON ep.photo_id = p.id
		WHERE ep.event_id = $1
		ORDER BY p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event photos: %w", err)
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

func (r *postgresEventRepository) Count(ctx context.Context, upcomingAfter *time.Time) (int, error) {
	var n int
	var err error
	if upcomingAfter != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event WHERE scheduled_date > $1`, *upcomingAfter).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event`).Scan(&n)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresEventRepository) scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	author := &models.UserSummary{}
	var description, location sql.NullString
	var capacity, authorPhoto sql.NullInt64

	err := row.Scan(
		&e.ID, &e.Name, &e.ScheduledDate, &description, &location, &capacity, &e.AuthorID, &e.CreatedAt,
		&author.ID, &author.Pseudo, &authorPhoto,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	e.Description = nullableString(description)
	e.Location = nullableString(location)
	e.MaxCapacity = nullableInt(capacity)
	author.PhotoID = nullableInt(authorPhoto)
	e.Author = author
	return e, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqError(err); ok && code == pqForeignKeyViolation {
		switch constraint {
		case "event_game_game_id_fkey":
			return ErrEventGameInvalid
		case "event_photo_photo_id_fkey":
			return ErrEventPhotoInvalid
		case "event_author_id_fkey":
			return ErrEventAuthorInvalid
		}
	}
	return err
}
