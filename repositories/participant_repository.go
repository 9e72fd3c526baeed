package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/gameet/models"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantConflict     = errors.New("user already participates in this event")
	ErrParticipantUserInvalid  = errors.New("participant user invalid")
	ErrParticipantEventInvalid = errors.New("participant event invalid")
)

type ParticipantRepository interface {
	Add(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	Remove(ctx context.Context, eventID, userID int) error
	Exists(ctx context.Context, eventID, userID int) (bool, error)
	CountByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Participant, error)
	DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Add(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `INSERT INTO participant (event_id, user_id) VALUES ($1, $2) RETURNING joined_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, p.EventID, p.UserID).Scan(&p.JoinedAt)
	if err != nil {
		if code, constraint, ok := pqError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrParticipantConflict
			case pqForeignKeyViolation:
				switch constraint {
				case "participant_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participant_event_id_fkey":
					return ErrParticipantEventInvalid
				}
			}
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) Remove(ctx context.Context, eventID, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participant WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Exists(ctx context.Context, eventID, userID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participant WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresParticipantRepository) CountByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	var n int
	err := getExecutor(r.db, exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM participant WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresParticipantRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Participant, error) {
	query := `
		SELECT p.event_id, p.user_id, p.joined_at, u.pseudo, u.photo_id
		FROM participant p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		user := &models.UserSummary{}
		var photoID sql.NullInt64
		if err := rows.Scan(&p.EventID, &p.UserID, &p.JoinedAt, &user.Pseudo, &photoID); err != nil {
			return nil, err
		}
		user.ID = p.UserID
		user.PhotoID = nullableInt(photoID)
		p.User = user
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresParticipantRepository) DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error {
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM participant WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete participations of user %d: %w", userID, err)
	}
	return nil
}
