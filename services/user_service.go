package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/repositories"
	"github.com/Dosada05/gameet/storage"
	"github.com/Dosada05/gameet/utils"
)

const (
	birthDateLayout  = "2006-01-02"
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type UserService interface {
	Register(ctx context.Context, input RegisterInput, avatar *Upload) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, actor models.Actor, filter models.UserFilter) (*models.UserListResponse, error)
	Update(ctx context.Context, actor models.Actor, id int, input UpdateUserInput, avatar *Upload) (*models.User, error)
	Delete(ctx context.Context, actor models.Actor, id int) error
}

type RegisterInput struct {
	Pseudo    string  `json:"pseudo" validate:"required,max=50"`
	Email     string  `json:"email" validate:"required,max=255"`
	Password  string  `json:"password"`
	BirthDate string  `json:"birth_date"`
	Bio       *string `json:"bio"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserInput struct {
	Pseudo    *string `json:"pseudo" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,max=255"`
	Password  *string `json:"password"`
	BirthDate *string `json:"birth_date"`
	Bio       *string `json:"bio"`
}

type userService struct {
	tx           repositories.Transactor
	users        repositories.UserRepository
	participants repositories.ParticipantRepository
	reviews      repositories.ReviewRepository
	files        *photoFiles
	now          func() time.Time
}

func NewUserService(
	tx repositories.Transactor,
	users repositories.UserRepository,
	participants repositories.ParticipantRepository,
	reviews repositories.ReviewRepository,
	photos repositories.PhotoRepository,
	store storage.FileStore,
	defaultAvatar string,
	logger *slog.Logger,
) UserService {
	return &userService{
		tx:           tx,
		users:        users,
		participants: participants,
		reviews:      reviews,
		files:        newPhotoFiles(store, photos, defaultAvatar, logger),
		now:          time.Now,
	}
}

func (s *userService) parseBirthDate(raw string) (time.Time, bool) {
	birth, err := time.Parse(birthDateLayout, strings.TrimSpace(raw))
	if err != nil || !birth.Before(s.now()) {
		return time.Time{}, false
	}
	return birth, true
}

func (s *userService) Register(ctx context.Context, input RegisterInput, avatar *Upload) (*models.User, error) {
	pseudo := strings.TrimSpace(input.Pseudo)
	email := utils.NormalizeEmail(input.Email)

	v := validator{}
	v.checkStruct(input)
	v.check(pseudo != "", "pseudo", "must be provided")
	v.check(utils.IsValidEmail(email), "email", "must be a valid email address")
	checkPassword(v, input.Password)
	birth, ok := s.parseBirthDate(input.BirthDate)
	v.check(ok, "birth_date", "must be a past date formatted YYYY-MM-DD")
	if err := v.err(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserEmailConflict
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Pseudo:       pseudo,
		Email:        email,
		PasswordHash: hash,
		BirthDate:    birth,
		Bio:          trimOptional(input.Bio),
	}

	var avatarKey string
	if avatar != nil {
		if avatarKey, err = s.files.save(ctx, avatar); err != nil {
			return nil, err
		}
	} else if user.PhotoID, err = s.files.defaultAvatarID(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve default avatar: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if avatarKey != "" {
			photo, err := s.files.createRow(ctx, exec, avatarKey)
			if err != nil {
				return err
			}
			user.PhotoID = &photo.ID
			user.Photo = photo
		}
		return s.users.Create(ctx, exec, user)
	})
	if err != nil {
		s.files.remove(ctx, avatarKey)
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor models.Actor, filter models.UserFilter) (*models.UserListResponse, error) {
	if err := Authorize(actor, adminResource(ResourceUser), ActionManage); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &models.UserListResponse{Users: users, TotalCount: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *userService) Update(ctx context.Context, actor models.Actor, id int, input UpdateUserInput, avatar *Upload) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, userResource(user), ActionUpdate); err != nil {
		return nil, err
	}

	v := validator{}
	v.checkStruct(input)
	if input.Pseudo != nil {
		pseudo := strings.TrimSpace(*input.Pseudo)
		v.check(pseudo != "", "pseudo", "must be provided")
		user.Pseudo = pseudo
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		v.check(utils.IsValidEmail(email), "email", "must be a valid email address")
		user.Email = email
	}
	if input.Password != nil {
		checkPassword(v, *input.Password)
	}
	if input.BirthDate != nil {
		birth, ok := s.parseBirthDate(*input.BirthDate)
		v.check(ok, "birth_date", "must be a past date formatted YYYY-MM-DD")
		user.BirthDate = birth
	}
	if input.Bio != nil {
		user.Bio = trimOptional(input.Bio)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	oldPhotoID := user.PhotoID
	var avatarKey string
	if avatar != nil {
		if avatarKey, err = s.files.save(ctx, avatar); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if avatarKey != "" {
			photo, err := s.files.createRow(ctx, exec, avatarKey)
			if err != nil {
				return err
			}
			user.PhotoID = &photo.ID
		}
		return s.users.Update(ctx, exec, user)
	})
	if err != nil {
		s.files.remove(ctx, avatarKey)
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	if avatarKey != "" {
		s.files.release(ctx, oldPhotoID)
	}
	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, actor models.Actor, id int) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, userResource(user), ActionDelete); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.reviews.DeleteByUser(ctx, exec, id); err != nil {
			return err
		}
		if err := s.participants.DeleteByUser(ctx, exec, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, exec, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	s.files.release(ctx, user.PhotoID)
	return nil
}

// checkPassword bounds passwords in bytes: bcrypt refuses anything longer than utils.MaxPasswordBytes.
func checkPassword(v validator, password string) {
	v.check(len(password) >= utils.MinPasswordLength, "password", fmt.Sprintf("must be at least %d characters", utils.MinPasswordLength))
	v.check(len(password) <= utils.MaxPasswordBytes, "password", fmt.Sprintf("must not be more than %d bytes", utils.MaxPasswordBytes))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
