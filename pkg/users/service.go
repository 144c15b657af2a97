package users

import (
	"context"
	"time"

	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	IsAdmin  bool
}

// Create creates a new user.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("Username already exists")
	}

	if opts.Email != nil && *opts.Email != "" {
		exists, err = s.db.NewSelect().
			Model((*models.User)(nil)).
			Where("email = ? COLLATE NOCASE", *opts.Email).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if exists {
			return nil, errcodes.ValidationError("Email already exists")
		}
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      opts.IsAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// Retrieve gets a user by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("User")
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a paginated list of users.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	userList := []*models.User{}

	query := s.db.NewSelect().
		Model(&userList).
		Order("u.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return userList, total, nil
}

// UpdateOptions contains options for updating a user.
type UpdateOptions struct {
	Columns []string
}

// Update updates a user.
func (s *Service) Update(ctx context.Context, user *models.User, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	user.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := s.db.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// VerifyPassword checks if the password is correct for a user.
func (s *Service) VerifyPassword(ctx context.Context, userID int, password string) (bool, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Column("password_hash").
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return auth.CheckPassword(password, user.PasswordHash), nil
}

// Deactivate deactivates a user (soft delete).
func (s *Service) Deactivate(ctx context.Context, userID int) error {
	_, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
