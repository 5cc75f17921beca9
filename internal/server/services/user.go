// Package services contains server-side business logic. This file implements
// UserService: the credential store plus login/token issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/dbx"
	"github.com/dmitrijs2005/filecrate/internal/server/auth"
	"github.com/dmitrijs2005/filecrate/internal/server/config"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
//   - Register: create users with unique username/email
//   - Authenticate: verify credentials
//   - Login: verify credentials and mint an access token
//   - Delete / FindByUsername / GetByID: record access for the other services
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The role must be one of "user" or "admin".
// Duplicate checks run before the password digest is computed, so a doomed
// registration never pays for hashing; the database unique constraints are
// the backstop against a concurrent registration slipping between check and
// insert.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", common.ErrorValidation, role)
	}

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.UsernameTaken(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q: %w", username, common.ErrorConflict)
		}

		taken, err = repo.EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %q: %w", email, common.ErrorConflict)
		}

		digest, err := auth.HashPassword(password)
		if err != nil {
			return common.ErrorInternal
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: digest,
			Role:         role,
			Active:       true,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) || errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Authenticate verifies username/password. Unknown usernames and wrong
// passwords are indistinguishable to the caller: both return
// common.ErrorUnauthorized, and the unknown-username path still burns a
// digest comparison so the two do not diverge in timing.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.VerifyDummy(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !user.Active {
		auth.VerifyDummy(password)
		return nil, common.ErrorUnauthorized
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Login authenticates and, on success, mints an access token carrying the
// user's username and role.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(user.Username, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Delete removes the user record only; it never touches the user's files.
// Cascading is the admin service's responsibility.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.repomanager.Users(s.db).Delete(ctx, userID)
}

// FindByUsername returns the user with the given username, or
// common.ErrorNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// GetByID returns the user with the given id, or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
