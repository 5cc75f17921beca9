package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/server/auth"
	"github.com/dmitrijs2005/filecrate/internal/server/config"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/repomanager"
)

// Guard is the single choke point for authentication and authorization.
// Every protected operation resolves its caller through one of the Require
// methods; nothing else inspects tokens.
//
// The distinction between its two failure modes matters to clients:
// ErrorUnauthorized means "log in again", ErrorForbidden means "you are
// logged in but not allowed".
type Guard struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

// NewGuard constructs a Guard over the user repository and token secret.
func NewGuard(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Guard {
	return &Guard{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
	}
}

// RequireAuthenticated validates the token and resolves its subject against
// the credential store. It fails with common.ErrorUnauthorized when the
// token is missing, malformed, expired, or names a user that no longer
// exists or is inactive.
func (g *Guard) RequireAuthenticated(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, g.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := g.repomanager.Users(g.db).GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.Active {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// RequireRole authenticates and additionally demands the resolved identity
// hold the given role, failing with common.ErrorForbidden otherwise.
func (g *Guard) RequireRole(ctx context.Context, token, role string) (*models.User, error) {
	user, err := g.RequireAuthenticated(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, common.ErrorForbidden
	}
	return user, nil
}

// RequireOwnerOrRole authenticates and passes when the identity owns the
// resource or holds the given role, so owners and admins share one gate.
func (g *Guard) RequireOwnerOrRole(ctx context.Context, token string, resourceOwnerID int64, role string) (*models.User, error) {
	user, err := g.RequireAuthenticated(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.ID != resourceOwnerID && user.Role != role {
		return nil, common.ErrorForbidden
	}
	return user, nil
}
