package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/dbx"
	"github.com/dmitrijs2005/filecrate/internal/logging"
	"github.com/dmitrijs2005/filecrate/internal/server/blobstore"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/repomanager"
)

// AdminService implements privileged account management. Role gating happens
// in the Guard; these methods assume the caller already passed it.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	logger      logging.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, l logging.Logger) *AdminService {
	return &AdminService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "admin_service"),
	}
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// DeleteUser removes targetID's account and all of their files. Admins may
// not delete their own account. The file rows and the user row go in one
// transaction, so a failure partway leaves both fully intact; the blobs are
// removed after the commit, when the registry no longer references them.
func (s *AdminService) DeleteUser(ctx context.Context, actingAdmin *models.User, targetID int64) error {
	if actingAdmin.ID == targetID {
		return common.ErrSelfDeletion
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, targetID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	files, err := s.repomanager.Files(s.db).ListByOwner(ctx, targetID)
	if err != nil {
		return fmt.Errorf("listing files for cascade: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Files(tx).DeleteAllByOwner(ctx, targetID); err != nil {
			return fmt.Errorf("deleting file records: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, targetID); err != nil {
			return fmt.Errorf("deleting user record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := s.blobs.Delete(ctx, f.StorageKey); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "orphaned blob after user deletion", "key", f.StorageKey, "error", err.Error())
		}
	}

	s.logger.Info(ctx, "user deleted", "user_id", targetID, "cascaded_files", len(files))
	return nil
}
