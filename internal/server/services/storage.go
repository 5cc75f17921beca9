package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/logging"
	"github.com/dmitrijs2005/filecrate/internal/server/blobstore"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	"github.com/dmitrijs2005/filecrate/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// StorageService couples file-registry metadata with the blob store and
// enforces ownership on every operation.
type StorageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	logger      logging.Logger
}

// NewStorageService constructs a StorageService.
func NewStorageService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, l logging.Logger) *StorageService {
	return &StorageService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "storage_service"),
	}
}

// newStorageKey generates a collision-free blob location, namespaced per
// owner and independent of the uploaded file name. Two uploads of the same
// name, by the same or different users, never share a key; the registry's
// unique constraint is the backstop, not the primary mechanism.
func newStorageKey(ownerID int64) string {
	return fmt.Sprintf("users/%d/%v", ownerID, uuid.New())
}

// Upload persists the payload bytes, then registers the metadata row. When
// the registry write fails the just-written blob is removed, so no orphaned
// bytes survive a partial upload. A client disconnect mid-copy aborts before
// any metadata is registered.
func (s *StorageService) Upload(ctx context.Context, identity *models.User, fileName string, r io.Reader) (*models.File, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}

	key := newStorageKey(identity.ID)

	size, err := s.blobs.Save(ctx, key, r)
	if err != nil {
		return nil, fmt.Errorf("saving payload: %w", err)
	}

	file, err := s.repomanager.Files(s.db).Create(ctx, &models.File{
		OwnerID:    identity.ID,
		FileName:   fileName,
		StorageKey: key,
		Size:       size,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Error(ctx, "orphaned blob after failed registry write", "key", key, "error", delErr.Error())
		}
		return nil, fmt.Errorf("registering file: %w", err)
	}

	return file, nil
}

// Download resolves fileName within the identity's own files and streams the
// stored bytes. Missing metadata and missing bytes both surface as the same
// common.ErrorNotFound, so a caller cannot probe for other users' files.
func (s *StorageService) Download(ctx context.Context, identity *models.User, fileName string) (io.ReadCloser, *models.File, error) {
	file, err := s.repomanager.Files(s.db).FindByOwnerAndName(ctx, identity.ID, fileName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	return s.openBlob(ctx, file)
}

// DownloadByID fetches a file by id. Non-admin callers only see their own
// files; an id owned by someone else reads as absent rather than forbidden.
func (s *StorageService) DownloadByID(ctx context.Context, identity *models.User, fileID int64, asAdmin bool) (io.ReadCloser, *models.File, error) {
	file, err := s.repomanager.Files(s.db).FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}
	if !asAdmin && file.OwnerID != identity.ID {
		return nil, nil, common.ErrorNotFound
	}

	return s.openBlob(ctx, file)
}

func (s *StorageService) openBlob(ctx context.Context, file *models.File) (io.ReadCloser, *models.File, error) {
	rc, err := s.blobs.Open(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "registry row without bytes", "file_id", file.ID, "key", file.StorageKey)
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}
	return rc, file, nil
}

// Remove deletes a file's bytes and metadata. Unlike Download, ownership
// mismatch is reported as common.ErrorForbidden. Bytes go first; a blob
// already missing is tolerated so the registry row can always be cleaned up.
// There is no reconciliation pass for a crash between the two deletions: a
// row left pointing at deleted bytes reads as NotFound until it is removed.
func (s *StorageService) Remove(ctx context.Context, identity *models.User, fileID int64, asAdmin bool) error {
	file, err := s.repomanager.Files(s.db).FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !asAdmin && file.OwnerID != identity.ID {
		return common.ErrorForbidden
	}

	if err := s.blobs.Delete(ctx, file.StorageKey); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("deleting payload: %w", err)
	}

	return s.repomanager.Files(s.db).Delete(ctx, fileID)
}

// List returns the identity's files or, for asAdmin, every file in the
// system with each owner's username resolved.
func (s *StorageService) List(ctx context.Context, identity *models.User, asAdmin bool) ([]models.FileView, error) {
	repo := s.repomanager.Files(s.db)

	if asAdmin {
		return repo.ListAll(ctx)
	}

	files, err := repo.ListByOwner(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.FileView, 0, len(files))
	for _, f := range files {
		views = append(views, models.FileView{File: f, OwnerUsername: identity.Username})
	}
	return views, nil
}
