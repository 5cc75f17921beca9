package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/dbx"
	"github.com/dmitrijs2005/filecrate/internal/logging"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	filesrepo "github.com/dmitrijs2005/filecrate/internal/server/repositories/files"
	usersrepo "github.com/dmitrijs2005/filecrate/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeRepoManager vends the same fake repositories regardless of the DBTX
// handed to it, so transactional code paths run against the fakes.
type fakeRepoManager struct {
	users usersrepo.Repository
	files filesrepo.Repository
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return f.users }
func (f *fakeRepoManager) Files(dbx.DBTX) filesrepo.Repository          { return f.files }

// --- users repository fake ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getByUsernameOut *models.User
	getByUsernameErr error

	getByIDOut *models.User
	getByIDErr error

	usernameTaken    bool
	usernameTakenErr error
	emailTaken       bool
	emailTakenErr    error

	listOut []models.User
	listErr error

	deleteErr    error
	deletedIDs   []int64
	deleteCalled bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getByUsernameErr != nil {
		return nil, f.getByUsernameErr
	}
	return f.getByUsernameOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

func (f *fakeUsersRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return f.usernameTaken, f.usernameTakenErr
}

func (f *fakeUsersRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	return f.emailTaken, f.emailTakenErr
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	f.deleteCalled = true
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

// --- files repository fake ---

type fakeFilesRepo struct {
	createOut *models.File
	createErr error
	created   []*models.File

	listByOwnerOut []models.File
	listByOwnerErr error

	listAllOut []models.FileView
	listAllErr error

	findByOwnerAndNameOut *models.File
	findByOwnerAndNameErr error

	findByIDOut *models.File
	findByIDErr error

	deleteErr  error
	deletedIDs []int64

	deleteAllByOwnerN   int64
	deleteAllByOwnerErr error
	deleteAllCalled     bool
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, file)
	if f.createOut != nil {
		return f.createOut, nil
	}
	file.ID = int64(len(f.created))
	return file, nil
}

func (f *fakeFilesRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	return f.listByOwnerOut, f.listByOwnerErr
}

func (f *fakeFilesRepo) ListAll(ctx context.Context) ([]models.FileView, error) {
	return f.listAllOut, f.listAllErr
}

func (f *fakeFilesRepo) FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.File, error) {
	if f.findByOwnerAndNameErr != nil {
		return nil, f.findByOwnerAndNameErr
	}
	return f.findByOwnerAndNameOut, nil
}

func (f *fakeFilesRepo) FindByID(ctx context.Context, id int64) (*models.File, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	return f.findByIDOut, nil
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

func (f *fakeFilesRepo) DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error) {
	f.deleteAllCalled = true
	return f.deleteAllByOwnerN, f.deleteAllByOwnerErr
}

// --- blob store fake ---

type fakeBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saveErr error
	openErr error
	delErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return int64(len(data)), nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[key]; !ok {
		return common.ErrorNotFound
	}
	delete(f.blobs, key)
	return nil
}

// nopLogger satisfies logging.Logger for tests.
type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) logging.Logger                    { return nopLogger{} }
