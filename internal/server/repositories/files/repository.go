package files

import (
	"context"

	"github.com/dmitrijs2005/filecrate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error)
	ListAll(ctx context.Context) ([]models.FileView, error)
	FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.File, error)
	FindByID(ctx context.Context, id int64) (*models.File, error)
	Delete(ctx context.Context, id int64) error
	DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error)
}
