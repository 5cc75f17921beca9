package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/dmitrijs2005/filecrate/internal/dbx"
	"github.com/dmitrijs2005/filecrate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a file row. A foreign-key violation on owner_id surfaces as
// common.ErrorNotFound (the owner does not exist); a unique violation on
// storage_key surfaces as common.ErrorConflict (path collision).
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (owner_id, file_name, storage_key, size)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.FileName, file.StorageKey, file.Size).
		Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				return nil, common.ErrorNotFound
			case pgUniqueViolation:
				return nil, common.ErrorConflict
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// ListByOwner returns all files owned by ownerID ordered by id.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	query :=
		`SELECT id, owner_id, file_name, storage_key, size, created_at FROM files
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.FileName, &f.StorageKey, &f.Size, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns every file in the system joined with its owner's username.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.FileView, error) {
	query :=
		`SELECT f.id, f.owner_id, f.file_name, f.storage_key, f.size, f.created_at, u.username
		 FROM files f
		 JOIN users u ON u.id = f.owner_id
		 ORDER BY f.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.FileView
	for rows.Next() {
		var v models.FileView
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.FileName, &v.StorageKey, &v.Size, &v.CreatedAt, &v.OwnerUsername); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindByOwnerAndName resolves a file by owner and uploader-supplied name.
// When the owner uploaded the same name more than once, the most recent
// upload wins.
func (r *PostgresRepository) FindByOwnerAndName(ctx context.Context, ownerID int64, fileName string) (*models.File, error) {
	query :=
		`SELECT id, owner_id, file_name, storage_key, size, created_at FROM files
		 WHERE owner_id = $1 AND file_name = $2
		 ORDER BY id DESC
		 LIMIT 1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, ownerID, fileName))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.File, error) {
	query :=
		`SELECT id, owner_id, file_name, storage_key, size, created_at FROM files
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteAllByOwner removes every file row owned by ownerID and returns the
// number of rows removed. Used by the cascading user deletion.
func (r *PostgresRepository) DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.OwnerID, &f.FileName, &f.StorageKey, &f.Size, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}
