package documents

import (
	"context"
	"database/sql"
	"errors"

	"docgate-backend/internal/identity"
)

type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, owner_id, file_name, file_type, file_size_bytes, storage_url, storage_id, status, uploaded_at`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, owner_id, file_name, file_type, file_size_bytes, storage_url, storage_id, status, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		string(doc.OwnerID),
		doc.FileName,
		doc.FileType,
		doc.SizeBytes,
		doc.StorageURL,
		doc.StorageID,
		string(doc.Status),
		doc.UploadedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) ListByOwner(ctx context.Context, owner identity.ID) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE owner_id = $1
ORDER BY uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListAllWithOwner(ctx context.Context) ([]DocumentWithOwner, error) {
	const query = `
SELECT d.id, d.owner_id, d.file_name, d.file_type, d.file_size_bytes, d.storage_url, d.storage_id, d.status, d.uploaded_at,
       p.email, p.full_name, p.role
FROM documents d
JOIN profiles p ON p.id = d.owner_id
ORDER BY d.uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentWithOwner
	for rows.Next() {
		var (
			item      DocumentWithOwner
			ownerID   string
			status    string
			ownerName sql.NullString
			ownerRole string
		)
		if err := rows.Scan(
			&item.ID,
			&ownerID,
			&item.FileName,
			&item.FileType,
			&item.SizeBytes,
			&item.StorageURL,
			&item.StorageID,
			&status,
			&item.UploadedAt,
			&item.OwnerEmail,
			&ownerName,
			&ownerRole,
		); err != nil {
			return nil, err
		}
		item.OwnerID = identity.ID(ownerID)
		item.Status = Status(status)
		item.OwnerName = ownerName.String
		item.OwnerRole = identity.Role(ownerRole)
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) (Document, error) {
	const query = `
UPDATE documents
SET status = $2
WHERE id = $1
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(ctx, query, id, string(status)))
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc     Document
		ownerID string
		status  string
	)
	err := row.Scan(
		&doc.ID,
		&ownerID,
		&doc.FileName,
		&doc.FileType,
		&doc.SizeBytes,
		&doc.StorageURL,
		&doc.StorageID,
		&status,
		&doc.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.OwnerID = identity.ID(ownerID)
	doc.Status = Status(status)
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
