package profiles

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"docgate-backend/internal/identity"
)

type PGRepo struct {
	DB *sql.DB
}

const profileColumns = `id, email, full_name, role, password_hash, reset_otp, reset_otp_expiry, created_at, updated_at`

func (r *PGRepo) Insert(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (id, email, full_name, role, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		string(p.ID),
		p.Email,
		nullableString(p.FullName),
		string(p.Role),
		nullableString(p.PasswordHash),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *PGRepo) Ensure(ctx context.Context, p Profile) (Profile, error) {
	const query = `
INSERT INTO profiles (id, email, full_name, role, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query,
		string(p.ID),
		p.Email,
		nullableString(p.FullName),
		string(p.Role),
		nullableString(p.PasswordHash),
	)
	if err != nil {
		// A different id holding the same email trips the email index.
		if isUniqueViolation(err) {
			return Profile{}, ErrConflict
		}
		return Profile{}, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PGRepo) GetByID(ctx context.Context, id identity.ID) (Profile, error) {
	const query = `
SELECT ` + profileColumns + `
FROM profiles
WHERE id = $1
LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, string(id)))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	const query = `
SELECT ` + profileColumns + `
FROM profiles
WHERE lower(email) = lower($1)
LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) SetResetOTP(ctx context.Context, id identity.ID, code string, expiry time.Time) error {
	const query = `
UPDATE profiles
SET reset_otp = $2, reset_otp_expiry = $3, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, string(id), code, expiry)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) CompletePasswordReset(ctx context.Context, id identity.ID, passwordHash string) error {
	const query = `
UPDATE profiles
SET password_hash = $2, reset_otp = NULL, reset_otp_expiry = NULL, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, string(id), passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) ListWithDocumentCounts(ctx context.Context) ([]ProfileWithDocuments, error) {
	const query = `
SELECT p.id, p.email, p.full_name, p.role, p.created_at, COUNT(d.id)
FROM profiles p
LEFT JOIN documents d ON d.owner_id = p.id
GROUP BY p.id, p.email, p.full_name, p.role, p.created_at
ORDER BY p.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProfileWithDocuments
	for rows.Next() {
		var (
			item     ProfileWithDocuments
			id       string
			fullName sql.NullString
			role     string
		)
		if err := rows.Scan(&id, &item.Email, &fullName, &role, &item.CreatedAt, &item.DocumentCount); err != nil {
			return nil, err
		}
		item.ID = identity.ID(id)
		item.FullName = fullName.String
		item.Role = identity.Role(role)
		out = append(out, item)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var (
		p            Profile
		id           string
		fullName     sql.NullString
		role         string
		passwordHash sql.NullString
		resetOTP     sql.NullString
		resetExpiry  sql.NullTime
		updatedAt    sql.NullTime
	)
	err := row.Scan(
		&id,
		&p.Email,
		&fullName,
		&role,
		&passwordHash,
		&resetOTP,
		&resetExpiry,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.ID = identity.ID(id)
	p.Role = identity.Role(role)
	p.FullName = fullName.String
	p.PasswordHash = passwordHash.String
	p.ResetOTP = resetOTP.String
	if resetExpiry.Valid {
		p.ResetOTPExpiry = resetExpiry.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	} else {
		p.UpdatedAt = time.Now().UTC()
	}
	return p, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
