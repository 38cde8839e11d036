package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/linkdesk/videolink/internal/domain"
)

// ErrDuplicateUsername is returned by Create when the username already exists.
var ErrDuplicateUsername = errors.New("admin username already exists")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PgAdminRepository implements AdminRepository using pgx.
type PgAdminRepository struct{}

// NewPgAdminRepository creates a new PgAdminRepository.
func NewPgAdminRepository() *PgAdminRepository {
	return &PgAdminRepository{}
}

var _ AdminRepository = (*PgAdminRepository)(nil)

// FindByUsername returns an admin by username, or nil if not found.
func (r *PgAdminRepository) FindByUsername(ctx context.Context, db DBTX, username string) (*domain.AdminAccount, error) {
	row := db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM admins WHERE username = $1`, username)

	a := &domain.AdminAccount{}
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

// Create inserts a new admin.
func (r *PgAdminRepository) Create(ctx context.Context, db DBTX, username, passwordHash string) (*domain.AdminAccount, error) {
	a := &domain.AdminAccount{Username: username, PasswordHash: passwordHash}
	err := db.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash) VALUES ($1, $2)
		 RETURNING id, created_at`,
		username, passwordHash).Scan(&a.ID, &a.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return a, nil
}

// CreateIfAbsent inserts an admin unless one with the same username exists.
func (r *PgAdminRepository) CreateIfAbsent(ctx context.Context, db DBTX, username, passwordHash string) (bool, error) {
	tag, err := db.Exec(ctx,
		`INSERT INTO admins (username, password_hash) VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash)
	if err != nil {
		return false, fmt.Errorf("insert admin if absent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
