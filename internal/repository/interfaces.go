package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/linkdesk/videolink/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx DBTX) error) error
}

// AdminRepository provides access to admins.
type AdminRepository interface {
	// FindByUsername returns the account with the exact username, or nil if none exists.
	FindByUsername(ctx context.Context, db DBTX, username string) (*domain.AdminAccount, error)

	// Create inserts a new account. Returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, db DBTX, username, passwordHash string) (*domain.AdminAccount, error)

	// CreateIfAbsent inserts the account unless the username exists. Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, db DBTX, username, passwordHash string) (bool, error)
}

// VideoLinkRepository provides access to the single video_link row.
type VideoLinkRepository interface {
	// Get returns the stored link, or nil if no row exists.
	Get(ctx context.Context, db DBTX) (*domain.VideoLink, error)

	// Upsert creates the row or overwrites its link.
	Upsert(ctx context.Context, db DBTX, link string) error

	// Delete removes the row. Reports whether a row existed.
	Delete(ctx context.Context, db DBTX) (bool, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the mutation).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns the oldest unpublished events for the relay.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished deletes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
