package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/linkdesk/videolink/internal/domain"
)

// PgVideoLinkRepository implements VideoLinkRepository using pgx.
// Every statement is keyed on domain.VideoLinkID, so at most one row ever exists.
type PgVideoLinkRepository struct{}

// NewPgVideoLinkRepository creates a new PgVideoLinkRepository.
func NewPgVideoLinkRepository() *PgVideoLinkRepository {
	return &PgVideoLinkRepository{}
}

var _ VideoLinkRepository = (*PgVideoLinkRepository)(nil)

func (r *PgVideoLinkRepository) Get(ctx context.Context, db DBTX) (*domain.VideoLink, error) {
	v := &domain.VideoLink{}
	err := db.QueryRow(ctx,
		`SELECT link, updated_at FROM video_link WHERE id = $1`,
		domain.VideoLinkID).Scan(&v.Link, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video link: %w", err)
	}
	return v, nil
}

func (r *PgVideoLinkRepository) Upsert(ctx context.Context, db DBTX, link string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO video_link (id, link, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			link = EXCLUDED.link,
			updated_at = EXCLUDED.updated_at`,
		domain.VideoLinkID, link)
	if err != nil {
		return fmt.Errorf("upsert video link: %w", err)
	}
	return nil
}

func (r *PgVideoLinkRepository) Delete(ctx context.Context, db DBTX) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM video_link WHERE id = $1`, domain.VideoLinkID)
	if err != nil {
		return false, fmt.Errorf("delete video link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
