package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/shopradar/backend/internal/domain"
)

// PageRepository implements domain.PageRepository on PostgreSQL.
type PageRepository struct {
	db DB
}

// NewPageRepository creates the repository.
func NewPageRepository(db DB) *PageRepository {
	return &PageRepository{db: db}
}

// Get fetches one page by id. A missing page is (nil, nil).
func (r *PageRepository) Get(ctx context.Context, pageID string) (*domain.Page, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, url, meta_page_id, active_ads_count, score, tier, last_scored_at, created_at, updated_at
		 FROM pages WHERE id = $1`,
		pageID,
	)

	var page domain.Page
	err := row.Scan(
		&page.ID, &page.Name, &page.URL, &page.MetaPageID, &page.ActiveAdsCount,
		&page.Score, &page.Tier, &page.LastScoredAt, &page.CreatedAt, &page.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get page %s", pageID)
	}
	return &page, nil
}
