package postgres

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/shopradar/backend/internal/domain"
)

// AdRepository implements domain.AdRepository on PostgreSQL.
type AdRepository struct {
	db DB
}

// NewAdRepository creates the repository.
func NewAdRepository(db DB) *AdRepository {
	return &AdRepository{db: db}
}

// ListByPage returns the page's ads, newest first.
func (r *AdRepository) ListByPage(ctx context.Context, pageID string) ([]domain.Ad, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, page_id, meta_ad_id, title, body, link_url, image_url, status,
		        started_at, ended_at, first_seen_at, last_seen_at, created_at, updated_at
		 FROM ads WHERE page_id = $1 ORDER BY first_seen_at DESC`,
		pageID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list ads for page %s", pageID)
	}
	defer rows.Close()

	var ads []domain.Ad
	for rows.Next() {
		var ad domain.Ad
		err := rows.Scan(
			&ad.ID, &ad.PageID, &ad.MetaAdID, &ad.Title, &ad.Body, &ad.LinkURL,
			&ad.ImageURL, &ad.Status, &ad.StartedAt, &ad.EndedAt,
			&ad.FirstSeenAt, &ad.LastSeenAt, &ad.CreatedAt, &ad.UpdatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan ad")
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate ads")
	}
	return ads, nil
}

// Upsert inserts an ad or refreshes a known one. Identity is the
// (page_id, meta_ad_id) pair; the first-seen timestamp survives updates.
func (r *AdRepository) Upsert(ctx context.Context, ad domain.Ad) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ads (page_id, meta_ad_id, title, body, link_url, image_url, status, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (page_id, meta_ad_id) DO UPDATE SET
			title        = EXCLUDED.title,
			body         = EXCLUDED.body,
			link_url     = EXCLUDED.link_url,
			image_url    = EXCLUDED.image_url,
			status       = EXCLUDED.status,
			started_at   = EXCLUDED.started_at,
			ended_at     = EXCLUDED.ended_at,
			last_seen_at = now(),
			updated_at   = now()`,
		ad.PageID, ad.MetaAdID, ad.Title, ad.Body, ad.LinkURL, ad.ImageURL,
		string(ad.Status), ad.StartedAt, ad.EndedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert ad %s", ad.MetaAdID)
	}
	return nil
}
