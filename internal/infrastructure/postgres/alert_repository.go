package postgres

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/shopradar/backend/internal/domain"
)

// AlertRepository implements domain.AlertRepository on PostgreSQL.
type AlertRepository struct {
	db DB
}

// NewAlertRepository creates the repository.
func NewAlertRepository(db DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Save persists one alert and echoes it back.
func (r *AlertRepository) Save(ctx context.Context, alert domain.Alert) (domain.Alert, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO alerts (id, page_id, type, message, severity, old_score, new_score, old_tier, new_tier, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		alert.ID, alert.PageID, string(alert.Type), alert.Message, string(alert.Severity),
		alert.OldScore, alert.NewScore, alert.OldTier, alert.NewTier, alert.CreatedAt,
	)
	if err != nil {
		return domain.Alert{}, eris.Wrapf(err, "postgres: save alert %s", alert.ID)
	}
	return alert, nil
}

// ListByPage returns the page's alerts, newest first, capped at limit.
func (r *AlertRepository) ListByPage(ctx context.Context, pageID string, limit int) ([]domain.Alert, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, page_id, type, message, severity, old_score, new_score, old_tier, new_tier, created_at
		 FROM alerts WHERE page_id = $1 ORDER BY created_at DESC LIMIT $2`,
		pageID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list alerts for page %s", pageID)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		err := rows.Scan(
			&alert.ID, &alert.PageID, &alert.Type, &alert.Message, &alert.Severity,
			&alert.OldScore, &alert.NewScore, &alert.OldTier, &alert.NewTier, &alert.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate alerts")
	}
	return alerts, nil
}
