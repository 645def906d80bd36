package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/shopradar/backend/internal/domain"
)

// ProductRepository implements domain.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db DB
}

// NewProductRepository creates the repository.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, page_id, handle, title, url, price_min, price_max, currency,
	available, tags, vendor, image_url, product_type, raw_data, created_at, updated_at`

// ListByPage returns the page's products ordered by handle for stable
// pagination.
func (r *ProductRepository) ListByPage(ctx context.Context, pageID string, limit, offset int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE page_id = $1 ORDER BY handle LIMIT $2 OFFSET $3`,
		pageID, limit, offset,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list products for page %s", pageID)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate products")
	}
	return products, nil
}

// GetByID fetches one product. A missing product is (nil, nil).
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		productID,
	)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get product %s", productID)
	}
	return &product, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.PageID, &p.Handle, &p.Title, &p.URL, &p.PriceMin, &p.PriceMax,
		&p.Currency, &p.Available, &p.Tags, &p.Vendor, &p.ImageURL, &p.ProductType,
		&p.RawData, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
