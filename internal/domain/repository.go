package domain

import "context"

// PageRepository provides page lookups. A missing page is (nil, nil);
// errors are reserved for infrastructure failures.
type PageRepository interface {
	Get(ctx context.Context, pageID string) (*Page, error)
}

// ProductRepository provides catalog lookups.
type ProductRepository interface {
	ListByPage(ctx context.Context, pageID string, limit, offset int) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
}

// AdRepository provides ad lookups and ingestion writes.
type AdRepository interface {
	ListByPage(ctx context.Context, pageID string) ([]Ad, error)
	Upsert(ctx context.Context, ad Ad) error
}

// AlertRepository persists alerts. Save echoes the persisted entity back.
type AlertRepository interface {
	Save(ctx context.Context, alert Alert) (Alert, error)
	ListByPage(ctx context.Context, pageID string, limit int) ([]Alert, error)
}

// AdsSource fetches the current ads for an advertiser from an external
// ad library.
type AdsSource interface {
	FetchAdsByPage(ctx context.Context, metaPageID string) ([]Ad, error)
}
