package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopradar/backend/internal/domain"
	"go.uber.org/zap"
)

type stubPageRepo struct {
	page *domain.Page
	err  error
}

func (s *stubPageRepo) Get(ctx context.Context, pageID string) (*domain.Page, error) {
	return s.page, s.err
}

type stubProductRepo struct {
	products []domain.Product
	byID     *domain.Product
	err      error
}

func (s *stubProductRepo) ListByPage(ctx context.Context, pageID string, limit, offset int) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.products) {
		return s.products[:limit], nil
	}
	return s.products, nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	return s.byID, s.err
}

type stubAdRepo struct {
	ads []domain.Ad
	err error
}

func (s *stubAdRepo) ListByPage(ctx context.Context, pageID string) ([]domain.Ad, error) {
	return s.ads, s.err
}

func (s *stubAdRepo) Upsert(ctx context.Context, ad domain.Ad) error {
	return s.err
}

func newInsightsService(pages *stubPageRepo, products *stubProductRepo, ads *stubAdRepo) *ProductInsightsService {
	return NewProductInsightsService(pages, products, ads, zap.NewNop(), DefaultMatchConfig())
}

func TestProductInsightsServiceExecute(t *testing.T) {
	ctx := context.Background()
	page := &domain.Page{ID: "page-1", Name: "Store", URL: "https://store.com"}

	t.Run("missing page is not found", func(t *testing.T) {
		svc := newInsightsService(&stubPageRepo{}, &stubProductRepo{}, &stubAdRepo{})
		_, err := svc.Execute(ctx, "missing", 0)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("page repo error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		svc := newInsightsService(&stubPageRepo{err: boom}, &stubProductRepo{}, &stubAdRepo{})
		_, err := svc.Execute(ctx, "page-1", 0)
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})

	t.Run("no products is a soft outcome", func(t *testing.T) {
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{}, &stubAdRepo{})
		result, err := svc.Execute(ctx, "page-1", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ErrorMessage != "No products found for this page" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
		if result.ProductsAnalyzed != 0 || result.MatchesFound != 0 {
			t.Errorf("counts = %d/%d, want 0/0", result.ProductsAnalyzed, result.MatchesFound)
		}
		if result.Insights.ComputedAt.IsZero() {
			t.Error("ComputedAt not set")
		}
	})

	t.Run("no ads still reports every product", func(t *testing.T) {
		products := []domain.Product{
			{ID: "p1", PageID: "page-1", Handle: "a", Title: "A"},
			{ID: "p2", PageID: "page-1", Handle: "b", Title: "B"},
			{ID: "p3", PageID: "page-1", Handle: "c", Title: "C"},
		}
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{products: products}, &stubAdRepo{})
		result, err := svc.Execute(ctx, "page-1", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ErrorMessage != "No ads found for this page" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
		if result.ProductsAnalyzed != 3 || result.AdsAnalyzed != 0 || result.MatchesFound != 0 {
			t.Errorf("counts = %d/%d/%d, want 3/0/0",
				result.ProductsAnalyzed, result.AdsAnalyzed, result.MatchesFound)
		}
		if result.Insights.TotalProducts != 3 || len(result.Insights.ProductInsights) != 3 {
			t.Errorf("insights hold %d products, want 3", len(result.Insights.ProductInsights))
		}
	})

	t.Run("matches products against ads", func(t *testing.T) {
		products := []domain.Product{
			{
				ID:     "p1",
				PageID: "page-1",
				Handle: "awesome-t-shirt",
				Title:  "Awesome T-Shirt",
				URL:    "https://store.com/products/awesome-t-shirt",
			},
			{
				ID:     "p2",
				PageID: "page-1",
				Handle: "plain-socks",
				Title:  "Plain Socks",
				URL:    "https://store.com/products/plain-socks",
			},
		}
		ads := []domain.Ad{
			{
				ID:      "ad-1",
				PageID:  "page-1",
				Status:  domain.AdStatusActive,
				LinkURL: "https://store.com/products/awesome-t-shirt",
				Title:   "Our bestseller is back",
			},
			{
				ID:     "ad-2",
				PageID: "page-1",
				Status: domain.AdStatusActive,
				Title:  "Unrelated brand campaign",
			},
		}
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{products: products}, &stubAdRepo{ads: ads})
		result, err := svc.Execute(ctx, "page-1", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ErrorMessage != "" {
			t.Errorf("unexpected soft error: %q", result.ErrorMessage)
		}
		if result.ProductsAnalyzed != 2 || result.AdsAnalyzed != 2 || result.MatchesFound != 1 {
			t.Errorf("counts = %d/%d/%d, want 2/2/1",
				result.ProductsAnalyzed, result.AdsAnalyzed, result.MatchesFound)
		}

		shirt := result.Insights.ProductInsights[0]
		if shirt.Product.ID != "p1" {
			t.Fatalf("first insight is %s, want p1", shirt.Product.ID)
		}
		best, ok := shirt.BestMatch()
		if !ok {
			t.Fatal("expected a match for the shirt")
		}
		if best.Strength != domain.MatchStrengthStrong || best.Score < 0.9 {
			t.Errorf("best match = %v/%v, want strong >= 0.9", best.Strength, best.Score)
		}
		if !shirt.IsPromoted() {
			t.Error("shirt should be promoted")
		}
		if socks := result.Insights.ProductInsights[1]; len(socks.MatchedAds) != 0 {
			t.Errorf("socks matched %d ads, want 0", len(socks.MatchedAds))
		}
		if result.Insights.PromotedProductsCount() != 1 {
			t.Errorf("promoted count = %d, want 1", result.Insights.PromotedProductsCount())
		}
	})

	t.Run("max products caps the catalog fetch", func(t *testing.T) {
		products := []domain.Product{
			{ID: "p1", PageID: "page-1", Title: "A"},
			{ID: "p2", PageID: "page-1", Title: "B"},
		}
		ads := []domain.Ad{{ID: "ad-1", PageID: "page-1", Title: "x"}}
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{products: products}, &stubAdRepo{ads: ads})
		result, err := svc.Execute(ctx, "page-1", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProductsAnalyzed != 1 {
			t.Errorf("ProductsAnalyzed = %d, want 1", result.ProductsAnalyzed)
		}
	})
}

func TestProductInsightsServiceExecuteForProduct(t *testing.T) {
	ctx := context.Background()
	page := &domain.Page{ID: "page-1", Name: "Store", URL: "https://store.com"}
	product := &domain.Product{
		ID:     "p1",
		PageID: "page-1",
		Handle: "awesome-t-shirt",
		Title:  "Awesome T-Shirt",
		URL:    "https://store.com/products/awesome-t-shirt",
	}

	t.Run("missing product is not found", func(t *testing.T) {
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{}, &stubAdRepo{})
		_, err := svc.ExecuteForProduct(ctx, "page-1", "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("product of another page is not found", func(t *testing.T) {
		foreign := *product
		foreign.PageID = "page-2"
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{byID: &foreign}, &stubAdRepo{})
		_, err := svc.ExecuteForProduct(ctx, "page-1", "p1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		var nfe *domain.NotFoundError
		if !errors.As(err, &nfe) || nfe.Entity != "product" {
			t.Errorf("err = %v, want product NotFoundError", err)
		}
	})

	t.Run("no ads yields empty match list without error", func(t *testing.T) {
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{byID: product}, &stubAdRepo{})
		insights, err := svc.ExecuteForProduct(ctx, "page-1", "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(insights.MatchedAds) != 0 || insights.TotalAdsAnalyzed != 0 {
			t.Errorf("insights = %+v, want no matches", insights)
		}
	})

	t.Run("matches a single product", func(t *testing.T) {
		ads := []domain.Ad{
			{
				ID:      "ad-1",
				PageID:  "page-1",
				Status:  domain.AdStatusActive,
				LinkURL: "https://store.com/products/awesome-t-shirt",
			},
			{ID: "ad-2", PageID: "page-1", Title: "unrelated"},
		}
		svc := newInsightsService(&stubPageRepo{page: page}, &stubProductRepo{byID: product}, &stubAdRepo{ads: ads})
		insights, err := svc.ExecuteForProduct(ctx, "page-1", "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(insights.MatchedAds) != 1 || insights.TotalAdsAnalyzed != 2 {
			t.Fatalf("matched %d of %d ads, want 1 of 2", len(insights.MatchedAds), insights.TotalAdsAnalyzed)
		}
		if insights.MatchedAds[0].Strength != domain.MatchStrengthStrong {
			t.Errorf("strength = %v, want strong", insights.MatchedAds[0].Strength)
		}
	})
}
