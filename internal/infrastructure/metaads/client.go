// Package metaads fetches advertisements from the Meta Ad Library
// (ads_archive endpoint) and maps them to domain ads.
package metaads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopradar/backend/internal/domain"
)

const adFields = "id,page_id,ad_creative_bodies,ad_creative_link_captions," +
	"ad_creative_link_titles,ad_snapshot_url,ad_delivery_start_time,ad_delivery_stop_time"

// maxPageSize is the largest page the ads_archive endpoint accepts.
const maxPageSize = 1000

// Client talks to the Meta Ad Library API.
type Client struct {
	httpClient     *http.Client
	accessToken    string
	baseURL        string
	reachedCountry string
	maxAds         int
	rateLimiter    *rate.Limiter
	logger         *zap.Logger
}

// Config holds the client settings.
type Config struct {
	AccessToken    string
	BaseURL        string
	ReachedCountry string
	MaxAds         int
	// RequestsPerHour throttles outgoing calls; Meta enforces roughly
	// 200 ad-archive requests per hour per token.
	RequestsPerHour int
}

// NewClient creates a Meta Ad Library client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	requestsPerHour := cfg.RequestsPerHour
	if requestsPerHour <= 0 {
		requestsPerHour = 200
	}
	maxAds := cfg.MaxAds
	if maxAds <= 0 {
		maxAds = maxPageSize
	}
	country := cfg.ReachedCountry
	if country == "" {
		country = "US"
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		accessToken:    cfg.AccessToken,
		baseURL:        cfg.BaseURL,
		reachedCountry: country,
		maxAds:         maxAds,
		rateLimiter:    limiter,
		logger:         logger,
	}
}

// adPayload is one ad as returned by the ads_archive endpoint.
type adPayload struct {
	ID                     string   `json:"id"`
	PageID                 string   `json:"page_id"`
	AdCreativeBodies       []string `json:"ad_creative_bodies"`
	AdCreativeLinkTitles   []string `json:"ad_creative_link_titles"`
	AdCreativeLinkCaptions []string `json:"ad_creative_link_captions"`
	AdSnapshotURL          string   `json:"ad_snapshot_url"`
	AdDeliveryStartTime    string   `json:"ad_delivery_start_time"`
	AdDeliveryStopTime     string   `json:"ad_delivery_stop_time"`
}

type archiveResponse struct {
	Data   []adPayload `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// FetchAdsByPage retrieves the currently delivered ads of one advertiser,
// following pagination up to the configured cap. Implements
// domain.AdsSource.
func (c *Client) FetchAdsByPage(ctx context.Context, metaPageID string) ([]domain.Ad, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("ad_type", "ALL")
	params.Set("ad_active_status", "ACTIVE")
	params.Set("ad_reached_countries", c.reachedCountry)
	params.Set("search_page_ids", metaPageID)
	params.Set("limit", fmt.Sprintf("%d", maxPageSize))
	params.Set("fields", adFields)

	reqURL := fmt.Sprintf("%s/ads_archive?%s", c.baseURL, params.Encode())

	var payloads []adPayload
	for reqURL != "" && len(payloads) < c.maxAds {
		page, err := c.fetchPage(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, page.Data...)
		// The next link carries the full query including the token.
		reqURL = page.Paging.Next
	}
	if len(payloads) > c.maxAds {
		payloads = payloads[:c.maxAds]
	}

	c.logger.Info("fetched ads from ad library",
		zap.String("meta_page_id", metaPageID),
		zap.Int("ads_count", len(payloads)),
	)

	ads := make([]domain.Ad, 0, len(payloads))
	for _, payload := range payloads {
		ads = append(ads, mapAd(payload))
	}
	return ads, nil
}

// fetchPage requests one result page, retrying transient failures up to
// three times with linear backoff.
func (c *Client) fetchPage(ctx context.Context, reqURL string) (*archiveResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "metaads: rate limiter")
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn("ad library request failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			lastErr = err
			if err := sleepCtx(ctx, time.Duration(attempt*500)*time.Millisecond); err != nil {
				return nil, err
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = eris.Errorf("metaads: status %d: %s", resp.StatusCode, string(body))
			// Client errors other than throttling will not get better on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			c.logger.Warn("ad library returned error status",
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode),
			)
			if err := sleepCtx(ctx, time.Duration(attempt*500)*time.Millisecond); err != nil {
				return nil, err
			}
			continue
		}

		var page archiveResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrap(err, "metaads: decode response")
		}
		return &page, nil
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "metaads: create request")
	}
	req.Header.Set("User-Agent", "ShopRadar/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "metaads: execute request")
	}
	return resp, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
