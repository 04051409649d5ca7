package seo

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

const pageSpeedBase = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// PageSpeed implements the page-performance lookup against the Google
// PageSpeed Insights API.
type PageSpeed struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

// NewPageSpeed creates a PageSpeed fetcher.
func NewPageSpeed(apiKey string) *PageSpeed {
	return &PageSpeed{
		apiKey: apiKey,
		client: &http.Client{
			// Lighthouse runs are slow; allow more than the usual 30s.
			Timeout: 60 * time.Second,
		},
		baseURL: pageSpeedBase,
	}
}

// PagePerformance returns Lighthouse category scores for a website.
// Returns nil on any upstream failure or when no API key is configured.
func (p *PageSpeed) PagePerformance(ctx context.Context, website string) *PerformanceMetrics {
	if p.apiKey == "" || website == "" {
		return nil
	}

	params := url.Values{}
	params.Set("url", website)
	params.Set("key", p.apiKey)
	params.Set("strategy", "mobile")
	params.Add("category", "performance")
	params.Add("category", "seo")
	params.Add("category", "accessibility")
	params.Add("category", "best-practices")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		slog.Warn("pagespeed request creation failed", "error", err)
		return nil
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("pagespeed lookup failed", "error", err, "website", website)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("pagespeed lookup failed", "status", resp.StatusCode, "website", website)
		return nil
	}

	var apiResp struct {
		LighthouseResult struct {
			Categories struct {
				Performance   categoryScore `json:"performance"`
				SEO           categoryScore `json:"seo"`
				Accessibility categoryScore `json:"accessibility"`
				BestPractices categoryScore `json:"best-practices"`
			} `json:"categories"`
		} `json:"lighthouseResult"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		slog.Warn("pagespeed response parse failed", "error", err)
		return nil
	}

	cats := apiResp.LighthouseResult.Categories
	return &PerformanceMetrics{
		Performance:   scoreToPercent(cats.Performance.Score),
		SEO:           scoreToPercent(cats.SEO.Score),
		Accessibility: scoreToPercent(cats.Accessibility.Score),
		BestPractices: scoreToPercent(cats.BestPractices.Score),
	}
}

type categoryScore struct {
	Score float64 `json:"score"`
}

// scoreToPercent converts Lighthouse's 0-1 score to a 0-100 integer.
func scoreToPercent(score float64) int {
	return int(math.Round(score * 100))
}

// Client bundles the DataForSEO and PageSpeed fetchers behind the Fetcher
// interface.
type Client struct {
	*DataForSEO
	*PageSpeed
}

// Compile-time interface check
var _ Fetcher = (*Client)(nil)

// NewClient creates the combined external-data fetcher.
func NewClient(dataForSEOLogin, dataForSEOPassword, pageSpeedKey string) *Client {
	return &Client{
		DataForSEO: NewDataForSEO(dataForSEOLogin, dataForSEOPassword),
		PageSpeed:  NewPageSpeed(pageSpeedKey),
	}
}
