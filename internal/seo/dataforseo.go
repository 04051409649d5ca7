package seo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const dataForSEOBase = "https://api.dataforseo.com/v3"

// DataForSEO implements keyword-volume and SERP-ranking lookups against the
// DataForSEO live endpoints using basic auth.
type DataForSEO struct {
	login    string
	password string
	client   *http.Client
	baseURL  string
}

// NewDataForSEO creates a DataForSEO fetcher.
func NewDataForSEO(login, password string) *DataForSEO {
	return &DataForSEO{
		login:    login,
		password: password,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: dataForSEOBase,
	}
}

// Configured reports whether credentials are present.
func (d *DataForSEO) Configured() bool {
	return d.login != "" && d.password != ""
}

// KeywordVolumes returns search volume data for the given keywords.
// Returns nil on any upstream failure.
func (d *DataForSEO) KeywordVolumes(ctx context.Context, keywords []string) []KeywordVolume {
	if !d.Configured() || len(keywords) == 0 {
		return nil
	}

	payload := []map[string]any{{
		"keywords":      keywords,
		"language_code": "en",
		"location_code": 2840, // United States
	}}

	var apiResp struct {
		Tasks []struct {
			Result []struct {
				Keyword      string  `json:"keyword"`
				SearchVolume int64   `json:"search_volume"`
				Competition  float64 `json:"competition"`
				CPC          float64 `json:"cpc"`
			} `json:"result"`
		} `json:"tasks"`
	}

	if err := d.post(ctx, "/keywords_data/google_ads/search_volume/live", payload, &apiResp); err != nil {
		slog.Warn("keyword volume lookup failed", "error", err, "keywords", len(keywords))
		return nil
	}

	if len(apiResp.Tasks) == 0 || len(apiResp.Tasks[0].Result) == 0 {
		return nil
	}

	volumes := make([]KeywordVolume, 0, len(apiResp.Tasks[0].Result))
	for _, r := range apiResp.Tasks[0].Result {
		volumes = append(volumes, KeywordVolume{
			Keyword:      r.Keyword,
			SearchVolume: r.SearchVolume,
			Competition:  r.Competition,
			CPC:          r.CPC,
		})
	}
	return volumes
}

// Ranking returns the website's organic position for a keyword, checking the
// first 100 results. Returns nil on any upstream failure.
func (d *DataForSEO) Ranking(ctx context.Context, keyword, website string) *SerpRanking {
	if !d.Configured() || keyword == "" || website == "" {
		return nil
	}

	domain := normalizeDomain(website)
	if domain == "" {
		return nil
	}

	payload := []map[string]any{{
		"keyword":       keyword,
		"language_code": "en",
		"location_code": 2840,
		"depth":         100,
	}}

	var apiResp struct {
		Tasks []struct {
			Result []struct {
				Items []struct {
					Type         string `json:"type"`
					RankAbsolute int    `json:"rank_absolute"`
					Domain       string `json:"domain"`
					URL          string `json:"url"`
				} `json:"items"`
			} `json:"result"`
		} `json:"tasks"`
	}

	if err := d.post(ctx, "/serp/google/organic/live/advanced", payload, &apiResp); err != nil {
		slog.Warn("ranking lookup failed", "error", err, "keyword", keyword)
		return nil
	}

	if len(apiResp.Tasks) == 0 || len(apiResp.Tasks[0].Result) == 0 {
		return nil
	}

	ranking := &SerpRanking{Keyword: keyword}
	for _, item := range apiResp.Tasks[0].Result[0].Items {
		if item.Type != "organic" {
			continue
		}
		if strings.EqualFold(normalizeDomain(item.Domain), domain) {
			ranking.Position = item.RankAbsolute
			ranking.URL = item.URL
			break
		}
	}
	return ranking
}

func (d *DataForSEO) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(d.login, d.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalizeDomain strips scheme, www prefix, path, and port from a URL or host.
func normalizeDomain(raw string) string {
	host := raw
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			host = u.Host
		}
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if i := strings.IndexAny(host, "/:"); i >= 0 {
		host = host[:i]
	}
	return host
}
