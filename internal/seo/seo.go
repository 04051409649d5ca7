// Package seo wraps the third-party keyword, ranking, and page-performance
// lookups used by the deliverable pipeline. Fetchers never return an error to
// callers: any upstream failure is logged and surfaced as a nil result, since
// partial data is acceptable in the assembled report.
package seo

import "context"

// KeywordVolume is the normalized keyword-volume lookup result.
type KeywordVolume struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int64   `json:"searchVolume"`
	Competition  float64 `json:"competition"`
	CPC          float64 `json:"cpc"`
}

// SerpRanking is the normalized search-ranking lookup result for one keyword.
type SerpRanking struct {
	Keyword  string `json:"keyword"`
	Position int    `json:"position"` // 0 = not in the checked depth
	URL      string `json:"url,omitempty"`
}

// PerformanceMetrics is the normalized page-performance lookup result.
// Scores are 0-100.
type PerformanceMetrics struct {
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
}

// Fetcher bundles the three external lookups consumed by the pipeline.
type Fetcher interface {
	KeywordVolumes(ctx context.Context, keywords []string) []KeywordVolume
	Ranking(ctx context.Context, keyword, website string) *SerpRanking
	PagePerformance(ctx context.Context, website string) *PerformanceMetrics
}
