package seo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.acme.example/about", "acme.example"},
		{"http://acme.example:8080", "acme.example"},
		{"acme.example", "acme.example"},
		{"www.acme.example/path", "acme.example"},
		{"WWW.ACME.EXAMPLE", "acme.example"},
	}

	for _, tt := range tests {
		if got := normalizeDomain(tt.in); got != tt.want {
			t.Errorf("normalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreToPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.58, 58},
		{0.925, 93},
		{1, 100},
	}

	for _, tt := range tests {
		if got := scoreToPercent(tt.in); got != tt.want {
			t.Errorf("scoreToPercent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestKeywordVolumes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keywords_data/google_ads/search_volume/live" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "login" || pass != "secret" {
			t.Error("expected basic auth credentials")
		}

		var payload []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		if len(payload) != 1 {
			t.Fatalf("expected single task payload, got %d", len(payload))
		}

		w.Write([]byte(`{"tasks": [{"result": [
			{"keyword": "coffee shop", "search_volume": 2400, "competition": 0.35, "cpc": 1.2},
			{"keyword": "roastery", "search_volume": 320, "competition": 0.1, "cpc": 0.8}
		]}]}`))
	}))
	defer srv.Close()

	d := NewDataForSEO("login", "secret")
	d.baseURL = srv.URL

	volumes := d.KeywordVolumes(context.Background(), []string{"coffee shop", "roastery"})
	if len(volumes) != 2 {
		t.Fatalf("expected 2 volumes, got %d", len(volumes))
	}
	if volumes[0].Keyword != "coffee shop" || volumes[0].SearchVolume != 2400 {
		t.Errorf("unexpected first volume: %+v", volumes[0])
	}
}

func TestKeywordVolumesDegradesToNil(t *testing.T) {
	unconfigured := NewDataForSEO("", "")
	if got := unconfigured.KeywordVolumes(context.Background(), []string{"coffee"}); got != nil {
		t.Errorf("unconfigured fetcher should return nil, got %v", got)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := NewDataForSEO("login", "secret")
	d.baseURL = srv.URL
	if got := d.KeywordVolumes(context.Background(), []string{"coffee"}); got != nil {
		t.Errorf("upstream error should return nil, got %v", got)
	}

	if got := d.KeywordVolumes(context.Background(), nil); got != nil {
		t.Errorf("empty keyword list should return nil, got %v", got)
	}
}

func TestRanking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/serp/google/organic/live/advanced" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"tasks": [{"result": [{"items": [
			{"type": "paid", "rank_absolute": 1, "domain": "ads.example", "url": "https://ads.example"},
			{"type": "organic", "rank_absolute": 3, "domain": "other.example", "url": "https://other.example"},
			{"type": "organic", "rank_absolute": 7, "domain": "www.acme.example", "url": "https://acme.example/services"}
		]}]}]}`))
	}))
	defer srv.Close()

	d := NewDataForSEO("login", "secret")
	d.baseURL = srv.URL

	ranking := d.Ranking(context.Background(), "web design", "https://acme.example")
	if ranking == nil {
		t.Fatal("expected ranking result")
	}
	if ranking.Position != 7 {
		t.Errorf("expected position 7 (paid results skipped), got %d", ranking.Position)
	}
	if ranking.URL != "https://acme.example/services" {
		t.Errorf("unexpected URL %q", ranking.URL)
	}
}

func TestRankingNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tasks": [{"result": [{"items": [
			{"type": "organic", "rank_absolute": 1, "domain": "other.example", "url": "https://other.example"}
		]}]}]}`))
	}))
	defer srv.Close()

	d := NewDataForSEO("login", "secret")
	d.baseURL = srv.URL

	ranking := d.Ranking(context.Background(), "web design", "https://acme.example")
	if ranking == nil {
		t.Fatal("expected a result with position 0, not nil")
	}
	if ranking.Position != 0 {
		t.Errorf("expected position 0 for unranked site, got %d", ranking.Position)
	}
}

func TestPagePerformance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("url") != "https://acme.example" {
			t.Errorf("unexpected url param %q", q.Get("url"))
		}
		if q.Get("key") != "api-key" {
			t.Errorf("unexpected key param %q", q.Get("key"))
		}
		if q.Get("strategy") != "mobile" {
			t.Errorf("unexpected strategy %q", q.Get("strategy"))
		}
		if cats := q["category"]; len(cats) != 4 {
			t.Errorf("expected 4 categories, got %v", cats)
		}

		w.Write([]byte(`{"lighthouseResult": {"categories": {
			"performance": {"score": 0.58},
			"seo": {"score": 0.92},
			"accessibility": {"score": 0.71},
			"best-practices": {"score": 0.85}
		}}}`))
	}))
	defer srv.Close()

	p := NewPageSpeed("api-key")
	p.baseURL = srv.URL

	perf := p.PagePerformance(context.Background(), "https://acme.example")
	if perf == nil {
		t.Fatal("expected performance metrics")
	}
	want := PerformanceMetrics{Performance: 58, SEO: 92, Accessibility: 71, BestPractices: 85}
	if *perf != want {
		t.Errorf("metrics = %+v, want %+v", *perf, want)
	}
}

func TestPagePerformanceDegradesToNil(t *testing.T) {
	if got := NewPageSpeed("").PagePerformance(context.Background(), "https://acme.example"); got != nil {
		t.Errorf("missing API key should return nil, got %v", got)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPageSpeed("api-key")
	p.baseURL = srv.URL
	if got := p.PagePerformance(context.Background(), "https://acme.example"); got != nil {
		t.Errorf("upstream error should return nil, got %v", got)
	}

	if got := p.PagePerformance(context.Background(), ""); got != nil {
		t.Errorf("blank website should return nil, got %v", got)
	}
}
