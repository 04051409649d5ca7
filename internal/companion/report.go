package companion

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/brightpixel/companion/internal/seo"
)

// ReportData is everything the analysis report template consumes. Keyword,
// ranking, and performance data are optional; the template degrades each
// missing section to a placeholder.
type ReportData struct {
	ClientName  string
	Website     string
	GeneratedAt time.Time
	Analysis    *CompanyAnalysis
	Keywords    []seo.KeywordVolume
	Rankings    []seo.SerpRanking
	Performance *seo.PerformanceMetrics
}

// scoreColor maps a 0-100 score to a badge color.
func scoreColor(score int) string {
	switch {
	case score >= 90:
		return "#16a34a" // green
	case score >= 70:
		return "#ca8a04" // yellow
	default:
		return "#dc2626" // red
	}
}

var reportFuncs = template.FuncMap{
	"scoreColor": scoreColor,
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"formatVolume": func(v int64) string {
		if v >= 1000 {
			return fmt.Sprintf("%.1fk", float64(v)/1000)
		}
		return fmt.Sprintf("%d", v)
	},
	"formatPosition": func(p int) string {
		if p <= 0 {
			return "Not ranked (top 100)"
		}
		return fmt.Sprintf("#%d", p)
	},
}

var reportTemplate = template.Must(template.New("analysis").Funcs(reportFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style type="text/css">
  body { margin: 0; padding: 0; background-color: #f8fafc; font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; color: #1e293b; line-height: 1.6; }
  .container { max-width: 680px; margin: 0 auto; background-color: #ffffff; border: 1px solid #e2e8f0; border-radius: 8px; overflow: hidden; }
  .header { background-color: #2563eb; color: #ffffff; padding: 24px; }
  .header h1 { margin: 0; font-size: 24px; font-weight: 600; }
  .header .date { margin: 8px 0 0 0; font-size: 14px; opacity: 0.9; }
  .content { padding: 24px; }
  h2 { color: #2563eb; font-size: 20px; font-weight: 600; margin: 32px 0 16px 0; border-bottom: 2px solid #e2e8f0; padding-bottom: 8px; }
  table { width: 100%; border-collapse: collapse; margin: 16px 0; font-size: 14px; }
  th { text-align: left; background-color: #f1f5f9; padding: 8px 12px; border: 1px solid #e2e8f0; }
  td { padding: 8px 12px; border: 1px solid #e2e8f0; }
  .badge { display: inline-block; color: #ffffff; border-radius: 12px; padding: 2px 10px; font-size: 13px; font-weight: 600; }
  .bar-track { background-color: #e2e8f0; border-radius: 4px; height: 10px; width: 100%; }
  .bar-fill { border-radius: 4px; height: 10px; }
  .placeholder { color: #64748b; font-style: italic; }
  ul { margin: 8px 0 16px 0; padding-left: 20px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Company Analysis: {{.ClientName}}</h1>
    <p class="date">{{formatDate .GeneratedAt}}{{if .Website}} &middot; {{.Website}}{{end}}</p>
  </div>
  <div class="content">

    <h2>Business Overview</h2>
    {{if and .Analysis .Analysis.BusinessOverview}}<p>{{.Analysis.BusinessOverview}}</p>{{else}}<p class="placeholder">No data available</p>{{end}}

    <h2>Competitive Landscape</h2>
    {{if and .Analysis .Analysis.Competitors}}
    <table>
      <tr><th>Competitor</th><th>Website</th><th>Strengths</th></tr>
      {{range .Analysis.Competitors}}
      <tr><td>{{.Name}}</td><td>{{if .Website}}{{.Website}}{{else}}&mdash;{{end}}</td><td>{{if .Strengths}}{{.Strengths}}{{else}}&mdash;{{end}}</td></tr>
      {{end}}
    </table>
    {{else}}<p class="placeholder">No data available</p>{{end}}

    <h2>Target Audience</h2>
    {{if and .Analysis .Analysis.TargetAudience.Description}}
    <p>{{.Analysis.TargetAudience.Description}}</p>
    {{if .Analysis.TargetAudience.Demographics}}<p><strong>Demographics</strong></p><ul>{{range .Analysis.TargetAudience.Demographics}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{if .Analysis.TargetAudience.Needs}}<p><strong>Needs</strong></p><ul>{{range .Analysis.TargetAudience.Needs}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{else}}<p class="placeholder">No data available</p>{{end}}

    <h2>Industry Challenges</h2>
    {{if and .Analysis .Analysis.IndustryChallenges}}
    <ul>{{range .Analysis.IndustryChallenges}}<li>{{.}}</li>{{end}}</ul>
    {{else}}<p class="placeholder">No data available</p>{{end}}

    <h2>Keyword Opportunities</h2>
    {{if .Keywords}}
    <table>
      <tr><th>Keyword</th><th>Monthly Searches</th><th>Competition</th><th>CPC</th></tr>
      {{range .Keywords}}
      <tr><td>{{.Keyword}}</td><td>{{formatVolume .SearchVolume}}</td><td>{{printf "%.2f" .Competition}}</td><td>${{printf "%.2f" .CPC}}</td></tr>
      {{end}}
    </table>
    {{else if and .Analysis .Analysis.KeywordRecommendations}}
    <ul>{{range .Analysis.KeywordRecommendations}}<li>{{.}}</li>{{end}}</ul>
    {{else}}<p class="placeholder">No data available</p>{{end}}

    {{if .Rankings}}
    <h2>Current Search Rankings</h2>
    <table>
      <tr><th>Keyword</th><th>Position</th></tr>
      {{range .Rankings}}
      <tr><td>{{.Keyword}}</td><td>{{formatPosition .Position}}</td></tr>
      {{end}}
    </table>
    {{end}}

    <h2>Website Performance</h2>
    {{if .Performance}}
    <table>
      <tr><th>Category</th><th>Score</th><th></th></tr>
      <tr><td>Performance</td><td><span class="badge" style="background-color: {{scoreColor .Performance.Performance}}">{{.Performance.Performance}}</span></td><td><div class="bar-track"><div class="bar-fill" style="width: {{.Performance.Performance}}%; background-color: {{scoreColor .Performance.Performance}}"></div></div></td></tr>
      <tr><td>SEO</td><td><span class="badge" style="background-color: {{scoreColor .Performance.SEO}}">{{.Performance.SEO}}</span></td><td><div class="bar-track"><div class="bar-fill" style="width: {{.Performance.SEO}}%; background-color: {{scoreColor .Performance.SEO}}"></div></div></td></tr>
      <tr><td>Accessibility</td><td><span class="badge" style="background-color: {{scoreColor .Performance.Accessibility}}">{{.Performance.Accessibility}}</span></td><td><div class="bar-track"><div class="bar-fill" style="width: {{.Performance.Accessibility}}%; background-color: {{scoreColor .Performance.Accessibility}}"></div></div></td></tr>
      <tr><td>Best Practices</td><td><span class="badge" style="background-color: {{scoreColor .Performance.BestPractices}}">{{.Performance.BestPractices}}</span></td><td><div class="bar-track"><div class="bar-fill" style="width: {{.Performance.BestPractices}}%; background-color: {{scoreColor .Performance.BestPractices}}"></div></div></td></tr>
    </table>
    {{else}}<p class="placeholder">No data available</p>{{end}}

    <h2>Recommendations</h2>
    {{if and .Analysis (or .Analysis.Recommendations.Immediate .Analysis.Recommendations.ShortTerm .Analysis.Recommendations.LongTerm)}}
    {{if .Analysis.Recommendations.Immediate}}<p><strong>Immediate</strong></p><ul>{{range .Analysis.Recommendations.Immediate}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{if .Analysis.Recommendations.ShortTerm}}<p><strong>Short Term</strong></p><ul>{{range .Analysis.Recommendations.ShortTerm}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{if .Analysis.Recommendations.LongTerm}}<p><strong>Long Term</strong></p><ul>{{range .Analysis.Recommendations.LongTerm}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{else}}<p class="placeholder">No data available</p>{{end}}

  </div>
</div>
</body>
</html>
`))

// RenderAnalysisReport turns the structured analysis plus optional external
// data into the styled HTML deliverable.
func RenderAnalysisReport(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
