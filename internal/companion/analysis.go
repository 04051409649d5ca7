package companion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch indicates the language model's JSON did not match the
// company-analysis schema. The orchestrator treats it as a generation failure;
// a half-formed analysis never reaches the report assembler.
var ErrSchemaMismatch = errors.New("analysis response does not match expected schema")

// Competitor is one entry in the analysis competitor table.
type Competitor struct {
	Name      string `json:"name"`
	Website   string `json:"website,omitempty"`
	Strengths string `json:"strengths,omitempty"`
}

// TargetAudience profiles who the client's website should serve.
type TargetAudience struct {
	Description  string   `json:"description"`
	Demographics []string `json:"demographics,omitempty"`
	Needs        []string `json:"needs,omitempty"`
}

// Recommendations groups advice by horizon.
type Recommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

// CompanyAnalysis is the structured deliverable produced by the narrative
// generator for the company_analysis task type.
type CompanyAnalysis struct {
	BusinessOverview       string          `json:"businessOverview"`
	Competitors            []Competitor    `json:"competitors"`
	TargetAudience         TargetAudience  `json:"targetAudience"`
	IndustryChallenges     []string        `json:"industryChallenges"`
	KeywordRecommendations []string        `json:"keywordRecommendations"`
	Recommendations        Recommendations `json:"recommendations"`
}

// ParseCompanyAnalysis decodes and validates the model's analysis JSON.
// Validation happens here, at the boundary, so downstream code never has to
// probe for missing fields.
func ParseCompanyAnalysis(raw string) (*CompanyAnalysis, error) {
	cleaned := stripCodeFences(raw)

	var analysis CompanyAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	if strings.TrimSpace(analysis.BusinessOverview) == "" {
		return nil, fmt.Errorf("%w: missing businessOverview", ErrSchemaMismatch)
	}

	return &analysis, nil
}
