package companion

import (
	"encoding/json"
	"fmt"
)

// ProposalPricing carries the pricing figures stored as task metadata.
type ProposalPricing struct {
	ProjectTotalFee float64 `json:"projectTotalFee"`
	CarePlanMonthly float64 `json:"carePlanMonthly"`
}

// proposalResponse is the canonical object-shaped generator contract for the
// proposal deliverable. A legacy string-shaped response (bare proposal text
// with no pricing object) is also accepted: the text becomes the content and
// pricing falls back entirely to the client's project value.
type proposalResponse struct {
	Content string          `json:"content"`
	Pricing ProposalPricing `json:"pricing"`
}

// parseProposal decodes the proposal response, applying the project-value
// fallback when the generator supplied no fee.
func parseProposal(raw string, fallbackFee float64) (content string, pricing ProposalPricing, err error) {
	cleaned := stripCodeFences(raw)

	var resp proposalResponse
	if jsonErr := json.Unmarshal([]byte(cleaned), &resp); jsonErr != nil || resp.Content == "" {
		// Legacy string-shaped response: treat the whole payload as content.
		if cleaned == "" {
			return "", ProposalPricing{}, fmt.Errorf("%w: empty proposal response", ErrSchemaMismatch)
		}
		resp = proposalResponse{Content: cleaned}
	}

	if resp.Pricing.ProjectTotalFee <= 0 {
		resp.Pricing.ProjectTotalFee = fallbackFee
	}

	return resp.Content, resp.Pricing, nil
}

// marshalPricing encodes pricing as the metadata JSON string.
func marshalPricing(p ProposalPricing) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal pricing: %w", err)
	}
	return string(data), nil
}
