package companion

import (
	"fmt"
	"strings"

	"github.com/brightpixel/companion/internal/types"
)

const systemPrompt = "You are a senior strategist at a web design and digital marketing agency. " +
	"You write polished, client-ready business documents. Be specific and concrete; " +
	"never invent numbers you were not given."

// truncateContext caps auxiliary context fed into a prompt so a long prior
// analysis cannot crowd out the instructions.
func truncateContext(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[truncated]"
}

// writeClientInfo renders the shared client header every prompt starts from.
func writeClientInfo(b *strings.Builder, client *types.Client) {
	b.WriteString("CLIENT INFORMATION:\n")
	b.WriteString(fmt.Sprintf("- Company: %s\n", client.Name))
	if client.ContactName != "" {
		contact := client.ContactName
		if client.ContactTitle != "" {
			contact += " (" + client.ContactTitle + ")"
		}
		b.WriteString(fmt.Sprintf("- Contact: %s\n", contact))
	}
	if client.Industry != "" {
		b.WriteString(fmt.Sprintf("- Industry: %s\n", client.Industry))
	}
	if client.Website != "" {
		b.WriteString(fmt.Sprintf("- Website: %s\n", client.Website))
	}
	b.WriteString(fmt.Sprintf("- Project phase: %s\n", client.Status))
	if client.ProjectValue > 0 {
		b.WriteString(fmt.Sprintf("- Estimated project value: $%.2f\n", client.ProjectValue))
	}
	b.WriteString("\n")
}

// BuildAnalysisPrompt asks for the strict-JSON company analysis.
func BuildAnalysisPrompt(client *types.Client) string {
	var b strings.Builder
	b.WriteString("Produce a company analysis for the client below.\n\n")
	writeClientInfo(&b, client)
	b.WriteString("Respond with a single JSON object, no surrounding prose, using exactly this shape:\n")
	b.WriteString(`{
  "businessOverview": "2-3 paragraph overview of the business, its market position, and its online presence",
  "competitors": [{"name": "", "website": "", "strengths": ""}],
  "targetAudience": {"description": "", "demographics": [""], "needs": [""]},
  "industryChallenges": [""],
  "keywordRecommendations": [""],
  "recommendations": {"immediate": [""], "shortTerm": [""], "longTerm": [""]}
}`)
	b.WriteString("\n\nInclude 3-5 competitors, 3-5 industry challenges, and 5 keyword recommendations. ")
	b.WriteString("Recommendations cover three horizons: immediate (this month), shortTerm (this quarter), longTerm (this year).")
	return b.String()
}

// BuildKeywordPrompt asks for up to five SEO keywords as strict JSON.
func BuildKeywordPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract the 5 most valuable SEO keywords from the following business description. ")
	b.WriteString("Prefer multi-word phrases a potential customer would actually search for.\n\n")
	b.WriteString(truncateContext(text, 4000))
	b.WriteString("\n\nRespond with a single JSON object: {\"keywords\": [\"...\"]}")
	return b.String()
}

// BuildProposalPrompt asks for a project proposal with object-shaped pricing.
func BuildProposalPrompt(client *types.Client, analysisContext, discoveryNotes string) string {
	var b strings.Builder
	b.WriteString("Draft a web design and marketing project proposal for the client below.\n\n")
	writeClientInfo(&b, client)
	if discoveryNotes != "" {
		b.WriteString("DISCOVERY CALL NOTES:\n")
		b.WriteString(truncateContext(discoveryNotes, 3000))
		b.WriteString("\n\n")
	}
	if analysisContext != "" {
		b.WriteString("PRIOR COMPANY ANALYSIS (use for context):\n")
		b.WriteString(truncateContext(analysisContext, 6000))
		b.WriteString("\n\n")
	}
	b.WriteString("The proposal covers: project understanding, proposed scope of work, timeline by phase ")
	b.WriteString("(Discovery, Planning, Design and Development, Post Launch Management), and investment.\n\n")
	b.WriteString("Respond with a single JSON object, no surrounding prose:\n")
	b.WriteString(`{
  "content": "the full proposal text, formatted with section headings",
  "pricing": {"projectTotalFee": 0, "carePlanMonthly": 0}
}`)
	if client.ProjectValue > 0 {
		b.WriteString(fmt.Sprintf("\n\nAnchor projectTotalFee near the client's estimated project value of $%.2f.", client.ProjectValue))
	}
	return b.String()
}

// BuildContractPrompt asks for a services agreement draft.
func BuildContractPrompt(client *types.Client) string {
	var b strings.Builder
	b.WriteString("Draft a website design and development services agreement for the client below.\n\n")
	writeClientInfo(&b, client)
	b.WriteString("Cover: parties, scope of services, deliverables, payment schedule, intellectual property, ")
	b.WriteString("revisions policy, termination, and limitation of liability. ")
	b.WriteString("Use placeholder brackets like [DATE] where real details are unknown. ")
	b.WriteString("Plain text with numbered sections; no JSON, no markdown fences.")
	return b.String()
}

// BuildSiteMapPrompt asks for a proposed site map.
func BuildSiteMapPrompt(client *types.Client, discoveryNotes string) string {
	var b strings.Builder
	b.WriteString("Propose a website site map for the client below.\n\n")
	writeClientInfo(&b, client)
	if discoveryNotes != "" {
		b.WriteString("DISCOVERY CALL NOTES:\n")
		b.WriteString(truncateContext(discoveryNotes, 3000))
		b.WriteString("\n\n")
	}
	b.WriteString("List each top-level page with its child pages indented beneath it, and one sentence ")
	b.WriteString("describing the purpose of every page. Plain text outline; no JSON.")
	return b.String()
}

// BuildStatusUpdatePrompt asks for a client-facing status update email.
func BuildStatusUpdatePrompt(client *types.Client, discoveryNotes string) string {
	var b strings.Builder
	b.WriteString("Write a client-facing project status update email for the client below.\n\n")
	writeClientInfo(&b, client)
	if discoveryNotes != "" {
		b.WriteString("CURRENT PROJECT NOTES:\n")
		b.WriteString(truncateContext(discoveryNotes, 3000))
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("The project is currently in the %q phase. ", client.Status))
	b.WriteString("Summarize what has been completed, what is in progress, and what comes next. ")
	b.WriteString("Warm but professional tone. Plain text email body including a subject line.")
	return b.String()
}

// BuildScheduleDiscoveryPrompt asks for a discovery-call scheduling email.
func BuildScheduleDiscoveryPrompt(client *types.Client) string {
	var b strings.Builder
	b.WriteString("Write a short email to schedule a discovery call with the client below.\n\n")
	writeClientInfo(&b, client)
	b.WriteString("Introduce the agency, explain what a discovery call covers, and propose scheduling. ")
	b.WriteString("Address the contact by name when one is provided. ")
	b.WriteString("Three short paragraphs at most. Plain text email body including a subject line.")
	return b.String()
}
