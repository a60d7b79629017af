package research

import (
	"fmt"
	"strings"

	"jobsearch-backend/internal/artifacts"
)

const companyResearchPrompt = `You are a company research analyst. Provide an overview of the company below for a job seeker.

Company: %s
%s
Return a JSON object with this exact structure:
{
  "companyName": "<official company name>",
  "industry": "<primary industry>",
  "size": "<employee count or range, e.g. '51-200', '1000+'>",
  "location": "<headquarters location>",
  "founded": "<founding year or decade>",
  "website": "<company website URL>",
  "description": "<3-4 sentence overview>",
  "culture": "<2-3 sentences about work culture, values, remote policy>",
  "leadership": [<key executives, e.g. "Jane Roe (CEO)">],
  "products": [<main products or services>],
  "news": [<up to 3 recent notable events>]
}

If you have no reliable information about this company, return the single value %s instead.
Return ONLY the JSON object or the sentinel, no markdown, no explanation.`

func buildCompanyResearchPrompt(companyName, supportingContent string) string {
	support := ""
	if strings.TrimSpace(supportingContent) != "" {
		support = "\nUse the following retrieved content as supporting context:\n\n" + supportingContent + "\n"
	}
	return fmt.Sprintf(companyResearchPrompt, companyName, support, artifacts.NotFoundSentinel)
}
