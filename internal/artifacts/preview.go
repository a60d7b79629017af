package artifacts

import (
	"encoding/json"
	"strings"
)

const previewMaxLen = 400

// BuildPreview produces a short human-readable excerpt of content suitable
// for a UI summary. It prefers the kind's leading prose and falls back to a
// truncated JSON stringification.
func BuildPreview(content any) string {
	switch c := content.(type) {
	case ResumeContent:
		if c.Summary != "" {
			return truncatePreview(c.Summary)
		}
		return truncatePreview(firstBullets(c.Sections.Experience))
	case CoverLetterContent:
		if c.Sections.Opening != "" {
			return truncatePreview(c.Sections.Opening)
		}
		if len(c.Sections.Body) > 0 {
			return truncatePreview(c.Sections.Body[0])
		}
	case SkillsOptimizationContent:
		if c.Summary != "" {
			return truncatePreview(c.Summary)
		}
		return truncatePreview(strings.Join(c.OrderedSkills, ", "))
	case ExperienceTailoringContent:
		if c.Summary != "" {
			return truncatePreview(c.Summary)
		}
		return truncatePreview(firstBullets(c.Experience))
	case CompanyResearchContent:
		if c.Description != "" {
			return truncatePreview(c.Description)
		}
		return truncatePreview(c.CompanyName)
	case SalaryResearchContent:
		if c.Recommendation != "" {
			return truncatePreview(c.Recommendation)
		}
	}

	data, err := json.Marshal(content)
	if err != nil {
		return ""
	}
	return truncatePreview(string(data))
}

func firstBullets(sections []ExperienceSection) string {
	for _, section := range sections {
		if len(section.Bullets) > 0 {
			return strings.Join(section.Bullets, " ")
		}
	}
	return ""
}

func truncatePreview(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= previewMaxLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= previewMaxLen {
		return text
	}
	return string(runes[:previewMaxLen-3]) + "..."
}
