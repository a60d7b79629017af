package artifacts

import (
	"encoding/json"
	"strings"
)

// NotFoundSentinel is the literal value the generation capability returns
// when it has no basis to answer a research request.
const NotFoundSentinel = "NOT_FOUND"

// Recognized wrapper keys for shape-drift coercion. Model output frequently
// wraps scalar fields in single-key objects; these are the variants observed
// in practice.
var (
	summaryKeys = []string{"text", "value", "summary", "content"}
	skillKeys   = []string{"name", "skill", "text", "value"}
	bulletKeys  = []string{"text", "bullet", "value", "description"}
)

// DecodeResponse turns a capability result into a generic JSON document.
// A parsed structured payload is preferred; otherwise the text is stripped
// of markdown fences and strictly parsed. The NOT_FOUND sentinel yields
// ErrNoResult; anything else unparseable yields ErrInvalidFormat.
func DecodeResponse(structured json.RawMessage, text string) (map[string]any, error) {
	if len(structured) > 0 {
		var doc map[string]any
		if err := json.Unmarshal(structured, &doc); err == nil && doc != nil {
			return doc, nil
		}
	}

	cleaned := StripFences(text)
	if IsNotFound(cleaned) {
		return nil, ErrNoResult
	}
	if cleaned == "" {
		return nil, ErrInvalidFormat
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, ErrInvalidFormat
	}
	return doc, nil
}

// StripFences removes surrounding markdown code fences from text.
func StripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop a language tag on the opening fence line, e.g. ```json.
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(cleaned[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]\"") {
			cleaned = cleaned[idx+1:]
		}
	} else {
		cleaned = strings.TrimPrefix(cleaned, "json")
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// IsNotFound reports whether text is the not-found sentinel.
func IsNotFound(text string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(text), `"`), NotFoundSentinel)
}

// NormalizeResume shapes a decoded document into ResumeContent.
func NormalizeResume(doc map[string]any) (ResumeContent, error) {
	if doc == nil {
		return ResumeContent{}, ErrInvalidFormat
	}
	content := ResumeContent{
		Summary:       coerceStringField(doc["summary"], summaryKeys),
		OrderedSkills: coerceStringList(doc["ordered_skills"], skillKeys),
		Sections: ResumeSections{
			Experience: coerceExperience(sectionsValue(doc, "experience")),
		},
	}
	if content.OrderedSkills == nil {
		content.OrderedSkills = []string{}
	}
	return content, nil
}

// NormalizeCoverLetter shapes a decoded document into CoverLetterContent.
func NormalizeCoverLetter(doc map[string]any) (CoverLetterContent, error) {
	if doc == nil {
		return CoverLetterContent{}, ErrInvalidFormat
	}
	sections, _ := doc["sections"].(map[string]any)
	if sections == nil {
		sections = doc
	}
	content := CoverLetterContent{
		Sections: CoverLetterSections{
			Opening: coerceStringField(sections["opening"], summaryKeys),
			Body:    coerceStringList(sections["body"], bulletKeys),
			Closing: coerceStringField(sections["closing"], summaryKeys),
		},
	}
	if content.Sections.Body == nil {
		content.Sections.Body = []string{}
	}
	return content, nil
}

// NormalizeSkillsOptimization shapes a decoded document into SkillsOptimizationContent.
func NormalizeSkillsOptimization(doc map[string]any) (SkillsOptimizationContent, error) {
	if doc == nil {
		return SkillsOptimizationContent{}, ErrInvalidFormat
	}
	content := SkillsOptimizationContent{
		Summary:         coerceStringField(doc["summary"], summaryKeys),
		OrderedSkills:   coerceStringList(doc["ordered_skills"], skillKeys),
		MissingSkills:   coerceStringList(doc["missing_skills"], skillKeys),
		Recommendations: coerceStringList(doc["recommendations"], bulletKeys),
	}
	if content.OrderedSkills == nil {
		content.OrderedSkills = []string{}
	}
	if content.MissingSkills == nil {
		content.MissingSkills = []string{}
	}
	if content.Recommendations == nil {
		content.Recommendations = []string{}
	}
	return content, nil
}

// NormalizeExperienceTailoring shapes a decoded document into ExperienceTailoringContent.
func NormalizeExperienceTailoring(doc map[string]any) (ExperienceTailoringContent, error) {
	if doc == nil {
		return ExperienceTailoringContent{}, ErrInvalidFormat
	}
	raw := doc["experience"]
	if raw == nil {
		raw = sectionsValue(doc, "experience")
	}
	return ExperienceTailoringContent{
		Summary:    coerceStringField(doc["summary"], summaryKeys),
		Experience: coerceExperience(raw),
	}, nil
}

// NormalizeCompanyResearch shapes a decoded document into CompanyResearchContent.
// The size field is mapped onto the given bucket policy.
func NormalizeCompanyResearch(doc map[string]any, buckets SizeBuckets) (CompanyResearchContent, error) {
	if doc == nil {
		return CompanyResearchContent{}, ErrInvalidFormat
	}
	name := coerceStringField(firstValue(doc, "companyName", "company_name", "name"), summaryKeys)
	if name == "" {
		return CompanyResearchContent{}, ErrInvalidFormat
	}
	content := CompanyResearchContent{
		CompanyName: name,
		Industry:    coerceStringField(doc["industry"], summaryKeys),
		Size:        buckets.Canonical(coerceStringField(doc["size"], summaryKeys)),
		Location:    coerceStringField(doc["location"], summaryKeys),
		Founded:     coerceStringField(doc["founded"], summaryKeys),
		Website:     coerceStringField(doc["website"], summaryKeys),
		Description: coerceStringField(doc["description"], summaryKeys),
		Culture:     coerceStringField(doc["culture"], summaryKeys),
		Leadership:  coerceStringList(doc["leadership"], skillKeys),
		Products:    coerceStringList(doc["products"], skillKeys),
		News:        coerceStringList(doc["news"], bulletKeys),
	}
	if content.Leadership == nil {
		content.Leadership = []string{}
	}
	if content.Products == nil {
		content.Products = []string{}
	}
	if content.News == nil {
		content.News = []string{}
	}
	return content, nil
}

// NormalizeSalaryResearch shapes a decoded document into SalaryResearchContent.
func NormalizeSalaryResearch(doc map[string]any) (SalaryResearchContent, error) {
	if doc == nil {
		return SalaryResearchContent{}, ErrInvalidFormat
	}
	rng, ok := doc["range"].(map[string]any)
	if !ok {
		return SalaryResearchContent{}, ErrInvalidFormat
	}
	low, okLow := coerceInt(rng["low"])
	avg, okAvg := coerceInt(firstValue(rng, "avg", "average", "median"))
	high, okHigh := coerceInt(rng["high"])
	if !okLow || !okAvg || !okHigh {
		return SalaryResearchContent{}, ErrInvalidFormat
	}
	return SalaryResearchContent{
		Range:          SalaryRange{Low: low, Avg: avg, High: high},
		TotalComp:      coerceStringField(firstValue(doc, "totalComp", "total_comp"), summaryKeys),
		Trend:          coerceStringField(doc["trend"], summaryKeys),
		Recommendation: coerceStringField(doc["recommendation"], summaryKeys),
	}, nil
}

// coerceStringField reduces a bare string or a single-key wrapper object to a
// trimmed string. Unresolvable values reduce to "".
func coerceStringField(v any, keys []string) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, key := range keys {
			if inner, ok := val[key]; ok {
				if s, ok := inner.(string); ok {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// coerceStringList reduces a list of strings or wrapper objects to a flat
// string slice, preserving input order and dropping unresolvable entries.
func coerceStringList(v any, keys []string) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := coerceStringField(item, keys); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceExperience(v any) []ExperienceSection {
	list, ok := v.([]any)
	if !ok {
		return []ExperienceSection{}
	}
	out := make([]ExperienceSection, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		section := ExperienceSection{
			Company: coerceStringField(firstValue(entry, "company", "employer"), summaryKeys),
			Role:    coerceStringField(firstValue(entry, "role", "title", "position"), summaryKeys),
			Bullets: coerceStringList(entry["bullets"], bulletKeys),
		}
		if section.Bullets == nil {
			section.Bullets = []string{}
		}
		out = append(out, section)
	}
	return out
}

func coerceInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		cleaned = strings.TrimPrefix(cleaned, "$")
		n := 0
		for _, r := range cleaned {
			if r < '0' || r > '9' {
				return 0, false
			}
			n = n*10 + int(r-'0')
		}
		if cleaned == "" {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func sectionsValue(doc map[string]any, key string) any {
	if sections, ok := doc["sections"].(map[string]any); ok {
		return sections[key]
	}
	return nil
}

func firstValue(doc map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
