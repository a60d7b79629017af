package artifacts

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDecodeResponsePrefersStructuredPayload(t *testing.T) {
	doc, err := DecodeResponse(json.RawMessage(`{"summary":"from json"}`), "ignored text")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["summary"] != "from json" {
		t.Fatalf("expected structured payload to win, got %#v", doc)
	}
}

func TestDecodeResponseStripsFences(t *testing.T) {
	cases := []string{
		"```json\n{\"summary\":\"ok\"}\n```",
		"```\n{\"summary\":\"ok\"}\n```",
		"  {\"summary\":\"ok\"}  ",
	}
	for _, raw := range cases {
		doc, err := DecodeResponse(nil, raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if doc["summary"] != "ok" {
			t.Fatalf("decode %q: got %#v", raw, doc)
		}
	}
}

func TestDecodeResponseInvalidFormat(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```\nstill not json\n```"} {
		_, err := DecodeResponse(nil, raw)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("decode %q: expected ErrInvalidFormat, got %v", raw, err)
		}
	}
}

func TestDecodeResponseNotFoundSentinel(t *testing.T) {
	for _, raw := range []string{"NOT_FOUND", "not_found", " NOT_FOUND \n", "```\nNOT_FOUND\n```", `"NOT_FOUND"`} {
		_, err := DecodeResponse(nil, raw)
		if !errors.Is(err, ErrNoResult) {
			t.Fatalf("decode %q: expected ErrNoResult, got %v", raw, err)
		}
	}
}

func TestNormalizeResumeSummaryVariants(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{"bare string", map[string]any{"summary": "  a summary  "}, "a summary"},
		{"wrapped under text", map[string]any{"summary": map[string]any{"text": "wrapped"}}, "wrapped"},
		{"wrapped under value", map[string]any{"summary": map[string]any{"value": "wrapped"}}, "wrapped"},
		{"absent", map[string]any{}, ""},
		{"unresolvable object", map[string]any{"summary": map[string]any{"unknown": 1}}, ""},
	}
	for _, tc := range cases {
		content, err := NormalizeResume(tc.doc)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if content.Summary != tc.want {
			t.Fatalf("%s: summary %q, want %q", tc.name, content.Summary, tc.want)
		}
	}
}

func TestNormalizeResumeSkillsPreserveOrderAndDropMalformed(t *testing.T) {
	doc := map[string]any{
		"ordered_skills": []any{
			"Go",
			map[string]any{"name": "Kubernetes"},
			map[string]any{"skill": "Postgres"},
			map[string]any{"weird": 42},
			float64(7),
			map[string]any{"value": "Terraform"},
		},
	}
	content, err := NormalizeResume(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []string{"Go", "Kubernetes", "Postgres", "Terraform"}
	if !reflect.DeepEqual(content.OrderedSkills, want) {
		t.Fatalf("skills %v, want %v", content.OrderedSkills, want)
	}
}

func TestNormalizeResumeExperienceBullets(t *testing.T) {
	doc := map[string]any{
		"sections": map[string]any{
			"experience": []any{
				map[string]any{
					"company": "Acme",
					"role":    "Engineer",
					"bullets": []any{
						"shipped the thing",
						map[string]any{"text": "wrapped bullet"},
						map[string]any{"nope": true},
					},
				},
			},
		},
	}
	content, err := NormalizeResume(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(content.Sections.Experience) != 1 {
		t.Fatalf("expected 1 experience section, got %d", len(content.Sections.Experience))
	}
	got := content.Sections.Experience[0]
	if got.Company != "Acme" || got.Role != "Engineer" {
		t.Fatalf("unexpected section header %#v", got)
	}
	want := []string{"shipped the thing", "wrapped bullet"}
	if !reflect.DeepEqual(got.Bullets, want) {
		t.Fatalf("bullets %v, want %v", got.Bullets, want)
	}
}

func TestNormalizeCoverLetterSections(t *testing.T) {
	doc := map[string]any{
		"sections": map[string]any{
			"opening": "Dear team,",
			"body":    []any{"para one", map[string]any{"text": "para two"}},
			"closing": map[string]any{"text": "Sincerely"},
		},
	}
	content, err := NormalizeCoverLetter(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.Sections.Opening != "Dear team," || content.Sections.Closing != "Sincerely" {
		t.Fatalf("unexpected sections %#v", content.Sections)
	}
	if !reflect.DeepEqual(content.Sections.Body, []string{"para one", "para two"}) {
		t.Fatalf("unexpected body %v", content.Sections.Body)
	}
}

func TestNormalizeCoverLetterFlatDocument(t *testing.T) {
	doc := map[string]any{
		"opening": "Hello,",
		"body":    []any{"only paragraph"},
		"closing": "Best",
	}
	content, err := NormalizeCoverLetter(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.Sections.Opening != "Hello," {
		t.Fatalf("flat documents should normalize too, got %#v", content.Sections)
	}
}

func TestNormalizeCompanyResearch(t *testing.T) {
	doc := map[string]any{
		"companyName": "Acme Corp",
		"industry":    "Software",
		"size":        "1000+",
		"location":    "Austin, TX",
		"founded":     "1999",
		"website":     "https://acme.example",
		"description": "Makes anvils and APIs.",
		"culture":     map[string]any{"text": "remote friendly"},
		"leadership":  []any{"Jane Roe (CEO)", map[string]any{"name": "Sam Lee (CTO)"}},
		"products":    []any{"Anvil Cloud"},
		"news":        []any{map[string]any{"text": "raised series C"}},
	}
	content, err := NormalizeCompanyResearch(doc, DefaultSizeBuckets())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected name %q", content.CompanyName)
	}
	if content.Size != "201-1000" {
		t.Fatalf("size %q, want canonical bucket 201-1000", content.Size)
	}
	if content.Culture != "remote friendly" {
		t.Fatalf("unexpected culture %q", content.Culture)
	}
	if !reflect.DeepEqual(content.Leadership, []string{"Jane Roe (CEO)", "Sam Lee (CTO)"}) {
		t.Fatalf("unexpected leadership %v", content.Leadership)
	}
}

func TestNormalizeCompanyResearchMissingNameFails(t *testing.T) {
	_, err := NormalizeCompanyResearch(map[string]any{"industry": "Software"}, DefaultSizeBuckets())
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestNormalizeSalaryResearch(t *testing.T) {
	doc := map[string]any{
		"range":          map[string]any{"low": float64(120000), "avg": float64(150000), "high": float64(185000)},
		"totalComp":      "160k-210k including equity",
		"trend":          "rising",
		"recommendation": "ask for 165k base",
	}
	content, err := NormalizeSalaryResearch(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.Range.Low != 120000 || content.Range.Avg != 150000 || content.Range.High != 185000 {
		t.Fatalf("unexpected range %+v", content.Range)
	}
}

func TestNormalizeSalaryResearchStringNumbersAndMedianKey(t *testing.T) {
	doc := map[string]any{
		"range": map[string]any{"low": "120,000", "median": "$150000", "high": "185000"},
	}
	content, err := NormalizeSalaryResearch(doc)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.Range.Avg != 150000 {
		t.Fatalf("median key should feed avg, got %+v", content.Range)
	}
}

func TestNormalizeSalaryResearchMissingRangeFails(t *testing.T) {
	_, err := NormalizeSalaryResearch(map[string]any{"trend": "flat"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestBuildPreviewCapsLength(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'a'
	}
	preview := BuildPreview(ResumeContent{Summary: string(long)})
	if len(preview) > previewMaxLen {
		t.Fatalf("preview length %d exceeds cap", len(preview))
	}
}

func TestBuildPreviewUsesFirstBullets(t *testing.T) {
	content := ResumeContent{
		Sections: ResumeSections{Experience: []ExperienceSection{
			{Bullets: []string{"did a thing", "did another"}},
		}},
	}
	preview := BuildPreview(content)
	if preview != "did a thing did another" {
		t.Fatalf("unexpected preview %q", preview)
	}
}
