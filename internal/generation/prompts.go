package generation

import (
	"fmt"
	"strings"

	"jobsearch-backend/internal/artifacts"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/profile"
)

const resumePromptTemplate = `You are an expert resume writer. Tailor the candidate's resume to the job below.

%s
%s%s
Return a JSON object with this exact structure:
{
  "summary": "<3-4 sentence professional summary tailored to the job>",
  "ordered_skills": [<candidate skills ordered by relevance to the job>],
  "sections": {
    "experience": [
      {"company": "<company>", "role": "<role>", "bullets": [<achievement bullets rewritten for the job>]}
    ]
  }
}

Only use facts from the candidate profile. Never invent employers, dates, or credentials.
Return ONLY the JSON object, no markdown, no explanation.`

const coverLetterPromptTemplate = `You are an expert cover letter writer. Write a cover letter for the candidate applying to the job below.

%s
%s%s%s
Return a JSON object with this exact structure:
{
  "sections": {
    "opening": "<opening paragraph naming the role and company>",
    "body": [<2-3 body paragraphs connecting the candidate's experience to the job>],
    "closing": "<closing paragraph with a call to action>"
  }
}

Only use facts from the candidate profile. Keep the tone professional and specific.
Return ONLY the JSON object, no markdown, no explanation.`

const skillsPromptTemplate = `You are a career advisor. Analyze how well the candidate's skills match the job below.

%s
%s%s
Return a JSON object with this exact structure:
{
  "summary": "<2-3 sentence assessment of the skills match>",
  "ordered_skills": [<candidate skills ordered by relevance to the job>],
  "missing_skills": [<skills the job asks for that the candidate lacks>],
  "recommendations": [<concrete steps to close the gaps>]
}

Return ONLY the JSON object, no markdown, no explanation.`

const experiencePromptTemplate = `You are a career advisor. Rewrite the candidate's experience entries to target the job below.

%s
%s%s
Return a JSON object with this exact structure:
{
  "summary": "<2-3 sentences on how the experience was repositioned>",
  "experience": [
    {"company": "<company>", "role": "<role>", "bullets": [<achievement bullets rewritten for the job>]}
  ]
}

Only use facts from the candidate profile. Never invent employers or achievements.
Return ONLY the JSON object, no markdown, no explanation.`

const salaryPromptTemplate = `You are a compensation analyst. Estimate the current market salary for the role below.

Role: %s
Location: %s

Return a JSON object with this exact structure:
{
  "range": {"low": <annual low in USD>, "avg": <annual average in USD>, "high": <annual high in USD>},
  "totalComp": "<1-2 sentences on total compensation beyond base salary>",
  "trend": "<1-2 sentences on where this market is heading>",
  "recommendation": "<1-2 sentences of negotiation advice>"
}

If you have no reliable market data for this role, return the single value %s instead.
Return ONLY the JSON object or the sentinel, no markdown, no explanation.`

func buildResumePrompt(prof profile.Comprehensive, job jobs.Job, opts Options) string {
	return fmt.Sprintf(resumePromptTemplate, jobContext(job), profileContext(prof), instructionsBlock(opts))
}

func buildCoverLetterPrompt(prof profile.Comprehensive, job jobs.Job, company *artifacts.CompanyResearchContent, opts Options) string {
	return fmt.Sprintf(coverLetterPromptTemplate, jobContext(job), profileContext(prof), companyContext(company), instructionsBlock(opts))
}

func buildSkillsPrompt(prof profile.Comprehensive, job jobs.Job, opts Options) string {
	return fmt.Sprintf(skillsPromptTemplate, jobContext(job), profileContext(prof), instructionsBlock(opts))
}

func buildExperiencePrompt(prof profile.Comprehensive, job jobs.Job, opts Options) string {
	return fmt.Sprintf(experiencePromptTemplate, jobContext(job), profileContext(prof), instructionsBlock(opts))
}

func buildSalaryPrompt(title, location string) string {
	if strings.TrimSpace(location) == "" {
		location = "United States (national average)"
	}
	return fmt.Sprintf(salaryPromptTemplate, title, location, artifacts.NotFoundSentinel)
}

func jobContext(job jobs.Job) string {
	var b strings.Builder
	b.WriteString("Job posting:\n")
	fmt.Fprintf(&b, "- Title: %s\n", job.Title)
	if job.Company != "" {
		fmt.Fprintf(&b, "- Company: %s\n", job.Company)
	}
	if job.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", job.Location)
	}
	if desc := strings.TrimSpace(job.Description); desc != "" {
		b.WriteString("- Description:\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}

func profileContext(prof profile.Comprehensive) string {
	var b strings.Builder
	b.WriteString("Candidate profile:\n")
	p := prof.Profile
	if p.FullName != "" {
		fmt.Fprintf(&b, "- Name: %s\n", p.FullName)
	}
	if p.Headline != "" {
		fmt.Fprintf(&b, "- Headline: %s\n", p.Headline)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, "- Summary: %s\n", p.Summary)
	}

	if len(prof.Employment) > 0 {
		b.WriteString("\nEmployment history:\n")
		for _, e := range prof.Employment {
			fmt.Fprintf(&b, "- %s at %s (%s)\n", e.Role, e.Company, dateRange(e.StartDate, e.EndDate))
			if e.Description != "" {
				fmt.Fprintf(&b, "  %s\n", e.Description)
			}
		}
	}
	if len(prof.Skills) > 0 {
		names := make([]string, 0, len(prof.Skills))
		for _, s := range prof.Skills {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(names, ", "))
	}
	if len(prof.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, e := range prof.Education {
			fmt.Fprintf(&b, "- %s, %s (%s)\n", e.Degree, e.Institution, dateRange(e.StartDate, e.EndDate))
		}
	}
	if len(prof.Projects) > 0 {
		b.WriteString("\nProjects:\n")
		for _, p := range prof.Projects {
			fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Description)
		}
	}
	if len(prof.Certifications) > 0 {
		b.WriteString("\nCertifications:\n")
		for _, c := range prof.Certifications {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Issuer)
		}
	}
	return b.String()
}

func companyContext(company *artifacts.CompanyResearchContent) string {
	if company == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nWhat we know about the company:\n")
	if company.Description != "" {
		fmt.Fprintf(&b, "- %s\n", company.Description)
	}
	if company.Culture != "" {
		fmt.Fprintf(&b, "- Culture: %s\n", company.Culture)
	}
	if len(company.Products) > 0 {
		fmt.Fprintf(&b, "- Products: %s\n", strings.Join(company.Products, ", "))
	}
	return b.String()
}

func instructionsBlock(opts Options) string {
	if strings.TrimSpace(opts.Instructions) == "" {
		return ""
	}
	return "\nAdditional instructions from the candidate:\n" + strings.TrimSpace(opts.Instructions) + "\n"
}

func dateRange(start, end string) string {
	if end == "" {
		end = "present"
	}
	if start == "" {
		return end
	}
	return start + " to " + end
}
