package stages

import (
	"fmt"
	"strings"
)

const companyPrompt = `From the following job posting text, extract only the name of the company that is hiring.
Reply with the company name and nothing else. If the company cannot be determined, return "Unknown".

JOB POSTING:
%s`

const metadataPrompt = `You are classifying a job posting for a job search tracker.

Return ONLY valid JSON with this exact schema:
{
  "role_title": "<the job title as written in the posting>",
  "company_type": "<one of: %s>",
  "company_size_bucket": "<one of: %s>",
  "role_focus": "<one of: %s>",
  "role_level": "<one of: %s>"
}

Pick the closest value for each field. Do not invent new values.

JOB POSTING:
%s`

const fitScorePrompt = `You are a conservative technical recruiter scoring how well a candidate fits a job.

Return ONLY valid JSON with this exact schema:
{"fit_score_0_to_100": <number>}

Rubric:
- 90-100: rare; meets essentially every requirement with direct, recent evidence
- 75-89: strong fit; meets most requirements, minor gaps
- 55-74: moderate fit; meaningful gaps but transferable experience
- 35-54: weak fit; several core requirements missing
- 0-34: poor fit

Score only on evidence in the resume. Do not reward keyword overlap alone.

JOB POSTING:
%s

RESUME:
%s`

const analyzePrompt = `You are comparing a resume against a job posting.

Return ONLY valid JSON with this exact schema:
{
  "fit_score_0_to_100": <number>,
  "must_have_keywords": ["<keyword>"],
  "nice_to_have_keywords": ["<keyword>"],
  "missing_keywords_from_resume": ["<keyword>"],
  "top_resume_points_to_emphasize": ["<short point>"]
}

Keywords come from the posting. Missing keywords are must-have or nice-to-have keywords the resume gives no evidence for.

JOB POSTING:
%s

RESUME:
%s`

const skillsPrompt = `You are helping a candidate tailor the skills section of a resume to a job posting.

Return ONLY valid JSON with this exact schema:
{
  "skills_to_consider_omitting": [{"skill": "<skill>", "reason": "<short reason>"}],
  "skills_to_consider_adding": [{"skill": "<skill>", "reason": "<short reason>"}]
}

Only suggest adding skills the resume gives evidence for. Use empty arrays when nothing applies.

JOB POSTING:
%s

RESUME:
%s`

const bulletsPrompt = `You are helping a candidate tailor resume bullets to a job posting.

Write 6-8 bullets grounded ONLY in the resume. Do not invent employers, numbers, or technologies.

Return ONLY valid JSON with this exact schema:
{
  "tailored_bullets": [
    {
      "bullet": "<resume bullet>",
      "why_it_matches": "<which requirement it addresses>",
      "placement": {
        "section": "<resume section>",
        "role_or_project": "<role or project name>",
        "action": "replace" | "append",
        "replace_bullet_index": <number or null>
      }
    }
  ]
}

JOB POSTING:
%s

RESUME:
%s`

const summaryPrompt = `Create a VERY concise, ADHD-friendly bullet summary based ONLY on the sources below.
Use these headers, each followed by short bullets:

What they do
Who they serve / customers
Product / platform clues
Engineering culture signals
Role-relevant talking points (3-5)
Good questions to ask (3)

Keep it to 250-350 words. If a point is not supported by the sources, write "Unknown".

%s`

const outreachPrompt = `Write a short cold outreach message to the hiring manager for this role.
3-5 sentences. Professional and specific. No buzzwords, no emojis, no greeting line placeholders.
Mention one concrete reason the candidate fits, based only on the resume.
Return plain text only.

JOB POSTING:
%s
%s
RESUME:
%s`

const coverLetterPrompt = `Write a cover letter for this role.
220-320 words, 3 short paragraphs. No buzzword soup and no claims the resume does not support.
Reference the company and role by name. End with a clear call to action.
Return plain text only.

POSTING URL: %s

JOB POSTING:
%s

RESUME:
%s`

func buildCompanyPrompt(job string) string {
	return fmt.Sprintf(companyPrompt, job)
}

func buildMetadataPrompt(job string) string {
	return fmt.Sprintf(metadataPrompt,
		strings.Join(CompanyTypes, ", "),
		strings.Join(CompanySizes, ", "),
		strings.Join(RoleFocuses, ", "),
		strings.Join(RoleLevels, ", "),
		job)
}

func buildFitScorePrompt(job, resume string) string {
	return fmt.Sprintf(fitScorePrompt, job, resume)
}

func buildAnalyzePrompt(job, resume string) string {
	return fmt.Sprintf(analyzePrompt, job, resume)
}

func buildSkillsPrompt(job, resume string) string {
	return fmt.Sprintf(skillsPrompt, job, resume)
}

func buildBulletsPrompt(job, resume string) string {
	return fmt.Sprintf(bulletsPrompt, job, resume)
}

func buildSummaryPrompt(sources string) string {
	return fmt.Sprintf(summaryPrompt, sources)
}

func buildOutreachPrompt(job, companySummary, resume string) string {
	extra := ""
	if companySummary != "" {
		extra = "\nCOMPANY SUMMARY:\n" + companySummary + "\n"
	}
	return fmt.Sprintf(outreachPrompt, job, extra, resume)
}

func buildCoverLetterPrompt(url, job, resume string) string {
	if url == "" {
		url = "Unknown"
	}
	return fmt.Sprintf(coverLetterPrompt, url, job, resume)
}
