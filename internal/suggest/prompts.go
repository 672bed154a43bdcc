package suggest

import (
	"fmt"
	"strings"
)

const (
	opJobTitles      = "suggest_job_titles"
	opMustHaves      = "suggest_must_haves"
	opJobDescription = "generate_job_description"
	opScoreResume    = "score_resume"

	tempJobTitles      = 0.4
	tempMustHaves      = 0.3
	tempJobDescription = 0.5
	tempScoreResume    = 0.2
)

const jobTitlesSchema = `{
  "type": "object",
  "required": ["titles"],
  "properties": {
    "titles": {
      "type": "array",
      "minItems": 3,
      "maxItems": 8,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

const mustHavesSchema = `{
  "type": "object",
  "required": ["mustHaves"],
  "properties": {
    "mustHaves": {
      "type": "array",
      "minItems": 3,
      "maxItems": 10,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

const jobDescriptionSchema = `{
  "type": "object",
  "required": ["description"],
  "properties": {
    "description": {"type": "string", "minLength": 50}
  }
}`

const scoreResumeSchema = `{
  "type": "object",
  "required": ["score", "cvScore", "cvTips"],
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "cvScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "cvTips": {
      "type": "array",
      "minItems": 3,
      "maxItems": 8,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

const jsonOnly = `
Return only valid JSON matching the requested shape. Do not include explanations, markdown, or text before or after the JSON.`

const jobTitlesInstruction = `You are a recruiting assistant that suggests job titles for an open position.
Suggest between 3 and 8 distinct, commonly used job titles that fit the industry and description.
Respond with {"titles": [string]}.` + jsonOnly

const mustHavesInstruction = `You are a recruiting assistant that writes the must-have requirements for a job.
List between 3 and 10 concise, concrete requirements a candidate must meet. Match the seniority when given.
Respond with {"mustHaves": [string]}.` + jsonOnly

const jobDescriptionInstruction = `You are a recruiting assistant that writes job descriptions.
Write a complete, plain-text job description with a header, an about section, responsibilities, the must-haves, any extras, and a call to action.
Do not invent benefits or salary figures that are not provided.
Respond with {"description": string}.` + jsonOnly

const scoreResumeInstruction = `You are an expert recruiter scoring how well a resume fits a job.
Base all reasoning only on the provided text. Do not assume experience that is not explicitly mentioned.
score is the overall fit from 0 to 100. cvScore rates the resume document itself from 0 to 100.
cvTips are 3 to 8 actionable improvements for the candidate.
Respond with {"score": integer, "cvScore": integer, "cvTips": [string]}.` + jsonOnly

func jobTitlesPrompt(industry, description string) string {
	return fmt.Sprintf("Industry:\n%s\n\nDescription:\n%s", orNone(industry), orNone(description))
}

func mustHavesPrompt(jobTitle, industry, seniority string) string {
	return fmt.Sprintf("Job Title:\n%s\n\nIndustry:\n%s\n\nSeniority:\n%s", jobTitle, orNone(industry), orNone(seniority))
}

func jobDescriptionPrompt(jobTitle string, mustHaves []string, business Business, extras []string) string {
	return fmt.Sprintf(
		"Job Title:\n%s\n\nCompany:\n%s\n\nIndustry:\n%s\n\nLocation:\n%s\n\nAbout:\n%s\n\nMust-haves:\n%s\n\nExtras:\n%s",
		jobTitle,
		orNone(business.Name),
		orNone(business.Industry),
		orNone(business.Location),
		orNone(business.About),
		bullets(mustHaves),
		bullets(extras),
	)
}

func scoreResumePrompt(job JobContext, resumeText string) string {
	return fmt.Sprintf(
		"Job Title:\n%s\n\nMust-haves:\n%s\n\nJob Description:\n%s\n\nResume:\n%s",
		job.Title,
		bullets(job.MustHaves),
		orNone(job.Description),
		resumeText,
	)
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "(none)"
	}
	return s
}

func bullets(items []string) string {
	items = dedupe(items, 0)
	if len(items) == 0 {
		return "(none)"
	}
	return "- " + strings.Join(items, "\n- ")
}
