package suggest

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minTitles     = 3
	maxTitles     = 8
	minMustHaves  = 3
	maxMustHaves  = 10
	minTips       = 3
	maxTips       = 8
	baseScore     = 50
	baseCVScore   = 45
	scorePerItem  = 8
	maxScore      = 95
	maxCVScore    = 90
	defaultRole   = "this role"
	metricsTip    = "Quantify your impact with numbers such as revenue grown, time saved, users served or team size."
	ctaParagraph  = "If this sounds like you, apply with your resume and a short note on why the role interests you. We read every application."
)

var industryTitles = map[string][]string{
	"technology":    {"Software Engineer", "Backend Engineer", "Frontend Engineer", "DevOps Engineer", "Product Manager", "QA Engineer"},
	"software":      {"Software Engineer", "Backend Engineer", "Frontend Engineer", "Site Reliability Engineer"},
	"healthcare":    {"Registered Nurse", "Medical Assistant", "Care Coordinator", "Healthcare Administrator"},
	"finance":       {"Financial Analyst", "Accountant", "Risk Analyst", "Compliance Officer"},
	"retail":        {"Store Manager", "Sales Associate", "Merchandiser", "Inventory Specialist"},
	"education":     {"Teacher", "Teaching Assistant", "Curriculum Developer", "Academic Advisor"},
	"marketing":     {"Marketing Manager", "Content Strategist", "SEO Specialist", "Social Media Manager"},
	"manufacturing": {"Production Supervisor", "Quality Inspector", "Maintenance Technician", "Process Engineer"},
	"hospitality":   {"Front Desk Agent", "Restaurant Manager", "Chef", "Guest Services Coordinator"},
	"logistics":     {"Logistics Coordinator", "Warehouse Supervisor", "Supply Chain Analyst", "Fleet Manager"},
	"construction":  {"Site Supervisor", "Project Engineer", "Estimator", "Safety Officer"},
}

var genericTitles = []string{"Operations Coordinator", "Customer Support Specialist", "Project Manager"}

type keywordTitle struct {
	pattern *regexp.Regexp
	titles  []string
}

var keywordTitles = []keywordTitle{
	{regexp.MustCompile(`(?i)\b(golang|backend|microservices?|apis?|postgres(ql)?)\b`), []string{"Backend Engineer"}},
	{regexp.MustCompile(`(?i)\b(react|vue|angular|frontend|front-end|css|typescript)\b`), []string{"Frontend Engineer"}},
	{regexp.MustCompile(`(?i)\b(kubernetes|terraform|devops|ci/cd|infrastructure)\b`), []string{"DevOps Engineer", "Site Reliability Engineer"}},
	{regexp.MustCompile(`(?i)\b(machine learning|ml|data science|statistics|analytics)\b`), []string{"Data Scientist", "Data Analyst"}},
	{regexp.MustCompile(`(?i)\b(ios|android|mobile)\b`), []string{"Mobile Engineer"}},
	{regexp.MustCompile(`(?i)\b(figma|ux|ui design|user research)\b`), []string{"Product Designer"}},
	{regexp.MustCompile(`(?i)\b(nurse|nursing|patients?|clinical)\b`), []string{"Registered Nurse"}},
	{regexp.MustCompile(`(?i)\b(sales|quota|pipeline|prospecting)\b`), []string{"Account Executive", "Sales Development Representative"}},
	{regexp.MustCompile(`(?i)\b(accounting|bookkeeping|ledger|payroll)\b`), []string{"Accountant"}},
	{regexp.MustCompile(`(?i)\b(seo|campaigns?|brand|content marketing)\b`), []string{"Marketing Manager"}},
	{regexp.MustCompile(`(?i)\b(customer support|customer service|helpdesk|tickets)\b`), []string{"Customer Support Specialist"}},
	{regexp.MustCompile(`(?i)\b(warehouse|shipping|inventory|supply chain)\b`), []string{"Logistics Coordinator"}},
}

type titleRequirement struct {
	keywords         []string
	requirements     []string
	responsibilities []string
}

var titleRequirements = []titleRequirement{
	{
		keywords:         []string{"engineer", "developer", "programmer"},
		requirements:     []string{"Professional experience building and shipping production software", "Solid grasp of data structures, testing and code review", "Experience with relational databases and HTTP APIs"},
		responsibilities: []string{"Design, build and maintain reliable services", "Review code and raise the quality bar of the codebase", "Work with product and design to scope and deliver features"},
	},
	{
		keywords:         []string{"designer"},
		requirements:     []string{"A portfolio showing end-to-end product design work", "Fluency with modern design tooling such as Figma", "Experience running or applying user research"},
		responsibilities: []string{"Turn user problems into clear flows and interfaces", "Maintain and extend the design system", "Validate designs with users and iterate"},
	},
	{
		keywords:         []string{"data", "analyst", "scientist"},
		requirements:     []string{"Strong SQL and spreadsheet skills", "Experience with statistics or data modelling", "Ability to present findings to non-technical stakeholders"},
		responsibilities: []string{"Build reports and dashboards the business relies on", "Answer open questions with data", "Keep data definitions consistent and documented"},
	},
	{
		keywords:         []string{"nurse", "medical", "care"},
		requirements:     []string{"Current professional licence or certification", "Experience with patient assessment and documentation", "Calm and compassionate bedside manner"},
		responsibilities: []string{"Deliver safe, high-quality patient care", "Keep accurate clinical records", "Coordinate with physicians and care teams"},
	},
	{
		keywords:         []string{"sales", "account executive", "business development"},
		requirements:     []string{"Track record of meeting or exceeding quota", "Experience managing a pipeline in a CRM", "Confident negotiation and presentation skills"},
		responsibilities: []string{"Own the sales cycle from first call to close", "Build lasting relationships with customers", "Forecast accurately and keep the CRM current"},
	},
	{
		keywords:         []string{"accountant", "finance", "financial"},
		requirements:     []string{"Relevant accounting qualification or degree", "Experience with month-end close and reconciliations", "Working knowledge of accounting software"},
		responsibilities: []string{"Prepare accurate financial statements", "Maintain ledgers and reconcile accounts", "Support audits and compliance reviews"},
	},
	{
		keywords:         []string{"marketing", "content", "seo"},
		requirements:     []string{"Experience planning and running campaigns", "Comfort with analytics and channel metrics", "Excellent writing and editing skills"},
		responsibilities: []string{"Plan and execute campaigns across channels", "Measure results and optimise spend", "Keep messaging consistent with the brand"},
	},
	{
		keywords:         []string{"manager", "lead", "head"},
		requirements:     []string{"Experience leading a team or function", "Ability to set goals and track progress", "Strong stakeholder management"},
		responsibilities: []string{"Set direction and priorities for the team", "Hire, coach and develop people", "Report progress to leadership"},
	},
	{
		keywords:         []string{"support", "customer", "service"},
		requirements:     []string{"Experience in a customer-facing role", "Patience and clear written communication", "Familiarity with ticketing tools"},
		responsibilities: []string{"Resolve customer questions quickly and accurately", "Escalate and track issues to resolution", "Share customer feedback with the product team"},
	},
}

var industryHints = map[string][]string{
	"technology":    {"Familiarity with cloud platforms"},
	"software":      {"Familiarity with cloud platforms"},
	"healthcare":    {"Knowledge of patient privacy regulations"},
	"finance":       {"Understanding of financial regulations and controls"},
	"retail":        {"Experience in a fast-paced customer environment"},
	"education":     {"Experience working with learners of different levels"},
	"marketing":     {"Portfolio of measurable campaign results"},
	"manufacturing": {"Knowledge of workplace safety standards"},
	"hospitality":   {"Flexibility to work shifts, weekends and holidays"},
	"logistics":     {"Familiarity with inventory or warehouse systems"},
	"construction":  {"Valid safety certification"},
}

var genericRequirements = []string{
	"Strong written and verbal communication",
	"Ability to work independently and as part of a team",
	"Attention to detail and ownership of outcomes",
}

var genericResponsibilities = []string{
	"Deliver high-quality work on agreed timelines",
	"Collaborate closely with colleagues across the business",
	"Continuously improve how the team works",
}

var (
	seniorPattern = regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|principal|staff)\b`)
	juniorPattern = regexp.MustCompile(`(?i)\b(junior|jr\.?|associate|entry|entry-level|intern|internship|graduate)\b`)
)

// StaticJobTitles combines description keyword matches with the industry
// table and generic titles.
func StaticJobTitles(industry, description string) []string {
	var candidates []string
	for _, kw := range keywordTitles {
		if kw.pattern.MatchString(description) {
			candidates = append(candidates, kw.titles...)
		}
	}
	candidates = append(candidates, industryTitles[normalizeKey(industry)]...)

	titles := dedupe(candidates, maxTitles)
	if len(titles) < minTitles {
		titles = dedupe(append(titles, genericTitles...), maxTitles)
	}
	return titles
}

// StaticMustHaves lists seniority lines, title requirements, industry hints
// and generic requirements, in that order.
func StaticMustHaves(jobTitle, industry, seniority string) []string {
	var candidates []string

	level := seniority
	if strings.TrimSpace(level) == "" {
		level = jobTitle
	}
	role := strings.TrimSpace(jobTitle)
	if role == "" {
		role = defaultRole
	}
	switch {
	case seniorPattern.MatchString(level):
		candidates = append(candidates,
			"Experience mentoring and guiding other team members",
			"Track record of owning complex work from design to delivery",
		)
	case juniorPattern.MatchString(level):
		candidates = append(candidates,
			"Eagerness to learn and act on feedback",
			fmt.Sprintf("Foundational knowledge relevant to %s", role),
		)
	}

	if tr, ok := matchTitle(jobTitle); ok {
		candidates = append(candidates, tr.requirements...)
	}
	candidates = append(candidates, industryHints[normalizeKey(industry)]...)
	candidates = append(candidates, genericRequirements...)

	return dedupe(candidates, maxMustHaves)
}

// Business is the employer shown in a generated job description.
type Business struct {
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`
	About    string `json:"about,omitempty"`
}

// StaticJobDescription renders header, about, responsibilities, must-haves,
// optional extras and a call to action.
func StaticJobDescription(jobTitle string, mustHaves []string, business Business, extras []string) string {
	title := strings.TrimSpace(jobTitle)
	name := strings.TrimSpace(business.Name)

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s at %s\n", title, name)
	} else {
		fmt.Fprintf(&b, "%s\n", title)
	}
	if loc := strings.TrimSpace(business.Location); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}

	b.WriteString("\nAbout us\n")
	switch {
	case strings.TrimSpace(business.About) != "":
		b.WriteString(strings.TrimSpace(business.About))
	case name != "" && business.Industry != "":
		fmt.Fprintf(&b, "%s is a growing team working in %s.", name, strings.TrimSpace(business.Industry))
	case name != "":
		fmt.Fprintf(&b, "%s is a growing team looking for a %s.", name, title)
	default:
		fmt.Fprintf(&b, "We are a growing team looking for a %s.", title)
	}
	b.WriteString("\n")

	responsibilities := genericResponsibilities
	if tr, ok := matchTitle(title); ok {
		responsibilities = tr.responsibilities
	}
	writeSection(&b, "What you will do", responsibilities)

	requirements := dedupe(mustHaves, 0)
	if len(requirements) == 0 {
		requirements = genericRequirements
	}
	writeSection(&b, "What we are looking for", requirements)

	if extra := dedupe(extras, 0); len(extra) > 0 {
		writeSection(&b, "Nice to have", extra)
	}

	b.WriteString("\nHow to apply\n")
	b.WriteString(ctaParagraph)
	return b.String()
}

// StaticScore derives a score from the number of distinct must-haves and
// turns each into a tip.
func StaticScore(jobTitle string, mustHaves []string) ScoreReady {
	items := dedupe(mustHaves, 0)
	n := len(items)

	tips := make([]string, 0, maxTips)
	for _, item := range items {
		if len(tips) == maxTips-1 {
			break
		}
		tips = append(tips, fmt.Sprintf("Make your experience with %q explicit, with a concrete example.", item))
	}
	tips = append(tips, metricsTip)

	role := strings.TrimSpace(jobTitle)
	if role == "" {
		role = defaultRole
	}
	for _, filler := range []string{
		fmt.Sprintf("Open with a short summary tailored to %s.", role),
		"Keep the layout to one or two pages with consistent headings.",
	} {
		if len(tips) >= minTips {
			break
		}
		tips = append(tips, filler)
	}

	return ScoreReady{
		Score:   min(maxScore, baseScore+scorePerItem*n),
		CVScore: min(maxCVScore, baseCVScore+scorePerItem*n),
		CVTips:  tips,
		Source:  SourceStatic,
	}
}

func writeSection(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "\n%s\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func matchTitle(title string) (titleRequirement, bool) {
	lower := strings.ToLower(title)
	for _, tr := range titleRequirements {
		for _, kw := range tr.keywords {
			if strings.Contains(lower, kw) {
				return tr, true
			}
		}
	}
	return titleRequirement{}, false
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dedupe trims items, drops empty ones and case-insensitive repeats, and
// keeps at most limit items when limit is positive.
func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
