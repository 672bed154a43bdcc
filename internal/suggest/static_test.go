package suggest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticJobTitles(t *testing.T) {
	tests := []struct {
		name        string
		industry    string
		description string
		contains    []string
	}{
		{
			name:        "keywords and industry",
			industry:    "Technology",
			description: "We run Golang microservices on Kubernetes.",
			contains:    []string{"Backend Engineer", "DevOps Engineer", "Software Engineer"},
		},
		{
			name:     "industry only",
			industry: "healthcare",
			contains: []string{"Registered Nurse", "Medical Assistant"},
		},
		{
			name:     "nothing known",
			industry: "underwater basket weaving",
			contains: genericTitles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles := StaticJobTitles(tt.industry, tt.description)

			assert.GreaterOrEqual(t, len(titles), minTitles)
			assert.LessOrEqual(t, len(titles), maxTitles)
			assert.Equal(t, dedupe(titles, 0), titles)
			for _, want := range tt.contains {
				assert.Contains(t, titles, want)
			}
		})
	}
}

func TestStaticMustHaves(t *testing.T) {
	t.Run("senior role leads with mentorship", func(t *testing.T) {
		items := StaticMustHaves("Senior Backend Engineer", "technology", "")
		require.GreaterOrEqual(t, len(items), minMustHaves)
		assert.LessOrEqual(t, len(items), maxMustHaves)
		assert.Equal(t, "Experience mentoring and guiding other team members", items[0])
		assert.Contains(t, items, "Familiarity with cloud platforms")
	})

	t.Run("explicit junior seniority", func(t *testing.T) {
		items := StaticMustHaves("Data Analyst", "", "Entry level")
		assert.Equal(t, "Eagerness to learn and act on feedback", items[0])
		assert.Contains(t, items, "Foundational knowledge relevant to Data Analyst")
	})

	t.Run("unknown title still has generic requirements", func(t *testing.T) {
		items := StaticMustHaves("Lighthouse Keeper", "", "")
		assert.Equal(t, genericRequirements, items)
	})
}

func TestStaticJobDescription(t *testing.T) {
	text := StaticJobDescription(
		"Backend Engineer",
		[]string{"Go", "go", "  ", "PostgreSQL"},
		Business{Name: "Acme", Location: "Lagos", Industry: "fintech"},
		[]string{"Kafka"},
	)

	assert.True(t, strings.HasPrefix(text, "Backend Engineer at Acme\nLocation: Lagos\n"))
	assert.Contains(t, text, "Acme is a growing team working in fintech.")
	assert.Contains(t, text, "What you will do\n- Design, build and maintain reliable services")
	assert.Contains(t, text, "What we are looking for\n- Go\n- PostgreSQL\n")
	assert.Contains(t, text, "Nice to have\n- Kafka\n")
	assert.True(t, strings.HasSuffix(text, ctaParagraph))

	again := StaticJobDescription("Backend Engineer", []string{"Go", "go", "  ", "PostgreSQL"},
		Business{Name: "Acme", Location: "Lagos", Industry: "fintech"}, []string{"Kafka"})
	assert.Equal(t, text, again)

	bare := StaticJobDescription("Chef", nil, Business{}, nil)
	assert.NotContains(t, bare, "Nice to have")
	assert.Contains(t, bare, "We are a growing team looking for a Chef.")
}

func TestStaticScore(t *testing.T) {
	none := StaticScore("Chef", nil)
	some := StaticScore("Chef", []string{"Knife skills", "knife skills", "Menu planning", ""})
	many := StaticScore("Chef", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"})

	assert.Less(t, none.Score, some.Score)
	assert.LessOrEqual(t, some.Score, many.Score)
	assert.Equal(t, maxScore, many.Score)
	assert.Equal(t, maxCVScore, many.CVScore)

	for _, r := range []ScoreReady{none, some, many} {
		assert.GreaterOrEqual(t, r.Score, 0)
		assert.LessOrEqual(t, r.Score, 100)
		assert.GreaterOrEqual(t, r.CVScore, 0)
		assert.LessOrEqual(t, r.CVScore, 100)
		assert.GreaterOrEqual(t, len(r.CVTips), minTips)
		assert.LessOrEqual(t, len(r.CVTips), maxTips)
		assert.Contains(t, r.CVTips, metricsTip)
		assert.Equal(t, SourceStatic, r.Source)
	}

	// two distinct must-haves become two tips plus the metrics tip
	assert.Len(t, some.CVTips, 3)
	assert.Contains(t, some.CVTips[0], "Knife skills")
}

func TestScoreResult_JSON(t *testing.T) {
	tests := []struct {
		result ScoreResult
		want   string
	}{
		{ScoreReady{Score: 70, CVScore: 60, CVTips: []string{"t"}, Source: SourceAI}, `{"status":"ready","score":70,"cvScore":60,"cvTips":["t"],"source":"AI"}`},
		{ScorePending{Message: "wait"}, `{"status":"pending","message":"wait"}`},
		{ScoreFailed{Message: "gone"}, `{"status":"failed","message":"gone"}`},
	}

	for _, tt := range tests {
		got, err := json.Marshal(tt.result)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(got))
	}
}
