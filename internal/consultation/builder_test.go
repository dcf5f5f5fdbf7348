package consultation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/knowledge"
	"github.com/pelicanstate/constructhub/internal/scope"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestBuilder() *Builder {
	n := 0
	return NewBuilder(nil, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func analyze(text string) domain.ScopeAnalysisResult {
	return scope.NewAnalyzer(nil, nil).Analyze(text, nil)
}

func TestGenerateChecklist_Questions(t *testing.T) {
	b := newTestBuilder()
	c := b.GenerateChecklist(analyze("Replace boiler in historic building, coordinate SHPO approval"), nil)

	assert.Equal(t, domain.TemplateHistoricRestoration, c.JobType)
	assert.Equal(t, fixedNow, c.GeneratedAt)
	assert.Nil(t, c.UpdatedAt)

	cfg, _ := b.library.Config(domain.TemplateHistoricRestoration)
	require.Len(t, c.Questions, len(cfg.WalkthroughQuestions)+1)
	for i, q := range cfg.WalkthroughQuestions {
		assert.Equal(t, q, c.Questions[i].Text)
		assert.True(t, c.Questions[i].Required)
	}
	echo := c.Questions[len(c.Questions)-1]
	assert.Contains(t, echo.Text, "Replace boiler in historic building")
	assert.Contains(t, echo.Reason, "confirm constraints")
}

func TestGenerateChecklist_EmptyScopeHasNoEcho(t *testing.T) {
	b := newTestBuilder()
	c := b.GenerateChecklist(analyze(""), nil)

	cfg, _ := b.library.Config(domain.TemplateDefault)
	assert.Len(t, c.Questions, len(cfg.WalkthroughQuestions))
	assert.Empty(t, c.SafetyNotes)
}

func TestTruncateScope(t *testing.T) {
	short := strings.Repeat("a", 120)
	assert.Equal(t, short, TruncateScope(short))

	long := strings.Repeat("b", 121)
	got := TruncateScope(long)
	assert.Equal(t, strings.Repeat("b", 120)+"...", got)
}

func TestGenerateChecklist_GuideSections(t *testing.T) {
	b := newTestBuilder()
	c := b.GenerateChecklist(analyze("reroof with new shingles and gutter flashing"), nil)

	require.Equal(t, domain.TemplateRoofing, c.JobType)
	require.NotEmpty(t, c.Measurements)
	require.NotEmpty(t, c.Photos)
	require.NotEmpty(t, c.Tools)
	for _, it := range c.Measurements {
		assert.True(t, it.Required)
	}
	for _, it := range c.Photos {
		assert.True(t, it.Required)
	}
	for _, it := range c.Tools {
		assert.False(t, it.Required)
		assert.True(t, strings.HasPrefix(it.Reason, "Recommended to bring"))
	}
}

func TestGenerateChecklist_NoGuideLeavesSectionsEmpty(t *testing.T) {
	kb := *knowledge.Default()
	kb.MeasurementGuides = nil
	b := NewBuilder(nil, &kb)
	c := b.GenerateChecklist(analyze("reroof with new shingles"), nil)

	assert.Empty(t, c.Measurements)
	assert.Empty(t, c.Photos)
	assert.Empty(t, c.Tools)
	assert.NotNil(t, c.Tools)
}

func TestGenerateChecklist_SafetyAndResearch(t *testing.T) {
	b := newTestBuilder()
	nola := domain.JurisdictionNewOrleans
	c := b.GenerateChecklist(analyze("Replace boiler in historic building, coordinate SHPO approval"), &nola)

	var notes []string
	for _, n := range c.SafetyNotes {
		notes = append(notes, n.Source)
	}
	assert.Contains(t, notes, "NFPA 54")
	assert.Contains(t, notes, "EPA RRP Rule")

	var permits, codes int
	for _, s := range c.Research {
		assert.Equal(t, domain.SourceKnowledgeBase, s.Source)
		switch s.Category {
		case domain.SnippetPermit:
			permits++
			assert.Equal(t, 0.9, s.Confidence)
			assert.Contains(t, s.Content, "Estimated fee:")
		case domain.SnippetCode:
			codes++
			assert.Equal(t, 0.85, s.Confidence)
		}
	}
	assert.Equal(t, 4, permits)
	assert.Equal(t, 2, codes)
}

func TestGenerateChecklist_UnboundedFee(t *testing.T) {
	b := newTestBuilder()
	c := b.GenerateChecklist(analyze("historic landmark"), nil)

	var found bool
	for _, s := range c.Research {
		if s.Title == "SHPO Section 106 Review" {
			found = true
			assert.Contains(t, s.Content, "See jurisdiction fee schedule")
		}
	}
	assert.True(t, found)
}

func TestGenerateChecklist_OverrideRegeneratesForNewTemplate(t *testing.T) {
	b := newTestBuilder()
	a := analyze("Replace boiler in historic building")
	overridden := a.WithPrimaryTemplate(domain.TemplateHVACRepair)

	c := b.GenerateChecklist(overridden, nil)
	cfg, _ := b.library.Config(domain.TemplateHVACRepair)
	assert.Equal(t, domain.TemplateHVACRepair, c.JobType)
	assert.Equal(t, cfg.WalkthroughQuestions[0], c.Questions[0].Text)
	assert.Equal(t, domain.TemplateHistoricRestoration, a.PrimaryTemplate)
}
