package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/domain"
)

func TestDefault_LoadsEveryTemplateInOrder(t *testing.T) {
	lib := Default()

	configs := lib.Templates()
	require.Len(t, configs, len(domain.AllTaskTemplates))
	for i, cfg := range configs {
		assert.Equal(t, domain.AllTaskTemplates[i], cfg.ID)
		assert.NotEmpty(t, cfg.Keywords, cfg.ID)
		assert.NotEmpty(t, cfg.WalkthroughQuestions, cfg.ID)
	}
}

func TestDefault_WBSDependenciesPrecedeDependents(t *testing.T) {
	lib := Default()
	for _, id := range domain.AllTaskTemplates {
		seen := map[string]bool{}
		for _, phase := range lib.WBS(id) {
			for _, task := range phase.Tasks {
				for _, dep := range task.DependsOn {
					assert.True(t, seen[dep], "%s: %s depends on %s", id, task.Code, dep)
				}
				seen[task.Code] = true
			}
		}
	}
}

func TestWBS_FallsBackToDefault(t *testing.T) {
	lib := Default()

	assert.False(t, lib.HasCustomWBS(domain.TemplatePlumbing))
	assert.Equal(t, lib.WBS(domain.TemplateDefault), lib.WBS(domain.TemplatePlumbing))
	assert.Equal(t, lib.WBS(domain.TemplateDefault), lib.WBS("nonsense"))

	assert.True(t, lib.HasCustomWBS(domain.TemplateHVACRepair))
	assert.NotEqual(t, lib.WBS(domain.TemplateDefault), lib.WBS(domain.TemplateHVACRepair))
}

func TestMustConfig_UnknownReturnsDefault(t *testing.T) {
	lib := Default()
	cfg := lib.MustConfig("bogus")
	assert.Equal(t, domain.TemplateDefault, cfg.ID)
}

func TestLookup(t *testing.T) {
	lib := Default()

	cfg, err := lib.Lookup("HVACREPAIR")
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateHVACRepair, cfg.ID)

	_, err = lib.Lookup("spaceship")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestMatchTemplateFromDescription(t *testing.T) {
	lib := Default()

	tests := []struct {
		desc string
		want domain.TaskTemplate
	}{
		{"Replace the BOILER in the basement", domain.TemplateHVACRepair},
		{"Restore plaster walls", domain.TemplateHistoricRestoration},
		{"Pour a new driveway slab", domain.TemplateConcrete},
		{"", domain.TemplateDefault},
		{"something unrelated", domain.TemplateDefault},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, lib.MatchTemplateFromDescription(tt.desc))
		})
	}
}

const minimalTemplates = `
templates:
  - id: default
    name: General
    category: General
    keywords: [repair]
    walkthrough_questions: ["What?"]
`

const minimalWBS = `
wbs:
  default:
    - code: "1"
      name: Only
      tasks:
        - {code: "1.1", title: Do it}
`

func TestLoad_RejectsMissingTemplates(t *testing.T) {
	_, err := Load(strings.NewReader(minimalTemplates), strings.NewReader(minimalWBS))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "hvacRepair: missing from catalog")
}

func TestLoad_RejectsUppercaseKeywordAndEmptyQuestions(t *testing.T) {
	templates := `
templates:
  - id: default
    name: General
    category: General
    keywords: [Repair]
`
	_, err := Load(strings.NewReader(templates), strings.NewReader(minimalWBS))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `keyword "Repair" must be non-empty lowercase`)
	assert.Contains(t, err.Error(), "no walkthrough questions")
}

func TestLoad_RejectsForwardDependency(t *testing.T) {
	wbs := `
wbs:
  default:
    - code: "1"
      name: Only
      tasks:
        - {code: "1.1", title: First, depends_on: ["1.2"]}
        - {code: "1.2", title: Second}
`
	_, err := Load(strings.NewReader(minimalTemplates), strings.NewReader(wbs))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1.1 depends on 1.2 which does not precede it")
}

func TestLoad_RejectsMissingDefaultWBS(t *testing.T) {
	wbs := `
wbs:
  roofing:
    - code: "1"
      name: Only
      tasks: []
`
	_, err := Load(strings.NewReader(minimalTemplates), strings.NewReader(wbs))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default structure missing")
}

func TestTaskCount(t *testing.T) {
	lib := Default()
	assert.Equal(t, 7, domain.TaskCount(lib.WBS(domain.TemplateDefault)))
}
