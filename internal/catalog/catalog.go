// Package catalog holds the static job template library and the
// work-breakdown structures used to assemble project plans.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pelicanstate/constructhub/internal/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

//go:embed wbs.yaml
var wbsYAML []byte

type templatesFile struct {
	Templates []domain.TemplateConfig `yaml:"templates"`
}

type wbsFile struct {
	WBS map[string][]domain.WBSPhase `yaml:"wbs"`
}

// Library is the read-only template catalogue.
type Library struct {
	order []domain.TaskTemplate
	byID  map[domain.TaskTemplate]domain.TemplateConfig
	wbs   map[domain.TaskTemplate][]domain.WBSPhase
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the process-wide library built from the embedded data.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = MustLoad(bytes.NewReader(templatesYAML), bytes.NewReader(wbsYAML))
	})
	return defaultLib
}

// MustLoad is Load that panics on error. Only used for embedded data.
func MustLoad(templates, wbs io.Reader) *Library {
	lib, err := Load(templates, wbs)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return lib
}

// Load decodes and validates a template catalogue and its WBS table.
func Load(templates, wbs io.Reader) (*Library, error) {
	var tf templatesFile
	if err := yaml.NewDecoder(templates).Decode(&tf); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	var wf wbsFile
	if err := yaml.NewDecoder(wbs).Decode(&wf); err != nil {
		return nil, fmt.Errorf("decoding wbs: %w", err)
	}

	lib := &Library{
		byID: make(map[domain.TaskTemplate]domain.TemplateConfig, len(tf.Templates)),
		wbs:  make(map[domain.TaskTemplate][]domain.WBSPhase, len(wf.WBS)),
	}

	var errs []error
	for i, cfg := range tf.Templates {
		if !cfg.ID.IsValid() {
			errs = append(errs, fmt.Errorf("template[%d]: %w: %q", i, ErrUnknownTemplate, cfg.ID))
			continue
		}
		if _, dup := lib.byID[cfg.ID]; dup {
			errs = append(errs, fmt.Errorf("template %s: duplicate entry", cfg.ID))
			continue
		}
		errs = append(errs, validateTemplate(cfg)...)
		lib.byID[cfg.ID] = cfg
		lib.order = append(lib.order, cfg.ID)
	}
	for _, id := range domain.AllTaskTemplates {
		if _, ok := lib.byID[id]; !ok {
			errs = append(errs, fmt.Errorf("template %s: missing from catalog", id))
		}
	}

	for key, phases := range wf.WBS {
		id := domain.TaskTemplate(key)
		if !id.IsValid() {
			errs = append(errs, fmt.Errorf("wbs %q: %w", key, ErrUnknownTemplate))
			continue
		}
		errs = append(errs, validateWBS(id, phases)...)
		lib.wbs[id] = phases
	}
	if _, ok := lib.wbs[domain.TemplateDefault]; !ok {
		errs = append(errs, errors.New("wbs: default structure missing"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return lib, nil
}

func validateTemplate(cfg domain.TemplateConfig) []error {
	var errs []error
	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, fmt.Errorf("template %s: name is empty", cfg.ID))
	}
	if strings.TrimSpace(cfg.Category) == "" {
		errs = append(errs, fmt.Errorf("template %s: category is empty", cfg.ID))
	}
	if len(cfg.Keywords) == 0 {
		errs = append(errs, fmt.Errorf("template %s: no keywords", cfg.ID))
	}
	for _, kw := range cfg.Keywords {
		if kw == "" || kw != strings.ToLower(kw) {
			errs = append(errs, fmt.Errorf("template %s: keyword %q must be non-empty lowercase", cfg.ID, kw))
		}
	}
	if len(cfg.WalkthroughQuestions) == 0 {
		errs = append(errs, fmt.Errorf("template %s: no walkthrough questions", cfg.ID))
	}
	for i, task := range cfg.DefaultTasks {
		if strings.TrimSpace(task.Title) == "" {
			errs = append(errs, fmt.Errorf("template %s: default task %d has no title", cfg.ID, i))
		}
	}
	return errs
}

func validateWBS(id domain.TaskTemplate, phases []domain.WBSPhase) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, phase := range phases {
		if phase.Name == "" {
			errs = append(errs, fmt.Errorf("wbs %s: phase %q has no name", id, phase.Code))
		}
		for _, task := range phase.Tasks {
			if task.Code == "" {
				errs = append(errs, fmt.Errorf("wbs %s: task %q has no code", id, task.Title))
				continue
			}
			if seen[task.Code] {
				errs = append(errs, fmt.Errorf("wbs %s: duplicate code %s", id, task.Code))
			}
			for _, dep := range task.DependsOn {
				if !seen[dep] {
					errs = append(errs, fmt.Errorf("wbs %s: task %s depends on %s which does not precede it", id, task.Code, dep))
				}
			}
			seen[task.Code] = true
		}
	}
	return errs
}

// Templates returns every template config in catalogue order.
func (l *Library) Templates() []domain.TemplateConfig {
	out := make([]domain.TemplateConfig, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// Config returns the config for t.
func (l *Library) Config(t domain.TaskTemplate) (domain.TemplateConfig, bool) {
	cfg, ok := l.byID[t]
	return cfg, ok
}

// MustConfig returns the config for t, or the default template's config.
func (l *Library) MustConfig(t domain.TaskTemplate) domain.TemplateConfig {
	if cfg, ok := l.byID[t]; ok {
		return cfg
	}
	return l.byID[domain.TemplateDefault]
}

// Lookup resolves a template id string, returning ErrUnknownTemplate when
// it is not in the catalogue.
func (l *Library) Lookup(id string) (domain.TemplateConfig, error) {
	t, ok := domain.ParseTaskTemplate(id)
	if !ok {
		return domain.TemplateConfig{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return l.MustConfig(t), nil
}

// MatchTemplateFromDescription returns the first non-default template whose
// keywords occur as a substring of the lowercased description, else default.
func (l *Library) MatchTemplateFromDescription(desc string) domain.TaskTemplate {
	lower := strings.ToLower(desc)
	for _, id := range l.order {
		if id == domain.TemplateDefault {
			continue
		}
		for _, kw := range l.byID[id].Keywords {
			if strings.Contains(lower, kw) {
				return id
			}
		}
	}
	return domain.TemplateDefault
}

// WBS returns the phase list for t, falling back to the default structure.
func (l *Library) WBS(t domain.TaskTemplate) []domain.WBSPhase {
	if phases, ok := l.wbs[t]; ok {
		return phases
	}
	return l.wbs[domain.TemplateDefault]
}

// HasCustomWBS reports whether t defines its own structure.
func (l *Library) HasCustomWBS(t domain.TaskTemplate) bool {
	if t == domain.TemplateDefault {
		return true
	}
	_, ok := l.wbs[t]
	return ok
}
