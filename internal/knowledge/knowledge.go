// Package knowledge is the Louisiana regional knowledge base: permit rules,
// site measurement guides, safety triggers and code references.
package knowledge

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

//go:embed knowledge.yaml
var knowledgeYAML []byte

// ErrInvalidKnowledgeBase indicates the knowledge base failed validation.
var ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

// PermitRule is a permit requirement triggered by scope keywords.
type PermitRule struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	Authority    string              `yaml:"authority"`
	Jurisdiction domain.Jurisdiction `yaml:"jurisdiction"`
	Triggers     []string            `yaml:"triggers"`
	Description  string              `yaml:"description"`
	FeeMin       *float64            `yaml:"fee_min"`
	FeeMax       *float64            `yaml:"fee_max"`
	Severity     domain.Severity     `yaml:"severity"`
}

// FeeRange renders the rule's fee bounds for display.
func (r PermitRule) FeeRange() string {
	switch {
	case r.FeeMin != nil && r.FeeMax != nil:
		return fmt.Sprintf("$%s–$%s", money(*r.FeeMin), money(*r.FeeMax))
	case r.FeeMin != nil:
		return "from $" + money(*r.FeeMin)
	case r.FeeMax != nil:
		return "up to $" + money(*r.FeeMax)
	default:
		return "See jurisdiction fee schedule"
	}
}

func money(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// GuideItem is one measurement, photo or tool line.
type GuideItem struct {
	Text   string `yaml:"text"`
	Reason string `yaml:"reason"`
}

// MeasurementGuide lists what to capture on site for a template.
type MeasurementGuide struct {
	Template     domain.TaskTemplate `yaml:"template"`
	Measurements []GuideItem         `yaml:"measurements"`
	Photos       []GuideItem         `yaml:"photos"`
	Tools        []GuideItem         `yaml:"tools"`
}

// SafetyGuide is a safety reminder raised by trigger keywords.
type SafetyGuide struct {
	ID       string          `yaml:"id"`
	Triggers []string        `yaml:"triggers"`
	Text     string          `yaml:"text"`
	Severity domain.Severity `yaml:"severity"`
	Source   string          `yaml:"source"`
}

// CodeReference is an adopted code applicable to templates in a jurisdiction.
type CodeReference struct {
	ID           string                `yaml:"id"`
	Code         string                `yaml:"code"`
	Title        string                `yaml:"title"`
	Summary      string                `yaml:"summary"`
	Jurisdiction domain.Jurisdiction   `yaml:"jurisdiction"`
	Templates    []domain.TaskTemplate `yaml:"templates"`
}

// Base is the read-only knowledge base.
type Base struct {
	PermitRules       []PermitRule       `yaml:"permit_rules"`
	MeasurementGuides []MeasurementGuide `yaml:"measurement_guides"`
	SafetyGuides      []SafetyGuide      `yaml:"safety_guides"`
	CodeReferences    []CodeReference    `yaml:"code_references"`
}

var (
	defaultOnce sync.Once
	defaultBase *Base
)

// Default returns the process-wide knowledge base from the embedded data.
func Default() *Base {
	defaultOnce.Do(func() {
		b, err := Load(bytes.NewReader(knowledgeYAML))
		if err != nil {
			panic(fmt.Sprintf("knowledge: %v", err))
		}
		defaultBase = b
	})
	return defaultBase
}

// Load decodes and validates a knowledge base document.
func Load(r io.Reader) (*Base, error) {
	var b Base
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding knowledge base: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Base) validate() error {
	var errs []error
	ids := make(map[string]bool)
	checkID := func(kind, id string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: empty id", kind))
			return
		}
		if ids[kind+"/"+id] {
			errs = append(errs, fmt.Errorf("%s %s: duplicate id", kind, id))
		}
		ids[kind+"/"+id] = true
	}
	checkTriggers := func(kind, id string, triggers []string) {
		if len(triggers) == 0 {
			errs = append(errs, fmt.Errorf("%s %s: no triggers", kind, id))
		}
		for _, t := range triggers {
			if t != strings.ToLower(t) {
				errs = append(errs, fmt.Errorf("%s %s: trigger %q must be lowercase", kind, id, t))
			}
		}
	}
	checkJurisdiction := func(kind, id string, j domain.Jurisdiction) {
		if !domain.ValidJurisdictions[j] {
			errs = append(errs, fmt.Errorf("%s %s: unknown jurisdiction %q", kind, id, j))
		}
	}
	checkSeverity := func(kind, id string, s domain.Severity) {
		if !domain.ValidSeverities[s] {
			errs = append(errs, fmt.Errorf("%s %s: unknown severity %q", kind, id, s))
		}
	}

	for _, r := range b.PermitRules {
		checkID("permit", r.ID)
		checkTriggers("permit", r.ID, r.Triggers)
		checkJurisdiction("permit", r.ID, r.Jurisdiction)
		checkSeverity("permit", r.ID, r.Severity)
	}
	for _, g := range b.MeasurementGuides {
		if !g.Template.IsValid() {
			errs = append(errs, fmt.Errorf("measurement guide: unknown template %q", g.Template))
		}
		checkID("guide", string(g.Template))
	}
	for _, s := range b.SafetyGuides {
		checkID("safety", s.ID)
		checkTriggers("safety", s.ID, s.Triggers)
		checkSeverity("safety", s.ID, s.Severity)
	}
	for _, c := range b.CodeReferences {
		checkID("code", c.ID)
		checkJurisdiction("code", c.ID, c.Jurisdiction)
		for _, t := range c.Templates {
			if !t.IsValid() {
				errs = append(errs, fmt.Errorf("code %s: unknown template %q", c.ID, t))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeBase, errors.Join(errs...))
	}
	return nil
}
