// Package scope classifies free-text scope descriptions against the template
// catalogue and raises compliance signals.
package scope

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/knowledge"
)

const (
	primaryThreshold   = 0.1
	fallbackConfidence = 0.4
	overrideConfidence = 0.7
	strongConfidence   = 0.6
	maxSecondary       = 3
)

// Analyzer scores scope text against a template library and knowledge base.
type Analyzer struct {
	library *catalog.Library
	kb      *knowledge.Base
}

// NewAnalyzer creates an Analyzer. Nil arguments use the embedded defaults.
func NewAnalyzer(lib *catalog.Library, kb *knowledge.Base) *Analyzer {
	if lib == nil {
		lib = catalog.Default()
	}
	if kb == nil {
		kb = knowledge.Default()
	}
	return &Analyzer{library: lib, kb: kb}
}

// Library returns the template library the analyzer scores against.
func (a *Analyzer) Library() *catalog.Library { return a.library }

// KnowledgeBase returns the knowledge base used for permit flags.
func (a *Analyzer) KnowledgeBase() *knowledge.Base { return a.kb }

type scored struct {
	template domain.TaskTemplate
	score    float64
	matched  []string
}

// Analyze classifies text. A non-nil selected template always becomes the
// primary template. Analyze never fails; empty text yields the default
// template with no keywords or flags.
func (a *Analyzer) Analyze(text string, selected *domain.TaskTemplate) domain.ScopeAnalysisResult {
	tokens := Tokenize(text)

	ranked := a.rank(tokens)

	primary := domain.TemplateDefault
	confidence := fallbackConfidence
	if len(ranked) > 0 && ranked[0].score > primaryThreshold {
		primary = ranked[0].template
		confidence = ranked[0].score
	} else if selected != nil && selected.IsValid() {
		primary = *selected
	} else if len(ranked) > 0 && ranked[0].score > 0 {
		primary = ranked[0].template
	}

	overridden := false
	if selected != nil && selected.IsValid() {
		top := 0.0
		if len(ranked) > 0 {
			top = ranked[0].score
		}
		if *selected != primary {
			overridden = true
		}
		primary = *selected
		confidence = math.Max(math.Max(top, confidence), overrideConfidence)
	}

	var matched []string
	for _, s := range ranked {
		if s.template == primary {
			matched = s.matched
			break
		}
	}

	secondary := make([]domain.TemplateSuggestion, 0, maxSecondary)
	for _, s := range ranked {
		if len(secondary) == maxSecondary {
			break
		}
		if s.template == primary || s.score <= 0 {
			continue
		}
		secondary = append(secondary, domain.TemplateSuggestion{
			Template:   s.template,
			Confidence: round2(s.score),
		})
	}

	jurisdiction := DetectJurisdiction(tokens)

	return domain.ScopeAnalysisResult{
		ScopeText:             strings.TrimSpace(text),
		PrimaryTemplate:       primary,
		PrimaryConfidence:     round2(confidence),
		SecondarySuggestions:  secondary,
		ComplianceFlags:       a.complianceFlags(tokens, jurisdiction),
		DetectedKeywords:      tokens,
		SuggestedJurisdiction: jurisdiction,
		Rationale:             a.rationale(primary, confidence, matched, overridden),
	}
}

// rank scores every template and sorts descending. Ties keep catalogue order.
func (a *Analyzer) rank(tokens []string) []scored {
	templates := a.library.Templates()
	out := make([]scored, 0, len(templates))
	for _, cfg := range templates {
		score, matched := Score(cfg.Keywords, tokens)
		out = append(out, scored{template: cfg.ID, score: score, matched: matched})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// Score awards +2 per keyword found verbatim in tokens, otherwise +1 when a
// token starts with the keyword cut to max(3, len-2) characters. The total is
// normalized by keyword count and capped at 1.
func Score(keywords, tokens []string) (float64, []string) {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	points := 0
	var matched []string
	for _, kw := range keywords {
		if present[kw] {
			points += 2
			matched = append(matched, kw)
			continue
		}
		stem := truncateKeyword(kw)
		for _, t := range tokens {
			if strings.HasPrefix(t, stem) {
				points++
				matched = append(matched, kw)
				break
			}
		}
	}
	return math.Min(1, float64(points)/float64(max(len(keywords), 1))), matched
}

func truncateKeyword(kw string) string {
	n := max(3, len(kw)-2)
	if n > len(kw) {
		n = len(kw)
	}
	return kw[:n]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (a *Analyzer) rationale(t domain.TaskTemplate, confidence float64, matched []string, overridden bool) string {
	name := a.library.MustConfig(t).Name
	var b strings.Builder
	if confidence > strongConfidence {
		fmt.Fprintf(&b, "Strong keyword alignment with %s", name)
	} else {
		fmt.Fprintf(&b, "Moderate match with %s", name)
	}
	if len(matched) > 0 {
		fmt.Fprintf(&b, " (matched: %s)", strings.Join(matched, ", "))
	}
	b.WriteString(".")
	if overridden {
		b.WriteString(" Template selected manually.")
	}
	return b.String()
}
