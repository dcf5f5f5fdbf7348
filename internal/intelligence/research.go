package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pelicanstate/constructhub/internal/cache"
	"github.com/pelicanstate/constructhub/internal/domain"
)

const (
	DefaultResearchTimeout = 12 * time.Second
	DefaultCacheTTL        = time.Hour
	DefaultCacheCapacity   = 256

	scopeKeyLength = 120

	permitConfidence        = 0.7
	codeConfidence          = 0.65
	considerationConfidence = 0.6
)

// ErrProviderPanic wraps a panic recovered from a provider call.
var ErrProviderPanic = errors.New("research provider panicked")

// ResearchRequest identifies one research lookup.
type ResearchRequest struct {
	Scope        string
	JobType      domain.TaskTemplate
	Jurisdiction *domain.Jurisdiction
}

// SnippetCache stores research results by request key.
type SnippetCache = cache.TTL[string, []domain.IntakeResearchSnippet]

// NewSnippetCache builds a research cache. A nil clock uses time.Now.
func NewSnippetCache(capacity int, ttl time.Duration, now func() time.Time) (*SnippetCache, error) {
	var opts []cache.Option[string, []domain.IntakeResearchSnippet]
	if now != nil {
		opts = append(opts, cache.WithClock[string, []domain.IntakeResearchSnippet](now))
	}
	return cache.NewTTL[string, []domain.IntakeResearchSnippet](capacity, ttl, opts...)
}

// ResearchService asks providers in order for supplementary snippets and
// caches successful results. It never returns an error: failures degrade
// to an empty result.
type ResearchService struct {
	providers []ResearchProvider
	cache     *SnippetCache
	timeout   time.Duration
	logger    *slog.Logger
	newID     func() string
	inflight  singleflight.Group
}

// ResearchOption configures a ResearchService.
type ResearchOption func(*ResearchService)

// WithCache replaces the default cache.
func WithCache(c *SnippetCache) ResearchOption {
	return func(s *ResearchService) { s.cache = c }
}

// WithTimeout bounds each provider attempt.
func WithTimeout(d time.Duration) ResearchOption {
	return func(s *ResearchService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) ResearchOption {
	return func(s *ResearchService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator sets the snippet id source.
func WithIDGenerator(newID func() string) ResearchOption {
	return func(s *ResearchService) { s.newID = newID }
}

// NewResearchService creates a service trying providers in the given order.
func NewResearchService(providers []ResearchProvider, opts ...ResearchOption) *ResearchService {
	s := &ResearchService{
		providers: append([]ResearchProvider(nil), providers...),
		timeout:   DefaultResearchTimeout,
		logger:    slog.New(slog.DiscardHandler),
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cache == nil {
		c, err := NewSnippetCache(DefaultCacheCapacity, DefaultCacheTTL, nil)
		if err == nil {
			s.cache = c
		}
	}
	return s
}

// Providers returns the provider names in fallback order.
func (s *ResearchService) Providers() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}

// CacheKey returns the key a request is cached under.
func CacheKey(req ResearchRequest) string {
	jurisdiction := ""
	if req.Jurisdiction != nil {
		jurisdiction = string(*req.Jurisdiction)
	}
	scope := req.Scope
	if r := []rune(scope); len(r) > scopeKeyLength {
		scope = string(r[:scopeKeyLength])
	}
	return string(req.JobType) + "-" + jurisdiction + "-" + strings.ToLower(scope)
}

// GetResearchSnippets returns LLM-sourced snippets for req. An empty scope
// returns immediately without contacting any provider. When every provider
// fails the result is empty.
func (s *ResearchService) GetResearchSnippets(ctx context.Context, req ResearchRequest) []domain.IntakeResearchSnippet {
	if strings.TrimSpace(req.Scope) == "" {
		return []domain.IntakeResearchSnippet{}
	}

	key := CacheKey(req)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			return cloneSnippets(hit)
		}
	}

	// The shared call outlives any single caller; each attempt is still
	// bounded by the provider timeout.
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		if s.cache != nil {
			if hit, ok := s.cache.Get(key); ok {
				return hit, nil
			}
		}
		snippets, ok := s.research(shared, req)
		if ok && s.cache != nil {
			s.cache.Set(key, snippets)
		}
		return snippets, nil
	})

	select {
	case res := <-ch:
		return cloneSnippets(res.Val.([]domain.IntakeResearchSnippet))
	case <-ctx.Done():
		return []domain.IntakeResearchSnippet{}
	}
}

func (s *ResearchService) research(ctx context.Context, req ResearchRequest) ([]domain.IntakeResearchSnippet, bool) {
	prompt := BuildResearchPrompt(req)

	for _, p := range s.providers {
		if ctx.Err() != nil {
			break
		}
		payload, err := s.attempt(ctx, p, prompt)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "research_provider_failed",
				slog.String("provider", p.Name()),
				slog.String("job_type", string(req.JobType)),
				slog.String("error", err.Error()),
			)
			continue
		}
		return s.toSnippets(payload, req.Jurisdiction), true
	}

	if len(s.providers) > 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "research_unavailable",
			slog.String("job_type", string(req.JobType)),
			slog.Int("providers", len(s.providers)),
		)
	}
	return []domain.IntakeResearchSnippet{}, false
}

func (s *ResearchService) attempt(ctx context.Context, p ResearchProvider, prompt string) (payload ResearchPayload, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			payload, err = ResearchPayload{}, fmt.Errorf("%w: %v", ErrProviderPanic, r)
		}
	}()

	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		return ResearchPayload{}, err
	}
	return ParseResearchResponse(raw)
}

func (s *ResearchService) toSnippets(p ResearchPayload, j *domain.Jurisdiction) []domain.IntakeResearchSnippet {
	if j != nil {
		v := *j
		j = &v
	}
	out := make([]domain.IntakeResearchSnippet, 0,
		len(p.Permits)+len(p.CodeReferences)+len(p.KeyConsiderations))

	for _, permit := range p.Permits {
		out = append(out, domain.IntakeResearchSnippet{
			ID:           s.newID(),
			Category:     domain.SnippetPermit,
			Title:        strings.TrimSpace(permit.Name),
			Content:      permitContent(permit),
			Jurisdiction: j,
			Source:       domain.SourceLLM,
			Confidence:   permitConfidence,
		})
	}
	for _, code := range p.CodeReferences {
		title := strings.TrimSpace(code.Code)
		if section := strings.TrimSpace(code.Section); section != "" {
			title += " " + section
		}
		out = append(out, domain.IntakeResearchSnippet{
			ID:           s.newID(),
			Category:     domain.SnippetCode,
			Title:        title,
			Content:      strings.TrimSpace(code.Summary),
			Jurisdiction: j,
			Source:       domain.SourceLLM,
			Confidence:   codeConfidence,
		})
	}
	for _, k := range p.KeyConsiderations {
		out = append(out, domain.IntakeResearchSnippet{
			ID:           s.newID(),
			Category:     domain.SnippetMaterial,
			Title:        "Field Consideration",
			Content:      k,
			Jurisdiction: j,
			Source:       domain.SourceLLM,
			Confidence:   considerationConfidence,
		})
	}
	return out
}

func permitContent(p PermitFinding) string {
	var parts []string
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		parts = append(parts, notes)
	}
	if authority := strings.TrimSpace(p.Authority); authority != "" {
		parts = append(parts, "Issued by "+authority+".")
	}
	if fee := strings.TrimSpace(string(p.EstimatedFee)); fee != "" {
		parts = append(parts, "Estimated fee: "+fee+".")
	}
	content := strings.Join(parts, " ")
	if !p.Required.Definite() {
		if content != "" {
			content += " "
		}
		content += "(verification required)"
	}
	return content
}

func cloneSnippets(in []domain.IntakeResearchSnippet) []domain.IntakeResearchSnippet {
	out := make([]domain.IntakeResearchSnippet, len(in))
	copy(out, in)
	return out
}
