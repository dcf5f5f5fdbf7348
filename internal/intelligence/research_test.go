package intelligence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/domain"
)

const samplePayload = `Here is what I found:
{
  "permits": [
    {"name": "Mechanical Permit", "authority": "Department of Safety and Permits", "required": true, "estimatedFee": "$150-$400", "notes": "Required for boiler replacement."},
    {"name": "HDLC Certificate of Appropriateness", "authority": "HDLC", "required": "likely", "estimatedFee": "", "notes": "Exterior changes in a historic district."}
  ],
  "codeReferences": [
    {"code": "2021 IMC", "section": "1004", "summary": "Boiler installation requirements."}
  ],
  "keyConsiderations": ["Confirm flue clearance", "Check for asbestos pipe wrap"]
}
Let me know if you need more.`

type countingProvider struct {
	name  string
	calls atomic.Int32
	fn    func(ctx context.Context, prompt string) (string, error)
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls.Add(1)
	return p.fn(ctx, prompt)
}

func staticProvider(name, raw string) *countingProvider {
	return &countingProvider{name: name, fn: func(context.Context, string) (string, error) { return raw, nil }}
}

func failingProvider(name string) *countingProvider {
	return &countingProvider{name: name, fn: func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("snip-%d", n)
	}
}

func jurisdiction(j domain.Jurisdiction) *domain.Jurisdiction { return &j }

func boilerRequest() ResearchRequest {
	return ResearchRequest{
		Scope:        "Replace boiler in historic building, coordinate SHPO approval",
		JobType:      domain.TemplateHVACRepair,
		Jurisdiction: jurisdiction(domain.JurisdictionNewOrleans),
	}
}

func TestGetResearchSnippets_EmptyScope_NoProviderCall(t *testing.T) {
	p := staticProvider("a", samplePayload)
	svc := NewResearchService([]ResearchProvider{p})

	got := svc.GetResearchSnippets(context.Background(), ResearchRequest{Scope: "   "})

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestGetResearchSnippets_ConvertsPayload(t *testing.T) {
	svc := NewResearchService(
		[]ResearchProvider{staticProvider("a", samplePayload)},
		WithIDGenerator(sequentialIDs()),
	)

	got := svc.GetResearchSnippets(context.Background(), boilerRequest())
	require.Len(t, got, 5)

	permit := got[0]
	assert.Equal(t, "snip-1", permit.ID)
	assert.Equal(t, domain.SnippetPermit, permit.Category)
	assert.Equal(t, "Mechanical Permit", permit.Title)
	assert.Contains(t, permit.Content, "Estimated fee: $150-$400.")
	assert.NotContains(t, permit.Content, "verification required")
	assert.Equal(t, domain.SourceLLM, permit.Source)
	assert.InDelta(t, 0.7, permit.Confidence, 1e-9)
	require.NotNil(t, permit.Jurisdiction)
	assert.Equal(t, domain.JurisdictionNewOrleans, *permit.Jurisdiction)

	assert.True(t, strings.HasSuffix(got[1].Content, "(verification required)"))

	assert.Equal(t, domain.SnippetCode, got[2].Category)
	assert.Equal(t, "2021 IMC 1004", got[2].Title)
	assert.InDelta(t, 0.65, got[2].Confidence, 1e-9)

	for _, s := range got[3:] {
		assert.Equal(t, domain.SnippetMaterial, s.Category)
		assert.Equal(t, "Field Consideration", s.Title)
		assert.InDelta(t, 0.6, s.Confidence, 1e-9)
	}
	assert.Equal(t, "Confirm flue clearance", got[3].Content)
}

func TestGetResearchSnippets_CachesWithinTTL(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c, err := NewSnippetCache(DefaultCacheCapacity, DefaultCacheTTL, clock.Now)
	require.NoError(t, err)

	p := staticProvider("a", samplePayload)
	svc := NewResearchService([]ResearchProvider{p}, WithCache(c))
	req := boilerRequest()

	first := svc.GetResearchSnippets(context.Background(), req)
	clock.Advance(30 * time.Minute)
	second := svc.GetResearchSnippets(context.Background(), req)

	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, first, second)

	clock.Advance(31 * time.Minute)
	_ = svc.GetResearchSnippets(context.Background(), req)
	assert.Equal(t, int32(2), p.calls.Load(), "expired entry triggers a new provider call")
}

func TestGetResearchSnippets_CacheHitReturnsCopy(t *testing.T) {
	p := staticProvider("a", samplePayload)
	svc := NewResearchService([]ResearchProvider{p})

	first := svc.GetResearchSnippets(context.Background(), boilerRequest())
	first[0].Title = "mutated"
	second := svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Equal(t, "Mechanical Permit", second[0].Title)
}

func TestGetResearchSnippets_FallsBackInOrder(t *testing.T) {
	tests := []struct {
		name    string
		primary *countingProvider
	}{
		{"error", failingProvider("a")},
		{"malformed", staticProvider("a", "I could not find anything {not json")},
		{"no object", staticProvider("a", "No permits needed.")},
		{"empty arrays", staticProvider("a", `{"permits": [], "codeReferences": [], "keyConsiderations": []}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := staticProvider("b", samplePayload)
			svc := NewResearchService([]ResearchProvider{tt.primary, secondary})

			got := svc.GetResearchSnippets(context.Background(), boilerRequest())

			assert.Len(t, got, 5)
			assert.Equal(t, int32(1), tt.primary.calls.Load())
			assert.Equal(t, int32(1), secondary.calls.Load())
		})
	}
}

func TestGetResearchSnippets_PrimarySuccessSkipsSecondary(t *testing.T) {
	primary := staticProvider("a", samplePayload)
	secondary := staticProvider("b", samplePayload)
	svc := NewResearchService([]ResearchProvider{primary, secondary})

	_ = svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Equal(t, int32(0), secondary.calls.Load())
}

func TestGetResearchSnippets_AllProvidersFail_ReturnsEmpty(t *testing.T) {
	throwing := ProviderFunc{ID: "broken", Fn: func(context.Context, string) (string, error) {
		return "", errors.New("boom")
	}}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewResearchService([]ResearchProvider{throwing, throwing}, WithLogger(logger))

	got := svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.NotNil(t, got)
	assert.Empty(t, got)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=research_provider_failed")
	assert.Contains(t, out, "provider=broken")
	assert.Contains(t, out, "msg=research_unavailable")
}

func TestGetResearchSnippets_FailureIsNotCached(t *testing.T) {
	p := failingProvider("a")
	svc := NewResearchService([]ResearchProvider{p})

	_ = svc.GetResearchSnippets(context.Background(), boilerRequest())
	_ = svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Equal(t, int32(2), p.calls.Load())
}

func TestGetResearchSnippets_TimeoutTriggersFallback(t *testing.T) {
	slow := &countingProvider{name: "slow", fn: func(ctx context.Context, _ string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			return samplePayload, nil
		}
	}}
	fast := staticProvider("fast", samplePayload)
	svc := NewResearchService([]ResearchProvider{slow, fast}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	got := svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Len(t, got, 5)
	assert.Equal(t, int32(1), fast.calls.Load())
}

func TestGetResearchSnippets_NoProviders(t *testing.T) {
	svc := NewResearchService(nil)
	got := svc.GetResearchSnippets(context.Background(), boilerRequest())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetResearchSnippets_PromptCarriesRequest(t *testing.T) {
	var prompt string
	p := ProviderFunc{ID: "capture", Fn: func(_ context.Context, pr string) (string, error) {
		prompt = pr
		return samplePayload, nil
	}}
	svc := NewResearchService([]ResearchProvider{p})

	_ = svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Contains(t, prompt, "Jurisdiction: New Orleans")
	assert.Contains(t, prompt, "Job type: HVAC Repair (hvacRepair)")
	assert.Contains(t, prompt, "coordinate SHPO approval")
	assert.Contains(t, prompt, "keyConsiderations")
}

func TestCacheKey(t *testing.T) {
	long := strings.Repeat("A", 200)
	key := CacheKey(ResearchRequest{Scope: long, JobType: domain.TemplateRoofing})
	assert.Equal(t, "roofing--"+strings.Repeat("a", 120), key)

	key = CacheKey(boilerRequest())
	assert.Equal(t, "hvacRepair-NewOrleans-replace boiler in historic building, coordinate shpo approval", key)
}

func TestCacheKey_TruncatesOnRunes(t *testing.T) {
	prefix := strings.Repeat("a", scopeKeyLength-1)
	acute := CacheKey(ResearchRequest{Scope: prefix + "é and more", JobType: domain.TemplateRoofing})
	grave := CacheKey(ResearchRequest{Scope: prefix + "è and more", JobType: domain.TemplateRoofing})

	assert.NotEqual(t, acute, grave)
	assert.True(t, utf8.ValidString(acute))
	assert.True(t, strings.HasSuffix(acute, "aé"))
}

func TestGetResearchSnippets_CancelledCallerDoesNotStarveOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	p := &countingProvider{name: "slow", fn: func(ctx context.Context, _ string) (string, error) {
		once.Do(func() { close(started) })
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-release:
			return samplePayload, nil
		}
	}}
	svc := NewResearchService([]ResearchProvider{p}, WithTimeout(5*time.Second))

	ctxA, cancelA := context.WithCancel(context.Background())
	gotA := make(chan []domain.IntakeResearchSnippet, 1)
	go func() { gotA <- svc.GetResearchSnippets(ctxA, boilerRequest()) }()
	<-started

	gotB := make(chan []domain.IntakeResearchSnippet, 1)
	go func() { gotB <- svc.GetResearchSnippets(context.Background(), boilerRequest()) }()

	cancelA()
	assert.Empty(t, <-gotA)

	close(release)
	assert.Len(t, <-gotB, 5)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestGetResearchSnippets_PanickingProviderFallsBack(t *testing.T) {
	broken := &countingProvider{name: "broken", fn: func(context.Context, string) (string, error) {
		panic("nil client")
	}}
	fallback := staticProvider("fallback", samplePayload)
	var logs bytes.Buffer
	svc := NewResearchService([]ResearchProvider{broken, fallback},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	var got []domain.IntakeResearchSnippet
	require.NotPanics(t, func() {
		got = svc.GetResearchSnippets(context.Background(), boilerRequest())
	})

	assert.Len(t, got, 5)
	assert.Equal(t, int32(1), fallback.calls.Load())
	assert.Contains(t, logs.String(), "provider=broken")
	assert.Contains(t, logs.String(), "panicked")
}

func TestProviders_ListsNamesInOrder(t *testing.T) {
	svc := NewResearchService([]ResearchProvider{failingProvider("anthropic"), failingProvider("openai")})
	assert.Equal(t, []string{"anthropic", "openai"}, svc.Providers())
}
