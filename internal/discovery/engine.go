// Package discovery finds viral AI content and extracts repurposable
// ideas. Two ingestion paths share one analysis and persistence flow:
// automated search through the bird CLI, and manual feeding of content
// items over the API or CLI.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/logger"
	"github.com/user/pluma/internal/prompts"
	"github.com/user/pluma/internal/store"
)

// Searcher is the external search capability. Search degrades to an
// empty slice on failure; only Probe decides whether automated runs are
// attempted at all.
type Searcher interface {
	Probe(ctx context.Context) bool
	Search(ctx context.Context, query string, count int) []map[string]any
}

// Analysis is one model-extracted idea. Ref echoes the 1-based item
// number from the prompt so responses can be realigned to their source
// items even when the model reorders or drops entries.
type Analysis struct {
	Ref            int      `json:"ref,omitempty"`
	OriginalTitle  string   `json:"originalTitle"`
	CoreIdea       string   `json:"coreIdea"`
	ViralReason    string   `json:"viralReason"`
	LatamScore     int      `json:"latamScore"`
	RepurposeAngle string   `json:"repurposeAngle"`
	SuggestedTopic string   `json:"suggestedTopic"`
	SuggestedHook  string   `json:"suggestedHook"`
	Priority       string   `json:"priority"`
	Tags           []string `json:"tags"`
	Raw            string   `json:"raw,omitempty"`
	Err            string   `json:"error,omitempty"`
}

// RunResult is the structured outcome of a discovery run or feed.
type RunResult struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Items   []store.Discovery `json:"items"`
	Total   int               `json:"total"`
}

type Engine struct {
	store    *store.Store
	searcher Searcher
	gen      gateway.Generator

	// Fixed-rate throttles toward the external search service, one per
	// search phase.
	accountLimiter *rate.Limiter
	queryLimiter   *rate.Limiter
}

func NewEngine(st *store.Store, searcher Searcher, gen gateway.Generator) *Engine {
	return &Engine{
		store:          st,
		searcher:       searcher,
		gen:            gen,
		accountLimiter: rate.NewLimiter(rate.Every(800*time.Millisecond), 1),
		queryLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Store exposes the underlying document store for status endpoints.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Run is the full automated flow: probe, search, analyze, persist.
// An unauthenticated bird session is a structured failure, not an error;
// zero search results is a successful run with nothing to show.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	if !e.searcher.Probe(ctx) {
		return &RunResult{
			Success: false,
			Error:   "bird_no_auth",
			Message: "Bird CLI not authenticated. Use manual feed or log into x.com in your browser.",
		}, nil
	}

	raw, err := e.automatedSearch(ctx)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return &RunResult{Success: true, Items: []store.Discovery{}, Message: "No results found"}, nil
	}

	analyses, err := e.Analyze(ctx, raw)
	if err != nil {
		return nil, err
	}

	newItems, err := e.persist(analyses, raw, true)
	if err != nil {
		return nil, err
	}
	return &RunResult{Success: true, Items: newItems, Total: len(newItems)}, nil
}

// Feed analyzes and stores externally supplied items, skipping the
// availability probe and search phase.
func (e *Engine) Feed(ctx context.Context, items []map[string]any) (*RunResult, error) {
	if len(items) == 0 {
		return &RunResult{Success: false, Error: "No items provided"}, nil
	}

	analyses, err := e.Analyze(ctx, items)
	if err != nil {
		return nil, err
	}

	newItems, err := e.persist(analyses, items, false)
	if err != nil {
		return nil, err
	}
	return &RunResult{Success: true, Items: newItems, Total: len(newItems)}, nil
}

// automatedSearch fetches tracked accounts first, then topic queries,
// tagging every result with its provenance. One account or query failing
// never aborts the others.
func (e *Engine) automatedSearch(ctx context.Context) ([]map[string]any, error) {
	cfg, err := e.store.SearchConfig()
	if err != nil {
		return nil, err
	}

	var all []map[string]any

	for _, group := range cfg.Sources {
		critical := make(map[string]bool, len(group.Critical))
		for _, h := range group.Critical {
			critical[h] = true
		}
		for _, handle := range group.Accounts {
			if err := e.accountLimiter.Wait(ctx); err != nil {
				return all, err
			}
			count := 10
			if critical[handle] {
				count = 20
			}
			query := "from:" + handle
			results := e.searcher.Search(ctx, query, count)
			for _, r := range results {
				all = append(all, tagged(r, map[string]any{
					"source":   "x",
					"query":    query,
					"group":    group.Label,
					"critical": critical[handle],
				}))
			}
			logger.Debug("account search done", "handle", handle, "results", len(results))
		}
	}

	for _, query := range cfg.Queries {
		if err := e.queryLimiter.Wait(ctx); err != nil {
			return all, err
		}
		results := e.searcher.Search(ctx, query, 10)
		for _, r := range results {
			all = append(all, tagged(r, map[string]any{
				"source": "x",
				"query":  query,
			}))
		}
		logger.Debug("query search done", "query", query, "results", len(results))
	}

	return all, nil
}

// tagged merges provenance tags under the result's own fields; the
// result wins on key collision.
func tagged(r, tags map[string]any) map[string]any {
	merged := make(map[string]any, len(r)+len(tags))
	for k, v := range tags {
		merged[k] = v
	}
	for k, v := range r {
		merged[k] = v
	}
	return merged
}

// Analyze sends all items to the gateway in one call and parses the
// JSON-array response. A gateway failure is an error; an unparseable
// response is a single parse_failed element carrying the raw text, which
// the persistence step filters out.
func (e *Engine) Analyze(ctx context.Context, items []map[string]any) ([]Analysis, error) {
	result, err := e.gen.Generate(ctx, buildAnalysisPrompt(items), gateway.Options{
		System:    prompts.AnalysisSystem,
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, err
	}

	extracted := prompts.ExtractJSONArray(result)
	if extracted == "" {
		logger.Warn("analysis response had no JSON array")
		return []Analysis{{Raw: result, Err: "parse_failed"}}, nil
	}
	var parsed []Analysis
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		logger.Error("failed to parse analysis result", err)
		return []Analysis{{Raw: result, Err: "parse_failed"}}, nil
	}

	return alignByRef(parsed, len(items)), nil
}

// alignByRef reorders analyses by their echoed item number when every
// entry carries a distinct in-range ref; positions with no matching
// entry become error-tagged placeholders so they are never persisted.
// Responses without usable refs keep positional order.
func alignByRef(parsed []Analysis, n int) []Analysis {
	if len(parsed) > n {
		return parsed
	}
	seen := make(map[int]bool, len(parsed))
	for _, a := range parsed {
		if a.Ref < 1 || a.Ref > n || seen[a.Ref] {
			return parsed
		}
		seen[a.Ref] = true
	}
	aligned := make([]Analysis, n)
	for i := range aligned {
		aligned[i] = Analysis{Err: "missing"}
	}
	for _, a := range parsed {
		aligned[a.Ref-1] = a
	}
	return aligned
}

func buildAnalysisPrompt(items []map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %d pieces of viral/popular AI content.\n\n", len(items))
	b.WriteString("For EACH item, extract a repurposable idea for Irina's LATAM audience.\n\nContent items:\n")

	for i, item := range items {
		fmt.Fprintf(&b, "\n--- Item %d ---\n", i+1)
		fmt.Fprintf(&b, "Source: %s\n", stringField(item, "source", "web"))
		if author := stringField(item, "author", ""); author != "" {
			fmt.Fprintf(&b, "Author: %s\n", author)
		}
		if title := stringField(item, "title", ""); title != "" {
			fmt.Fprintf(&b, "Title: %s\n", title)
		}
		if url := stringField(item, "url", ""); url != "" {
			fmt.Fprintf(&b, "URL: %s\n", url)
		}
		fmt.Fprintf(&b, "Content: %s\n", prompts.Truncate(itemText(item), 800))
		if likes := intField(item, "likes"); likes > 0 {
			fmt.Fprintf(&b, "Likes: %d\n", likes)
		}
		if retweets := intField(item, "retweets"); retweets > 0 {
			fmt.Fprintf(&b, "Retweets: %d\n", retweets)
		}
	}

	b.WriteString(`
Return a JSON array of objects, one per item. Echo each item's number in "ref":
[
  {
    "ref": 1,
    "originalTitle": "title or first line of original",
    "coreIdea": "the key insight worth repurposing",
    "viralReason": "why this resonated",
    "latamScore": 8,
    "repurposeAngle": "how Irina should adapt this",
    "suggestedTopic": "specific topic for her newsletter",
    "suggestedHook": "hook in Spanish for the guide",
    "priority": "high|medium|low",
    "tags": ["AI tools", "productivity"]
  }
]`)
	return b.String()
}

// itemText picks the first non-empty body field a source might use.
func itemText(item map[string]any) string {
	for _, key := range []string{"text", "content", "snippet"} {
		if s := stringField(item, key, ""); s != "" {
			return s
		}
	}
	return ""
}

func stringField(item map[string]any, key, fallback string) string {
	if s, ok := item[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// intField tolerates both JSON numbers and numeric strings.
func intField(item map[string]any, key string) int {
	switch v := item[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}

// persist builds DiscoveryItems from the valid analyses, prepends them
// newest-first, enforces the retention cap, and rewrites the document.
// The aligned index pairs each analysis with its raw source item; ids
// are time-prefixed per batch and index-suffixed within it.
func (e *Engine) persist(analyses []Analysis, raw []map[string]any, stampSearch bool) ([]store.Discovery, error) {
	now := time.Now().UTC()
	ms := now.UnixMilli()

	newItems := make([]store.Discovery, 0, len(analyses))
	for i, a := range analyses {
		if a.Err != "" {
			continue
		}
		var rawItem map[string]any
		if i < len(raw) {
			rawItem = raw[i]
		}
		newItems = append(newItems, store.Discovery{
			ID:             fmt.Sprintf("d-%d-%d", ms, len(newItems)),
			OriginalTitle:  a.OriginalTitle,
			CoreIdea:       a.CoreIdea,
			ViralReason:    a.ViralReason,
			LatamScore:     a.LatamScore,
			RepurposeAngle: a.RepurposeAngle,
			SuggestedTopic: a.SuggestedTopic,
			SuggestedHook:  a.SuggestedHook,
			Priority:       a.Priority,
			Tags:           a.Tags,
			Raw:            rawItem,
			DiscoveredAt:   now,
			Status:         store.StatusNew,
		})
	}

	err := e.store.MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		l.Prepend(newItems...)
		if stampSearch {
			t := now
			l.LastSearch = &t
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return newItems, nil
}
