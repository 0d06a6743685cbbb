// Package generate builds final prompts from format templates plus topic
// or discovery data, calls the gateway, and writes the resulting guides
// to the output folders (ready/ for publication candidates, review/ for
// polished drafts awaiting approval).
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/pluma/internal/config"
	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/logger"
	"github.com/user/pluma/internal/prompts"
	"github.com/user/pluma/internal/store"
	"github.com/user/pluma/internal/topics"
)

// ErrNotFound marks an unknown topic or discovery id.
var ErrNotFound = errors.New("not found")

const guideMaxTokens = 6000

type Service struct {
	cfg  *config.Config
	gen  gateway.Generator
	bank *topics.Bank
	eng  *discovery.Engine
}

func NewService(cfg *config.Config, gen gateway.Generator, bank *topics.Bank, eng *discovery.Engine) *Service {
	return &Service{cfg: cfg, gen: gen, bank: bank, eng: eng}
}

// Result reports a completed generation.
type Result struct {
	Success   bool              `json:"success"`
	Guide     string            `json:"guide,omitempty"`
	Polished  string            `json:"polished,omitempty"`
	Filename  string            `json:"filename"`
	WordCount int               `json:"wordCount"`
	Discovery *DiscoverySummary `json:"discovery,omitempty"`
}

// DiscoverySummary is the slice of a discovery echoed back with a
// from-discovery result.
type DiscoverySummary struct {
	ID             string `json:"id"`
	OriginalTitle  string `json:"originalTitle"`
	SuggestedTopic string `json:"suggestedTopic"`
	LatamScore     int    `json:"latamScore"`
}

// FromTopic generates a complete newsletter edition from a topic-bank
// entry (by id) or a free-text topic. Bank topics are moved through
// generating to done, and the generation log gains a record.
func (s *Service) FromTopic(ctx context.Context, topicID, topicText, format, instructions string) (*Result, error) {
	topicData := topicText
	if topicID != "" {
		topic, err := s.bank.Get(topicID)
		if err != nil {
			return nil, err
		}
		if topic != nil {
			topicData = topicTitle(topic)
		}
	}
	if topicData == "" {
		return nil, fmt.Errorf("topic required: %w", ErrNotFound)
	}

	if topicID != "" {
		if err := s.bank.MarkGenerating(topicID); err != nil {
			logger.Warn("could not mark topic generating", "topic", topicID, "error", err.Error())
		}
	}

	prompt := fmt.Sprintf(`
Create a complete, publication-ready newsletter edition for Beehiiv.

Topic: %s
Format: %s
%s
Write the complete newsletter edition now:
`, topicData, format, instructionsBlock(instructions))

	guide, err := s.gen.Generate(ctx, prompt, gateway.Options{
		System:    prompts.FormatSystem(format),
		MaxTokens: guideMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("guide-%d.md", time.Now().UnixMilli())
	header := fmt.Sprintf("# Generated: %s\n# Topic: %s\n\n",
		time.Now().UTC().Format(time.RFC3339), topicData)
	if err := s.writeOutput(s.cfg.ReadyDir(), filename, header+guide); err != nil {
		return nil, err
	}

	if topicID != "" {
		if err := s.bank.MarkGenerated(topicID, filename); err != nil {
			logger.Warn("could not record generation", "topic", topicID, "error", err.Error())
		}
	}

	return &Result{
		Success:   true,
		Guide:     guide,
		Filename:  filename,
		WordCount: prompts.WordCount(guide),
	}, nil
}

// topicTitle prefers the brief's title over the raw idea once a topic
// has been expanded.
func topicTitle(topic *store.Topic) string {
	if len(topic.Brief) > 0 {
		var brief struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(topic.Brief, &brief); err == nil && brief.Title != "" {
			return brief.Title
		}
	}
	return topic.Idea
}

// FromDiscovery generates a guide using a discovery's full analysis and
// raw snapshot as source material, then marks the discovery generated.
func (s *Service) FromDiscovery(ctx context.Context, discoveryID, instructions string) (*Result, error) {
	disc, err := s.eng.Get(discoveryID)
	if err != nil {
		return nil, err
	}
	if disc == nil {
		return nil, fmt.Errorf("discovery %s: %w", discoveryID, ErrNotFound)
	}

	prompt := buildDiscoveryPrompt(disc, instructions)
	guide, err := s.gen.Generate(ctx, prompt, gateway.Options{
		System:    prompts.DiscoveryGenerationSystem,
		MaxTokens: guideMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("guide-disc-%d.md", time.Now().UnixMilli())
	header := fmt.Sprintf(`# Generated: %s
# Source: Discovery %s
# Original: %s
# Topic: %s
# LATAM Score: %d/10

`, time.Now().UTC().Format(time.RFC3339), discoveryID,
		prompts.OrNA(disc.OriginalTitle),
		prompts.OrNA(firstNonEmpty(disc.SuggestedTopic, disc.CoreIdea)),
		disc.LatamScore)
	if err := s.writeOutput(s.cfg.ReadyDir(), filename, header+guide); err != nil {
		return nil, err
	}

	if _, err := s.eng.Update(discoveryID, discovery.Updates{
		Status:     store.StatusGenerated,
		OutputFile: filename,
	}); err != nil {
		logger.Warn("could not mark discovery generated", "discovery", discoveryID, "error", err.Error())
	}

	return &Result{
		Success:   true,
		Guide:     guide,
		Filename:  filename,
		WordCount: prompts.WordCount(guide),
		Discovery: &DiscoverySummary{
			ID:             disc.ID,
			OriginalTitle:  disc.OriginalTitle,
			SuggestedTopic: disc.SuggestedTopic,
			LatamScore:     disc.LatamScore,
		},
	}, nil
}

func buildDiscoveryPrompt(disc *store.Discovery, instructions string) string {
	var b strings.Builder
	b.WriteString("\nCreate a complete, publication-ready how-to guide for Beehiiv newsletter.\nUse the discovery analysis below as your foundation.\n")

	fmt.Fprintf(&b, `
## ORIGINAL VIRAL CONTENT
Title: %s
Content: %s
Author: %s
Engagement: %s
`, prompts.OrNA(disc.OriginalTitle),
		prompts.OrNA(rawField(disc.Raw, "content", "text")),
		prompts.OrNA(rawField(disc.Raw, "author")),
		prompts.OrNA(engagementLine(disc.Raw)))

	fmt.Fprintf(&b, `
## ANALYSIS
Core idea: %s
Why it went viral: %s
LATAM relevance: %d/10
`, prompts.OrNA(disc.CoreIdea), prompts.OrNA(disc.ViralReason), disc.LatamScore)

	fmt.Fprintf(&b, `
## REPURPOSE BRIEF
Angle: %s
Suggested topic: %s
Suggested hook: %s
Tags: %s
`, prompts.OrNA(disc.RepurposeAngle), prompts.OrNA(disc.SuggestedTopic),
		prompts.OrNA(disc.SuggestedHook), strings.Join(disc.Tags, ", "))

	if instructions != "" {
		fmt.Fprintf(&b, "\n## ADDITIONAL INSTRUCTIONS\n%s\n", instructions)
	}

	b.WriteString("\nNow write the complete guide. Use the viral reason to hit the same emotional nerve. Use the repurpose angle to adapt for LATAM professionals. The guide must stand alone — the reader should never need to see the original content.\n")
	return b.String()
}

func rawField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func engagementLine(raw map[string]any) string {
	var parts []string
	if likes, ok := raw["likes"].(float64); ok && likes > 0 {
		parts = append(parts, fmt.Sprintf("%d likes", int(likes)))
	}
	if rts, ok := raw["retweets"].(float64); ok && rts > 0 {
		parts = append(parts, fmt.Sprintf("%d RTs", int(rts)))
	}
	return strings.Join(parts, " ")
}

// PolishDraft rewrites a draft into a publication-ready guide and saves
// it under review/ for approval.
func (s *Service) PolishDraft(ctx context.Context, draft, instructions string) (*Result, error) {
	if strings.TrimSpace(draft) == "" {
		return nil, fmt.Errorf("draft required")
	}

	prompt := fmt.Sprintf(`
Here is a draft that needs to be polished into a publication-ready how-to guide:

---DRAFT START---
%s
---DRAFT END---
%s
Polish this draft:
1. Strengthen the hook
2. Improve structure and flow
3. Add actionable elements where missing
4. Ensure it sounds like Irina (direct, personal, actionable)
5. Format for email newsletter

Output the polished version, then a brief "## Cambios Realizados" section summarizing what you changed.
`, draft, instructionsBlock(instructions))

	polished, err := s.gen.Generate(ctx, prompt, gateway.Options{
		System:    prompts.DraftSystem,
		MaxTokens: guideMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("draft-polished-%d.md", time.Now().UnixMilli())
	header := fmt.Sprintf("# Polished: %s\n\n", time.Now().UTC().Format(time.RFC3339))
	if err := s.writeOutput(s.cfg.ReviewDir(), filename, header+polished); err != nil {
		return nil, err
	}

	return &Result{
		Success:   true,
		Polished:  polished,
		Filename:  filename,
		WordCount: prompts.WordCount(polished),
	}, nil
}

func instructionsBlock(instructions string) string {
	if instructions == "" {
		return ""
	}
	return fmt.Sprintf("\nAdditional instructions: %s\n", instructions)
}

func (s *Service) writeOutput(dir, filename, content string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
