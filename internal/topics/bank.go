// Package topics manages the durable backlog of content ideas: manual
// entries, discovery imports, expansion into briefs, and the log of
// what has been generated from them.
package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/prompts"
	"github.com/user/pluma/internal/store"
)

type Bank struct {
	store *store.Store
	gen   gateway.Generator
}

func NewBank(st *store.Store, gen gateway.Generator) *Bank {
	return &Bank{store: st, gen: gen}
}

// List returns the whole topic bank document.
func (b *Bank) List() (*store.TopicBank, error) {
	return b.store.Topics()
}

// Get returns a single topic, or nil when the id is unknown.
func (b *Bank) Get(id string) (*store.Topic, error) {
	bank, err := b.store.Topics()
	if err != nil {
		return nil, err
	}
	if t := bank.Find(id); t != nil {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

// Add appends a new raw topic idea. Source defaults to manual.
func (b *Bank) Add(idea, source, notes string) (*store.Topic, error) {
	if idea == "" {
		return nil, fmt.Errorf("idea required")
	}
	if source == "" {
		source = "manual"
	}
	topic := store.Topic{
		ID:        uuid.NewString(),
		Idea:      idea,
		Source:    source,
		Notes:     notes,
		Status:    store.TopicRaw,
		CreatedAt: time.Now().UTC(),
	}
	err := b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		bank.Topics = append(bank.Topics, topic)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// Delete removes a topic. Unknown ids are not an error.
func (b *Bank) Delete(id string) error {
	return b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		kept := bank.Topics[:0]
		for _, t := range bank.Topics {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		bank.Topics = kept
		return true, nil
	})
}

// Expand asks the gateway to turn a raw idea into a content brief and
// stores the result. The brief stays opaque JSON; a response with no
// extractable object is kept wrapped under "raw" rather than discarded.
// Returns nil when the id is unknown.
func (b *Bank) Expand(ctx context.Context, id string) (*store.Topic, error) {
	topic, err := b.Get(id)
	if err != nil || topic == nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Topic idea: %s\n", topic.Idea)
	if topic.Notes != "" {
		prompt += fmt.Sprintf("Notes: %s\n", topic.Notes)
	}
	prompt += "\nExpand this into a complete content brief for a how-to guide.\nReturn valid JSON only.\n"

	result, err := b.gen.Generate(ctx, prompt, gateway.Options{System: prompts.TopicExpansionSystem})
	if err != nil {
		return nil, err
	}

	brief := briefFromResponse(result)

	var updated *store.Topic
	err = b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		t := bank.Find(id)
		if t == nil {
			return false, nil
		}
		now := time.Now().UTC()
		t.Brief = brief
		t.Status = store.TopicExpanded
		t.ExpandedAt = &now
		copied := *t
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func briefFromResponse(result string) json.RawMessage {
	extracted := prompts.ExtractJSONObject(result)
	if extracted != "" && json.Valid([]byte(extracted)) {
		return json.RawMessage(extracted)
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": result})
	return wrapped
}

// Angles generates five content angles for a topic and stores them as
// free text. Returns nil when the id is unknown.
func (b *Bank) Angles(ctx context.Context, id string) (*store.Topic, error) {
	topic, err := b.Get(id)
	if err != nil || topic == nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Topic: %s\n\nGenerate 5 different angles for this topic.", topic.Idea)
	result, err := b.gen.Generate(ctx, prompt, gateway.Options{System: prompts.AngleGeneratorSystem})
	if err != nil {
		return nil, err
	}

	var updated *store.Topic
	err = b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		t := bank.Find(id)
		if t == nil {
			return false, nil
		}
		t.Angles = result
		copied := *t
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkGenerating moves a topic into the generating state.
func (b *Bank) MarkGenerating(id string) error {
	return b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		t := bank.Find(id)
		if t == nil {
			return false, nil
		}
		t.Status = store.TopicGenerating
		return true, nil
	})
}

// MarkGenerated marks a topic done and appends to the generation log.
func (b *Bank) MarkGenerated(id, filename string) error {
	return b.store.MutateTopics(func(bank *store.TopicBank) (bool, error) {
		t := bank.Find(id)
		if t == nil {
			return false, nil
		}
		now := time.Now().UTC()
		t.Status = store.TopicDone
		t.GeneratedAt = &now
		t.OutputFile = filename
		bank.Generated = append(bank.Generated, store.GeneratedRecord{
			TopicID:     id,
			Filename:    filename,
			GeneratedAt: now,
		})
		return true, nil
	})
}
