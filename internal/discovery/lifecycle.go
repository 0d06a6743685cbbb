package discovery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/pluma/internal/prompts"
	"github.com/user/pluma/internal/store"
)

// Filter narrows a discovery listing. Zero values mean "no constraint";
// predicates compose conjunctively.
type Filter struct {
	Status   string
	MinScore int
	Priority string
}

// ListResult is a filtered view of the discoveries document.
type ListResult struct {
	Items      []store.Discovery `json:"items"`
	Total      int               `json:"total"`
	LastSearch *time.Time        `json:"lastSearch"`
}

// List returns discoveries matching the filter. Listing never mutates
// the store; MinScore is inclusive and a missing score counts as 0.
func (e *Engine) List(filter Filter) (*ListResult, error) {
	list, err := e.store.Discoveries()
	if err != nil {
		return nil, err
	}

	items := make([]store.Discovery, 0, len(list.Items))
	for _, item := range list.Items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.MinScore > 0 && item.LatamScore < filter.MinScore {
			continue
		}
		if filter.Priority != "" && item.Priority != filter.Priority {
			continue
		}
		items = append(items, item)
	}

	return &ListResult{Items: items, Total: len(items), LastSearch: list.LastSearch}, nil
}

// Get returns a single discovery, or nil when the id is unknown.
func (e *Engine) Get(id string) (*store.Discovery, error) {
	list, err := e.store.Discoveries()
	if err != nil {
		return nil, err
	}
	if item := list.Find(id); item != nil {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

// Updates carries field-level overwrites for a discovery. Empty fields
// are left untouched.
type Updates struct {
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
	OutputFile string `json:"outputFile,omitempty"`
}

// Update merges fields into the matched item and stamps updatedAt.
// Returns nil when the id is unknown; the store file is left untouched
// in that case.
func (e *Engine) Update(id string, u Updates) (*store.Discovery, error) {
	var updated *store.Discovery
	err := e.store.MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		item := l.Find(id)
		if item == nil {
			return false, nil
		}
		if u.Status != "" {
			item.Status = u.Status
		}
		if u.Priority != "" {
			item.Priority = u.Priority
		}
		if u.OutputFile != "" {
			item.OutputFile = u.OutputFile
		}
		now := time.Now().UTC()
		item.UpdatedAt = &now
		copied := *item
		updated = &copied
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ImportResult pairs the new topic-bank entry with the updated source
// discovery.
type ImportResult struct {
	Topic     store.Topic     `json:"topic"`
	Discovery store.Discovery `json:"discovery"`
}

// Import creates a topic-bank entry from a discovery's suggested topic
// (core idea as fallback) and marks the discovery imported with a
// back-reference. The two documents are written separately; if the
// discovery-side write fails the topic entry is removed again so the
// stores do not diverge.
func (e *Engine) Import(id string) (*ImportResult, error) {
	disc, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	if disc == nil {
		return nil, nil
	}

	idea := disc.SuggestedTopic
	if idea == "" {
		idea = disc.CoreIdea
	}
	topic := store.Topic{
		ID:          uuid.NewString(),
		Idea:        idea,
		Source:      "discovery",
		Notes: fmt.Sprintf("Repurpose angle: %s\nHook: %s\nOriginal: %s",
			prompts.OrNA(disc.RepurposeAngle),
			prompts.OrNA(disc.SuggestedHook),
			prompts.OrNA(disc.OriginalTitle)),
		DiscoveryID: id,
		Status:      store.TopicRaw,
		CreatedAt:   time.Now().UTC(),
	}

	err = e.store.MutateTopics(func(b *store.TopicBank) (bool, error) {
		b.Topics = append(b.Topics, topic)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	var updated *store.Discovery
	err = e.store.MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		item := l.Find(id)
		if item == nil {
			return false, fmt.Errorf("discovery %s vanished during import", id)
		}
		now := time.Now().UTC()
		item.Status = store.StatusImported
		item.ImportedAt = &now
		item.TopicID = topic.ID
		copied := *item
		updated = &copied
		return true, nil
	})
	if err != nil {
		// Compensate so the bank does not keep an entry whose source
		// discovery was never marked imported.
		_ = e.store.MutateTopics(func(b *store.TopicBank) (bool, error) {
			for i := range b.Topics {
				if b.Topics[i].ID == topic.ID {
					b.Topics = append(b.Topics[:i], b.Topics[i+1:]...)
					return true, nil
				}
			}
			return false, nil
		})
		return nil, err
	}

	return &ImportResult{Topic: topic, Discovery: *updated}, nil
}

// Dismiss marks a discovery dismissed. False when the id is unknown.
func (e *Engine) Dismiss(id string) (bool, error) {
	found := false
	err := e.store.MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		item := l.Find(id)
		if item == nil {
			return false, nil
		}
		now := time.Now().UTC()
		item.Status = store.StatusDismissed
		item.DismissedAt = &now
		found = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
