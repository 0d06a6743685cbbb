package store

import (
	"encoding/json"
	"time"
)

// Discovery statuses. imported and dismissed are terminal for review
// purposes; generated is set once a guide has been produced from the item.
const (
	StatusNew       = "new"
	StatusReviewed  = "reviewed"
	StatusImported  = "imported"
	StatusDismissed = "dismissed"
	StatusGenerated = "generated"
)

// Topic statuses, linear: raw -> expanded -> generating -> done.
const (
	TopicRaw        = "raw"
	TopicExpanded   = "expanded"
	TopicGenerating = "generating"
	TopicDone       = "done"
)

// Discovery is a candidate piece of source content plus its analysis.
// Raw holds the source item exactly as fetched or fed; it is never
// rewritten after the item is created.
type Discovery struct {
	ID             string         `json:"id"`
	OriginalTitle  string         `json:"originalTitle,omitempty"`
	CoreIdea       string         `json:"coreIdea,omitempty"`
	ViralReason    string         `json:"viralReason,omitempty"`
	LatamScore     int            `json:"latamScore,omitempty"`
	RepurposeAngle string         `json:"repurposeAngle,omitempty"`
	SuggestedTopic string         `json:"suggestedTopic,omitempty"`
	SuggestedHook  string         `json:"suggestedHook,omitempty"`
	Priority       string         `json:"priority,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Raw            map[string]any `json:"raw,omitempty"`
	DiscoveredAt   time.Time      `json:"discoveredAt"`
	Status         string         `json:"status"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
	ImportedAt     *time.Time     `json:"importedAt,omitempty"`
	DismissedAt    *time.Time     `json:"dismissedAt,omitempty"`
	TopicID        string         `json:"topicId,omitempty"`
	OutputFile     string         `json:"outputFile,omitempty"`
}

// MaxDiscoveries caps the discoveries document. Oldest items beyond the
// cap are dropped on write; retention is intentional, not an error.
const MaxDiscoveries = 100

// DiscoveryList is the whole discoveries document, newest first.
type DiscoveryList struct {
	Items      []Discovery `json:"items"`
	LastSearch *time.Time  `json:"lastSearch"`
}

// Prepend inserts items at the head and truncates to MaxDiscoveries.
func (l *DiscoveryList) Prepend(items ...Discovery) {
	l.Items = append(items, l.Items...)
	if len(l.Items) > MaxDiscoveries {
		l.Items = l.Items[:MaxDiscoveries]
	}
}

// Find returns a pointer into Items for in-place mutation, or nil.
func (l *DiscoveryList) Find(id string) *Discovery {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// Topic is one entry in the topic bank. Brief stays opaque JSON: it is
// whatever the expansion prompt returned.
type Topic struct {
	ID          string          `json:"id"`
	Idea        string          `json:"idea"`
	Source      string          `json:"source"`
	Notes       string          `json:"notes,omitempty"`
	DiscoveryID string          `json:"discoveryId,omitempty"`
	Status      string          `json:"status"`
	Brief       json.RawMessage `json:"brief,omitempty"`
	Angles      string          `json:"angles,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpandedAt  *time.Time      `json:"expandedAt,omitempty"`
	GeneratedAt *time.Time      `json:"generatedAt,omitempty"`
	OutputFile  string          `json:"outputFile,omitempty"`
}

// GeneratedRecord is one line of the append-only generation log.
type GeneratedRecord struct {
	TopicID     string    `json:"topicId"`
	Filename    string    `json:"filename"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// TopicBank is the whole topics document.
type TopicBank struct {
	Topics    []Topic           `json:"topics"`
	Generated []GeneratedRecord `json:"generated"`
}

// Find returns a pointer into Topics for in-place mutation, or nil.
func (b *TopicBank) Find(id string) *Topic {
	for i := range b.Topics {
		if b.Topics[i].ID == id {
			return &b.Topics[i]
		}
	}
	return nil
}

// Engagement holds advisory minimum-engagement thresholds.
type Engagement struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
}

// SourceGroup is a named group of tracked accounts. Handles listed in
// Critical get a deeper fetch.
type SourceGroup struct {
	Label    string   `json:"label"`
	Accounts []string `json:"accounts"`
	Critical []string `json:"critical,omitempty"`
}

// SearchConfig is the discovery-config document.
type SearchConfig struct {
	Queries       []string               `json:"queries"`
	MinEngagement Engagement             `json:"minEngagement"`
	MaxResults    int                    `json:"maxResults"`
	Sources       map[string]SourceGroup `json:"sources,omitempty"`
}

// DefaultSearchConfig is used when no discovery-config file exists.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		Queries:       []string{"AI tools", "Claude tips", "ChatGPT prompts"},
		MinEngagement: Engagement{Likes: 100, Retweets: 20},
		MaxResults:    20,
	}
}
