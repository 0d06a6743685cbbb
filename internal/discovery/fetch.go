package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher turns a URL into a feedable content item using Jina Reader.
type Fetcher struct {
	client   *http.Client
	endpoint string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: "https://r.jina.ai/",
	}
}

// FetchURL fetches readable page content and shapes it as a feed item.
func (f *Fetcher) FetchURL(ctx context.Context, targetURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+url.QueryEscape(targetURL), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina reader returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	content := string(body)

	// Cap content for the analysis prompt.
	const maxContentLen = 50000
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}

	return map[string]any{
		"source":  "web",
		"url":     targetURL,
		"content": content,
	}, nil
}
