// Package bird wraps the bird CLI for searching X. The query is passed
// as a plain argument vector, never through a shell, so no escaping of
// caller input is required.
package bird

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/user/pluma/internal/config"
	"github.com/user/pluma/internal/logger"
)

// readyMarker is what `bird check` prints when the session is usable.
const readyMarker = "Ready to tweet"

const (
	probeTimeout  = 15 * time.Second
	searchTimeout = 30 * time.Second
)

type Client struct {
	command   string
	authToken string
	ct0       string
}

func New(cfg config.BirdConfig) *Client {
	command := cfg.Command
	if command == "" {
		command = "bird"
	}
	return &Client{
		command:   command,
		authToken: cfg.AuthToken,
		ct0:       cfg.CT0,
	}
}

// authArgs returns the credential flags, or nothing when the pair is
// incomplete. bird needs both to attempt an authenticated call.
func (c *Client) authArgs() []string {
	if c.authToken == "" || c.ct0 == "" {
		return nil
	}
	return []string{"--auth-token", c.authToken, "--ct0", c.ct0}
}

// Probe runs `bird check` and reports availability. The readiness marker
// is looked for in combined output whether or not the process exited
// zero: some bird versions print it and still exit non-zero.
func (c *Client) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := append([]string{"check"}, c.authArgs()...)
	out, err := exec.CommandContext(ctx, c.command, args...).CombinedOutput()
	if err != nil && len(out) == 0 {
		logger.Debug("bird check failed", "error", err.Error())
	}
	return strings.Contains(string(out), readyMarker)
}

// Search runs `bird search` and returns the parsed JSON results. Every
// failure mode (missing binary, timeout, non-zero exit without parseable
// stdout, malformed JSON) degrades to an empty slice; callers keep going
// with whatever other searches produced.
func (c *Client) Search(ctx context.Context, query string, count int) []map[string]any {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	args := append([]string{
		"search", query,
		"-n", strconv.Itoa(count),
		"--json", "--plain",
	}, c.authArgs()...)

	cmd := exec.CommandContext(ctx, c.command, args...)
	stdout, err := cmd.Output()

	// A non-zero exit can still leave usable JSON on stdout; only give up
	// when stdout does not parse.
	var results []map[string]any
	if jsonErr := json.Unmarshal(stdout, &results); jsonErr != nil {
		if err != nil {
			logger.Error("bird search failed", err, "query", query)
		} else {
			logger.Error("bird search returned malformed JSON", jsonErr, "query", query)
		}
		return nil
	}
	return results
}
