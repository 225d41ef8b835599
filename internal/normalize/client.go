// Package normalize calls the external node-normalization service to turn
// CURIEs into human-readable labels and biolink categories. One deduplicated
// batch call per request; failures degrade to raw CURIEs upstream.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Node is one resolved identifier. Unresolvable identifiers are absent
// from the result map (or present as null), not errors.
type Node struct {
	ID struct {
		Identifier string `json:"identifier"`
		Label      string `json:"label"`
	} `json:"id"`
	Type []string `json:"type"`
}

// Label returns the preferred human-readable label, or fallback when the
// service returned none.
func (n *Node) Label(fallback string) string {
	if n == nil || n.ID.Label == "" {
		return fallback
	}
	return n.ID.Label
}

// Category returns the primary biolink category.
func (n *Node) Category() string {
	if n == nil || len(n.Type) == 0 {
		return "biolink:NamedThing"
	}
	return n.Type[0]
}

type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
}

func New(url string, timeout time.Duration, requestsPerSec int) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec),
	}
}

// NormalizedNodes posts the deduplicated identifier batch and returns the
// per-identifier resolution map. Never called per-entity.
func (c *Client) NormalizedNodes(ctx context.Context, curies []string) (map[string]*Node, error) {
	deduped := dedupe(curies)
	if len(deduped) == 0 {
		return map[string]*Node{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{"curies": deduped})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling normalizer: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("normalizer returned status %d", resp.StatusCode)
	}

	var nodes map[string]*Node
	if err := json.NewDecoder(resp.Body).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decoding normalizer response: %w", err)
	}
	// Null entries mean "unresolvable"; drop them so callers only see hits.
	for curie, node := range nodes {
		if node == nil {
			delete(nodes, curie)
		}
	}
	return nodes, nil
}

func dedupe(curies []string) []string {
	seen := make(map[string]bool, len(curies))
	var out []string
	for _, c := range curies {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
