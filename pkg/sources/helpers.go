package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

func fetchDocument(ctx context.Context, client httpclient.Client, url, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", sourceID, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s feed returned status %d body: %s", sourceID, resp.StatusCode(), responseSnippet(body))
	}

	return body, nil
}

// dedupeStrings drops blanks and repeats while keeping order.
func dedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
