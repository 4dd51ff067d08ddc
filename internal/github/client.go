package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jmorales/devdiary/internal/models"
)

// Client talks to the GitHub REST API for commit listings and per-commit
// diff details.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an authenticated client. baseURL is normally
// https://api.github.com; tests and enterprise setups override it.
func NewClient(ctx context.Context, token, baseURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token not configured (set github_token in config.toml)")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// CommitRef is one item of a commit listing.
type CommitRef struct {
	SHA string `json:"sha"`
}

// commitDetailsResponse is the GitHub single-commit response, reduced to the
// fields we consume.
type commitDetailsResponse struct {
	SHA   string `json:"sha"`
	Files []struct {
		Filename  string `json:"filename"`
		Status    string `json:"status"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
		BlobURL   string `json:"blob_url"`
	} `json:"files"`
}

// ListCommits fetches all commits on branch within [since, until], following
// pagination. GitHub returns newest first; the result is reversed so callers
// get chronological order (oldest first).
func (c *Client) ListCommits(ctx context.Context, repoRef, branch string, since, until time.Time) ([]CommitRef, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits?sha=%s&since=%s&until=%s&per_page=100",
		c.baseURL,
		repoRef,
		url.QueryEscape(branch),
		url.QueryEscape(since.Format(time.RFC3339)),
		url.QueryEscape(until.Format(time.RFC3339)),
	)

	var all []CommitRef
	for endpoint != "" {
		var page []CommitRef
		next, err := c.getJSON(ctx, endpoint, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		endpoint = next
	}

	// newest-first from the API, oldest-first for the aggregation
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	return all, nil
}

// GetCommitDetails fetches file-level diff stats for a single commit.
func (c *Client) GetCommitDetails(ctx context.Context, repoRef, sha string) (*models.Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits/%s", c.baseURL, repoRef, sha)

	var resp commitDetailsResponse
	if _, err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	commit := &models.Commit{SHA: resp.SHA}
	for _, f := range resp.Files {
		commit.Files = append(commit.Files, models.CommitFile{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			PatchURL:  f.BlobURL,
		})
	}

	return commit, nil
}

// getJSON performs a GET, decodes the body into out, and returns the next
// page URL from the Link header if present.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("github API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return "", fmt.Errorf("decoding github response: %w", err)
	}

	return nextPageURL(resp.Header.Get("Link")), nil
}

// nextPageURL extracts the rel="next" target from a GitHub Link header.
// Returns "" when there is no next page.
func nextPageURL(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(strings.TrimSpace(part), ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		target := strings.TrimSpace(section[0])
		return strings.Trim(target, "<>")
	}
	return ""
}
