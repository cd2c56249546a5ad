// Package github fetches a user's public repositories for the profile page.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

const defaultBaseURL = "https://api.github.com"

type Repo struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

type Client struct {
	http     *http.Client
	baseURL  string
	clientID string
	secret   string
}

// NewClient returns a GitHub client. clientID/secret are optional and only
// raise the unauthenticated rate limit.
func NewClient(clientID, secret string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// Repos lists the user's five most recently created public repositories.
// An unknown user maps to not_found.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.secret)
	}
	u := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "build github request failed")
	}
	req.Header.Set("User-Agent", "dev-connector")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "github request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, appErr.New(appErr.CodeNotFound, "No Github profile found")
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "decode github response failed")
	}
	return repos, nil
}
