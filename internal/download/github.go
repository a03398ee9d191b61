package download

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

const (
	githubAPIURL     = "https://api.github.com"
	githubGraphQLURL = "https://api.github.com/graphql"

	cacheSize = 64
	cacheTTL  = 5 * time.Minute
)

// ErrNoCommits is returned when a path has no commit history
var ErrNoCommits = errors.New("no commits found")

// Commit is the latest change to a tracked path
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
	URL     string    `json:"url,omitempty"`
}

// Headline returns the first line of the commit message
func (c Commit) Headline() string {
	headline, _, _ := strings.Cut(c.Message, "\n")
	return headline
}

// FileInfo is GitHub's contents API view of a file
type FileInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

type githubCommit struct {
	SHA     string `json:"sha"`
	HtmlURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// GitHubConfig configures a GitHub client
type GitHubConfig struct {
	Proxy    string
	Insecure bool
	Token    string
	// APIURL and GraphQLURL default to api.github.com
	APIURL     string
	GraphQLURL string
}

// GitHub polls the data repository for changes
type GitHub struct {
	conf   *GitHubConfig
	client *http.Client
	cache  *expirable.LRU[string, any]
}

// NewGitHub creates a GitHub API client
func NewGitHub(conf *GitHubConfig) *GitHub {
	if conf == nil {
		conf = &GitHubConfig{}
	}
	if conf.APIURL == "" {
		conf.APIURL = githubAPIURL
	}
	if conf.GraphQLURL == "" {
		conf.GraphQLURL = githubGraphQLURL
	}
	return &GitHub{
		conf: conf,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:           GetProxy(conf.Proxy),
				TLSClientConfig: &tls.Config{InsecureSkipVerify: conf.Insecure},
			},
			Timeout: 30 * time.Second,
		},
		cache: expirable.NewLRU[string, any](cacheSize, nil, cacheTTL),
	}
}

func (g *GitHub) get(ctx context.Context, uri string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create http request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if len(g.conf.Token) > 0 {
		req.Header.Add("Authorization", "token "+g.conf.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "client failed to perform request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api error: %s", resp.Status)
	}

	document, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read github api JSON")
	}

	if err := json.Unmarshal(document, v); err != nil {
		return errors.Wrap(err, "failed to unmarshal the github api JSON")
	}

	return nil
}

// LatestCommit returns the most recent commit touching path in repo (owner/name)
func (g *GitHub) LatestCommit(ctx context.Context, repo, path string) (*Commit, error) {
	key := "commit:" + repo + ":" + path
	if c, ok := g.cache.Get(key); ok {
		return c.(*Commit), nil
	}

	var commits []githubCommit
	uri := fmt.Sprintf("%s/repos/%s/commits?path=%s&per_page=1", g.conf.APIURL, repo, url.QueryEscape(path))
	if err := g.get(ctx, uri, &commits); err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", repo, path, ErrNoCommits)
	}

	c := &Commit{
		SHA:     commits[0].SHA,
		Message: commits[0].Commit.Message,
		Author:  commits[0].Commit.Author.Name,
		Email:   commits[0].Commit.Author.Email,
		Date:    commits[0].Commit.Author.Date,
		URL:     commits[0].HtmlURL,
	}
	g.cache.Add(key, c)
	return c, nil
}

// FileInfo returns the contents API metadata of a file on branch
func (g *GitHub) FileInfo(ctx context.Context, repo, path, branch string) (*FileInfo, error) {
	key := "file:" + repo + ":" + branch + ":" + path
	if f, ok := g.cache.Get(key); ok {
		return f.(*FileInfo), nil
	}

	var info FileInfo
	uri := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", g.conf.APIURL, repo, path, url.QueryEscape(branch))
	if err := g.get(ctx, uri, &info); err != nil {
		return nil, err
	}
	g.cache.Add(key, &info)
	return &info, nil
}

// LatestCommitGraphQL is LatestCommit over the GraphQL API; it needs a token.
func (g *GitHub) LatestCommitGraphQL(ctx context.Context, repo, branch, path string) (*Commit, error) {
	if g.conf.Token == "" {
		return nil, fmt.Errorf("github graphql api requires a token")
	}
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return nil, fmt.Errorf("invalid repository %q: want owner/name", repo)
	}

	key := "graphql:" + repo + ":" + branch + ":" + path
	if c, ok := g.cache.Get(key); ok {
		return c.(*Commit), nil
	}

	var q struct {
		Repository struct {
			Ref struct {
				Target struct {
					Commit struct {
						History struct {
							Nodes []struct {
								OID           githubv4.GitObjectID
								Message       githubv4.String
								CommittedDate githubv4.DateTime
								Author        struct {
									Name  githubv4.String
									Email githubv4.String
								}
							}
						} `graphql:"history(first: 1, path: $path)"`
					} `graphql:"... on Commit"`
				}
			} `graphql:"ref(qualifiedName: $branch)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"branch": githubv4.String("refs/heads/" + branch),
		"path":   githubv4.String(path),
	}

	httpClient := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, g.client),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.conf.Token}),
	)
	client := githubv4.NewEnterpriseClient(g.conf.GraphQLURL, httpClient)
	if err := client.Query(ctx, &q, variables); err != nil {
		return nil, errors.Wrap(err, "github graphql query failed")
	}

	nodes := q.Repository.Ref.Target.Commit.History.Nodes
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", repo, path, ErrNoCommits)
	}
	c := &Commit{
		SHA:     string(nodes[0].OID),
		Message: string(nodes[0].Message),
		Author:  string(nodes[0].Author.Name),
		Email:   string(nodes[0].Author.Email),
		Date:    nodes[0].CommittedDate.Time,
	}
	log.WithFields(log.Fields{
		"repo": repo,
		"sha":  c.SHA,
	}).Debug("GraphQL latest commit")
	g.cache.Add(key, c)
	return c, nil
}

// Latest uses the GraphQL API when a token is configured and REST otherwise
func (g *GitHub) Latest(ctx context.Context, repo, branch, path string) (*Commit, error) {
	if g.conf.Token != "" {
		c, err := g.LatestCommitGraphQL(ctx, repo, branch, path)
		if err == nil {
			return c, nil
		}
		log.WithError(err).Debug("falling back to the REST api")
	}
	return g.LatestCommit(ctx, repo, path)
}
