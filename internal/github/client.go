package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/sources"
)

const (
	// PageSize is the number of results requested per page (GitHub's max is 100).
	PageSize = 100

	// MaxPageCount caps pagination; search only exposes the first 1000 results.
	MaxPageCount = 10

	// DefaultTimeout is the HTTP timeout for a single request.
	DefaultTimeout = 30 * time.Second
)

// issueSearcher is the part of gh.SearchService we use.
type issueSearcher interface {
	Issues(ctx context.Context, query string, opts *gh.SearchOptions) (*gh.IssuesSearchResult, *gh.Response, error)
}

// rateLimitGetter is the part of gh.RateLimitService we use.
type rateLimitGetter interface {
	Get(ctx context.Context) (*gh.RateLimits, *gh.Response, error)
}

// Client searches GitHub for open issues carrying the configured labels.
type Client struct {
	search      issueSearcher
	rateLimits  rateLimitGetter
	table       *sources.Table
	rateLimiter *RateLimiter
	pageSize    int
	maxPages    int
}

// NewClient returns a client authenticated with token.
// token may be empty, but unauthenticated search is limited to 10 requests a minute.
func NewClient(ctx context.Context, token string, table *sources.Table) *Client {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	httpClient.Timeout = DefaultTimeout

	return NewClientWithGitHub(gh.NewClient(httpClient), table)
}

// NewClientWithGitHub wraps an existing go-github client.
func NewClientWithGitHub(client *gh.Client, table *sources.Table) *Client {
	return &Client{
		search:      client.Search,
		rateLimits:  client.RateLimit,
		table:       table,
		rateLimiter: NewRateLimiter(),
		pageSize:    PageSize,
		maxPages:    MaxPageCount,
	}
}

// BuildQuery returns the search query for label:
//
//	is:open org:<o1> org:<o2> label:"<label>"
func (c *Client) BuildQuery(label string) (string, error) {
	orgs := c.table.OrganizationsForLabel(label)
	if len(orgs) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	terms := make([]string, 0, len(orgs))
	for _, org := range orgs {
		terms = append(terms, "org:"+org)
	}
	return fmt.Sprintf(`is:open %s label:"%s"`, strings.Join(terms, " "), strings.ToLower(label)), nil
}

// FetchIssuePage returns one page (1-based) of results for label together
// with the total count GitHub reports for the query.
func (c *Client) FetchIssuePage(ctx context.Context, label string, page int) ([]*gh.Issue, int, error) {
	query, err := c.BuildQuery(label)
	if err != nil {
		return nil, 0, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: c.pageSize,
		},
	}
	result, resp, err := c.search.Issues(ctx, query, opts)
	if resp != nil {
		c.rateLimiter.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, 0, c.wrapError(err, "search issues")
	}
	return result.Issues, result.GetTotal(), nil
}

// FetchAllIssues pages through the results for label, handing each page to
// save. It stops once the reported total fits in the pages fetched so far,
// after an empty page, or after MaxPageCount pages.
func (c *Client) FetchAllIssues(ctx context.Context, label string, save func([]*gh.Issue) error) error {
	for page := 1; page <= c.maxPages; page++ {
		items, total, err := c.FetchIssuePage(ctx, label, page)
		if err != nil {
			return fmt.Errorf("label %q page %d: %w", label, page, err)
		}
		log.Printf("[GitHub Client] label %q page %d: %d issues (total %d)", label, page, len(items), total)

		if err := save(items); err != nil {
			return fmt.Errorf("label %q page %d: save: %w", label, page, err)
		}

		if len(items) == 0 || total <= c.pageSize*page {
			return nil
		}
	}
	log.Printf("[GitHub Client] label %q: stopped at page limit %d", label, c.maxPages)
	return nil
}

// FetchIssueSet fetches every configured label concurrently into a new
// store. The store is only returned once every label has completed.
func (c *Client) FetchIssueSet(ctx context.Context) (*issues.Store, error) {
	store := issues.New(c.table)

	g, ctx := errgroup.WithContext(ctx)
	for _, label := range c.table.Labels() {
		g.Go(func() error {
			return c.FetchAllIssues(ctx, label, store.Ingest)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return store, nil
}

// RateLimit returns the current quotas for the token.
func (c *Client) RateLimit(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.rateLimits.Get(ctx)
	if err != nil {
		return nil, c.wrapError(err, "get rate limit")
	}
	return limits, nil
}

// Labels returns the labels this client fetches.
func (c *Client) Labels() []string {
	return c.table.Labels()
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{
			ResetAt: time.Now().Add(abuseErr.GetRetryAfter()),
			Limit:   c.rateLimiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
