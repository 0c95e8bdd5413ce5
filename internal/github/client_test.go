package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/sources"
)

// fakeSearcher serves canned search results keyed by query.
type fakeSearcher struct {
	mu      sync.Mutex
	total   map[string]int
	perPage map[string]int // items returned per page; defaults to the requested page size
	errs    map[string]error
	calls   []searchCall
	nextID  int64
}

type searchCall struct {
	query string
	opts  gh.SearchOptions
}

func (f *fakeSearcher) Issues(_ context.Context, query string, opts *gh.SearchOptions) (*gh.IssuesSearchResult, *gh.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, searchCall{query: query, opts: *opts})
	if err := f.errs[query]; err != nil {
		return nil, nil, err
	}

	total := f.total[query]
	n := opts.PerPage
	if v, ok := f.perPage[query]; ok {
		n = v
	}
	if remaining := total - (opts.Page-1)*opts.PerPage; remaining < n {
		n = max(remaining, 0)
	}

	items := make([]*gh.Issue, 0, n)
	for i := 0; i < n; i++ {
		f.nextID++
		items = append(items, &gh.Issue{
			ID:            gh.Ptr(f.nextID),
			RepositoryURL: gh.Ptr("https://api.github.com/repos/emberjs/ember.js"),
		})
	}

	resp := &gh.Response{Response: &http.Response{Header: http.Header{}}}
	resp.Header.Set(headerRateRemaining, "29")
	return &gh.IssuesSearchResult{Total: gh.Ptr(total), Issues: items}, resp, nil
}

func (f *fakeSearcher) pagesFor(query string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pages []int
	for _, c := range f.calls {
		if c.query == query {
			pages = append(pages, c.opts.Page)
		}
	}
	return pages
}

type fakeRateLimits struct {
	limits *gh.RateLimits
	err    error
}

func (f *fakeRateLimits) Get(context.Context) (*gh.RateLimits, *gh.Response, error) {
	return f.limits, nil, f.err
}

func testTable() *sources.Table {
	return sources.New([]sources.Source{
		{Repo: "emberjs/ember.js", Label: "Help Wanted", Category: "core"},
		{Repo: "ember-learn/guides-source", Label: "help wanted", Category: "learning"},
		{Repo: "emberjs/rfcs", Label: "Needs Champion", Category: "rfcs"},
	})
}

func newTestClient(search issueSearcher) *Client {
	return &Client{
		search:      search,
		rateLimits:  &fakeRateLimits{},
		table:       testTable(),
		rateLimiter: newRateLimiter(rate.Inf, 1),
		pageSize:    PageSize,
		maxPages:    MaxPageCount,
	}
}

const (
	helpWantedQuery    = `is:open org:emberjs org:ember-learn label:"help wanted"`
	needsChampionQuery = `is:open org:emberjs label:"needs champion"`
)

func TestClient_BuildQuery(t *testing.T) {
	c := newTestClient(&fakeSearcher{})

	t.Run("joins organisations", func(t *testing.T) {
		q, err := c.BuildQuery("help wanted")
		require.NoError(t, err)
		assert.Equal(t, helpWantedQuery, q)
	})

	t.Run("label case is normalised", func(t *testing.T) {
		q, err := c.BuildQuery("Needs Champion")
		require.NoError(t, err)
		assert.Equal(t, needsChampionQuery, q)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := c.BuildQuery("bug")
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})
}

func TestClient_FetchIssuePage(t *testing.T) {
	search := &fakeSearcher{total: map[string]int{helpWantedQuery: 150}}
	c := newTestClient(search)

	items, total, err := c.FetchIssuePage(context.Background(), "help wanted", 2)
	require.NoError(t, err)
	assert.Len(t, items, 50)
	assert.Equal(t, 150, total)

	require.Len(t, search.calls, 1)
	opts := search.calls[0].opts
	assert.Equal(t, "updated", opts.Sort)
	assert.Equal(t, "desc", opts.Order)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, PageSize, opts.PerPage)

	remaining, _ := c.rateLimiter.quota()
	assert.Equal(t, 29, remaining)
}

func TestClient_FetchAllIssues(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		perPage   *int
		wantPages []int
		wantSaved int
	}{
		{"single page", 30, nil, []int{1}, 30},
		{"exact multiple", 200, nil, []int{1, 2}, 200},
		{"partial last page", 250, nil, []int{1, 2, 3}, 250},
		{"no results", 0, nil, []int{1}, 0},
		{"stops at page limit", 5000, nil, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 1000},
		{"stops on empty page", 500, gh.Ptr(0), []int{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &fakeSearcher{total: map[string]int{helpWantedQuery: tt.total}}
			if tt.perPage != nil {
				search.perPage = map[string]int{helpWantedQuery: *tt.perPage}
			}
			c := newTestClient(search)

			var saved int
			err := c.FetchAllIssues(context.Background(), "help wanted", func(page []*gh.Issue) error {
				saved += len(page)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, search.pagesFor(helpWantedQuery))
			assert.Equal(t, tt.wantSaved, saved)
		})
	}
}

func TestClient_FetchAllIssues_Errors(t *testing.T) {
	t.Run("search error", func(t *testing.T) {
		search := &fakeSearcher{errs: map[string]error{helpWantedQuery: errors.New("boom")}}
		c := newTestClient(search)

		err := c.FetchAllIssues(context.Background(), "help wanted", func([]*gh.Issue) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("save error stops paging", func(t *testing.T) {
		search := &fakeSearcher{total: map[string]int{helpWantedQuery: 500}}
		c := newTestClient(search)
		saveErr := errors.New("bad page")

		err := c.FetchAllIssues(context.Background(), "help wanted", func([]*gh.Issue) error { return saveErr })
		assert.ErrorIs(t, err, saveErr)
		assert.Equal(t, []int{1}, search.pagesFor(helpWantedQuery))
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(&fakeSearcher{})
		c.rateLimiter = newRateLimiter(rate.Every(time.Hour), 1)
		c.rateLimiter.bucket.Allow() // drain the only token

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := c.FetchAllIssues(ctx, "help wanted", func([]*gh.Issue) error { return nil })
		assert.Error(t, err)
	})
}

func TestClient_FetchIssueSet(t *testing.T) {
	search := &fakeSearcher{total: map[string]int{
		helpWantedQuery:    120,
		needsChampionQuery: 3,
	}}
	c := newTestClient(search)

	store, err := c.FetchIssueSet(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.Equal(t, 123, store.Len())
	assert.Equal(t, []int{1, 2}, search.pagesFor(helpWantedQuery))
	assert.Equal(t, []int{1}, search.pagesFor(needsChampionQuery))
	assert.Equal(t, 123, store.Lookup(issues.Query{}).Meta.Total)
}

func TestClient_FetchIssueSet_Error(t *testing.T) {
	search := &fakeSearcher{
		total: map[string]int{helpWantedQuery: 10},
		errs:  map[string]error{needsChampionQuery: errors.New("unavailable")},
	}
	c := newTestClient(search)

	store, err := c.FetchIssueSet(context.Background())
	assert.Nil(t, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs champion")
}

func TestClient_RateLimit(t *testing.T) {
	c := newTestClient(&fakeSearcher{})

	limits := &gh.RateLimits{Search: &gh.Rate{Limit: 30, Remaining: 12}}
	c.rateLimits = &fakeRateLimits{limits: limits}
	got, err := c.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, got.Search.Remaining)

	c.rateLimits = &fakeRateLimits{err: errors.New("down")}
	_, err = c.RateLimit(context.Background())
	assert.Error(t, err)
}

func TestClient_WrapError(t *testing.T) {
	c := newTestClient(&fakeSearcher{})

	t.Run("rate limit", func(t *testing.T) {
		reset := time.Now().Add(time.Minute).Truncate(time.Second)
		err := c.wrapError(&gh.RateLimitError{
			Rate: gh.Rate{Limit: 30, Remaining: 0, Reset: gh.Timestamp{Time: reset}},
		}, "search")

		assert.True(t, IsRateLimited(err))
		var rl *RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, reset, rl.ResetAt)
		assert.Equal(t, 30, rl.Limit)
	})

	t.Run("secondary rate limit", func(t *testing.T) {
		err := c.wrapError(&gh.AbuseRateLimitError{RetryAfter: gh.Ptr(10 * time.Second)}, "search")
		assert.True(t, IsRateLimited(err))
	})

	t.Run("api error", func(t *testing.T) {
		u, _ := url.Parse("https://api.github.com/search/issues")
		err := c.wrapError(&gh.ErrorResponse{
			Response: &http.Response{StatusCode: 401, Request: &http.Request{URL: u}},
			Message:  "Bad credentials",
		}, "search")

		assert.True(t, IsUnauthorized(err))
		assert.Contains(t, err.Error(), "Bad credentials")
		assert.Contains(t, err.Error(), u.String())
	})

	t.Run("other", func(t *testing.T) {
		err := c.wrapError(fmt.Errorf("dial: %w", context.DeadlineExceeded), "search")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, IsRateLimited(err))
		assert.False(t, IsUnauthorized(err))
	})
}

func TestNewClient(t *testing.T) {
	c := NewClient(context.Background(), "token", testTable())
	require.NotNil(t, c)
	assert.Equal(t, []string{"help wanted", "needs champion"}, c.Labels())
	assert.Equal(t, PageSize, c.pageSize)
	assert.Equal(t, MaxPageCount, c.maxPages)
}
