// Package cli provides the gfi command-line interface. It runs the same
// fetch and lookup path as the server, once, against the live GitHub API.
package cli

import (
	"context"
	"errors"
	"os"

	gh "github.com/google/go-github/v80/github"
	"github.com/spf13/cobra"

	"github.com/ahmednasr/help-wanted/internal/database"
	"github.com/ahmednasr/help-wanted/internal/github"
	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/models"
	"github.com/ahmednasr/help-wanted/internal/repository"
	"github.com/ahmednasr/help-wanted/internal/sources"
)

// IssueClient is the GitHub side of the CLI.
type IssueClient interface {
	BuildQuery(label string) (string, error)
	FetchIssueSet(ctx context.Context) (*issues.Store, error)
	RateLimit(ctx context.Context) (*gh.RateLimits, error)
}

// History lists recorded refresh runs.
type History interface {
	Recent(ctx context.Context, limit int64) ([]models.RefreshRun, error)
}

// Backend builds the collaborators a command needs. Tests replace it.
type Backend struct {
	NewClient   func(ctx context.Context, token string, table *sources.Table) IssueClient
	OpenHistory func(ctx context.Context, uri, db string) (History, func(), error)
}

// DefaultBackend talks to api.github.com and MongoDB.
func DefaultBackend() Backend {
	return Backend{
		NewClient: func(ctx context.Context, token string, table *sources.Table) IssueClient {
			return github.NewClient(ctx, token, table)
		},
		OpenHistory: func(ctx context.Context, uri, db string) (History, func(), error) {
			client, err := database.NewMongo(ctx, uri)
			if err != nil {
				return nil, nil, err
			}
			closeFn := func() { _ = client.Disconnect(context.Background()) }
			return repository.NewRefreshRunRepository(client.Database(db)), closeFn, nil
		},
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	token       string
	sourcesFile string
	mongoURI    string
	dbName      string
}

func (o *globalOptions) table() (*sources.Table, error) {
	return sources.Load(o.sourcesFile)
}

// NewRootCommand creates the gfi root command. Flag defaults are read from
// the environment, so load any .env file before calling it.
func NewRootCommand(b Backend, version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gfi",
		Short: "Find beginner-friendly GitHub issues",
		Long: `gfi searches GitHub for open issues carrying the configured
beginner labels and groups them by category, the same way the
help-wanted server does.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GITHUB_API_TOKEN"), "GitHub API token")
	root.PersistentFlags().StringVar(&opts.sourcesFile, "sources", os.Getenv("SOURCES_FILE"), "YAML sources file (built-in table when empty)")
	root.PersistentFlags().StringVar(&opts.mongoURI, "mongo-uri", os.Getenv("MONGODB_URI"), "MongoDB URI holding refresh history")
	root.PersistentFlags().StringVar(&opts.dbName, "db", envOr("MONGODB_DB", "help_wanted"), "MongoDB database name")

	root.AddCommand(
		newLabelsCommand(b, opts),
		newFetchCommand(b, opts),
		newRateLimitCommand(b, opts),
		newHistoryCommand(b, opts),
	)
	return root
}

// errNoHistory is returned by history when no MongoDB URI is configured.
var errNoHistory = errors.New("refresh history not configured: set --mongo-uri or MONGODB_URI")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
