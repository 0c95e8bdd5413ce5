package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/help-wanted/internal/github"
	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/models"
)

func newLabelsCommand(b Backend, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List configured labels and the search query built for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			client := b.NewClient(cmd.Context(), opts.token, table)
			for _, label := range table.Labels() {
				query, err := client.BuildQuery(label)
				if err != nil {
					return err
				}
				cmd.Printf("%-24s %s\n", label, query)
			}
			cmd.Printf("\ncategories: %s\n", strings.Join(table.Categories(), ", "))
			return nil
		},
	}
}

func newFetchCommand(b Backend, opts *globalOptions) *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every configured label and print the matching issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}

			store, err := b.NewClient(cmd.Context(), opts.token, table).FetchIssueSet(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch failed: %w", withHint(err))
			}

			doc := store.Lookup(issues.Query{Category: category})
			if asJSON {
				data, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal document: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}
			printIssues(cmd, doc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show issues in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response document as JSON")
	return cmd
}

func printIssues(cmd *cobra.Command, doc models.Document) {
	if doc.Meta.Total == 0 {
		cmd.Println("No issues found.")
		return
	}
	for _, r := range doc.Data {
		cmd.Printf("%-32v %v\n", r.Attributes[issues.AttrRepositoryName], r.Attributes[issues.AttrTitle])
		if url, ok := r.Attributes[issues.AttrHTMLURL]; ok {
			cmd.Printf("  %v\n", url)
		}
	}
	cmd.Printf("\n%d issues\n", doc.Meta.Total)
}

// withHint adds what to try next to GitHub errors the operator can act on.
func withHint(err error) error {
	switch {
	case github.IsUnauthorized(err):
		return fmt.Errorf("%w (check --token or GITHUB_API_TOKEN)", err)
	case github.IsRateLimited(err):
		return fmt.Errorf("%w (run gfi ratelimit to see the quota)", err)
	}
	return err
}

func newRateLimitCommand(b Backend, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Show the remaining GitHub API quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}

			limits, err := b.NewClient(cmd.Context(), opts.token, table).RateLimit(cmd.Context())
			if err != nil {
				return withHint(err)
			}
			if s := limits.GetSearch(); s != nil {
				cmd.Printf("search: %d/%d (resets %s)\n", s.Remaining, s.Limit, s.Reset.Format(time.RFC3339))
			}
			if c := limits.GetCore(); c != nil {
				cmd.Printf("core:   %d/%d (resets %s)\n", c.Remaining, c.Limit, c.Reset.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newHistoryCommand(b Backend, opts *globalOptions) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent refresh runs recorded by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.mongoURI == "" {
				return errNoHistory
			}

			history, closeFn, err := b.OpenHistory(cmd.Context(), opts.mongoURI, opts.dbName)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer closeFn()

			runs, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("No refresh runs recorded.")
				return nil
			}
			for _, run := range runs {
				status := "ok"
				if !run.OK() {
					status = "error: " + run.Error
				}
				cmd.Printf("%s  %s  %6d issues  %8s  %s\n",
					run.StartedAt.Format(time.RFC3339), run.ID, run.Issues, run.Duration().Round(time.Millisecond), status)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}
