package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thomasw/posterous/model"
)

// maxTagFetches bounds concurrent get_tags calls
const maxTagFetches = 4

// tagsCmd lists the tags of one or more sites
var tagsCmd = &cobra.Command{
	Use:   "tags <hostname>...",
	Short: "List the tags of one or more sites",
	Long:  `Fetch the tags of every named site concurrently and print them per site.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	results := make([][]*model.Object, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxTagFetches)

	for i, hostname := range args {
		g.Go(func() error {
			tags, err := client.GetTags(ctx, 0, hostname)
			if err != nil {
				return fmt.Errorf("site %s: %w", hostname, err)
			}
			logger.Debug().Str("hostname", hostname).Int("tags", len(tags)).Msg("Fetched tags")
			results[i] = tags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, hostname := range args {
		names := make([]string, 0, len(results[i]))
		for _, tag := range results[i] {
			names = append(names, tag.String())
		}
		fmt.Fprintf(out, "%s (%d): %s\n", hostname, len(names), strings.Join(names, ", "))
	}
	return nil
}
