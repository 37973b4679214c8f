package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thomasw/posterous/filter"
	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/posterous"
)

var (
	postsSiteID    int64
	postsHostname  string
	postsTag       string
	postsLimit     int
	postsPageSize  int
	postsStartPage int
	postsFilter    string
	postsBrief     bool
)

// postsCmd pages through a site's posts
var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Page through the posts of a site",
	Long: `Read posts page by page until the site runs out of posts or the limit
is reached. --filter keeps only posts matching an expression, for example:

  posterous posts --hostname blog --filter 'hasTag("golang") and views_count > 100'`,
	Args: cobra.NoArgs,
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().Int64Var(&postsSiteID, "site-id", 0, "site id (default is the user's primary site)")
	postsCmd.Flags().StringVar(&postsHostname, "hostname", "", "site hostname, e.g. 'blog' for blog.posterous.com")
	postsCmd.Flags().StringVar(&postsTag, "tag", "", "only posts with this tag")
	postsCmd.Flags().IntVar(&postsLimit, "limit", 0, "stop after this many posts, 0 for all (default from cursor.limit)")
	postsCmd.Flags().IntVar(&postsPageSize, "page-size", 0, "posts per request (default from cursor.page_size)")
	postsCmd.Flags().IntVar(&postsStartPage, "start-page", posterous.DefaultStartPage, "first page to read")
	postsCmd.Flags().StringVarP(&postsFilter, "filter", "f", "", "filter expression")
	postsCmd.Flags().BoolVar(&postsBrief, "brief", false, "print one line per post instead of YAML")
}

func runPosts(cmd *cobra.Command, args []string) error {
	var match filter.Filter = matchAll{}
	if postsFilter != "" {
		compiled, err := filter.CompileFilter(postsFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		match = compiled
	}

	limit := cfg.Cursor.Limit
	if cmd.Flags().Changed("limit") {
		limit = postsLimit
	}
	pageSize := cfg.Cursor.PageSize
	if cmd.Flags().Changed("page-size") {
		pageSize = postsPageSize
	}

	cur, err := client.Posts(posterous.ReadPostsOptions{
		SiteID:   postsSiteID,
		Hostname: postsHostname,
		Tag:      postsTag,
	},
		posterous.WithPageSize(pageSize),
		posterous.WithLimit(limit),
		posterous.WithStartPage(postsStartPage),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("site_id", postsSiteID).
		Str("hostname", postsHostname).
		Str("filter", postsFilter).
		Msg("Reading posts")

	out := cmd.OutOrStdout()
	var matched int
	for post, err := range filter.Seq(cmd.Context(), match, cur.All(cmd.Context())) {
		if err != nil {
			return fmt.Errorf("reading page %d: %w", cur.Page(), err)
		}
		matched++
		if err := writePost(out, post); err != nil {
			return err
		}
	}

	logger.Info().Int("matched", matched).Msg("Done")
	return nil
}

func writePost(w io.Writer, post *model.Object) error {
	if !postsBrief {
		return writeObjects(w, []*model.Object{post})
	}
	id, _ := post.Int("id")
	line := fmt.Sprintf("%d\t%s", id, post)
	if url, ok := post.Text("url"); ok {
		line += "\t" + url
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

type matchAll struct{}

func (matchAll) Match(*model.Object) bool { return true }
