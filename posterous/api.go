package posterous

import (
	"context"
	"strings"
	"time"

	"github.com/thomasw/posterous/model"
)

// Args holds named call arguments.
type Args map[string]any

func (a Args) setText(name, v string) {
	if v != "" {
		a[name] = v
	}
}

func (a Args) setInt(name string, v int64) {
	if v > 0 {
		a[name] = v
	}
}

func (a Args) setTime(name string, v time.Time) {
	if !v.IsZero() {
		a[name] = v
	}
}

func (a Args) setFiles(name string, files []File) {
	switch len(files) {
	case 0:
	case 1:
		a[name] = files[0]
	default:
		a[name] = files
	}
}

// ReadPostsOptions selects posts for ReadPosts. Zero fields are omitted.
type ReadPostsOptions struct {
	SiteID   int64
	Hostname string
	NumPosts int
	Page     int
	Tag      string
}

func (o ReadPostsOptions) args() Args {
	a := Args{}
	a.setInt("site_id", o.SiteID)
	a.setText("hostname", o.Hostname)
	a.setInt("num_posts", int64(o.NumPosts))
	a.setInt("page", int64(o.Page))
	a.setText("tag", o.Tag)
	return a
}

// NewPostOptions describes a post to create. Zero fields are omitted.
type NewPostOptions struct {
	SiteID     int64
	Media      []File
	Title      string
	Body       string
	Autopost   bool
	Private    bool
	Date       time.Time
	Tags       []string
	Source     string
	SourceLink string
}

func (o NewPostOptions) args() Args {
	a := Args{}
	a.setInt("site_id", o.SiteID)
	a.setFiles("media", o.Media)
	a.setText("title", o.Title)
	a.setText("body", o.Body)
	if o.Autopost {
		a["autopost"] = true
	}
	if o.Private {
		a["private"] = true
	}
	a.setTime("date", o.Date)
	a.setText("tags", strings.Join(o.Tags, ","))
	a.setText("source", o.Source)
	a.setText("sourceLink", o.SourceLink)
	return a
}

// UpdatePostOptions lists the post fields to change.
type UpdatePostOptions struct {
	Media []File
	Title string
	Body  string
}

// CommentOptions are optional details of a new comment.
type CommentOptions struct {
	Name  string
	Email string
	Date  time.Time
}

// TwitterUpload is a post submitted with Twitter credentials.
type TwitterUpload struct {
	Username   string
	Password   string
	Media      []File
	Message    string
	Body       string
	Source     string
	SourceLink string
}

func (u TwitterUpload) args() Args {
	a := Args{
		"username": u.Username,
		"password": u.Password,
	}
	a.setFiles("media", u.Media)
	a.setText("message", u.Message)
	a.setText("body", u.Body)
	a.setText("source", u.Source)
	a.setText("sourceLink", u.SourceLink)
	return a
}

func (c *Client) objects(ctx context.Context, method string, args Args) ([]*model.Object, error) {
	res, err := c.Call(ctx, method, nil, args)
	if err != nil {
		return nil, err
	}
	return res.Objects(), nil
}

func (c *Client) object(ctx context.Context, method string, args Args) (*model.Object, error) {
	res, err := c.Call(ctx, method, nil, args)
	if err != nil {
		return nil, err
	}
	return res.Object(), nil
}

// GetSites lists the sites owned and authored by the authenticated user.
func (c *Client) GetSites(ctx context.Context) ([]*model.Object, error) {
	return c.objects(ctx, "get_sites", nil)
}

// ReadPosts reads one page of posts.
func (c *Client) ReadPosts(ctx context.Context, opts ReadPostsOptions) ([]*model.Object, error) {
	return c.objects(ctx, "read_posts", opts.args())
}

// Posts returns a cursor over read_posts. opts must not set Page or
// NumPosts; use WithStartPage and WithPageSize instead.
func (c *Client) Posts(opts ReadPostsOptions, cursorOpts ...CursorOption) (*Cursor, error) {
	m, err := c.Method("read_posts")
	if err != nil {
		return nil, err
	}
	return NewCursor(m, append([]CursorOption{WithParams(opts.args())}, cursorOpts...)...)
}

// GetTags lists the tags of a site, by id or hostname.
func (c *Client) GetTags(ctx context.Context, siteID int64, hostname string) ([]*model.Object, error) {
	a := Args{}
	a.setInt("site_id", siteID)
	a.setText("hostname", hostname)
	return c.objects(ctx, "get_tags", a)
}

// NewPost creates a post and returns it.
func (c *Client) NewPost(ctx context.Context, opts NewPostOptions) (*model.Object, error) {
	return c.object(ctx, "new_post", opts.args())
}

// UpdatePost changes an existing post and returns it.
func (c *Client) UpdatePost(ctx context.Context, postID int64, opts UpdatePostOptions) (*model.Object, error) {
	a := Args{"post_id": postID}
	a.setFiles("media", opts.Media)
	a.setText("title", opts.Title)
	a.setText("body", opts.Body)
	return c.object(ctx, "update_post", a)
}

// NewComment adds a comment to a post.
func (c *Client) NewComment(ctx context.Context, postID int64, comment string, opts CommentOptions) (*model.Object, error) {
	a := Args{"post_id": postID, "comment": comment}
	a.setText("name", opts.Name)
	a.setText("email", opts.Email)
	a.setTime("date", opts.Date)
	return c.object(ctx, "new_comment", a)
}

// GetPost resolves a post.ly shortcode.
func (c *Client) GetPost(ctx context.Context, shortcode string) (*model.Object, error) {
	return c.object(ctx, "get_post", Args{"id": shortcode})
}

// Upload posts media with Twitter credentials and returns the service's
// flat response, e.g. mediaid and mediaurl.
func (c *Client) Upload(ctx context.Context, u TwitterUpload) (map[string]string, error) {
	return c.scalars(ctx, "upload", u.args())
}

// UploadAndPost is Upload followed by a tweet linking to the post.
func (c *Client) UploadAndPost(ctx context.Context, u TwitterUpload) (map[string]string, error) {
	return c.scalars(ctx, "upload_and_post", u.args())
}

func (c *Client) scalars(ctx context.Context, method string, args Args) (map[string]string, error) {
	res, err := c.Call(ctx, method, nil, args)
	if err != nil {
		return nil, err
	}
	return res.Scalars(), nil
}
