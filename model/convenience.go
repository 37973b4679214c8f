package model

import (
	"context"
	"fmt"
)

func (o *Object) require(kind Kind, op string) error {
	if o.kind != kind {
		return fmt.Errorf("%s on %s: %w", op, o.kind, ErrWrongKind)
	}
	if o.api == nil {
		return fmt.Errorf("%s: %w", op, ErrDetached)
	}
	return nil
}

// siteArgs addresses a site by id, falling back to its hostname.
func (o *Object) siteArgs() (map[string]any, error) {
	if id, ok := o.Int("id"); ok {
		return map[string]any{"site_id": id}, nil
	}
	if host, ok := o.Text("hostname"); ok && host != "" {
		return map[string]any{"hostname": host}, nil
	}
	return nil, &MissingAttributeError{Kind: o.kind, Attrs: []string{"id", "hostname"}}
}

// Tags lists the tags of a site.
func (o *Object) Tags(ctx context.Context) ([]*Object, error) {
	if err := o.require(KindSite, "tags"); err != nil {
		return nil, err
	}
	args, err := o.siteArgs()
	if err != nil {
		return nil, err
	}
	res, err := o.api.Invoke(ctx, "get_tags", args)
	if err != nil {
		return nil, err
	}
	return res.Objects(), nil
}

// Posts reads one page of a site's posts. page and numPosts are sent only
// when positive.
func (o *Object) Posts(ctx context.Context, page, numPosts int) ([]*Object, error) {
	if err := o.require(KindSite, "posts"); err != nil {
		return nil, err
	}
	args, err := o.siteArgs()
	if err != nil {
		return nil, err
	}
	if page > 0 {
		args["page"] = page
	}
	if numPosts > 0 {
		args["num_posts"] = numPosts
	}
	res, err := o.api.Invoke(ctx, "read_posts", args)
	if err != nil {
		return nil, err
	}
	return res.Objects(), nil
}

// Commit sends the post's current title and body to the service and
// returns the post as the service now sees it.
func (o *Object) Commit(ctx context.Context) (*Object, error) {
	if err := o.require(KindPost, "commit"); err != nil {
		return nil, err
	}
	id, ok := o.Int("id")
	if !ok {
		return nil, &MissingAttributeError{Kind: o.kind, Attrs: []string{"id"}}
	}

	args := map[string]any{"post_id": id}
	for _, attr := range []string{"title", "body"} {
		if s, ok := o.Text(attr); ok {
			args[attr] = s
		}
	}

	res, err := o.api.Invoke(ctx, "update_post", args)
	if err != nil {
		return nil, err
	}
	return res.Object(), nil
}

// AddComment posts a comment on the post.
func (o *Object) AddComment(ctx context.Context, body string) (*Object, error) {
	if err := o.require(KindPost, "add comment"); err != nil {
		return nil, err
	}
	id, ok := o.Int("id")
	if !ok {
		return nil, &MissingAttributeError{Kind: o.kind, Attrs: []string{"id"}}
	}

	res, err := o.api.Invoke(ctx, "new_comment", map[string]any{
		"post_id": id,
		"comment": body,
	})
	if err != nil {
		return nil, err
	}
	return res.Object(), nil
}
