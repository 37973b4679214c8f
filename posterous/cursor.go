package posterous

import (
	"context"
	"fmt"
	"iter"
	"maps"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
)

// Cursor default settings.
const (
	DefaultPageSize  = 20
	DefaultStartPage = 1
)

// CursorOption configures a Cursor.
type CursorOption func(*Cursor)

// WithPageSize sets how many items are requested per page. A page shorter
// than this ends the iteration.
func WithPageSize(n int) CursorOption {
	return func(c *Cursor) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithStartPage sets the first page fetched.
func WithStartPage(n int) CursorOption {
	return func(c *Cursor) {
		if n > 0 {
			c.startPage = n
		}
	}
}

// WithLimit caps the number of items yielded. 0 means no cap.
func WithLimit(n int) CursorOption {
	return func(c *Cursor) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// WithParams sets the extra arguments passed on every page fetch.
func WithParams(params map[string]any) CursorOption {
	return func(c *Cursor) {
		c.params = maps.Clone(params)
	}
}

// Cursor iterates over every item of a paginated method, fetching pages on
// demand. When iteration ends normally the cursor rewinds to its start page
// and can be iterated again. A Cursor is not safe for concurrent use.
//
//	cur, err := posterous.NewCursor(method, posterous.WithLimit(50))
//	for cur.Next(ctx) {
//		post := cur.Object()
//	}
//	if err := cur.Err(); err != nil {
//		...
//	}
type Cursor struct {
	method    *Method
	params    map[string]any
	startPage int
	pageSize  int
	limit     int

	page      int
	returned  int
	exhausted bool
	buf       []*model.Object
	current   *model.Object
	err       error
}

// NewCursor creates a cursor over m. It fails with ErrNotPaginated when m
// has no page parameter and with ErrPaginationParam when the extra
// parameters name page or num_posts.
func NewCursor(m *Method, opts ...CursorOption) (*Cursor, error) {
	if !m.Paginated() {
		return nil, fmt.Errorf("%s: %w", m.Name(), ErrNotPaginated)
	}

	c := &Cursor{
		method:    m,
		startPage: DefaultStartPage,
		pageSize:  DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, name := range []string{idl.PageParam, idl.PageSizeParam} {
		if _, ok := c.params[name]; ok {
			return nil, fmt.Errorf("%s: %w: %s", m.Name(), ErrPaginationParam, name)
		}
	}

	c.reset()
	return c, nil
}

// Next advances to the next item, fetching a page when the buffer is empty.
// It returns false when the items or the limit run out, or on error.
func (c *Cursor) Next(ctx context.Context) bool {
	for {
		if c.err != nil {
			return false
		}
		if c.limit > 0 && c.returned >= c.limit {
			c.reset()
			return false
		}
		if len(c.buf) > 0 {
			c.current = c.buf[0]
			c.buf = c.buf[1:]
			c.returned++
			return true
		}
		if c.exhausted {
			c.reset()
			return false
		}
		if err := c.fetch(ctx); err != nil {
			c.err = err
			c.current = nil
			return false
		}
	}
}

// Object returns the item Next advanced to.
func (c *Cursor) Object() *model.Object { return c.current }

// Err returns the error that stopped the iteration, if any. A failed cursor
// keeps its position until Reset is called.
func (c *Cursor) Err() error { return c.err }

// Reset clears any error and rewinds to the start page.
func (c *Cursor) Reset() {
	c.err = nil
	c.reset()
}

// Page returns the page the next fetch will request.
func (c *Cursor) Page() int { return c.page }

// All returns an iterator over the remaining items. A fetch error is yielded
// once as the final pair.
func (c *Cursor) All(ctx context.Context) iter.Seq2[*model.Object, error] {
	return func(yield func(*model.Object, error) bool) {
		for c.Next(ctx) {
			if !yield(c.Object(), nil) {
				return
			}
		}
		if err := c.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (c *Cursor) reset() {
	c.page = c.startPage
	c.returned = 0
	c.exhausted = false
	c.buf = nil
	c.current = nil
}

func (c *Cursor) fetch(ctx context.Context) error {
	args := maps.Clone(c.params)
	if args == nil {
		args = make(map[string]any, 2)
	}
	args[idl.PageParam] = c.page
	if _, ok := c.method.desc.Param(idl.PageSizeParam); ok {
		args[idl.PageSizeParam] = c.pageSize
	}

	res, err := c.method.Call(ctx, nil, args)
	if err != nil {
		return err
	}
	items := res.Objects()

	c.method.client.logger.Debug().
		Str("method", c.method.Name()).
		Int("page", c.page).
		Int("items", len(items)).
		Msg("Fetched page")

	c.page++
	if len(items) < c.pageSize {
		c.exhausted = true
	}
	c.buf = items
	return nil
}
