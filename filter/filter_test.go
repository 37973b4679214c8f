package filter

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/parser"
)

func testPost(id int64, title string, tags ...string) *model.Object {
	post := model.New(model.KindPost, nil)
	post.Set("id", model.Int(id))
	post.Set("title", model.Text(title))
	post.Set("views_count", model.Int(id*10))
	post.Set("private", model.Bool(false))
	post.Set("display_date", model.Time(time.Now().AddDate(0, 0, -int(id))))

	var tagValues []model.Value
	for _, name := range tags {
		tag := model.New(model.KindTag, nil)
		tag.Set("tag_name", model.Text(name))
		tagValues = append(tagValues, model.Nested(tag))
	}
	if len(tagValues) > 0 {
		post.Set("tags", model.List(tagValues...))
	}
	return post
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
		wantEmpty  bool
		wantPos    bool
	}{
		{name: "attribute comparison", expression: `views_count > 10`},
		{name: "helper call", expression: `hasTag("go") and contains(title, "hello")`},
		{name: "empty", expression: "   ", wantErr: true, wantEmpty: true},
		{name: "unclosed string", expression: `hasTag("go`, wantErr: true, wantPos: true},
		{name: "not boolean", expression: `1 + 2`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewExprCompiler().Compile(tt.expression)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, f)
				return
			}
			require.Error(t, err)
			var cErr *CompilationError
			require.True(t, errors.As(err, &cErr))
			if tt.wantPos {
				assert.GreaterOrEqual(t, cErr.Position, 0)
			} else {
				assert.Equal(t, -1, cErr.Position)
			}
			assert.Equal(t, tt.wantEmpty, errors.Is(err, ErrEmptyExpression))
		})
	}
}

func TestMatch(t *testing.T) {
	post := testPost(3, "Hello Go", "golang", "Tips")

	tests := []struct {
		expression string
		want       bool
	}{
		{`kind == "post"`, true},
		{`kind == "site"`, false},
		{`id == 3`, true},
		{`views_count >= 30 and not private`, true},
		{`hasTag("GoLang")`, true},
		{`hasTag("tips") and hasTag("rust")`, false},
		{`startsWith(title, "hello")`, true},
		{`daysSince(display_date) < 10`, true},
		{`display_date > daysAgo(1)`, false},
		{`commentCount() == 0 and mediaCount() == 0`, true},
		{`missing_attribute == nil`, true},
		{`Object.title == "Hello Go"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := NewExprCompiler().Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(post))
		})
	}
}

func TestMatch_PlainTextTags(t *testing.T) {
	site := model.New(model.KindSite, nil)
	site.Set("tags", model.Text("one, Two"))

	f, err := CompileFilter(`hasTag("two")`)
	require.NoError(t, err)
	assert.True(t, f.Match(site))
	assert.False(t, f.Match(nil))
}

func TestMatch_ParsedTags(t *testing.T) {
	f, err := CompileFilter(`hasTag("xml")`)
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"scalar tag", `<rsp><post><id>1</id><tag>xml</tag></post></rsp>`, true},
		{"repeated scalar tags keep the last", `<rsp><post><id>1</id><tag>xml</tag><tag>go</tag></post></rsp>`, false},
		{"nested tag objects", `<rsp><post><id>1</id><tag><tag_name>go</tag_name></tag><tag><tag_name>XML</tag_name></tag></post></rsp>`, true},
		{"sibling tags", `<rsp><post><id>1</id></post><tag><tag_name>xml</tag_name></tag></rsp>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parser.New(nil, zerolog.Nop()).Parse(200, strings.NewReader(tt.body), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(res.Object()))
		})
	}
}

func TestEvaluate_RuntimeError(t *testing.T) {
	f, err := NewExprCompiler().Compile(`title > 5`)
	require.NoError(t, err)

	ok, err := f.Evaluate(testPost(1, "text"))
	assert.False(t, ok)
	var eErr *EvaluationError
	require.True(t, errors.As(err, &eErr))
	assert.Equal(t, "text", eErr.Object)
	assert.False(t, f.Match(testPost(1, "text")))
}

func TestCompilerCache(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	first, err := c.Compile(`id == 1`)
	require.NoError(t, err)
	again, err := c.Compile(` id == 1 `)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = c.Compile(`id == 2`)
	require.NoError(t, err)
	_, err = c.Compile(`id == 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	evicted, err := c.Compile(`id == 1`)
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0, NewExprCompiler().Size())
}

func TestCustomFunctions(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"even": func(n int64) bool { return n%2 == 0 },
	}))
	f, err := c.Compile(`even(id)`)
	require.NoError(t, err)
	assert.True(t, f.Match(testPost(2, "a")))
	assert.False(t, f.Match(testPost(3, "b")))
}

func TestSelectAndSeq(t *testing.T) {
	posts := []*model.Object{testPost(1, "a"), testPost(2, "b"), testPost(3, "c")}
	f, err := CompileFilter(`id != 2`)
	require.NoError(t, err)

	assert.Equal(t, []*model.Object{posts[0], posts[2]}, Select(f, posts))

	boom := errors.New("boom")
	var src iter.Seq2[*model.Object, error] = func(yield func(*model.Object, error) bool) {
		for _, p := range posts {
			if !yield(p, nil) {
				return
			}
		}
		yield(nil, boom)
	}

	var got []*model.Object
	var gotErr error
	for obj, err := range Seq(context.Background(), f, src) {
		if err != nil {
			gotErr = err
			break
		}
		got = append(got, obj)
	}
	assert.Equal(t, []*model.Object{posts[0], posts[2]}, got)
	assert.ErrorIs(t, gotErr, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, err := range Seq(ctx, f, src) {
		gotErr = err
		break
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
}
