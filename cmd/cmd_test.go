package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/posterous"
)

func method(t *testing.T, name string) *idl.Method {
	t.Helper()
	reg, err := idl.Default()
	require.NoError(t, err)
	m, ok := reg.Find(name)
	require.True(t, ok, name)
	return m
}

func TestParseArgs(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("JPEG"), 0o600))

	named, err := parseArgs(method(t, "new_post"), []string{
		"site_id=12",
		"title=a=b",
		"private=true",
		"date=2010-03-04",
		"media=@" + photo,
		"media=@" + photo,
		"extra=kept",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), named["site_id"])
	assert.Equal(t, "a=b", named["title"])
	assert.Equal(t, true, named["private"])
	assert.Equal(t, time.Date(2010, time.March, 4, 0, 0, 0, 0, time.UTC), named["date"])
	assert.Equal(t, "kept", named["extra"])

	media, ok := named["media"].([]any)
	require.True(t, ok)
	require.Len(t, media, 2)
	file, ok := media[0].(posterous.File)
	require.True(t, ok)
	assert.Equal(t, "photo.jpg", file.Name)
	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "JPEG", string(data))
}

func TestParseArgs_Errors(t *testing.T) {
	m := method(t, "new_post")

	_, err := parseArgs(m, []string{"site_id"})
	assert.ErrorContains(t, err, "expected name=value")

	_, err = parseArgs(m, []string{"=1"})
	assert.ErrorContains(t, err, "expected name=value")

	_, err = parseArgs(m, []string{"site_id=twelve"})
	assert.ErrorContains(t, err, "argument site_id")

	_, err = parseArgs(m, []string{"media=@/does/not/exist"})
	assert.Error(t, err)
}

func TestParseValue_Tag(t *testing.T) {
	p, ok := method(t, "read_posts").Param("tag")
	require.True(t, ok)

	v, err := parseValue(p, "golang")
	require.NoError(t, err)
	switch x := v.(type) {
	case string:
		assert.Equal(t, "golang", x)
	case *model.Object:
		assert.Equal(t, "golang", x.String())
	default:
		t.Fatalf("unexpected value %T", v)
	}
}

func TestWriteResult(t *testing.T) {
	comment := model.New(model.KindComment, nil)
	comment.Set("body", model.Text("nice"))

	post := model.New(model.KindPost, nil)
	post.Set("id", model.Int(7))
	post.Set("title", model.Text("Hello"))
	post.Set("comments", model.List(model.Nested(comment)))

	tests := []struct {
		name   string
		result *model.Result
		want   string
	}{
		{
			name:   "none",
			result: model.NoResult(),
			want:   "# no result\n",
		},
		{
			name:   "object keeps attribute order",
			result: model.ObjectResult(post),
			want: `kind: post
id: 7
title: Hello
comments:
- kind: comment
  body: nice
`,
		},
		{
			name:   "scalars are sorted",
			result: model.ScalarResult(map[string]string{"url": "http://post.ly/a", "mediaid": "3"}),
			want:   "mediaid: \"3\"\nurl: http://post.ly/a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeResult(&buf, tt.result))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteMethods(t *testing.T) {
	reg, err := idl.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeMethods(&buf, reg, false))
	out := buf.String()

	for _, ns := range reg.Namespaces() {
		assert.Contains(t, out, ns+"\n")
	}
	for _, m := range reg.All() {
		assert.Contains(t, out, "  "+m.Name())
	}
	assert.Contains(t, out, "paged")
}

func TestCurrentVersion(t *testing.T) {
	_, err := currentVersion("dev")
	assert.ErrorIs(t, err, errDevelopmentBuild)

	v, err := currentVersion("v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())

	_, err = currentVersion("not-a-version")
	assert.Error(t, err)
}
