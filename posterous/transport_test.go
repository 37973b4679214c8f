package posterous

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_FormKeepsFieldOrder(t *testing.T) {
	req := &CallRequest{Fields: []Field{
		{Name: "title", Value: "a b"},
		{Name: "tags[]", Value: "x&y"},
		{Name: "tags[]", Value: "z"},
		{Name: "body", Value: ""},
	}}

	body, contentType, err := req.Encode()
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "title=a+b&tags%5B%5D=x%26y&tags%5B%5D=z&body=", string(body))
}

func TestEncode_Multipart(t *testing.T) {
	req := &CallRequest{Fields: []Field{
		{Name: "title", Value: "pics"},
		{Name: "media[]", File: &File{Name: "a.png", Content: strings.NewReader("AAA")}},
		{Name: "media[]", File: &File{Name: "b.png", Content: strings.NewReader("BBB")}},
	}}

	body, contentType, err := req.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	type part struct{ name, file, data string }
	var parts []part
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, part{p.FormName(), p.FileName(), string(data)})
	}

	assert.Equal(t, []part{
		{"title", "", "pics"},
		{"media[]", "a.png", "AAA"},
		{"media[]", "b.png", "BBB"},
	}, parts)
}
