package posterous

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const formContentType = "application/x-www-form-urlencoded"

// Encode renders the request body in field order. Requests carrying files
// are sent as multipart/form-data, everything else as a URL-encoded form.
func (r *CallRequest) Encode() ([]byte, string, error) {
	if !r.HasFiles() {
		var b strings.Builder
		for i, f := range r.Fields {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(f.Name))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(f.Value))
		}
		return []byte(b.String()), formContentType, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range r.Fields {
		if f.File == nil {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
			}
			continue
		}
		part, err := w.CreateFormFile(f.Name, f.File.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", f.Name, err)
		}
		if f.File.Content != nil {
			if _, err := io.Copy(part, f.File.Content); err != nil {
				return nil, "", fmt.Errorf("failed to read file %s: %w", f.File.Name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
