package posterous

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-fed/httpsig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasw/posterous/model"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		host    string
		opts    []Option
		wantErr string
	}{
		{name: "valid", host: "posterous.com"},
		{name: "trailing slash", host: "posterous.com/"},
		{name: "missing host", host: "", wantErr: "host is required"},
		{name: "bad scheme", host: "posterous.com", opts: []Option{WithScheme("ftp")}, wantErr: "unsupported scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.host, Anonymous(), logger, tt.opts...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "posterous.com", client.Host())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("posterous.com", Anonymous(), logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		httpClient, ok := client.httpClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("posterous.com", Anonymous(), logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with registry", func(t *testing.T) {
		client, err := NewClient("posterous.com", Anonymous(), logger, WithRegistry(testRegistry(t)))
		require.NoError(t, err)
		_, err = client.Method("test")
		assert.NoError(t, err)
		_, err = client.Method("get_sites")
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

func TestClientMethods(t *testing.T) {
	client, err := NewClient("posterous.com", Anonymous(), zerolog.Nop())
	require.NoError(t, err)

	var names []string
	for _, m := range client.Methods() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"get_post", "get_sites", "get_tags", "new_comment", "new_post",
		"read_posts", "update_post", "upload", "upload_and_post",
	}, names)

	m, err := client.Method("read_posts")
	require.NoError(t, err)
	assert.True(t, m.Paginated())
	assert.Contains(t, m.Doc(), "Returns a list of posts")

	m, err = client.Method("get_sites")
	require.NoError(t, err)
	assert.False(t, m.Paginated())
}

func TestCall_ReadPosts(t *testing.T) {
	client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/readposts", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		_, _, hasAuth := r.BasicAuth()
		assert.False(t, hasAuth)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "blog", r.PostForm.Get("hostname"))
		assert.Equal(t, "2", r.PostForm.Get("page"))

		writeXML(w, http.StatusOK, `<rsp stat="ok">
  <post><id>1</id><title>First</title></post>
  <post><id>2</id><title>Second</title></post>
</rsp>`)
	})

	posts, err := client.ReadPosts(context.Background(), ReadPostsOptions{Hostname: "blog", Page: 2})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	title, _ := posts[1].Text("title")
	assert.Equal(t, "Second", title)
}

func TestCall_PositionalAndNamed(t *testing.T) {
	client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "x", r.PostForm.Get("id"))
		assert.Equal(t, "1", r.PostForm.Get("test"))
		assert.Equal(t, []string{"a", "b"}, r.PostForm["test1[]"])
		writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
	}, WithRegistry(testRegistry(t)))

	res, err := client.Call(context.Background(), "test", []any{"x", 1, []string{"a", "b"}}, nil)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestCall_ValidationSendsNothing(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
	}, WithRegistry(testRegistry(t)))

	_, err := client.Call(context.Background(), "test", nil, map[string]any{"id": "x"})
	assert.EqualError(t, err, "'test' is required.")

	_, err = client.Call(context.Background(), "test_auth_required", nil, nil)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = client.Call(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	assert.Equal(t, int32(0), requests.Load())
}

func TestCall_BasicAuth(t *testing.T) {
	client := newTestClient(t, BasicAuth("user", "secret"), func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		writeXML(w, http.StatusOK, `<rsp stat="ok"><site><id>1</id><name>Blog</name><primary>true</primary></site></rsp>`)
	})

	sites, err := client.GetSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	primary, ok := sites[0].Bool("primary")
	require.True(t, ok)
	assert.True(t, primary)
}

func TestCall_SignedToken(t *testing.T) {
	secret := []byte("shared-secret")
	client := newTestClient(t, SignedTokenAuth("app-key", secret), func(w http.ResponseWriter, r *http.Request) {
		verifier, err := httpsig.NewVerifier(r)
		require.NoError(t, err)
		assert.Equal(t, "app-key", verifier.KeyId())
		assert.NoError(t, verifier.Verify(secret, httpsig.HMAC_SHA256))
		assert.NotEmpty(t, r.Header.Get("Digest"))
		writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
	}, WithRegistry(testRegistry(t)))

	_, err := client.Call(context.Background(), "test_signed", nil, nil)
	require.NoError(t, err)
}

func TestCall_Errors(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
			writeXML(w, http.StatusOK, `<rsp stat="fail"><err code="3001" msg="Invalid Posterous.ly shortcode"/></rsp>`)
		})

		_, err := client.GetPost(context.Background(), "nope")
		require.Error(t, err)
		var svcErr *ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "3001", svcErr.Code)
		assert.Equal(t, "Invalid Posterous.ly shortcode", svcErr.Message)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html><body>bad gateway")
		})

		_, err := client.GetPost(context.Background(), "abc")
		var tErr *TransportError
		require.True(t, errors.As(err, &tErr))
		assert.Equal(t, http.StatusBadGateway, tErr.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "not xml at all <")
		})

		_, err := client.GetPost(context.Background(), "abc")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("connection failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		host := strings.TrimPrefix(server.URL, "http://")
		server.Close()

		client, err := NewClient(host, Anonymous(), zerolog.Nop())
		require.NoError(t, err)

		_, err = client.GetPost(context.Background(), "abc")
		var tErr *TransportError
		require.True(t, errors.As(err, &tErr))
		assert.Equal(t, 0, tErr.StatusCode)
		assert.Error(t, tErr.Err)
	})

	t.Run("canceled context", func(t *testing.T) {
		client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
			writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetPost(ctx, "abc")
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCall_Upload(t *testing.T) {
	client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "tw", r.FormValue("username"))
		assert.Equal(t, "Look", r.FormValue("message"))

		f, header, err := r.FormFile("media")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "cat.jpg", header.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "meow", string(data))

		writeXML(w, http.StatusOK, `<rsp stat="ok"><mediaid>x1</mediaid><mediaurl>http://post.ly/x1</mediaurl></rsp>`)
	})

	out, err := client.Upload(context.Background(), TwitterUpload{
		Username: "tw",
		Password: "pw",
		Message:  "Look",
		Media:    []File{{Name: "cat.jpg", Content: strings.NewReader("meow")}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mediaid": "x1", "mediaurl": "http://post.ly/x1"}, out)
}

func TestObjectsCallBack(t *testing.T) {
	client := newTestClient(t, BasicAuth("user", "pass"), func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/api/getsites":
			writeXML(w, http.StatusOK, `<rsp stat="ok"><site><id>7</id><hostname>blog</hostname></site></rsp>`)
		case "/api/gettags":
			assert.Equal(t, "7", r.PostForm.Get("site_id"))
			writeXML(w, http.StatusOK, `<rsp stat="ok"><tag><tag_name>go</tag_name><count>3</count></tag></rsp>`)
		case "/api/updatepost":
			assert.Equal(t, "99", r.PostForm.Get("post_id"))
			assert.Equal(t, "Edited", r.PostForm.Get("title"))
			writeXML(w, http.StatusOK, `<rsp stat="ok"><post><id>99</id><title>Edited</title></post></rsp>`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	sites, err := client.GetSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)

	tags, err := sites[0].Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].String())

	post := model.New(model.KindPost, client)
	post.Set("id", model.Int(99))
	post.Set("title", model.Text("Edited"))
	updated, err := post.Commit(ctx)
	require.NoError(t, err)
	title, _ := updated.Text("title")
	assert.Equal(t, "Edited", title)
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	var fail atomic.Bool
	client := newTestClient(t, Anonymous(), func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeXML(w, http.StatusOK, `<err code="1" msg="no"/>`)
			return
		}
		writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
	}, WithMetrics(registry))

	ctx := context.Background()
	_, err := client.GetTags(ctx, 1, "")
	require.NoError(t, err)
	_, err = client.GetTags(ctx, 1, "")
	require.NoError(t, err)

	fail.Store(true)
	_, err = client.GetTags(ctx, 1, "")
	require.Error(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(client.metrics.requestsTotal.WithLabelValues("get_tags", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(client.metrics.errorsTotal.WithLabelValues("get_tags", "service")))
	assert.Equal(t, 1, testutil.CollectAndCount(client.metrics.requestDuration))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeXML(w, http.StatusOK, `<rsp stat="ok"/>`)
	}

	first := newTestClient(t, Anonymous(), handler, WithMetrics(registry))
	var second *Client
	require.NotPanics(t, func() {
		second = newTestClient(t, Anonymous(), handler, WithMetrics(registry))
	})

	ctx := context.Background()
	_, err := first.GetTags(ctx, 1, "")
	require.NoError(t, err)
	_, err = second.GetTags(ctx, 1, "")
	require.NoError(t, err)

	assert.Same(t, first.metrics.requestsTotal, second.metrics.requestsTotal)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.metrics.requestsTotal.WithLabelValues("get_tags", "200")))
}
