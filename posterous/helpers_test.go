package posterous

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thomasw/posterous/idl"
)

const testTable = `
test:
  test:
    path: /api/test
    parameters:
      - {name: id, types: [text]}
      - {name: test, types: [integer]}
      - {name: test1, types: [text, list], flags: [optional]}
  test_auth_required:
    path: /api/test_auth
    auth_required: true
    parameters:
      - {name: a, types: [text], flags: [optional]}
  test_all_optional:
    path: /api/test_optional
    parameters:
      - {name: a, types: [text], flags: [optional]}
      - {name: b, types: [boolean], flags: [optional]}
  test_signed:
    path: /api/test_signed
    secondary_auth_required: true
    parameters: []
  test_paged:
    path: /api/paged
    returns: [force_list]
    parameters:
      - {name: site_id, types: [integer], flags: [optional]}
      - {name: num_posts, types: [integer], flags: [optional]}
      - {name: page, types: [integer], flags: [optional]}
  test_paged_fixed:
    path: /api/paged_fixed
    returns: [force_list]
    parameters:
      - {name: page, types: [integer], flags: [optional]}
`

func testRegistry(t *testing.T) *idl.Registry {
	t.Helper()
	reg, err := idl.Parse([]byte(testTable))
	require.NoError(t, err)
	return reg
}

func testMethod(t *testing.T, name string) *idl.Method {
	t.Helper()
	m, ok := testRegistry(t).Find(name)
	require.True(t, ok, "method %s", name)
	return m
}

func defaultMethod(t *testing.T, name string) *idl.Method {
	t.Helper()
	reg, err := idl.Default()
	require.NoError(t, err)
	m, ok := reg.Find(name)
	require.True(t, ok, "method %s", name)
	return m
}

// newTestClient starts a server running handler and returns a client
// pointed at it.
func newTestClient(t *testing.T, auth Auth, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(strings.TrimPrefix(server.URL, "http://"), auth, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
