// Package posterous is a client for the Posterous HTTP/XML API.
//
// Every remote method is described by an entry in the idl method table. A
// Client binds each entry to a Method that validates arguments against the
// descriptor, encodes them, sends the request and parses the response into
// model objects:
//
//	client, err := posterous.NewClient("posterous.com", posterous.BasicAuth(user, pass), logger)
//	if err != nil {
//		return err
//	}
//	sites, err := client.GetSites(ctx)
//
// Methods can also be called by name with positional and named arguments:
//
//	res, err := client.Call(ctx, "read_posts", nil, map[string]any{"hostname": "blog"})
//
// Argument problems are reported as *ValidationError and missing
// credentials as *AuthError, both before any request is sent. Responses
// that report a failure surface as *ServiceError, *TransportError or
// *MalformedResponseError.
//
// Paginated methods, those declaring a "page" parameter, can be iterated
// with a Cursor.
package posterous
