// Package parser converts Posterous XML responses into model objects.
//
// The service nests its responses inconsistently. Children that belong to
// a post are sometimes emitted as siblings after it, and scalar fields
// occasionally appear outside of any object. The parser folds such
// documents back into an object graph, detects the service's error
// documents, and reports transport failures and unreadable bodies as
// typed errors.
package parser
