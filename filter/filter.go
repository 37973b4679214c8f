// Package filter selects domain objects with expr-language expressions.
//
// Attributes of the object are top-level variables (title, id, views_count,
// display_date, ...), next to "kind" and helpers such as hasTag, contains,
// daysSince and commentCount:
//
//	kind == "post" and hasTag("golang") and daysSince(display_date) < 30
package filter

import (
	"context"
	"iter"

	"github.com/thomasw/posterous/model"
)

// Filter matches domain objects.
type Filter interface {
	Match(obj *model.Object) bool
}

// CompiledFilter is a filter compiled from an expression.
type CompiledFilter interface {
	Filter

	// Evaluate runs the filter and reports run-time failures.
	Evaluate(obj *model.Object) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler is a Compiler that keeps compiled filters around.
type CachingCompiler interface {
	Compiler
	Clear()
	Size() int
}

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles expression with the shared caching compiler.
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Select returns the objects that match f, in order.
func Select(f Filter, objects []*model.Object) []*model.Object {
	out := make([]*model.Object, 0, len(objects))
	for _, obj := range objects {
		if f.Match(obj) {
			out = append(out, obj)
		}
	}
	return out
}

// Seq filters a stream of objects, such as a cursor's All. Errors from
// the source are passed through unfiltered.
func Seq(ctx context.Context, f Filter, src iter.Seq2[*model.Object, error]) iter.Seq2[*model.Object, error] {
	return func(yield func(*model.Object, error) bool) {
		for obj, err := range src {
			if err == nil {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return
				}
				if !f.Match(obj) {
					continue
				}
			}
			if !yield(obj, err) {
				return
			}
		}
	}
}
