package filter

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/thomasw/posterous/model"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables caching of up to size compiled filters
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds helper functions visible to every expression
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates an expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{helperFuncs: make(map[string]any, 16)}
	addHelperFunctions(c.helperFuncs)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
			Err:        ErrEmptyExpression,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // object attributes vary per kind
		expr.AsBool(),
	)
	if err != nil {
		cErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			cErr.Reason = fileErr.Message
			cErr.Position = fileErr.From
		}
		return nil, cErr
	}

	f := &exprFilter{expression: expression, program: program}
	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Match reports whether obj satisfies the filter. Objects that make the
// expression fail are treated as non-matching.
func (f *exprFilter) Match(obj *model.Object) bool {
	ok, err := f.Evaluate(obj)
	return err == nil && ok
}

// Evaluate runs the filter against obj.
func (f *exprFilter) Evaluate(obj *model.Object) (bool, error) {
	if obj == nil {
		return false, nil
	}
	result, err := expr.Run(f.program, runtimeEnvironment(obj))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Object: obj.String(), Err: err}
	}
	return result.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

func addHelperFunctions(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
	// placeholders so compilation type-checks calls; replaced per object
	env["hasTag"] = func(string) bool { return false }
	env["commentCount"] = func() int { return 0 }
	env["mediaCount"] = func() int { return 0 }
}

// runtimeEnvironment exposes the object's attributes as top-level
// variables next to the helper functions. "kind" holds the object kind and
// "Object" the whole attribute map.
func runtimeEnvironment(obj *model.Object) map[string]any {
	attrs := obj.Map()
	env := make(map[string]any, len(attrs)+16)
	addHelperFunctions(env)
	maps.Copy(env, attrs)

	env["Object"] = attrs
	env["hasTag"] = hasTagFunc(tagNames(obj))
	comments := len(obj.Objects("comments"))
	env["commentCount"] = func() int { return comments }
	media := len(obj.Objects("media"))
	env["mediaCount"] = func() int { return media }
	return env
}

func hasTagFunc(tags []string) func(string) bool {
	return func(tag string) bool {
		return slices.Contains(tags, strings.ToLower(tag))
	}
}

// tagNames collects lower-cased tag names the way parsed objects carry
// them: nested tag objects (one, or a list of them) and comma-separated
// text in a scalar "tag" or "tags" attribute.
func tagNames(obj *model.Object) []string {
	var names []string
	for _, attr := range []string{"tags", "tag"} {
		v, ok := obj.Get(attr)
		if !ok {
			continue
		}
		if s, ok := v.Text(); ok {
			for _, part := range strings.Split(s, ",") {
				if part = strings.TrimSpace(part); part != "" {
					names = append(names, strings.ToLower(part))
				}
			}
			continue
		}
		for _, tag := range obj.Objects(attr) {
			names = append(names, strings.ToLower(tag.String()))
		}
	}
	return names
}
