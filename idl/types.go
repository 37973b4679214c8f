package idl

import (
	"slices"
	"strings"
)

// Type tags a primitive or composite argument type.
type Type string

const (
	TypeInteger   Type = "integer"
	TypeText      Type = "text"
	TypeBoolean   Type = "boolean"
	TypeTimestamp Type = "timestamp"
	TypeBinary    Type = "binary"
	TypeTag       Type = "tag"

	// TypeList marks a parameter that also accepts a list. Elements must
	// match one of the parameter's other types.
	TypeList Type = "list"
)

func (t Type) valid() bool {
	switch t {
	case TypeInteger, TypeText, TypeBoolean, TypeTimestamp, TypeBinary, TypeTag, TypeList:
		return true
	}
	return false
}

// Returns is a set of hints about the shape of a method's result.
type Returns uint8

const (
	// ForceList always yields a list, even for zero or one object.
	ForceList Returns = 1 << iota
	// ForceScalarMap projects the response into a flat tag -> text map.
	ForceScalarMap
)

// Has reports whether h is set.
func (r Returns) Has(h Returns) bool {
	return r&h != 0
}

// Pagination parameter names. A method declaring PageParam can be driven
// by a cursor.
const (
	PageParam     = "page"
	PageSizeParam = "num_posts"
)

// Param describes one method parameter.
type Param struct {
	name     string
	types    []Type
	optional bool
}

// Name returns the parameter name.
func (p Param) Name() string { return p.name }

// Optional reports whether the parameter may be omitted.
func (p Param) Optional() bool { return p.optional }

// Types returns the accepted type tags in declaration order.
func (p Param) Types() []Type { return slices.Clone(p.types) }

// Accepts reports whether t is one of the accepted type tags.
func (p Param) Accepts(t Type) bool { return slices.Contains(p.types, t) }

// AcceptsList reports whether the parameter takes list values.
func (p Param) AcceptsList() bool { return p.Accepts(TypeList) }

// ElementTypes returns the accepted types without TypeList.
func (p Param) ElementTypes() []Type {
	out := make([]Type, 0, len(p.types))
	for _, t := range p.types {
		if t != TypeList {
			out = append(out, t)
		}
	}
	return out
}

// TypeNames renders the accepted types for error messages.
func (p Param) TypeNames() string {
	names := make([]string, len(p.types))
	for i, t := range p.types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Method is an immutable method descriptor.
type Method struct {
	namespace     string
	name          string
	path          string
	params        []Param
	authRequired  bool
	secondaryAuth bool
	returns       Returns
	doc           string
}

// Namespace returns the group the method belongs to.
func (m *Method) Namespace() string { return m.namespace }

// Name returns the method name.
func (m *Method) Name() string { return m.name }

// Path returns the remote path, e.g. /api/readposts.
func (m *Method) Path() string { return m.path }

// Params returns a copy of the ordered parameter list.
func (m *Method) Params() []Param { return slices.Clone(m.params) }

// NumParams returns the number of declared parameters.
func (m *Method) NumParams() int { return len(m.params) }

// Param looks up a parameter by name.
func (m *Method) Param(name string) (Param, bool) {
	for _, p := range m.params {
		if p.name == name {
			return p, true
		}
	}
	return Param{}, false
}

// AuthRequired reports whether the method needs basic credentials.
func (m *Method) AuthRequired() bool { return m.authRequired }

// SecondaryAuthRequired reports whether the method needs a signed token.
func (m *Method) SecondaryAuthRequired() bool { return m.secondaryAuth }

// Returns returns the result shape hints.
func (m *Method) Returns() Returns { return m.returns }

// Doc returns the method documentation.
func (m *Method) Doc() string { return m.doc }

// Paginated reports whether the method declares a page parameter.
func (m *Method) Paginated() bool {
	_, ok := m.Param(PageParam)
	return ok
}
