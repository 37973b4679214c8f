package model

import (
	"context"
	"fmt"
	"time"
)

// Invoker re-invokes remote methods on behalf of an object.
type Invoker interface {
	Invoke(ctx context.Context, method string, args map[string]any) (*Result, error)
}

// Object is a domain object: a kind plus named attributes.
type Object struct {
	kind  Kind
	attrs map[string]Value
	order []string
	api   Invoker
}

// New creates an empty object. api may be nil.
func New(kind Kind, api Invoker) *Object {
	return &Object{
		kind:  kind,
		attrs: make(map[string]Value),
		api:   api,
	}
}

// Kind returns the object's kind.
func (o *Object) Kind() Kind { return o.kind }

// Get returns an attribute and whether it is present.
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

// Has reports whether an attribute is present.
func (o *Object) Has(name string) bool {
	_, ok := o.attrs[name]
	return ok
}

// Set stores an attribute, replacing any previous value.
func (o *Object) Set(name string, v Value) {
	if _, ok := o.attrs[name]; !ok {
		o.order = append(o.order, name)
	}
	o.attrs[name] = v
}

// Delete removes an attribute.
func (o *Object) Delete(name string) {
	if _, ok := o.attrs[name]; !ok {
		return
	}
	delete(o.attrs, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Add attaches v under name. An absent attribute is set directly, a single
// value is promoted to a two-item list, a list is appended to.
func (o *Object) Add(name string, v Value) {
	existing, ok := o.attrs[name]
	switch {
	case !ok:
		o.Set(name, v)
	case existing.typ == ListValue:
		existing.list = append(existing.list, v)
		o.attrs[name] = existing
	default:
		o.attrs[name] = List(existing, v)
	}
}

// Names returns attribute names in the order they were first set.
func (o *Object) Names() []string {
	return append([]string(nil), o.order...)
}

// Len returns the number of attributes.
func (o *Object) Len() int { return len(o.attrs) }

// Text returns a text attribute.
func (o *Object) Text(name string) (string, bool) {
	v, ok := o.attrs[name]
	if !ok {
		return "", false
	}
	return v.Text()
}

// Int returns an integer attribute.
func (o *Object) Int(name string) (int64, bool) {
	v, ok := o.attrs[name]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Bool returns a boolean attribute.
func (o *Object) Bool(name string) (bool, bool) {
	v, ok := o.attrs[name]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Time returns a timestamp attribute.
func (o *Object) Time(name string) (time.Time, bool) {
	v, ok := o.attrs[name]
	if !ok {
		return time.Time{}, false
	}
	return v.Time()
}

// Objects returns the nested objects stored under name, whether the
// attribute holds a single object or a list.
func (o *Object) Objects(name string) []*Object {
	v, ok := o.attrs[name]
	if !ok {
		return nil
	}
	if obj, ok := v.Object(); ok {
		return []*Object{obj}
	}
	var out []*Object
	for _, item := range v.list {
		if obj, ok := item.Object(); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Map converts the object to plain Go data. The kind is stored under "kind".
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.attrs)+1)
	for name, v := range o.attrs {
		out[name] = v.Interface()
	}
	out["kind"] = string(o.kind)
	return out
}

// Equal reports whether two objects have the same kind and attributes.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.kind != other.kind || len(o.attrs) != len(other.attrs) {
		return false
	}
	for name, v := range o.attrs {
		ov, ok := other.attrs[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String returns a short label: the tag name for tags, the title or name
// when present, otherwise the kind.
func (o *Object) String() string {
	for _, attr := range []string{"tag_name", "title", "name"} {
		if s, ok := o.Text(attr); ok && s != "" {
			return s
		}
	}
	if id, ok := o.Int("id"); ok {
		return fmt.Sprintf("%s %d", o.kind, id)
	}
	return string(o.kind)
}
