package posterous

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
)

// File is a binary payload. It is sent as a multipart file part.
type File struct {
	Name    string
	Content io.Reader
}

// Field is one entry of a request body. Exactly one of Value and File is
// meaningful: File is set for binary payloads.
type Field struct {
	Name  string
	Value string
	File  *File
}

// CallRequest is a validated call ready for the transport.
type CallRequest struct {
	Method *idl.Method
	URL    string
	Fields []Field
}

// HasFiles reports whether the body must be sent as multipart.
func (r *CallRequest) HasFiles() bool {
	return slices.ContainsFunc(r.Fields, func(f Field) bool { return f.File != nil })
}

// Get returns the values of every field named name, in order.
func (r *CallRequest) Get(name string) []string {
	var out []string
	for _, f := range r.Fields {
		if f.Name == name && f.File == nil {
			out = append(out, f.Value)
		}
	}
	return out
}

// Build validates positional and named arguments against m and encodes them.
// No I/O happens here; every failure is a *ValidationError or an *AuthError.
func Build(m *idl.Method, auth Auth, scheme, host string, positional []any, named map[string]any) (*CallRequest, error) {
	name := m.Name()
	params := m.Params()

	if given := len(positional) + len(named); given > len(params) {
		return nil, tooManyArguments(name, len(params), given)
	}

	values := make([]any, len(params))
	consumed := make(map[string]bool, len(named))
	for i, p := range params {
		v, hasNamed := named[p.Name()]
		if i < len(positional) {
			if hasNamed {
				return nil, duplicateArgument(name, p.Name())
			}
			values[i] = positional[i]
			continue
		}
		if hasNamed {
			values[i] = v
			consumed[p.Name()] = true
		}
	}
	if len(consumed) != len(named) {
		var extra []string
		for k := range named {
			if !consumed[k] {
				extra = append(extra, k)
			}
		}
		slices.Sort(extra)
		return nil, unexpectedArguments(name, extra)
	}

	var fields []Field
	for i, p := range params {
		v := absentIfNil(values[i])
		if err := checkType(name, p, v); err != nil {
			return nil, err
		}
		if v == nil {
			if !p.Optional() {
				return nil, missingArgument(name, p.Name())
			}
			continue
		}
		fields = append(fields, encode(p, v)...)
	}

	if m.AuthRequired() && !auth.HasCredentials() {
		return nil, &AuthError{Method: name, Required: BasicAuthKind}
	}
	if m.SecondaryAuthRequired() && auth.Kind() != SignedTokenAuthKind {
		return nil, &AuthError{Method: name, Required: SignedTokenAuthKind}
	}

	u := url.URL{Scheme: scheme, Host: host, Path: m.Path()}
	return &CallRequest{
		Method: m,
		URL:    u.String(),
		Fields: fields,
	}, nil
}

func checkType(method string, p idl.Param, v any) error {
	if v == nil {
		return nil
	}
	if items, ok := listItems(v); ok {
		if !p.AcceptsList() {
			return invalidValue(method, p.Name(), p.TypeNames())
		}
		elems := p.ElementTypes()
		for _, item := range items {
			t, ok := typeOf(item)
			if !ok || !slices.Contains(elems, t) {
				return invalidElement(method, p.Name(), joinTypes(elems))
			}
		}
		return nil
	}
	if t, ok := typeOf(v); !ok || t == idl.TypeList || !p.Accepts(t) {
		return invalidValue(method, p.Name(), p.TypeNames())
	}
	return nil
}

// absentIfNil turns typed nil pointers into an untyped nil so they count
// as a missing argument.
func absentIfNil(v any) any {
	switch x := v.(type) {
	case *File:
		if x == nil {
			return nil
		}
	case *os.File:
		if x == nil {
			return nil
		}
	case *model.Object:
		if x == nil {
			return nil
		}
	}
	return v
}

// typeOf maps a Go value to the type tag it satisfies. Slices other than
// []byte map to TypeList.
func typeOf(v any) (idl.Type, bool) {
	switch x := v.(type) {
	case string:
		return idl.TypeText, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return idl.TypeInteger, true
	case bool:
		return idl.TypeBoolean, true
	case time.Time:
		return idl.TypeTimestamp, true
	case File, []byte:
		return idl.TypeBinary, true
	case *File:
		return idl.TypeBinary, x != nil
	case *os.File:
		return idl.TypeBinary, x != nil
	case *model.Object:
		if x != nil && x.Kind() == model.KindTag {
			return idl.TypeTag, true
		}
		return "", false
	}
	if _, ok := listItems(v); ok {
		return idl.TypeList, true
	}
	return "", false
}

func listItems(v any) ([]any, bool) {
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func joinTypes(types []idl.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// encode turns a checked value into body fields. Lists expand to one
// "name[]" field per element.
func encode(p idl.Param, v any) []Field {
	if items, ok := listItems(v); ok {
		fields := make([]Field, 0, len(items))
		for _, item := range items {
			fields = append(fields, encodeScalar(p.Name()+"[]", item))
		}
		return fields
	}
	return []Field{encodeScalar(p.Name(), v)}
}

func encodeScalar(name string, v any) Field {
	switch x := v.(type) {
	case string:
		return Field{Name: name, Value: x}
	case bool:
		return Field{Name: name, Value: model.Bool(x).String()}
	case time.Time:
		return Field{Name: name, Value: model.FormatTime(x)}
	case *model.Object:
		tag, ok := x.Text("tag_name")
		if !ok {
			tag = x.String()
		}
		return Field{Name: name, Value: tag}
	case File:
		return Field{Name: name, File: &x}
	case *File:
		return Field{Name: name, File: x}
	case *os.File:
		return Field{Name: name, File: &File{Name: filepath.Base(x.Name()), Content: x}}
	case []byte:
		return Field{Name: name, File: &File{Name: strings.TrimSuffix(name, "[]"), Content: bytes.NewReader(x)}}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Field{Name: name, Value: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Field{Name: name, Value: strconv.FormatUint(rv.Uint(), 10)}
	}
	return Field{Name: name}
}
