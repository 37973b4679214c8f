package model

import (
	"strconv"
	"strings"
	"time"
)

// ValueType tags the content of a Value.
type ValueType uint8

const (
	TextValue ValueType = iota
	IntValue
	BoolValue
	TimeValue
	ObjectValue
	ListValue
)

func (t ValueType) String() string {
	switch t {
	case TextValue:
		return "text"
	case IntValue:
		return "integer"
	case BoolValue:
		return "boolean"
	case TimeValue:
		return "timestamp"
	case ObjectValue:
		return "object"
	case ListValue:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a tagged attribute value. The zero Value is empty text.
type Value struct {
	typ  ValueType
	text string
	num  int64
	flag bool
	when time.Time
	obj  *Object
	list []Value
}

// Text returns a text value.
func Text(s string) Value { return Value{typ: TextValue, text: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{typ: IntValue, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: BoolValue, flag: b} }

// Time returns a timestamp value, normalized to UTC.
func Time(t time.Time) Value { return Value{typ: TimeValue, when: t.UTC()} }

// Nested returns a value holding a nested object.
func Nested(o *Object) Value { return Value{typ: ObjectValue, obj: o} }

// List returns a list value.
func List(items ...Value) Value {
	return Value{typ: ListValue, list: append([]Value(nil), items...)}
}

// Type returns the value's tag.
func (v Value) Type() ValueType { return v.typ }

// Text returns the text content of a text value.
func (v Value) Text() (string, bool) { return v.text, v.typ == TextValue }

// Int returns the content of an integer value.
func (v Value) Int() (int64, bool) { return v.num, v.typ == IntValue }

// Bool returns the content of a boolean value.
func (v Value) Bool() (bool, bool) { return v.flag, v.typ == BoolValue }

// Time returns the content of a timestamp value.
func (v Value) Time() (time.Time, bool) { return v.when, v.typ == TimeValue }

// Object returns the nested object of an object value.
func (v Value) Object() (*Object, bool) { return v.obj, v.typ == ObjectValue }

// List returns a copy of the items of a list value.
func (v Value) List() ([]Value, bool) {
	if v.typ != ListValue {
		return nil, false
	}
	return append([]Value(nil), v.list...), true
}

// Len returns the number of items of a list value, 1 for anything else.
func (v Value) Len() int {
	if v.typ == ListValue {
		return len(v.list)
	}
	return 1
}

// String renders scalar values the way the service writes them.
func (v Value) String() string {
	switch v.typ {
	case IntValue:
		return strconv.FormatInt(v.num, 10)
	case BoolValue:
		if v.flag {
			return "1"
		}
		return "0"
	case TimeValue:
		return FormatTime(v.when)
	case ObjectValue:
		return "<" + v.obj.Kind().String() + ">"
	case ListValue:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.text
	}
}

// Interface converts the value to plain Go data: string, int64, bool,
// time.Time, map[string]any or []any.
func (v Value) Interface() any {
	switch v.typ {
	case IntValue:
		return v.num
	case BoolValue:
		return v.flag
	case TimeValue:
		return v.when
	case ObjectValue:
		return v.obj.Map()
	case ListValue:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.text
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case IntValue:
		return v.num == other.num
	case BoolValue:
		return v.flag == other.flag
	case TimeValue:
		return v.when.Equal(other.when)
	case ObjectValue:
		return v.obj.Equal(other.obj)
	case ListValue:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return v.text == other.text
	}
}
