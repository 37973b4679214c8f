package model

import (
	"strconv"
	"strings"
	"time"
)

// Coercion converts raw element text into a typed value.
type Coercion func(text string) Value

// coercions is keyed by lower-cased attribute name. Names not listed are
// kept as trimmed text.
var coercions = map[string]Coercion{
	"id":              ToInt,
	"site_id":         ToInt,
	"post_id":         ToInt,
	"views":           ToInt,
	"count":           ToInt,
	"commentscount":   ToInt,
	"num_posts":       ToInt,
	"filesize":        ToInt,
	"size":            ToInt,
	"width":           ToInt,
	"height":          ToInt,
	"plays":           ToInt,
	"private":         ToBool,
	"primary":         ToBool,
	"commentsenabled": ToBool,
	"autopost":        ToBool,
	"date":            ToTime,
}

// Coerce applies the rule registered for name to text.
func Coerce(name, text string) Value {
	if c, ok := coercions[strings.ToLower(name)]; ok {
		return c(text)
	}
	return ToText(text)
}

// ToText trims surrounding whitespace.
func ToText(text string) Value {
	return Text(strings.TrimSpace(text))
}

// ToInt parses a decimal integer, falling back to text.
func ToInt(text string) Value {
	s := strings.TrimSpace(text)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Text(s)
	}
	return Int(n)
}

// ToBool parses 0/1 and true/false, falling back to text.
func ToBool(text string) Value {
	s := strings.TrimSpace(text)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return Text(s)
	}
	return Bool(b)
}

// ToTime parses a service timestamp into UTC, falling back to text.
func ToTime(text string) Value {
	s := strings.TrimSpace(text)
	t, err := ParseTime(s)
	if err != nil {
		return Text(s)
	}
	return Time(t)
}

// timeLayouts are tried in order; the first is the one the service writes.
var timeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// ParseTime parses "Mon, 02 Jan 2006 15:04:05 -0700" style timestamps and
// converts them to UTC.
func ParseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// FormatTime renders t in the service format with an explicit +0000
// offset. t is converted to UTC first.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
