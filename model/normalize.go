package model

// Normalize runs the clean-up pass on o and every object nested in it:
// a singular "comment" attribute becomes a "comments" list, ahead of any
// comments attached after it, and "media" always holds a list. Running it
// again on a normalized object is a no-op.
func Normalize(o *Object) {
	if o == nil {
		return
	}

	if single, ok := o.Get("comment"); ok {
		o.Delete("comment")
		items := asList(single)
		if existing, ok := o.Get("comments"); ok {
			items = append(items, asList(existing)...)
		}
		o.Set("comments", List(items...))
	} else if existing, ok := o.Get("comments"); ok && existing.typ != ListValue {
		o.Set("comments", List(existing))
	}

	if media, ok := o.Get("media"); ok && media.typ != ListValue {
		o.Set("media", List(media))
	}

	for _, name := range o.order {
		normalizeValue(o.attrs[name])
	}
}

func normalizeValue(v Value) {
	switch v.typ {
	case ObjectValue:
		Normalize(v.obj)
	case ListValue:
		for _, item := range v.list {
			normalizeValue(item)
		}
	}
}

func asList(v Value) []Value {
	if v.typ == ListValue {
		return v.list
	}
	return []Value{v}
}
