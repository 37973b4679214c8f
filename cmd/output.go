package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/thomasw/posterous/model"
)

// objectYAML converts an object to a YAML mapping that keeps the order in
// which attributes were read. The kind comes first.
func objectYAML(o *model.Object) yaml.MapSlice {
	out := yaml.MapSlice{{Key: "kind", Value: o.Kind().String()}}
	for _, name := range o.Names() {
		v, _ := o.Get(name)
		out = append(out, yaml.MapItem{Key: name, Value: valueYAML(v)})
	}
	return out
}

func valueYAML(v model.Value) any {
	switch v.Type() {
	case model.ObjectValue:
		obj, _ := v.Object()
		return objectYAML(obj)
	case model.ListValue:
		items, _ := v.List()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = valueYAML(item)
		}
		return out
	default:
		return v.Interface()
	}
}

// writeObjects renders objects as a YAML sequence.
func writeObjects(w io.Writer, objects []*model.Object) error {
	docs := make([]yaml.MapSlice, len(objects))
	for i, o := range objects {
		docs[i] = objectYAML(o)
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeResult renders a call result in whichever shape it took.
func writeResult(w io.Writer, r *model.Result) error {
	switch r.Shape() {
	case model.ShapeNone:
		_, err := fmt.Fprintln(w, "# no result")
		return err
	case model.ShapeScalarMap:
		scalars := r.Scalars()
		out := make(yaml.MapSlice, 0, len(scalars))
		for _, key := range slices.Sorted(maps.Keys(scalars)) {
			out = append(out, yaml.MapItem{Key: key, Value: scalars[key]})
		}
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case model.ShapeObject:
		data, err := yaml.Marshal(objectYAML(r.Object()))
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return writeObjects(w, r.Objects())
	}
}
