package model

// Shape tells which form a parsed response took.
type Shape uint8

const (
	// ShapeNone means the response held no objects.
	ShapeNone Shape = iota
	// ShapeObject means exactly one object was produced.
	ShapeObject
	// ShapeList means an ordered list of objects, possibly empty.
	ShapeList
	// ShapeScalarMap means a flat tag -> text mapping.
	ShapeScalarMap
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeList:
		return "list"
	case ShapeScalarMap:
		return "scalar-map"
	default:
		return "none"
	}
}

// Result is the outcome of a successful call.
type Result struct {
	shape   Shape
	objects []*Object
	scalars map[string]string
}

// NoResult returns an empty result.
func NoResult() *Result {
	return &Result{shape: ShapeNone}
}

// ObjectResult wraps a single object.
func ObjectResult(o *Object) *Result {
	return &Result{shape: ShapeObject, objects: []*Object{o}}
}

// ListResult wraps an ordered list of objects.
func ListResult(objects []*Object) *Result {
	if objects == nil {
		objects = []*Object{}
	}
	return &Result{shape: ShapeList, objects: objects}
}

// ScalarResult wraps a flat mapping.
func ScalarResult(m map[string]string) *Result {
	return &Result{shape: ShapeScalarMap, scalars: m}
}

// Shape returns the result's form.
func (r *Result) Shape() Shape { return r.shape }

// Empty reports the explicit "no result" outcome.
func (r *Result) Empty() bool { return r.shape == ShapeNone }

// Object returns the single object of an object-shaped result, or nil.
func (r *Result) Object() *Object {
	if r.shape != ShapeObject {
		return nil
	}
	return r.objects[0]
}

// Objects returns every object, wrapping a single object in a list.
func (r *Result) Objects() []*Object {
	return append([]*Object(nil), r.objects...)
}

// Len returns the number of objects.
func (r *Result) Len() int { return len(r.objects) }

// Scalars returns the mapping of a scalar-map result, or nil.
func (r *Result) Scalars() map[string]string {
	return r.scalars
}
