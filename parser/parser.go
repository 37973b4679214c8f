package parser

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
)

// Parser turns XML response bodies into domain objects. A Parser holds no
// per-call state and may be shared.
type Parser struct {
	api    model.Invoker
	logger zerolog.Logger
}

// New creates a parser. Objects it builds are bound to api so their
// convenience methods can call back into the service; api may be nil.
func New(api model.Invoker, logger zerolog.Logger) *Parser {
	return &Parser{
		api:    api,
		logger: logger,
	}
}

// Parse reads one response body. status is the HTTP status the body
// arrived with and hints are the return hints of the invoked method.
func (p *Parser) Parse(status int, body io.Reader, hints idl.Returns) (*model.Result, error) {
	success := status >= 200 && status < 300

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		if !success {
			return nil, &TransportError{StatusCode: status, Err: err}
		}
		return nil, &MalformedResponseError{Reason: "response is not well-formed XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		if !success {
			return nil, &TransportError{StatusCode: status}
		}
		return nil, &MalformedResponseError{Reason: "response has no root element"}
	}

	if err := findServiceError(root); err != nil {
		return nil, err
	}
	if !success {
		return nil, &TransportError{StatusCode: status}
	}

	if hints.Has(idl.ForceScalarMap) {
		return p.scalarMap(root)
	}

	var objects []*model.Object
	if kind, ok := model.KindOf(root.Tag); ok {
		objects = []*model.Object{p.build(kind, root)}
	} else {
		var err error
		if objects, err = p.reconcile(root.ChildElements()); err != nil {
			return nil, err
		}
	}

	for _, obj := range objects {
		model.Normalize(obj)
	}

	forceList := hints.Has(idl.ForceList)
	switch {
	case len(objects) == 1 && !forceList:
		return model.ObjectResult(objects[0]), nil
	case len(objects) == 0 && !forceList:
		return model.NoResult(), nil
	default:
		return model.ListResult(objects), nil
	}
}

// scalarMap projects the root's children to lower-cased tag -> text.
func (p *Parser) scalarMap(root *etree.Element) (*model.Result, error) {
	m := make(map[string]string)
	for _, child := range root.ChildElements() {
		m[strings.ToLower(child.Tag)] = strings.TrimSpace(child.Text())
	}
	if len(m) == 0 {
		return nil, &MalformedResponseError{Reason: "response could not be parsed"}
	}
	return model.ScalarResult(m), nil
}

// reconcile folds the root's children into top-level objects. The last
// object in the output is the accumulator: a sibling of the same kind
// starts a new result, a sibling of another kind becomes a collection on
// the accumulator, and an element of no known kind becomes one of its
// attributes.
func (p *Parser) reconcile(elements []*etree.Element) ([]*model.Object, error) {
	var out []*model.Object
	for _, el := range elements {
		name := strings.ToLower(el.Tag)

		kind, ok := model.KindOf(el.Tag)
		if !ok {
			if len(out) == 0 {
				p.logger.Debug().Str("element", name).Msg("Discarding element with no enclosing object")
				continue
			}
			out[len(out)-1].Set(name, model.Coerce(name, el.Text()))
			continue
		}

		obj := p.build(kind, el)
		if len(out) == 0 || out[len(out)-1].Kind() == kind {
			out = append(out, obj)
			continue
		}
		if err := attachCollection(out[len(out)-1], kind.Plural(), obj); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func attachCollection(parent *model.Object, name string, child *model.Object) error {
	existing, ok := parent.Get(name)
	switch {
	case !ok:
		parent.Set(name, model.List(model.Nested(child)))
	case existing.Type() == model.ListValue, existing.Type() == model.ObjectValue:
		parent.Add(name, model.Nested(child))
	default:
		return &MalformedResponseError{Reason: "response could not be parsed"}
	}
	return nil
}

// build creates an object of kind from el. A child whose tag names a kind
// is nested only when it has children of its own; otherwise it is a plain
// attribute like any other.
func (p *Parser) build(kind model.Kind, el *etree.Element) *model.Object {
	obj := model.New(kind, p.api)
	for _, child := range el.ChildElements() {
		name := strings.ToLower(child.Tag)
		if ck, ok := model.KindOf(child.Tag); ok && len(child.ChildElements()) > 0 {
			obj.Add(name, model.Nested(p.build(ck, child)))
			continue
		}
		obj.Set(name, model.Coerce(name, child.Text()))
	}
	return obj
}

// findServiceError checks the root and its direct children for an error
// element.
func findServiceError(root *etree.Element) error {
	if err := asServiceError(root); err != nil {
		return err
	}
	for _, child := range root.ChildElements() {
		if err := asServiceError(child); err != nil {
			return err
		}
	}
	return nil
}

// asServiceError recognizes <err code="" msg=""/> and <error> with the
// code and message either as attributes or as child elements.
func asServiceError(el *etree.Element) error {
	switch strings.ToLower(el.Tag) {
	case "err", "error":
	default:
		return nil
	}

	code := el.SelectAttrValue("code", "")
	msg := el.SelectAttrValue("msg", el.SelectAttrValue("message", ""))
	for _, child := range el.ChildElements() {
		switch strings.ToLower(child.Tag) {
		case "code":
			code = strings.TrimSpace(child.Text())
		case "message", "msg":
			msg = strings.TrimSpace(child.Text())
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(el.Text())
	}
	return &ServiceError{Code: code, Message: msg}
}
