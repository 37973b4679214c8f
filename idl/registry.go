package idl

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed methods.yaml
var methodsYAML []byte

// rawParam and rawMethod mirror the YAML layout.
type rawParam struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
	Flags []string `yaml:"flags"`
}

type rawMethod struct {
	Path                  string     `yaml:"path"`
	Parameters            []rawParam `yaml:"parameters"`
	AuthRequired          bool       `yaml:"auth_required"`
	SecondaryAuthRequired bool       `yaml:"secondary_auth_required"`
	Returns               []string   `yaml:"returns"`
	Doc                   string     `yaml:"doc"`
}

// Registry is a read-only table of method descriptors grouped by namespace.
// It is safe for concurrent use.
type Registry struct {
	namespaces map[string]map[string]*Method
	byName     map[string]*Method
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Parse(methodsYAML)
})

// Default returns the registry built from the embedded method table. The
// table is decoded once per process.
func Default() (*Registry, error) {
	return loadDefault()
}

// Parse builds a registry from a YAML method table. Every descriptor is
// validated up front; the first malformed entry is returned as a
// *SchemaError.
func Parse(data []byte) (*Registry, error) {
	var table map[string]map[string]rawMethod
	if err := yaml.UnmarshalWithOptions(data, &table, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to decode method table: %w", err)
	}

	reg := &Registry{
		namespaces: make(map[string]map[string]*Method, len(table)),
		byName:     make(map[string]*Method),
	}

	// Walk in a stable order so the reported error does not depend on map order
	for _, ns := range sortedKeys(table) {
		if ns == "" {
			return nil, &SchemaError{Reason: "empty namespace name"}
		}
		methods := table[ns]
		reg.namespaces[ns] = make(map[string]*Method, len(methods))

		for _, name := range sortedKeys(methods) {
			m, err := buildMethod(ns, name, methods[name])
			if err != nil {
				return nil, err
			}
			if prev, dup := reg.byName[name]; dup {
				return nil, &SchemaError{
					Namespace: ns,
					Method:    name,
					Reason:    fmt.Sprintf("method name already defined in namespace '%s'", prev.namespace),
				}
			}
			reg.namespaces[ns][name] = m
			reg.byName[name] = m
		}
	}

	return reg, nil
}

func buildMethod(ns, name string, raw rawMethod) (*Method, error) {
	fail := func(param, reason string) error {
		return &SchemaError{Namespace: ns, Method: name, Param: param, Reason: reason}
	}

	if name == "" {
		return nil, fail("", "empty method name")
	}
	if strings.TrimSpace(raw.Path) == "" {
		return nil, fail("", "missing path")
	}

	m := &Method{
		namespace:     ns,
		name:          name,
		path:          raw.Path,
		params:        make([]Param, 0, len(raw.Parameters)),
		authRequired:  raw.AuthRequired,
		secondaryAuth: raw.SecondaryAuthRequired,
		doc:           strings.TrimSpace(raw.Doc),
	}

	if m.authRequired && m.secondaryAuth {
		return nil, fail("", "cannot require both basic and signed-token authentication")
	}

	for _, hint := range raw.Returns {
		switch hint {
		case "force_list":
			m.returns |= ForceList
		case "force_scalar_map":
			m.returns |= ForceScalarMap
		default:
			return nil, fail("", fmt.Sprintf("unknown return hint '%s'", hint))
		}
	}
	if m.returns.Has(ForceList) && m.returns.Has(ForceScalarMap) {
		return nil, fail("", "force_list and force_scalar_map are mutually exclusive")
	}

	seen := make(map[string]bool, len(raw.Parameters))
	for _, rp := range raw.Parameters {
		if rp.Name == "" {
			return nil, fail("", "parameter without a name")
		}
		if seen[rp.Name] {
			return nil, fail(rp.Name, "duplicate parameter name")
		}
		seen[rp.Name] = true

		p := Param{name: rp.Name}
		if len(rp.Types) == 0 {
			return nil, fail(rp.Name, "no accepted types")
		}
		for _, t := range rp.Types {
			typ := Type(t)
			if !typ.valid() {
				return nil, fail(rp.Name, fmt.Sprintf("unknown type '%s'", t))
			}
			if slices.Contains(p.types, typ) {
				return nil, fail(rp.Name, fmt.Sprintf("type '%s' listed twice", t))
			}
			p.types = append(p.types, typ)
		}
		if p.AcceptsList() && len(p.ElementTypes()) == 0 {
			return nil, fail(rp.Name, "list parameter needs at least one element type")
		}

		for _, flag := range rp.Flags {
			switch flag {
			case "optional":
				p.optional = true
			default:
				return nil, fail(rp.Name, fmt.Sprintf("unknown flag '%s'", flag))
			}
		}

		// The cursor supplies these, so callers must be able to leave them out
		if (rp.Name == PageParam || rp.Name == PageSizeParam) && !p.optional {
			return nil, fail(rp.Name, "pagination parameter must be optional")
		}

		m.params = append(m.params, p)
	}

	return m, nil
}

// Lookup returns the descriptor for namespace and method name.
func (r *Registry) Lookup(namespace, name string) (*Method, bool) {
	m, ok := r.namespaces[namespace][name]
	return m, ok
}

// Find returns a descriptor by method name alone. Method names are unique
// across namespaces.
func (r *Registry) Find(name string) (*Method, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Namespaces returns the namespace names in sorted order.
func (r *Registry) Namespaces() []string {
	return sortedKeys(r.namespaces)
}

// Methods returns the descriptors of a namespace sorted by name.
func (r *Registry) Methods(namespace string) []*Method {
	methods := r.namespaces[namespace]
	out := make([]*Method, 0, len(methods))
	for _, name := range sortedKeys(methods) {
		out = append(out, methods[name])
	}
	return out
}

// All returns every descriptor, grouped by namespace.
func (r *Registry) All() []*Method {
	out := make([]*Method, 0, len(r.byName))
	for _, ns := range r.Namespaces() {
		out = append(out, r.Methods(ns)...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
