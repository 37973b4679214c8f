// Package idl holds the Posterous method table.
//
// The table is static data: namespace -> method name -> descriptor, decoded
// once from an embedded YAML file. A descriptor names the remote path, the
// ordered parameter list (which is also the positional binding order), the
// authentication the method needs and hints about the shape of its result.
//
// Adding a remote method only requires a new entry in methods.yaml; the call
// builder and the response parser are driven entirely by the descriptors.
//
// Malformed tables are rejected when the registry is built:
//
//	reg, err := idl.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, ok := reg.Lookup("application", "read_posts")
package idl
