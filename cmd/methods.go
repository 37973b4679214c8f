package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thomasw/posterous/idl"
)

var showDocs bool

// methodsCmd lists the remote methods the client knows about
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the available API methods",
	Long: `List every method in the method table with its parameters.
Optional parameters are shown in brackets and flags mark methods that need
credentials (auth) or a signed token (token), and methods that page (paged).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeMethods(cmd.OutOrStdout(), client.Registry(), showDocs)
	},
}

func init() {
	methodsCmd.Flags().BoolVar(&showDocs, "doc", false, "include each method's documentation")
}

func writeMethods(w io.Writer, reg *idl.Registry, docs bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ns := range reg.Namespaces() {
		fmt.Fprintf(tw, "%s\n", ns)
		for _, m := range reg.Methods(ns) {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Name(), signature(m), methodFlags(m))
			if docs && m.Doc() != "" {
				for _, line := range strings.Split(m.Doc(), "\n") {
					fmt.Fprintf(tw, "      %s\t\t\n", strings.TrimSpace(line))
				}
			}
		}
	}
	return tw.Flush()
}

func signature(m *idl.Method) string {
	parts := make([]string, 0, m.NumParams())
	for _, p := range m.Params() {
		part := p.Name() + ":" + strings.ReplaceAll(p.TypeNames(), ", ", "|")
		if p.Optional() {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func methodFlags(m *idl.Method) string {
	var flags []string
	if m.AuthRequired() {
		flags = append(flags, "auth")
	}
	if m.SecondaryAuthRequired() {
		flags = append(flags, "token")
	}
	if m.Paginated() {
		flags = append(flags, "paged")
	}
	return strings.Join(flags, ",")
}
