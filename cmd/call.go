package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thomasw/posterous/idl"
	"github.com/thomasw/posterous/model"
	"github.com/thomasw/posterous/posterous"
)

// callCmd invokes any method from the table by name
var callCmd = &cobra.Command{
	Use:   "call <method> [name=value...]",
	Short: "Call an API method with named arguments",
	Long: `Call an API method by name and print the result as YAML.

Values are converted to the parameter's declared type. A value starting
with @ is read from that file for binary parameters. Repeating a name
passes a list:

  posterous call new_post site_id=12 title=Hello media=@a.jpg media=@b.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	m, err := client.Method(args[0])
	if err != nil {
		return err
	}

	named, err := parseArgs(m.Descriptor(), args[1:])
	if err != nil {
		return err
	}

	result, err := m.Call(cmd.Context(), nil, named)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), result)
}

// parseArgs turns name=value pairs into named call arguments. Names the
// method does not declare are passed through as text so the call reports
// them.
func parseArgs(m *idl.Method, pairs []string) (map[string]any, error) {
	named := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q: expected name=value", pair)
		}

		var value any = raw
		if p, declared := m.Param(name); declared {
			var err error
			if value, err = parseValue(p, raw); err != nil {
				return nil, fmt.Errorf("argument %s: %w", name, err)
			}
		}

		switch existing := named[name].(type) {
		case nil:
			named[name] = value
		case []any:
			named[name] = append(existing, value)
		default:
			named[name] = []any{existing, value}
		}
	}
	return named, nil
}

var cliTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// parseValue converts raw to the first declared type it parses as. Text
// and tag parameters take the value as is.
func parseValue(p idl.Param, raw string) (any, error) {
	if path, ok := strings.CutPrefix(raw, "@"); ok && p.Accepts(idl.TypeBinary) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return posterous.File{Name: filepath.Base(path), Content: bytes.NewReader(data)}, nil
	}

	types := p.ElementTypes()
	for _, t := range types {
		switch t {
		case idl.TypeInteger:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return n, nil
			}
		case idl.TypeBoolean:
			if b, err := strconv.ParseBool(raw); err == nil {
				return b, nil
			}
		case idl.TypeTimestamp:
			if ts, err := parseTime(raw); err == nil {
				return ts, nil
			}
		}
	}

	for _, t := range types {
		switch t {
		case idl.TypeText:
			return raw, nil
		case idl.TypeTag:
			tag := model.New(model.KindTag, nil)
			tag.Set("tag_name", model.Text(raw))
			return tag, nil
		}
	}
	return nil, fmt.Errorf("%q is not a valid %s", raw, p.TypeNames())
}

func parseTime(raw string) (time.Time, error) {
	if t, err := model.ParseTime(raw); err == nil {
		return t, nil
	}
	var err error
	for _, layout := range cliTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
