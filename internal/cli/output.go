package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// printValue writes v to w in the format chosen with --format.
func printValue(w io.Writer, v any) {
	b, err := marshalValue(v, formatFlag)
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Fprintln(w, strings.TrimRight(string(b), "\n"))
}

func marshalValue(v any, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return json.MarshalIndent(v, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func unmarshalValue(data []byte, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return json.Unmarshal(data, v)
	case "yaml", "yml":
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}
