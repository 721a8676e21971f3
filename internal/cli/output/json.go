package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter renders command results as indented JSON, the form
// used when piping leaklab-cli output into scripts.
type JSONFormatter struct{}

// Format writes data as two-space indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
