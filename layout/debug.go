package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON marshals a solved Result as indented JSON and writes it to
// path, for inspecting intermediate rects during development.
func WriteDebugJSON(res *Result, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
