// Package output serializes a gallery tree into the gallery_data.js
// artifact: a single const assignment of pretty-printed JSON, loadable
// as a plain script tag by the static front end.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gallery-gen/internal/gallery"
)

// Render produces the full artifact contents for the given tree:
//
//	const <varName> = <json>;
//
// The JSON is indented with four spaces and key order follows the node
// shape (id, name, type, then children or src/thumbnail/date), matching
// the output the front end was built against byte for byte.
func Render(varName string, root *gallery.Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize gallery tree: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(varName) + 16)
	buf.WriteString("const ")
	buf.WriteString(varName)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// Write renders the tree and writes the artifact to path. The file is
// fully regenerated on every run; there is no incremental update. A
// write failure is returned to the caller so the run can be reported as
// failed while the in-memory tree stays intact for a retry.
func Write(path, varName string, root *gallery.Node) error {
	content, err := Render(varName, root)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
