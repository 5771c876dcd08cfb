// Package envasset generates the env script asset consumed by the web UI.
//
// Browser code cannot read the process environment, so the serve command
// materializes the provider key variables into a small script that defines
// one global object. The asset is regenerated on every run before the app
// script loads; the credential lookup in the browser mirrors what
// credential.Bag does in-process.
package envasset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seojunpark/axlint/pkg/credential"
)

// GlobalName is the window property the generated script defines.
const GlobalName = "__AXLINT_ENV__"

// Render produces the script asset from the given environment lookup.
// A nil getenv reads the real process environment.
//
// Every enumerated primary key variable appears in the output, unset ones
// as empty strings; a missing variable is never an error here. Output is
// deterministic: identical environment input yields byte-identical bytes.
func Render(getenv func(string) string) []byte {
	if getenv == nil {
		getenv = os.Getenv
	}

	names := credential.PrimaryVars()

	var b bytes.Buffer
	fmt.Fprintf(&b, "window.%s = {\n", GlobalName)
	for i, name := range names {
		// json.Marshal of a string cannot fail; it also gives us exact
		// JSON escaping for arbitrary values.
		val, _ := json.Marshal(getenv(name))
		fmt.Fprintf(&b, "  %q: %s", name, val)
		if i < len(names)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("};\n")

	return b.Bytes()
}

// WriteFile renders the asset and overwrites path unconditionally,
// creating parent directories as needed. Only I/O failures are errors.
func WriteFile(path string, getenv func(string) string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("envasset: create dir: %w", err)
	}

	// Keys may be present in the output, keep it out of group/other reach.
	if err := os.WriteFile(path, Render(getenv), 0o600); err != nil {
		return fmt.Errorf("envasset: write asset: %w", err)
	}

	return nil
}
