package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. This is best-effort and should never make generation fail
// harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}
	// Keep it out of the build: a .go suffix would break the package it sits in.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.txt"
	p := filepath.Join(outDir, debugName)

	return os.WriteFile(p, content, filePerm)
}
