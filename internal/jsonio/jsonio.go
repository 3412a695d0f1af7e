// Package jsonio reads and writes the plain-JSON artifacts of the index
// tree. Everything the pipeline emits is uncompressed JSON so the output
// can be served straight from a static host or CDN.
package jsonio

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Write marshals v compactly and writes it to path, creating parent
// directories as needed. Chapter chunks and index buckets use the compact
// form to keep shard sizes down.
func Write(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeBytes(path, data)
}

// WriteIndented marshals v with two-space indentation. Manifests are
// indented: they are small and get read by humans during debugging.
func WriteIndented(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeBytes(path, data)
}

// Read unmarshals the JSON file at path into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
