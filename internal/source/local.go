// Package source enumerates documents for batch ingestion, either from the
// local filesystem or from a Google Drive folder.
package source

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExts is the extension allowlist for the canonical PDF flow.
var DefaultExts = []string{".pdf"}

// ListLocal walks root and returns every file whose extension is in exts.
func ListLocal(root string, exts []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, a := range exts {
			if ext == a {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	return out, err
}
