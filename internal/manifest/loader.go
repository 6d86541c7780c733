package manifest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultExtensions matched in directory mode.
var DefaultExtensions = []string{".yaml", ".yml"}

// ErrNotFound is returned when the input path does not exist.
var ErrNotFound = errors.New("path not found")

// LoadFile decodes every document in a YAML stream. Empty and null
// documents are dropped. A decode failure aborts this file only; the
// caller reports it and moves on.
func LoadFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var docs []*Document
	dec := yaml.NewDecoder(f)
	for {
		var v any
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("yaml parsing error in %s: %w", path, err)
		}
		if d := NewDocument(v, path); d != nil {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

// Files resolves an input path to the ordered list of files to process.
// A file path yields itself regardless of extension; a directory is
// walked recursively for matching extensions. Walk order is the
// deterministic lexical order of filepath.WalkDir, so repeated runs over
// unchanged input produce identical finding lists.
func Files(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
