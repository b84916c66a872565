package curriculum

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for curriculum files that are neither
// markup nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported curriculum format")

//go:embed malla.html
var defaultMarkup []byte

// Default builds the built-in curriculum.
func Default() (*Graph, error) {
	decls, err := ParseMarkup(bytes.NewReader(defaultMarkup))
	if err != nil {
		return nil, fmt.Errorf("built-in curriculum: %w", err)
	}
	return Build(decls), nil
}

// Load builds a curriculum from a file. The format is chosen by extension:
// .html/.htm for markup, .yaml/.yml for YAML. An empty path loads the
// built-in curriculum.
func Load(path string) (*Graph, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curriculum: %w", err)
	}
	defer f.Close()

	var decls []Declaration
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".html", ".htm":
		decls, err = ParseMarkup(f)
	case ".yaml", ".yml":
		decls, err = ParseYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Build(decls), nil
}
