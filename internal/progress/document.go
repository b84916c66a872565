package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidDocument is returned when an imported progress file cannot be
// used. The current progress is left unchanged.
var ErrInvalidDocument = errors.New("invalid progress file")

// Document is the persisted and exported form of the passed set.
type Document struct {
	Passed []string `json:"aprobado"`
}

// documentSchema describes the only accepted document shape.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"aprobado"},
	"properties": map[string]any{
		"aprobado": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

const documentSchemaURL = "schema://progress-document.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// getCompiledSchema compiles the document schema on first use.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, documentSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(documentSchemaURL)
	})
	return compiledSchema, compileErr
}

// Decode parses and validates a progress document.
// Unparsable JSON and shape mismatches both wrap ErrInvalidDocument.
func Decode(raw []byte) (*Set, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: could not read the file: %v", ErrInvalidDocument, err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return NewSet(doc.Passed...), nil
}

// Encode serializes the set as a compact document.
func Encode(s *Set) ([]byte, error) {
	return json.Marshal(newDocument(s))
}

// EncodeIndent serializes the set as an indented document with a trailing newline.
func EncodeIndent(s *Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newDocument(s *Set) Document {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return Document{Passed: ids}
}
