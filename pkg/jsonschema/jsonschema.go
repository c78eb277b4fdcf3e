package jsonschema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema. It is safe for concurrent use.
type Schema struct {
	compiled *gojsonschema.Schema
}

// Compile parses and compiles a schema document.
func Compile(schema string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Intended for package-level schemas.
func MustCompile(schema string) *Schema {
	s, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a JSON document against the schema.
func (s *Schema) Validate(doc []byte) error {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(doc))
	return FormatErrors(result, err)
}

// FormatErrors turns a gojsonschema result into a single error wrapping one of the sentinels.
func FormatErrors(result *gojsonschema.Result, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidationSystem, err)
	}
	if result.Valid() {
		return nil
	}
	descs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		descs = append(descs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaValidationFailed, strings.Join(descs, "; "))
}
