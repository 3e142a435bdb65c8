package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed result.schema.json
var resultSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.schema.json", bytes.NewReader(resultSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to load result schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("result.schema.json")
	})
	return compiledSchema, schemaErr
}

// Validate checks that doc is a well-formed result document, either the
// success shape or the message-only failure shape.
func Validate(doc []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("failed to decode result document: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("result document does not match schema: %w", err)
	}
	return nil
}
