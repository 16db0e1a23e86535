package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Request body schemas.
const (
	schemaCategory      = "category.json"
	schemaExpenseCreate = "expense_create.json"
	schemaExpenseUpdate = "expense_update.json"
)

type schemaSet map[string]*jsonschema.Schema

func compileSchemas() (schemaSet, error) {
	set := schemaSet{}
	compiler := jsonschema.NewCompiler()
	names := []string{schemaCategory, schemaExpenseCreate, schemaExpenseUpdate}
	for _, name := range names {
		b, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}
	for _, name := range names {
		s, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		set[name] = s
	}
	return set, nil
}

// validate checks data against the named schema.
func (s schemaSet) validate(name string, data []byte) error {
	schema, ok := s[name]
	if !ok {
		return fmt.Errorf("unknown schema %s", name)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
