package config

import (
	"encoding/json"
	"sync"

	"github.com/goccy/go-yaml"
	gojsonschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The configuration layer's JSON Schema is generated once from the Layer
// struct itself via reflection, then compiled by santhosh-tekuri/jsonschema
// for validation of decoded YAML documents. Authoring the schema as a Go
// struct keeps it mechanically in sync with the type it validates.

var (
	layerSchemaOnce     sync.Once
	compiledLayerSchema *jsonschema.Schema
	layerSchemaErr      error
)

func getCompiledLayerSchema() (*jsonschema.Schema, error) {
	layerSchemaOnce.Do(func() {
		compiledLayerSchema, layerSchemaErr = compileLayerSchema()
	})
	return compiledLayerSchema, layerSchemaErr
}

func compileLayerSchema() (*jsonschema.Schema, error) {
	generated, err := gojsonschema.For[Layer](nil)
	if err != nil {
		return nil, hawkerr.Wrap("config.compileLayerSchema: generate", err)
	}
	raw, err := json.Marshal(generated)
	if err != nil {
		return nil, hawkerr.Wrap("config.compileLayerSchema: marshal", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, hawkerr.Wrap("config.compileLayerSchema: decode", err)
	}

	const resourceURL = "https://hawk.invalid/schema/config-layer.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, hawkerr.Wrap("config.compileLayerSchema: add resource", err)
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, hawkerr.Wrap("config.compileLayerSchema: compile", err)
	}
	return schema, nil
}

// ValidateLayerShape re-parses raw against the reflected schema and reports
// any shape violations (wrong types, unknown required fields) beyond what a
// plain YAML unmarshal would catch — e.g. a "tools" entry that isn't a
// mapping.
func ValidateLayerShape(raw []byte) error {
	schema, err := getCompiledLayerSchema()
	if err != nil {
		log.Printf("schema unavailable, skipping shape validation: %v", err)
		return nil
	}

	// Round-trip through encoding/json: goccy/go-yaml decodes into plain
	// map[string]any/[]any/scalar values, which jsonschema can validate
	// directly, but re-marshaling through json normalizes integer/float
	// representations to what the schema (itself JSON) expects.
	var yamlDoc any
	if err := yaml.Unmarshal(raw, &yamlDoc); err != nil {
		return hawkerr.Validationf("configuration is not valid YAML: %v", err)
	}
	jsonBytes, err := json.Marshal(yamlDoc)
	if err != nil {
		return hawkerr.Wrap("config.ValidateLayerShape: marshal", err)
	}
	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return hawkerr.Wrap("config.ValidateLayerShape: unmarshal", err)
	}

	if err := schema.Validate(doc); err != nil {
		return hawkerr.Validationf("configuration does not match schema: %v", err)
	}
	return nil
}
