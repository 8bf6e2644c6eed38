// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated catalog schema.
const SchemaID = "https://tidewater.dev/schemas/catalog.schema.json"

var compiled = sync.OnceValues(compileSchema)

// GenerateSchema reflects the JSON Schema for catalog documents.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Document{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Tidewater Item Catalog"
	schema.Description = "Schema for item catalog YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("CATALOG_SCHEMA_FAILED").Wrap(err)
	}
	return data, nil
}

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Code("CATALOG_SCHEMA_FAILED").Wrap(err)
	}
	c := jschema.NewCompiler()
	if err := c.AddResource("catalog.schema.json", doc); err != nil {
		return nil, oops.Code("CATALOG_SCHEMA_FAILED").Wrap(err)
	}
	sch, err := c.Compile("catalog.schema.json")
	if err != nil {
		return nil, oops.Code("CATALOG_SCHEMA_FAILED").Wrap(err)
	}
	return sch, nil
}

// ValidateSchema checks a YAML catalog document against the generated schema.
func ValidateSchema(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "catalog is empty")
	}

	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "invalid YAML: %v", err)
	}
	// Round-trip through JSON so numbers arrive as json.Number.
	asJSON, err := json.Marshal(parsed)
	if err != nil {
		return oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "document is not JSON compatible: %v", err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "decode: %v", err)
	}

	sch, err := compiled()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code("CATALOG_SCHEMA_VIOLATION").Wrapf(ErrInvalid, "%v", err)
	}
	return nil
}
