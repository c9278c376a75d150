package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

// Document describes the required part of a configuration document. It only
// exists to reflect the JSON schema; values are read by Parse.
type Document struct {
	HeapRegionSize     uint64 `json:"HEAP_REGION_SIZE"`
	GlobalRegionSize   uint64 `json:"GLOBAL_REGION_SIZE"`
	StackRegionSize    uint64 `json:"STACK_REGION_SIZE"`
	MinAllocSize       uint64 `json:"MIN_ALLOC_SIZE"`
	MaxHeapAllocSize   uint64 `json:"MAX_HEAP_ALLOC_SIZE"`
	MaxStackAllocSize  uint64 `json:"MAX_STACK_ALLOC_SIZE"`
	MaxGlobalAllocSize uint64 `json:"MAX_GLOBAL_ALLOC_SIZE"`
	StackSize          uint64 `json:"STACK_SIZE"`
}

const valueSchema = `{
  "oneOf": [
    {"type": "integer", "minimum": 0},
    {"type": "string", "pattern": "^\\s*[0-9]+\\s*[A-Za-z]*\\s*$"},
    {
      "type": "object",
      "properties": {
        "value": {
          "oneOf": [
            {"type": "integer", "minimum": 0},
            {"type": "string", "pattern": "^\\s*[0-9]+\\s*[A-Za-z]*\\s*$"}
          ]
        },
        "bits": {"enum": [32, 64]}
      },
      "required": ["value"],
      "additionalProperties": false
    }
  ]
}`

// Schema returns the JSON schema configuration documents are validated against.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&Document{})

	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling schema")
	}
	schema := string(data)

	// Every value, required or passed through, accepts the same three forms.
	for _, key := range RequiredParameters {
		schema, err = sjson.SetRaw(schema, "properties."+key, valueSchema)
		if err != nil {
			return nil, errors.Wrapf(err, "error patching schema for %s", key)
		}
	}
	schema, err = sjson.SetRaw(schema, "additionalProperties", valueSchema)
	if err != nil {
		return nil, errors.Wrap(err, "error patching schema for extra values")
	}
	schema, err = sjson.Set(schema, "minProperties", 1)
	if err != nil {
		return nil, errors.Wrap(err, "error patching schema")
	}

	var indented json.RawMessage = []byte(schema)
	return json.MarshalIndent(indented, "", "  ")
}

// ValidateDocument checks a raw document against Schema. It returns one
// message per violation; an empty slice means the document is valid.
func ValidateDocument(doc []byte, format Format) ([]string, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(doc)
		if err != nil {
			return nil, errors.Wrap(err, "error converting yaml to json")
		}
		doc = converted
	}
	schema, err := Schema()
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error validating json")
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s", desc))
	}
	return msgs, nil
}
