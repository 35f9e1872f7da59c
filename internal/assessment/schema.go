package assessment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// sectionSchema is the JSON Schema every section YAML file must satisfy.
// It covers shape only; cross-file rules live in Content.validate.
const sectionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "weight", "questions", "recommendations", "quick_tips", "long_term_goals"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string", "minLength": 1},
    "weight": {"type": "number", "exclusiveMinimum": 0},
    "image": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "prompt", "weight", "answers"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "prompt": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "weight": {"type": "number", "exclusiveMinimum": 0},
          "answers": {
            "type": "array",
            "minItems": 4,
            "maxItems": 4,
            "items": {
              "type": "object",
              "required": ["label", "value"],
              "properties": {
                "label": {"type": "string", "minLength": 1},
                "value": {"type": "integer", "minimum": 0, "maximum": 3}
              }
            }
          }
        }
      }
    },
    "recommendations": {"type": "array", "minItems": 7, "maxItems": 7, "items": {"type": "string"}},
    "quick_tips": {"type": "array", "minItems": 7, "maxItems": 7, "items": {"type": "string"}},
    "long_term_goals": {"type": "array", "minItems": 7, "maxItems": 7, "items": {"type": "string"}}
  }
}`

// validateSectionSchema checks raw section YAML against sectionSchema.
// The YAML is decoded to a generic document and re-encoded as JSON because
// gojsonschema only consumes JSON.
func validateSectionSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(sectionSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(problems, "; "))
	}
	return nil
}
