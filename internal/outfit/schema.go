package outfit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReportSchemaJSON is the canonical JSON Schema for a Report. It is
// served verbatim by the schema endpoint and used to validate reports
// in tests and at the end of the analysis pipeline.
const ReportSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "OutfitReport",
  "type": "object",
  "required": ["overall_vibe", "what_works", "what_needs_work", "suggestions", "item_flags"],
  "additionalProperties": false,
  "properties": {
    "overall_vibe": {
      "type": "object",
      "required": ["summary", "category"],
      "additionalProperties": false,
      "properties": {
        "summary": {"type": "string"},
        "category": {"type": "string"}
      }
    },
    "what_works": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 3,
      "maxItems": 3
    },
    "what_needs_work": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 2,
      "maxItems": 2
    },
    "suggestions": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 2,
      "maxItems": 2
    },
    "item_flags": {
      "type": "object",
      "required": ["dress", "top", "bottom", "shoes", "bag", "accessories"],
      "additionalProperties": false,
      "properties": {
        "dress": {"$ref": "#/$defs/flag"},
        "top": {"$ref": "#/$defs/flag"},
        "bottom": {"$ref": "#/$defs/flag"},
        "shoes": {"$ref": "#/$defs/flag"},
        "bag": {"$ref": "#/$defs/flag"},
        "accessories": {"$ref": "#/$defs/flag"}
      }
    }
  },
  "$defs": {
    "flag": {"type": "string", "enum": ["visible", "not_detected"]}
  }
}`

var reportSchema = mustCompileReportSchema()

func mustCompileReportSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("report.json", strings.NewReader(ReportSchemaJSON)); err != nil {
		panic(fmt.Sprintf("load report schema: %v", err))
	}
	schema, err := compiler.Compile("report.json")
	if err != nil {
		panic(fmt.Sprintf("compile report schema: %v", err))
	}
	return schema
}

// ValidateReport checks a report against the canonical schema.
func ValidateReport(r *Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to decode report for validation: %w", err)
	}
	if err := reportSchema.Validate(doc); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}
