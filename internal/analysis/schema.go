package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindStringList
)

type recordField struct {
	name     string
	kind     fieldKind
	enum     []string
	required bool
}

// recordFields is the content shape of an AnalysisRecord as the model must
// return it. processing_warnings and grounding_urls are attached locally.
var recordFields = []recordField{
	{name: "summary", kind: kindString, required: true},
	{name: "key_findings", kind: kindStringList, required: true},
	{name: "methods", kind: kindString, required: true},
	{name: "interpretation", kind: kindString, required: true},
	{name: "risks", kind: kindString, required: true},
	{name: "limitations", kind: kindString, required: true},
	{name: "lay_explanation", kind: kindString, required: true},
	{name: "expert_explanation", kind: kindString, required: true},
	{name: "comparison", kind: kindString},
	{name: "takeaway", kind: kindString, required: true},
	{name: "full_report", kind: kindString, required: true},
	{name: "study_type", kind: kindString, required: true},
	{name: "evidence_strength", kind: kindString, enum: []string{"Low", "Medium", "High"}, required: true},
	{name: "evidence_clarity", kind: kindString, enum: []string{"Low", "Medium", "High"}, required: true},
	{name: "document_quality", kind: kindString, enum: []string{"Limited", "Moderate", "Strong"}, required: true},
	{name: "signal_tags", kind: kindStringList, required: true},
}

var recordSchema = mustCompileRecordSchema()

// validationSchema renders recordFields as a draft-07 JSON Schema.
func validationSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(recordFields))
	required := make([]string, 0, len(recordFields))
	for _, f := range recordFields {
		var prop map[string]interface{}
		switch f.kind {
		case kindStringList:
			prop = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			}
		default:
			prop = map[string]interface{}{"type": "string"}
		}
		if len(f.enum) > 0 {
			prop["enum"] = f.enum
		}
		if !f.required {
			// Optional fields may come back as null; they decode to the zero value.
			prop["type"] = []string{prop["type"].(string), "null"}
		}
		props[f.name] = prop
		if f.required {
			required = append(required, f.name)
		}
	}
	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ResponseSchema renders recordFields in the OpenAPI subset accepted by the
// generationConfig.responseSchema field.
func ResponseSchema() json.RawMessage {
	props := make(map[string]interface{}, len(recordFields))
	required := make([]string, 0, len(recordFields))
	ordering := make([]string, 0, len(recordFields))
	for _, f := range recordFields {
		var prop map[string]interface{}
		switch f.kind {
		case kindStringList:
			prop = map[string]interface{}{
				"type":  "ARRAY",
				"items": map[string]interface{}{"type": "STRING"},
			}
		default:
			prop = map[string]interface{}{"type": "STRING"}
		}
		if len(f.enum) > 0 {
			prop["enum"] = f.enum
		}
		if !f.required {
			prop["nullable"] = true
		}
		props[f.name] = prop
		ordering = append(ordering, f.name)
		if f.required {
			required = append(required, f.name)
		}
	}
	b, _ := json.Marshal(map[string]interface{}{
		"type":             "OBJECT",
		"properties":       props,
		"required":         required,
		"propertyOrdering": ordering,
	})
	return b
}

func mustCompileRecordSchema() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(validationSchema()))
	if err != nil {
		panic(fmt.Sprintf("compiling analysis record schema: %v", err))
	}
	return schema
}

// validateRecord checks data against the record schema. Invalid JSON and
// schema violations both return an error.
func validateRecord(data []byte) error {
	result, err := recordSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("decoding JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation failed: %v", msgs)
	}
	return nil
}
