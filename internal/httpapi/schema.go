package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

//go:embed bulk_translate_request.schema.json
var bulkTranslateRequestSchemaJSON string

type translateRequestBody struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type bulkTranslateRequestBody struct {
	Items []translateRequestBody `json:"items"`
}

var (
	compileOnce          sync.Once
	translateSchema      *jsonschema.Schema
	bulkTranslateSchema  *jsonschema.Schema
	schemaCompilationErr error
)

func loadSchemas() error {
	compileOnce.Do(func() {
		translateSchema, schemaCompilationErr = jsonschema.CompileString(
			"translate_request.schema.json", translateRequestSchemaJSON)
		if schemaCompilationErr != nil {
			return
		}
		bulkTranslateSchema, schemaCompilationErr = jsonschema.CompileString(
			"bulk_translate_request.schema.json", bulkTranslateRequestSchemaJSON)
	})
	return schemaCompilationErr
}

func validateTranslatePayload(payload []byte) (*translateRequestBody, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}
	if err := loadSchemas(); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := translateSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var body translateRequestBody
	if err := remarshal(value, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func validateBulkTranslatePayload(payload []byte) (*bulkTranslateRequestBody, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}
	if err := loadSchemas(); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := bulkTranslateSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var body bulkTranslateRequestBody
	if err := remarshal(value, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// decodeStrictJSON decodes exactly one JSON value and rejects trailing data.
func decodeStrictJSON(payload []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing data")
	}
	return value, nil
}

func remarshal(value any, target any) error {
	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, target); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}
