package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"voice-tutor-service/internal/models"
)

// questionSchema constrains stored question payloads before they are
// decoded into models.Question. Rows failing it are skipped at load time
// rather than surfacing as grading errors mid-call.
const questionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "question"],
  "properties": {
    "type": {
      "enum": ["multiple_choice", "free_text", "fill_in_blank", "matching"]
    },
    "question": {"type": "string", "minLength": 1},
    "options": {"type": "array", "items": {"type": "string"}, "minItems": 2},
    "correctAnswer": {"type": "integer", "minimum": 0},
    "answer": {"type": "string"},
    "keyWords": {"type": "array", "items": {"type": "string"}},
    "alternatives": {"type": "array", "items": {"type": "string"}},
    "pairs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["term", "definition"],
        "properties": {
          "term": {"type": "string", "minLength": 1},
          "definition": {"type": "string", "minLength": 1}
        }
      },
      "minItems": 1
    },
    "position": {"type": "integer", "minimum": 0}
  },
  "allOf": [
    {
      "if": {"properties": {"type": {"const": "multiple_choice"}}},
      "then": {"required": ["options", "correctAnswer"]}
    },
    {
      "if": {"properties": {"type": {"const": "free_text"}}},
      "then": {"required": ["answer"]}
    },
    {
      "if": {"properties": {"type": {"const": "fill_in_blank"}}},
      "then": {"required": ["answer"]}
    },
    {
      "if": {"properties": {"type": {"const": "matching"}}},
      "then": {"required": ["pairs"]}
    }
  ]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compiledQuestionSchema compiles the embedded schema once per process.
func compiledQuestionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw
		// bytes.
		var parsed any
		if err := json.Unmarshal([]byte(questionSchema), &parsed); err != nil {
			schemaErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateQuestionPayload checks a raw question document against the
// embedded schema.
func ValidateQuestionPayload(raw []byte) error {
	compiled, err := compiledQuestionSchema()
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// DecodeQuestion validates raw against the question schema, decodes it,
// and runs the model-level structural check.
func DecodeQuestion(raw []byte) (models.Question, error) {
	if err := ValidateQuestionPayload(raw); err != nil {
		return models.Question{}, err
	}
	var q models.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return models.Question{}, fmt.Errorf("decode question: %w", err)
	}
	if err := q.Validate(); err != nil {
		return models.Question{}, err
	}
	return q, nil
}
