package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// DefaultPath is where settings are read from and written to unless overridden
const DefaultPath = "config/settings.yaml"

// Q&A strategy values
const (
	StrategyVector = "vector"
	StrategyGraph  = "graph"
	StrategyHybrid = "hybrid"
)

// Settings holds the effective application configuration. The seven scalar
// fields come from the YAML file merged over built-in defaults; the nested
// service configs are always built from environment variables at load time
// and are never written to the YAML file.
type Settings struct {
	Domain             string `yaml:"domain" json:"domain" jsonschema:"default=Computer Science,description=Topical scope of documents for Q&A"`
	ArticleLimit       int    `yaml:"article_limit" json:"article_limit" jsonschema:"default=1000,minimum=1,maximum=10000,description=Maximum number of articles to index"`
	QnAStrategy        string `yaml:"qna_strategy" json:"qna_strategy" jsonschema:"default=hybrid,enum=vector,enum=graph,enum=hybrid,description=Retrieval strategy"`
	BatchSize          int    `yaml:"batch_size" json:"batch_size" jsonschema:"default=50,minimum=1,maximum=1000,description=Ingestion batch size"`
	ConcurrentRequests int    `yaml:"concurrent_requests" json:"concurrent_requests" jsonschema:"default=10,minimum=1,maximum=50,description=Maximum concurrent requests to backing services"`
	CacheEmbeddings    bool   `yaml:"cache_embeddings" json:"cache_embeddings" jsonschema:"default=true,description=Cache computed embeddings"`
	EnableCitations    bool   `yaml:"enable_citations" json:"enable_citations" jsonschema:"default=true,description=Attach source citations to answers"`

	Neo4j  Neo4jConfig  `yaml:"-" json:"neo4j" jsonschema:"description=Graph database connection (env only)"`
	Qdrant QdrantConfig `yaml:"-" json:"qdrant" jsonschema:"description=Vector database connection (env only)"`
	Ollama OllamaConfig `yaml:"-" json:"ollama" jsonschema:"description=Local inference endpoint (env only)"`
}

// Neo4jConfig holds graph database connection settings, populated from
// NEO4J_URI, NEO4J_USER and NEO4J_PASSWORD. The password has no literal
// default and comes only from the environment.
type Neo4jConfig struct {
	URI      string `yaml:"-" json:"uri" jsonschema:"default=bolt://localhost:7687,description=Bolt URI"`
	User     string `yaml:"-" json:"user" jsonschema:"default=neo4j,description=Database user"`
	Password string `yaml:"-" json:"-"`
}

// QdrantConfig holds vector database connection settings, populated from QDRANT_URL
type QdrantConfig struct {
	URL string `yaml:"-" json:"url" jsonschema:"default=http://localhost:6333,description=Qdrant HTTP endpoint"`
}

// OllamaConfig holds local inference endpoint settings, populated from
// OLLAMA_BASE_URL, OLLAMA_EMBEDDING_MODEL and OLLAMA_LLM_MODEL
type OllamaConfig struct {
	BaseURL        string `yaml:"-" json:"base_url" jsonschema:"default=http://localhost:11434,description=Ollama API base URL"`
	EmbeddingModel string `yaml:"-" json:"embedding_model" jsonschema:"default=nomic-embed-text,description=Embedding model name"`
	LLMModel       string `yaml:"-" json:"llm_model" jsonschema:"default=llama3.2,description=Generation model name"`
}

// fileSettings mirrors the on-disk YAML document. Pointer fields distinguish
// absent keys from zero values so file contents merge over defaults without
// clobbering boolean defaults. Unknown keys are ignored by the decoder.
type fileSettings struct {
	Domain             *string `yaml:"domain"`
	ArticleLimit       *int    `yaml:"article_limit"`
	QnAStrategy        *string `yaml:"qna_strategy"`
	BatchSize          *int    `yaml:"batch_size"`
	ConcurrentRequests *int    `yaml:"concurrent_requests"`
	CacheEmbeddings    *bool   `yaml:"cache_embeddings"`
	EnableCitations    *bool   `yaml:"enable_citations"`
}

// Defaults returns settings with every scalar at its built-in default and
// nested configs at their hardcoded (no environment) defaults.
func Defaults() Settings {
	return Settings{
		Domain:             "Computer Science",
		ArticleLimit:       1000,
		QnAStrategy:        StrategyHybrid,
		BatchSize:          50,
		ConcurrentRequests: 10,
		CacheEmbeddings:    true,
		EnableCitations:    true,
		Neo4j:              Neo4jConfig{URI: "bolt://localhost:7687", User: "neo4j"},
		Qdrant:             QdrantConfig{URL: "http://localhost:6333"},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			EmbeddingModel: "nomic-embed-text",
			LLMModel:       "llama3.2",
		},
	}
}

// Load reads settings from a YAML file merged over built-in defaults.
// A missing file is not an error and yields all defaults. The nested service
// configs are rebuilt from environment variables on every call, regardless of
// the file contents; environment variables never override the scalar fields.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath
	}

	res := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	switch {
	case os.IsNotExist(err): // no file, keep defaults
	case err != nil:
		return nil, fmt.Errorf("read settings file: %w", err)
	default:
		var file fileSettings
		if uErr := yaml.Unmarshal(data, &file); uErr != nil {
			return nil, &ParseError{Path: path, Err: uErr}
		}
		applyFile(&res, &file)
	}

	// nested configs come from the environment only, never from the file
	res.Neo4j = neo4jFromEnv()
	res.Qdrant = qdrantFromEnv()
	res.Ollama = ollamaFromEnv()

	if err := res.Validate(); err != nil {
		return nil, err
	}

	// verify against embedded schema, supplementary only
	if err := VerifyAgainstEmbeddedSchema(&res); err != nil {
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &res, nil
}

// Save writes the seven scalar fields to a YAML file at path, creating parent
// directories as needed and overwriting any existing file. Nested service
// configs are never serialized, so credentials stay out of the file.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = DefaultPath
	}

	if err := s.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Validate checks scalar fields against their declared bounds and enum.
// Out-of-range values fail, they are never clamped.
func (s *Settings) Validate() error {
	if s.ArticleLimit < 1 || s.ArticleLimit > 10000 {
		return &ValidationError{Field: "article_limit", Reason: "must be between 1 and 10000"}
	}
	switch s.QnAStrategy {
	case StrategyVector, StrategyGraph, StrategyHybrid:
	default:
		return &ValidationError{Field: "qna_strategy", Reason: "must be one of vector, graph or hybrid"}
	}
	if s.BatchSize < 1 || s.BatchSize > 1000 {
		return &ValidationError{Field: "batch_size", Reason: "must be between 1 and 1000"}
	}
	if s.ConcurrentRequests < 1 || s.ConcurrentRequests > 50 {
		return &ValidationError{Field: "concurrent_requests", Reason: "must be between 1 and 50"}
	}
	return nil
}

// GetNeo4j returns the graph database configuration
func (s *Settings) GetNeo4j() Neo4jConfig { return s.Neo4j }

// GetQdrant returns the vector database configuration
func (s *Settings) GetQdrant() QdrantConfig { return s.Qdrant }

// GetOllama returns the inference endpoint configuration
func (s *Settings) GetOllama() OllamaConfig { return s.Ollama }

func applyFile(s *Settings, f *fileSettings) {
	if f.Domain != nil {
		s.Domain = *f.Domain
	}
	if f.ArticleLimit != nil {
		s.ArticleLimit = *f.ArticleLimit
	}
	if f.QnAStrategy != nil {
		s.QnAStrategy = *f.QnAStrategy
	}
	if f.BatchSize != nil {
		s.BatchSize = *f.BatchSize
	}
	if f.ConcurrentRequests != nil {
		s.ConcurrentRequests = *f.ConcurrentRequests
	}
	if f.CacheEmbeddings != nil {
		s.CacheEmbeddings = *f.CacheEmbeddings
	}
	if f.EnableCitations != nil {
		s.EnableCitations = *f.EnableCitations
	}
}

func neo4jFromEnv() Neo4jConfig {
	return Neo4jConfig{
		URI:      envOrDefault("NEO4J_URI", "bolt://localhost:7687"),
		User:     envOrDefault("NEO4J_USER", "neo4j"),
		Password: os.Getenv("NEO4J_PASSWORD"),
	}
}

func qdrantFromEnv() QdrantConfig {
	return QdrantConfig{URL: envOrDefault("QDRANT_URL", "http://localhost:6333")}
}

func ollamaFromEnv() OllamaConfig {
	return OllamaConfig{
		BaseURL:        envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel: envOrDefault("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		LLMModel:       envOrDefault("OLLAMA_LLM_MODEL", "llama3.2"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
