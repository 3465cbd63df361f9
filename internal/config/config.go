package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	RAG      RAGConfig      `yaml:"rag"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	// DSN is the Postgres connection string. Empty selects the in-memory
	// chunk store instead of Postgres.
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// LLMConfig selects a provider for either embeddings or chat completion.
// Provider is "openai" or "ollama".
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	TopK            int `yaml:"top_k"`
	VectorSize      int `yaml:"vector_size"`
	QuestionMaxLen  int `yaml:"question_max_len"`
	ContextMaxLen   int `yaml:"context_max_len"`
	ExcerptLen      int `yaml:"excerpt_len"`
	MaxUploadBytes  int `yaml:"max_upload_bytes"`
	MaxChunks       int `yaml:"max_chunks"`
	EmbedBatchSize  int `yaml:"embed_batch_size"`
	InsertBatchSize int `yaml:"insert_batch_size"`
}

const (
	defaultChunkSize       = 800
	defaultChunkOverlap    = 100
	defaultTopK            = 5
	defaultVectorSize      = 1536
	defaultQuestionMaxLen  = 1000
	defaultContextMaxLen   = 1200
	defaultExcerptLen      = 150
	defaultMaxUploadBytes  = 10 << 20
	defaultMaxChunks       = 1000
	defaultEmbedBatchSize  = 64
	defaultInsertBatchSize = 500
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets secrets come from the environment instead of the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("EMBED_LLM_KEY"); v != "" {
		c.EmbedLLM.Key = v
	}
	if v := os.Getenv("CHAT_LLM_KEY"); v != "" {
		c.ChatLLM.Key = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.VectorSize == 0 {
		c.RAG.VectorSize = defaultVectorSize
	}
	if c.RAG.QuestionMaxLen == 0 {
		c.RAG.QuestionMaxLen = defaultQuestionMaxLen
	}
	if c.RAG.ContextMaxLen == 0 {
		c.RAG.ContextMaxLen = defaultContextMaxLen
	}
	if c.RAG.ExcerptLen == 0 {
		c.RAG.ExcerptLen = defaultExcerptLen
	}
	if c.RAG.MaxUploadBytes == 0 {
		c.RAG.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.RAG.MaxChunks == 0 {
		c.RAG.MaxChunks = defaultMaxChunks
	}
	if c.RAG.EmbedBatchSize == 0 {
		c.RAG.EmbedBatchSize = defaultEmbedBatchSize
	}
	if c.RAG.InsertBatchSize == 0 {
		c.RAG.InsertBatchSize = defaultInsertBatchSize
	}
}
