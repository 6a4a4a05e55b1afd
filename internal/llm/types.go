// Package llm provides the boundary to LLM providers (OpenAI, Groq,
// Gemini) for query interpretation and result summarization.
//
// Architecture:
//   - OpenAI/Groq: github.com/openai/openai-go/v3 (OpenAI-compatible API)
//   - Gemini: google.golang.org/genai (official SDK)
//
// Everything returned across this boundary is untrusted: interpretation
// JSON is re-validated by the filter resolver, and summaries fall back
// to a deterministic rendering when a provider fails. Fallback strategy:
// per-call retry with full-jitter backoff, then the next provider in
// the chain.
package llm

import (
	"context"
	"time"

	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// Provider identifies an LLM provider.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// String returns the provider name.
func (p Provider) String() string { return string(p) }

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1/"

// Interpreter turns a raw student query into the structured
// interpretation consumed by the filter resolver.
type Interpreter interface {
	// Interpret analyzes the query. The returned interpretation is
	// untrusted and must pass through filter.Resolve.
	Interpret(ctx context.Context, query string) (*filter.Interpretation, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the interpreter.
	Close() error
}

// SummarizeRequest carries one campus's filtered rows for rendering.
type SummarizeRequest struct {
	CampusName       string                   `json:"campus"`
	Rows             []storage.EquivalencyRow `json:"courses"`
	Filters          filter.Set               `json:"filters"`
	CompletedCourses []string                 `json:"completed_courses"`
	CompletedDomains []string                 `json:"completed_domains"`
}

// Summarizer renders filtered rows as prose.
type Summarizer interface {
	// Summarize renders the request. An empty result is treated as a
	// failure by the caller, which then uses the deterministic fallback.
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the summarizer.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses full-jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int
	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration
}

// DefaultRetryConfig is 1 initial attempt + 1 retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     3 * time.Second,
	}
}

// Config assembles provider credentials, models, and call budgets for
// the factory.
type Config struct {
	OpenAIAPIKey string
	GroqAPIKey   string
	GeminiAPIKey string

	OpenAIIntentModel    string
	OpenAISummarizeModel string
	GroqIntentModel      string
	GroqSummarizeModel   string
	GeminiIntentModel    string
	GeminiSummarizeModel string

	PrimaryProvider  Provider
	FallbackProvider Provider

	InterpretTimeout time.Duration
	SummarizeTimeout time.Duration
	Retry            RetryConfig
}
