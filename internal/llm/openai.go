// Package llm provides the boundary to LLM providers.
// This file contains the unified OpenAI-compatible implementation of
// interpretation and summarization. It works with any OpenAI-compatible
// provider (OpenAI, Groq) via custom BaseURL.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/logger"
)

// openaiInterpreter parses student queries using an OpenAI-compatible
// chat completion API. It implements the Interpreter interface.
type openaiInterpreter struct {
	client   openai.Client
	model    string
	provider Provider
	log      *logger.Logger
}

// newOpenAIInterpreter creates an OpenAI-compatible interpreter.
// Returns nil if apiKey is empty (interpretation disabled for this provider).
func newOpenAIInterpreter(provider Provider, apiKey, model string, log *logger.Logger) (*openaiInterpreter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		return nil, fmt.Errorf("model is required for provider %s", provider)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if provider == ProviderGroq {
		opts = append(opts, option.WithBaseURL(groqBaseURL))
	}

	return &openaiInterpreter{
		client:   openai.NewClient(opts...),
		model:    model,
		provider: provider,
		log:      log.WithModule("llm"),
	}, nil
}

// Interpret sends the query and parses the model's JSON reply.
func (p *openaiInterpreter) Interpret(ctx context.Context, query string) (*filter.Interpretation, error) {
	if p == nil {
		return nil, errors.New("interpreter is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(interpretSystemPrompt),
			openai.UserMessage(query),
		},
		Temperature: openai.Float(0), // Deterministic classification
		MaxTokens:   openai.Int(512),
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		p.log.Warn("interpretation API call failed",
			"provider", p.provider,
			"model", p.model,
			"query_length", len(query),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errors.New("empty response from model")
	}

	interp, parseErr := decodeInterpretation(resp.Choices[0].Message.Content)
	if parseErr != nil {
		return nil, parseErr
	}

	if resp.Usage.TotalTokens > 0 {
		p.log.Debug("interpretation completed",
			"provider", p.provider,
			"model", p.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds(),
			"intent", interp.Intent)
	}

	return interp, nil
}

// Provider returns the provider type.
func (p *openaiInterpreter) Provider() Provider { return p.provider }

// Close releases resources. The openai client holds none.
func (p *openaiInterpreter) Close() error { return nil }

// openaiSummarizer renders filtered rows as prose using an
// OpenAI-compatible chat completion API.
type openaiSummarizer struct {
	client   openai.Client
	model    string
	provider Provider
	log      *logger.Logger
}

// newOpenAISummarizer creates an OpenAI-compatible summarizer.
// Returns nil if apiKey is empty (summarization disabled for this provider).
func newOpenAISummarizer(provider Provider, apiKey, model string, log *logger.Logger) (*openaiSummarizer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		return nil, fmt.Errorf("model is required for provider %s", provider)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if provider == ProviderGroq {
		opts = append(opts, option.WithBaseURL(groqBaseURL))
	}

	return &openaiSummarizer{
		client:   openai.NewClient(opts...),
		model:    model,
		provider: provider,
		log:      log.WithModule("llm"),
	}, nil
}

// Summarize renders one campus's filtered rows.
func (s *openaiSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if s == nil {
		return "", errors.New("summarizer is nil")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarizeSystemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(0.2), // Low temperature for consistent formatting
		MaxTokens:   openai.Int(1024),
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		s.log.Warn("summarization API call failed",
			"provider", s.provider,
			"model", s.model,
			"campus", req.CampusName,
			"row_count", len(req.Rows),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("blank summary from model")
	}

	if resp.Usage.TotalTokens > 0 {
		s.log.Debug("summarization completed",
			"provider", s.provider,
			"model", s.model,
			"campus", req.CampusName,
			"row_count", len(req.Rows),
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

// Provider returns the provider type.
func (s *openaiSummarizer) Provider() Provider { return s.provider }

// Close releases resources. The openai client holds none.
func (s *openaiSummarizer) Close() error { return nil }

// decodeInterpretation parses the model's reply into an Interpretation.
// Models sometimes wrap JSON in markdown fences despite instructions,
// so fences are stripped before decoding.
func decodeInterpretation(content string) (*filter.Interpretation, error) {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var interp filter.Interpretation
	if err := json.Unmarshal([]byte(text), &interp); err != nil {
		return nil, fmt.Errorf("parse interpretation JSON: %w", err)
	}
	return &interp, nil
}
