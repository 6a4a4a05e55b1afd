// Package llm provides the boundary to LLM providers.
// This file contains the Gemini implementation of interpretation and
// summarization via the official google.golang.org/genai SDK.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/logger"
)

// geminiInterpreter parses student queries using Gemini with JSON
// response mode. It implements the Interpreter interface.
type geminiInterpreter struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// newGeminiInterpreter creates a Gemini-based interpreter.
// Returns nil if apiKey is empty (interpretation disabled for this provider).
func newGeminiInterpreter(ctx context.Context, apiKey, model string, log *logger.Logger) (*geminiInterpreter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		return nil, errors.New("model is required for gemini")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &geminiInterpreter{
		client: client,
		model:  model,
		log:    log.WithModule("llm"),
	}, nil
}

// Interpret sends the query and parses the model's JSON reply.
func (p *geminiInterpreter) Interpret(ctx context.Context, query string) (*filter.Interpretation, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("interpreter is nil")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(interpretSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0), // Deterministic classification
		MaxOutputTokens:   512,
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(query), config)
	duration := time.Since(start)

	if err != nil {
		p.log.Warn("interpretation API call failed",
			"provider", "gemini",
			"model", p.model,
			"query_length", len(query),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	interp, parseErr := decodeInterpretation(text)
	if parseErr != nil {
		return nil, parseErr
	}

	if resp.UsageMetadata != nil {
		p.log.Debug("interpretation completed",
			"provider", "gemini",
			"model", p.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds(),
			"intent", interp.Intent)
	}

	return interp, nil
}

// Provider returns the provider type.
func (p *geminiInterpreter) Provider() Provider { return ProviderGemini }

// Close releases resources. The genai client holds none past its HTTP pool.
func (p *geminiInterpreter) Close() error { return nil }

// geminiSummarizer renders filtered rows as prose using Gemini.
type geminiSummarizer struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// newGeminiSummarizer creates a Gemini-based summarizer.
// Returns nil if apiKey is empty (summarization disabled for this provider).
func newGeminiSummarizer(ctx context.Context, apiKey, model string, log *logger.Logger) (*geminiSummarizer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		return nil, errors.New("model is required for gemini")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &geminiSummarizer{
		client: client,
		model:  model,
		log:    log.WithModule("llm"),
	}, nil
}

// Summarize renders one campus's filtered rows.
func (s *geminiSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("summarizer is nil")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(summarizeSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2), // Low temperature for consistent formatting
		MaxOutputTokens:   1024,
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(string(payload)), config)
	duration := time.Since(start)

	if err != nil {
		s.log.Warn("summarization API call failed",
			"provider", "gemini",
			"model", s.model,
			"campus", req.CampusName,
			"row_count", len(req.Rows),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		return "", errors.New("blank summary from model")
	}

	if resp.UsageMetadata != nil {
		s.log.Debug("summarization completed",
			"provider", "gemini",
			"model", s.model,
			"campus", req.CampusName,
			"row_count", len(req.Rows),
			"total_tokens", resp.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

// Provider returns the provider type.
func (s *geminiSummarizer) Provider() Provider { return ProviderGemini }

// Close releases resources.
func (s *geminiSummarizer) Close() error { return nil }

// geminiText collects the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
