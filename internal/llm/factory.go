// Package llm provides the boundary to LLM providers.
// This file contains factory functions for building the provider chains.
package llm

import (
	"context"

	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
)

// NewInterpreter builds the interpreter chain from the configuration.
// The primary provider leads, followed by the fallback provider, then
// any other configured provider. Returns nil when no provider has an
// API key (interpretation disabled; the caller degrades to detectors).
func NewInterpreter(ctx context.Context, cfg Config, met *metrics.Metrics, log *logger.Logger) (Interpreter, error) {
	links := make([]Interpreter, 0, 3)

	add := func(provider Provider) error {
		switch provider {
		case ProviderOpenAI, ProviderGroq:
			key, model := cfg.OpenAIAPIKey, cfg.OpenAIIntentModel
			if provider == ProviderGroq {
				key, model = cfg.GroqAPIKey, cfg.GroqIntentModel
			}
			link, err := newOpenAIInterpreter(provider, key, model, log)
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		case ProviderGemini:
			link, err := newGeminiInterpreter(ctx, cfg.GeminiAPIKey, cfg.GeminiIntentModel, log)
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		}
		return nil
	}

	for _, provider := range providerOrder(cfg) {
		if err := add(provider); err != nil {
			log.Warn("skipping interpreter provider", "provider", provider, "error", err)
		}
	}

	chain := NewFallbackInterpreter(cfg.Retry, met, log, links...)
	if chain == nil {
		log.Info("no LLM provider configured for interpretation")
		return nil, nil
	}

	log.Info("interpreter configured",
		"primary", chain.Provider(),
		"chain_size", len(chain.chain))
	return chain, nil
}

// NewSummarizer builds the summarizer chain from the configuration.
// Returns nil when no provider has an API key (the caller then renders
// the deterministic plain listing).
func NewSummarizer(ctx context.Context, cfg Config, met *metrics.Metrics, log *logger.Logger) (Summarizer, error) {
	links := make([]Summarizer, 0, 3)

	add := func(provider Provider) error {
		switch provider {
		case ProviderOpenAI, ProviderGroq:
			key, model := cfg.OpenAIAPIKey, cfg.OpenAISummarizeModel
			if provider == ProviderGroq {
				key, model = cfg.GroqAPIKey, cfg.GroqSummarizeModel
			}
			link, err := newOpenAISummarizer(provider, key, model, log)
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		case ProviderGemini:
			link, err := newGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiSummarizeModel, log)
			if err != nil {
				return err
			}
			if link != nil {
				links = append(links, link)
			}
		}
		return nil
	}

	for _, provider := range providerOrder(cfg) {
		if err := add(provider); err != nil {
			log.Warn("skipping summarizer provider", "provider", provider, "error", err)
		}
	}

	chain := NewFallbackSummarizer(cfg.Retry, met, log, links...)
	if chain == nil {
		log.Info("no LLM provider configured for summarization")
		return nil, nil
	}

	log.Info("summarizer configured",
		"primary", chain.Provider(),
		"chain_size", len(chain.chain))
	return chain, nil
}

// providerOrder lists providers starting with the configured primary
// and fallback, then the rest, without duplicates.
func providerOrder(cfg Config) []Provider {
	all := []Provider{ProviderOpenAI, ProviderGroq, ProviderGemini}
	order := make([]Provider, 0, len(all))
	seen := make(map[Provider]bool, len(all))

	push := func(p Provider) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		order = append(order, p)
	}

	push(cfg.PrimaryProvider)
	push(cfg.FallbackProvider)
	for _, p := range all {
		push(p)
	}
	return order
}
