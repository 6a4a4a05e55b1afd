// Package llm provides the boundary to LLM providers.
// This file contains the fallback wrappers for cross-provider failover.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
)

// FallbackInterpreter tries a chain of interpreters in order.
// Each link gets per-call retry with full-jitter backoff; when a link
// exhausts its retries the next provider in the chain is tried.
type FallbackInterpreter struct {
	chain []Interpreter
	retry RetryConfig
	met   *metrics.Metrics
	log   *logger.Logger
}

// NewFallbackInterpreter builds the chain. Nil links are skipped.
// Returns nil when no interpreter is configured.
func NewFallbackInterpreter(retry RetryConfig, met *metrics.Metrics, log *logger.Logger, links ...Interpreter) *FallbackInterpreter {
	chain := make([]Interpreter, 0, len(links))
	for _, link := range links {
		if link != nil {
			chain = append(chain, link)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return &FallbackInterpreter{
		chain: chain,
		retry: retry,
		met:   met,
		log:   log.WithModule("llm"),
	}
}

// Interpret walks the chain until one provider succeeds.
func (f *FallbackInterpreter) Interpret(ctx context.Context, query string) (*filter.Interpretation, error) {
	if f == nil || len(f.chain) == 0 {
		return nil, errors.New("interpreter not configured")
	}

	var lastErr error
	for i, link := range f.chain {
		provider := link.Provider().String()
		start := time.Now()

		var interp *filter.Interpretation
		err := withRetry(ctx, f.retry, func() { f.met.RecordLLMRetry(provider) }, func() error {
			var callErr error
			interp, callErr = link.Interpret(ctx, query)
			return callErr
		})
		if err == nil {
			f.met.RecordInterpret(provider, "ok", time.Since(start).Seconds())
			return interp, nil
		}

		lastErr = err
		f.met.RecordInterpret(provider, "error", time.Since(start).Seconds())

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i < len(f.chain)-1 {
			f.log.Warn("interpreter failed, trying next provider",
				"from", provider,
				"to", f.chain[i+1].Provider(),
				"error", err)
		}
	}

	f.log.Error("all interpreters failed",
		"chain_size", len(f.chain),
		"error", lastErr)
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

// Provider returns the primary provider of the chain.
func (f *FallbackInterpreter) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Close closes every link in the chain.
func (f *FallbackInterpreter) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, link := range f.chain {
		if err := link.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FallbackSummarizer tries a chain of summarizers in order, with the
// same retry-then-next-provider strategy as FallbackInterpreter.
type FallbackSummarizer struct {
	chain []Summarizer
	retry RetryConfig
	met   *metrics.Metrics
	log   *logger.Logger
}

// NewFallbackSummarizer builds the chain. Nil links are skipped.
// Returns nil when no summarizer is configured.
func NewFallbackSummarizer(retry RetryConfig, met *metrics.Metrics, log *logger.Logger, links ...Summarizer) *FallbackSummarizer {
	chain := make([]Summarizer, 0, len(links))
	for _, link := range links {
		if link != nil {
			chain = append(chain, link)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return &FallbackSummarizer{
		chain: chain,
		retry: retry,
		met:   met,
		log:   log.WithModule("llm"),
	}
}

// Summarize walks the chain until one provider succeeds.
func (f *FallbackSummarizer) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if f == nil || len(f.chain) == 0 {
		return "", errors.New("summarizer not configured")
	}

	var lastErr error
	for i, link := range f.chain {
		provider := link.Provider().String()
		start := time.Now()

		var text string
		err := withRetry(ctx, f.retry, func() { f.met.RecordLLMRetry(provider) }, func() error {
			var callErr error
			text, callErr = link.Summarize(ctx, req)
			return callErr
		})
		if err == nil {
			f.met.RecordSummarize(provider, "ok", time.Since(start).Seconds())
			return text, nil
		}

		lastErr = err
		f.met.RecordSummarize(provider, "error", time.Since(start).Seconds())

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if i < len(f.chain)-1 {
			f.log.Warn("summarizer failed, trying next provider",
				"from", provider,
				"to", f.chain[i+1].Provider(),
				"error", err)
		}
	}

	f.log.Error("all summarizers failed",
		"chain_size", len(f.chain),
		"campus", req.CampusName,
		"error", lastErr)
	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

// Provider returns the primary provider of the chain.
func (f *FallbackSummarizer) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Close closes every link in the chain.
func (f *FallbackSummarizer) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, link := range f.chain {
		if err := link.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
