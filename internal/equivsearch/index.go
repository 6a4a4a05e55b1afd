// Package equivsearch provides keyword search over articulation rows.
// Uses BM25 to match a target course description against DVC course
// codes, titles, and categories for one campus.
package equivsearch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/coursecode"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// Result is one matched articulation row with a rank-based confidence.
// Confidence is derived from BM25 rank position, not semantic similarity.
type Result struct {
	Campus     campus.Key
	Row        storage.EquivalencyRow
	Score      float64
	Rank       int     // Rank position (1-indexed)
	Confidence float32 // Rank-based confidence (0-1), higher = more relevant
}

// campusIndex holds the BM25 index and row list for one campus.
type campusIndex struct {
	okapi *bm25.BM25Okapi
	rows  []storage.EquivalencyRow
}

// Index provides per-campus BM25 search over articulation rows.
type Index struct {
	byCampus map[campus.Key]*campusIndex
	log      *logger.Logger
	mu       sync.RWMutex
}

// New creates an empty index.
func New(log *logger.Logger) *Index {
	return &Index{
		byCampus: make(map[campus.Key]*campusIndex),
		log:      log.WithModule("equivsearch"),
	}
}

// SetCampus builds (or rebuilds) the index for one campus. BM25 needs
// the whole corpus for IDF, so updates are full rebuilds per campus.
func (idx *Index) SetCampus(key campus.Key, rows []storage.EquivalencyRow) error {
	if idx == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(rows) == 0 {
		delete(idx.byCampus, key)
		return nil
	}

	corpus := make([]string, len(rows))
	for i, row := range rows {
		corpus[i] = rowDocument(row)
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	okapi, err := bm25.NewBM25Okapi(corpus, tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("build BM25 index for %s: %w", key, err)
	}

	idx.byCampus[key] = &campusIndex{
		okapi: okapi,
		rows:  append([]storage.EquivalencyRow(nil), rows...),
	}

	idx.log.WithField("campus", string(key)).WithField("rows", len(rows)).Info("equivalency index built")
	return nil
}

// Search scores all rows of one campus against the query and returns
// the topN matches sorted by score descending. An unknown or unindexed
// campus returns no results.
func (idx *Index) Search(key campus.Key, query string, topN int) ([]Result, error) {
	if idx == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ci, ok := idx.byCampus[key]
	if !ok {
		return nil, nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := ci.okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring failed: %w", err)
	}

	results := make([]Result, 0, len(scores))
	for i, score := range scores {
		if score <= 0 || i >= len(ci.rows) {
			continue
		}
		results = append(results, Result{
			Campus: key,
			Row:    ci.rows[i],
			Score:  score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
		results[i].Confidence = rankConfidence(i + 1)
	}

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

// Campuses returns the indexed campus keys, sorted.
func (idx *Index) Campuses() []campus.Key {
	if idx == nil {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]campus.Key, 0, len(idx.byCampus))
	for key := range idx.byCampus {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Count returns the number of indexed rows for a campus.
func (idx *Index) Count(key campus.Key) int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ci, ok := idx.byCampus[key]
	if !ok {
		return 0
	}
	return len(ci.rows)
}

// rowDocument renders one row as indexable text. The canonical code is
// included alongside a de-hyphenated form so "COMSC 101" and
// "COMSC-101" both match.
func rowDocument(row storage.EquivalencyRow) string {
	code := coursecode.Canonicalize(row.SourceCode)
	parts := []string{
		code,
		strings.ReplaceAll(code, "-", " "),
		row.SourceTitle,
		row.Category,
	}
	return strings.Join(parts, " ")
}

// rankConfidence maps a BM25 rank to a confidence score.
// BM25 scores are unbounded and query-dependent, so rank is the proxy.
//
// Formula: 1 / (1 + 0.05 * rank)
//   - rank 1 → 0.95
//   - rank 5 → 0.80
//   - rank 10 → 0.67
func rankConfidence(rank int) float32 {
	if rank <= 0 {
		return 0
	}
	return float32(1.0 / (1.0 + 0.05*float64(rank)))
}

// tokenize lowercases and splits on anything that is not a letter or
// digit. Course codes like "COMSC-101" become ["comsc", "101"].
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}
