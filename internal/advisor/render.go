package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/llm"
	"github.com/dvc-advising/transferbot-go/internal/session"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

const (
	noCampusReply = "Sorry, I couldn't detect a campus. Try UC Berkeley (UCB), UC Davis (UCD), or UC San Diego (UCSD)."
	noDataReply   = "Could not find data for the requested campus(es)."
	noCampusHint  = "No campuses selected; type 'include <campus>' to add one back (e.g., 'include uc berkeley')."
)

// renderListing renders the remaining courses for every selected
// campus. The first turn leads with the per-campus row counts.
func (a *Advisor) renderListing(ctx context.Context, state session.State, first bool) (string, error) {
	remaining, err := a.remaining(ctx, state)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if !first {
		b.WriteString("Updated results:\n")
	}
	for i, key := range state.Campuses {
		if i > 0 || !first {
			b.WriteString("\n")
		}
		if first {
			fmt.Fprintf(&b, "Found %d mapped DVC courses for %s.\n\n", len(remaining[key]), key.Pretty())
		}
		b.WriteString(renderCampusList(key, remaining[key], state.Filters))
	}
	return b.String(), nil
}

// renderUpdate prefixes a note (e.g. "Completed cleared.") before the
// recomputed listing.
func (a *Advisor) renderUpdate(ctx context.Context, state session.State, note string) (string, error) {
	listing, err := a.renderListing(ctx, state, false)
	if err != nil {
		return "", err
	}
	return note + "\n\n" + listing, nil
}

// renderRemoval reports the remaining campus selection after a remove
// command, then the recomputed listing (or a hint when empty).
func (a *Advisor) renderRemoval(ctx context.Context, state session.State) (string, error) {
	names := make([]string, len(state.Campuses))
	for i, key := range state.Campuses {
		names[i] = key.Pretty()
	}
	header := "Remaining campuses: " + orNone(strings.Join(names, ", "))

	if len(state.Campuses) == 0 {
		return header + "\n" + noCampusHint, nil
	}

	listing, err := a.renderListing(ctx, state, false)
	if err != nil {
		return "", err
	}
	return header + "\n\n" + listing, nil
}

// finalSummary renders the combined summary for the done command. Each
// campus goes through the LLM formatter unless plain is set; any
// formatter failure falls back to the deterministic rendering.
func (a *Advisor) finalSummary(ctx context.Context, state session.State, plain bool) (string, error) {
	remaining, err := a.remaining(ctx, state)
	if err != nil {
		return "", err
	}

	chunks := make([]string, 0, len(state.Campuses))
	for _, key := range state.Campuses {
		chunks = append(chunks, a.summarizeCampus(ctx, key, remaining[key], state.Filters, plain))
	}
	if len(chunks) == 0 {
		return "Session closed. Good luck with your transfer planning!", nil
	}
	return strings.Join(chunks, "\n\n"), nil
}

// summarizeCampus renders one campus's rows through the configured
// summarizer, falling back to the deterministic bullets.
func (a *Advisor) summarizeCampus(ctx context.Context, key campus.Key, rows []storage.EquivalencyRow, set filter.Set, plain bool) string {
	if !plain && a.summarizer != nil {
		callCtx, cancel := context.WithTimeout(ctx, a.summarizeTimeout)
		text, err := a.summarizer.Summarize(callCtx, llm.SummarizeRequest{
			CampusName:       key.Pretty(),
			Rows:             rows,
			Filters:          set,
			CompletedCourses: sortedSet(set.CompletedCourses),
			CompletedDomains: domainStrings(set.CompletedDomains),
		})
		cancel()
		if err == nil && text != "" {
			return text
		}
		a.met.RecordSummarizeFallback()
		a.log.WithField("campus", key.String()).Warn("summarizer unavailable, using plain rendering")
	}
	return renderPlainSummary(key, rows, set)
}

// equivalentCourse answers a find-equivalent-course turn via the BM25
// index. Campus preference: the turn's campuses, then the session's.
func (a *Advisor) equivalentCourse(state session.State, res filter.Resolution) (string, error) {
	if a.equiv == nil {
		return "Equivalency search is not available right now.", nil
	}

	keys := res.Campuses
	if len(keys) == 0 {
		keys = state.Campuses
	}
	if len(keys) == 0 {
		keys = a.equiv.Campuses()
	}
	if len(keys) == 0 {
		return noDataReply, nil
	}

	query := res.TargetCourseCode
	var b strings.Builder
	found := false
	for _, key := range keys {
		results, err := a.equiv.Search(key, query, 3)
		if err != nil {
			return "", err
		}
		if len(results) == 0 {
			continue
		}
		if found {
			b.WriteString("\n\n")
		}
		found = true
		fmt.Fprintf(&b, "Closest DVC matches for %s at %s:", query, key.Pretty())
		for _, r := range results {
			b.WriteString("\n" + bulletLine(r.Row))
		}
	}
	if !found {
		return fmt.Sprintf("No DVC equivalents found for %s.", query), nil
	}
	return b.String(), nil
}

// renderCampusList is the incremental listing shown after each turn.
func renderCampusList(key campus.Key, rows []storage.EquivalencyRow, set filter.Set) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Remaining courses for %s (excluding: domains=%s; courses=%s):\n",
		key.Pretty(),
		orNone(strings.Join(domainStrings(set.CompletedDomains), ", ")),
		orNone(strings.Join(sortedSet(set.CompletedCourses), ", ")))
	for _, row := range rows {
		b.WriteString("\n- " + joinRowParts(row))
	}
	return b.String()
}

// renderPlainSummary is the deterministic final rendering, also used
// when the LLM formatter is unavailable.
func renderPlainSummary(key campus.Key, rows []storage.EquivalencyRow, set filter.Set) string {
	header := fmt.Sprintf("Transfer prep for %s:", key.Pretty())
	if len(rows) == 0 {
		return header + "\nNo DVC course mappings found."
	}

	lines := []string{header}
	if len(set.CompletedDomains) > 0 || len(set.CompletedCourses) > 0 {
		lines = append(lines, fmt.Sprintf("(excluding completed domains: %s; completed courses: %s)",
			orNone(strings.Join(domainStrings(set.CompletedDomains), ", ")),
			orNone(strings.Join(sortedSet(set.CompletedCourses), ", "))))
	}
	for _, row := range rows {
		lines = append(lines, bulletLine(row))
	}
	return strings.Join(lines, "\n")
}

func bulletLine(row storage.EquivalencyRow) string {
	return "• " + joinRowParts(row)
}

// joinRowParts renders "CODE — Title — N units" skipping blank fields.
func joinRowParts(row storage.EquivalencyRow) string {
	parts := make([]string, 0, 3)
	if code := strings.TrimSpace(row.SourceCode); code != "" {
		parts = append(parts, code)
	}
	if title := strings.TrimSpace(row.SourceTitle); title != "" {
		parts = append(parts, title)
	}
	if units := strings.TrimSpace(row.SourceUnits); units != "" {
		if strings.Contains(strings.ToLower(units), "unit") {
			parts = append(parts, units)
		} else {
			parts = append(parts, units+" units")
		}
	}
	return strings.Join(parts, " — ")
}

func domainStrings(domains []filter.Domain) []string {
	out := make([]string, len(domains))
	for i, d := range domains {
		out[i] = string(d)
	}
	sort.Strings(out)
	return out
}

func sortedSet(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
