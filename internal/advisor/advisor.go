// Package advisor orchestrates one conversation turn: command parsing,
// LLM interpretation, filter resolution, row filtering per campus, and
// reply rendering. It owns no transport; the HTTP layer calls Handle.
package advisor

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	domerrors "github.com/dvc-advising/transferbot-go/internal/errors"
	"github.com/dvc-advising/transferbot-go/internal/equivsearch"
	"github.com/dvc-advising/transferbot-go/internal/filter"
	"github.com/dvc-advising/transferbot-go/internal/llm"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
	"github.com/dvc-advising/transferbot-go/internal/ratelimit"
	"github.com/dvc-advising/transferbot-go/internal/session"
	"github.com/dvc-advising/transferbot-go/internal/storage"
	"github.com/dvc-advising/transferbot-go/internal/translog"
)

// Advisor wires the filtering pipeline to session state and the LLM
// boundary.
type Advisor struct {
	db          *storage.DB
	sessions    *session.Manager
	interpreter llm.Interpreter
	summarizer  llm.Summarizer
	equiv       *equivsearch.Index
	limiter     *ratelimit.KeyedLimiter
	transcript  *translog.Writer
	met         *metrics.Metrics
	log         *logger.Logger

	interpretTimeout time.Duration
	summarizeTimeout time.Duration
}

// Options configures an Advisor. DB and Sessions are required; every
// other field degrades gracefully when nil.
type Options struct {
	DB          *storage.DB
	Sessions    *session.Manager
	Interpreter llm.Interpreter
	Summarizer  llm.Summarizer
	Equiv       *equivsearch.Index
	Limiter     *ratelimit.KeyedLimiter
	Transcript  *translog.Writer
	Metrics     *metrics.Metrics
	Logger      *logger.Logger

	InterpretTimeout time.Duration
	SummarizeTimeout time.Duration
}

// New creates an Advisor.
func New(opts Options) *Advisor {
	if opts.InterpretTimeout <= 0 {
		opts.InterpretTimeout = 10 * time.Second
	}
	if opts.SummarizeTimeout <= 0 {
		opts.SummarizeTimeout = 15 * time.Second
	}
	return &Advisor{
		db:               opts.DB,
		sessions:         opts.Sessions,
		interpreter:      opts.Interpreter,
		summarizer:       opts.Summarizer,
		equiv:            opts.Equiv,
		limiter:          opts.Limiter,
		transcript:       opts.Transcript,
		met:              opts.Metrics,
		log:              opts.Logger.WithModule("advisor"),
		interpretTimeout: opts.InterpretTimeout,
		summarizeTimeout: opts.SummarizeTimeout,
	}
}

// Request is one conversation turn.
type Request struct {
	SessionID string
	Query     string

	// Campuses pre-selects campuses by key or alias, in addition to
	// anything detected in the query. Unknown values are ignored.
	Campuses []string

	// Plain bypasses the LLM formatter and uses deterministic bullets.
	Plain bool
}

// Response is the reply to one turn.
type Response struct {
	SessionID string
	Reply     string
	Status    string
	Campuses  []string
	Turn      int
}

// Handle processes one turn against the session's state. A missing
// session ID starts a new session.
func (a *Advisor) Handle(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domerrors.NewValidationError("query", "must not be empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = session.NewID()
	}

	var resp *Response
	err := a.sessions.Do(sessionID, func(state session.State) (session.State, error) {
		if state.Status == session.StatusTerminated {
			return state, domerrors.ErrSessionTerminated
		}

		next, out, err := a.handleTurn(ctx, sessionID, state, query, req)
		if err != nil {
			return state, err
		}
		resp = out
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	a.met.SetActiveSessions(a.sessions.Len())
	return resp, nil
}

// handleTurn dispatches a turn by command kind and produces the next
// state plus the rendered reply.
func (a *Advisor) handleTurn(ctx context.Context, sessionID string, state session.State, query string, req Request) (session.State, *Response, error) {
	plain := req.Plain
	cmd := session.ParseCommand(query)
	a.met.RecordSessionCommand(cmd.Kind.String())

	var (
		next  session.State
		reply string
		err   error
	)

	switch cmd.Kind {
	case session.CommandDone:
		next = state.Terminate()
		reply, err = a.finalSummary(ctx, state, plain)

	case session.CommandReset:
		next = state.Reset()
		reply, err = a.renderUpdate(ctx, next, "Completed cleared.")

	case session.CommandClearCategories:
		next = state.ClearCategories()
		reply, err = a.renderUpdate(ctx, next, "Categories cleared.")

	case session.CommandShowAll:
		next = state.ClearRequiredOnly()
		reply, err = a.renderUpdate(ctx, next, "Showing all courses.")

	case session.CommandRemoveCampus:
		next = state.RemoveCampuses(cmd.Campuses)
		reply, err = a.renderRemoval(ctx, next)

	default:
		next, reply, err = a.filterTurn(ctx, sessionID, state, query, req.Campuses, plain)
	}
	if err != nil {
		return state, nil, err
	}

	a.record(translog.Record{
		SessionID: sessionID,
		Turn:      next.Turn,
		Query:     query,
		Campuses:  campusStrings(next.Campuses),
		Command:   cmd.Kind.String(),
		Reply:     reply,
		Provider:  a.interpreterProvider(),
	})

	return next, &Response{
		SessionID: sessionID,
		Reply:     reply,
		Status:    next.Status.String(),
		Campuses:  campusStrings(next.Campuses),
		Turn:      next.Turn,
	}, nil
}

// filterTurn handles a regular (non-command) turn: interpretation,
// resolution, state transition, and the per-campus listing.
func (a *Advisor) filterTurn(ctx context.Context, sessionID string, state session.State, query string, preset []string, plain bool) (session.State, string, error) {
	interp := a.interpret(ctx, sessionID, query)
	res := filter.Resolve(interp, query)
	res.Campuses = withPreset(res.Campuses, preset)

	if res.Intent == filter.IntentFindEquivalentCourse && res.TargetCourseCode != "" {
		reply, err := a.equivalentCourse(state, res)
		if err != nil {
			return state, "", err
		}
		next := state
		next.Turn++
		return next, reply, nil
	}

	if state.Status == session.StatusEmpty {
		if len(res.Campuses) == 0 {
			next := state
			next.Turn++
			return next, noCampusReply, nil
		}

		loaded, err := a.loadedOnly(ctx, res.Campuses)
		if err != nil {
			return state, "", err
		}
		if len(loaded) == 0 {
			next := state
			next.Turn++
			return next, noDataReply, nil
		}
		res.Campuses = loaded

		next := state.Activate(res, filter.ParseSeed(query))
		reply, err := a.renderListing(ctx, next, true)
		if err != nil {
			return state, "", err
		}
		return next, reply, nil
	}

	// Follow-up turn on an active session
	loaded, err := a.loadedOnly(ctx, res.Campuses)
	if err != nil {
		return state, "", err
	}
	res.Campuses = loaded

	next := state.MergeTurn(res)
	reply, err := a.renderListing(ctx, next, false)
	if err != nil {
		return state, "", err
	}
	return next, reply, nil
}

// interpret calls the LLM boundary within the per-session budget.
// Every failure path degrades to nil: the resolver falls back to local
// detection over the raw query.
func (a *Advisor) interpret(ctx context.Context, sessionID, query string) *filter.Interpretation {
	if a.interpreter == nil {
		return nil
	}
	if a.limiter != nil && !a.limiter.Allow(sessionID) {
		a.log.WithSessionID(sessionID).Warn("LLM budget exhausted, using local detection")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.interpretTimeout)
	defer cancel()

	interp, err := a.interpreter.Interpret(callCtx, query)
	if err != nil {
		a.log.WithSessionID(sessionID).WithError(err).Warn("interpretation failed, using local detection")
		return nil
	}
	return interp
}

// remaining recomputes the filtered rows for every selected campus.
func (a *Advisor) remaining(ctx context.Context, state session.State) (map[campus.Key][]storage.EquivalencyRow, error) {
	out := make(map[campus.Key][]storage.EquivalencyRow, len(state.Campuses))
	for _, key := range state.Campuses {
		rows, err := a.db.RowsByCampus(ctx, key)
		if err != nil {
			return nil, err
		}
		filtered := filter.Apply(rows, state.Filters, state.Seed)
		a.met.RecordFilterRun(key.String(), len(rows)-len(filtered))
		out[key] = filtered
	}
	return out, nil
}

// loadedOnly keeps the campuses that have articulation data.
func (a *Advisor) loadedOnly(ctx context.Context, keys []campus.Key) ([]campus.Key, error) {
	loaded := make([]campus.Key, 0, len(keys))
	for _, key := range keys {
		n, err := a.db.CountRows(ctx, key)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			loaded = append(loaded, key)
		}
	}
	return loaded, nil
}

// record appends a transcript record, best effort.
func (a *Advisor) record(rec translog.Record) {
	if a.transcript == nil {
		return
	}
	if err := a.transcript.Append(rec); err != nil {
		a.log.WithError(err).Warn("transcript append failed")
	}
}

func (a *Advisor) interpreterProvider() string {
	if a.interpreter == nil {
		return ""
	}
	return a.interpreter.Provider().String()
}

// withPreset folds explicitly requested campuses into the detected
// ones. Values that are not a known key or alias are dropped.
func withPreset(keys []campus.Key, preset []string) []campus.Key {
	if len(preset) == 0 {
		return keys
	}
	for _, raw := range preset {
		if k, ok := campus.Parse(raw); ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func campusStrings(keys []campus.Key) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = key.String()
	}
	sort.Strings(out)
	return out
}
