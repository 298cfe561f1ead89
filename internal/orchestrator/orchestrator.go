package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"courserag/internal/domain"
	"courserag/internal/llm"
	"courserag/internal/observability"
	"courserag/internal/tools"
)

// State enumerates the phases of one orchestration run.
type State int

const (
	// StateRoundActive means a tool round may still issue model calls.
	StateRoundActive State = iota
	// StateFinalSynthesis means the mandatory tool-free call is next.
	StateFinalSynthesis
	// StateDone means the run produced its answer.
	StateDone
)

// DefaultMaxRounds bounds sequential tool rounds per run. Two rounds allow
// comparison queries that need independent lookups while keeping cost and
// latency bounded.
const DefaultMaxRounds = 2

// Orchestrator drives up to maxRounds of "ask the model, execute requested
// tools, feed results back" before forcing a final tool-free synthesis call.
type Orchestrator struct {
	provider  llm.Provider
	registry  *tools.Registry
	maxRounds int
	log       zerolog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRounds overrides the tool-round cap.
func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New creates an orchestrator. A nil or empty registry puts every run in
// plain mode: a single model call with no fallback path.
func New(provider llm.Provider, registry *tools.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:  provider,
		registry:  registry,
		maxRounds: DefaultMaxRounds,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// runState is the transient per-run bookkeeping. The message history grows by
// strict append only; nothing is removed or reordered once added.
type runState struct {
	state    State
	round    int
	messages []llm.Message
	sources  []domain.Source
	answer   string
}

// Run answers one query. History is an opaque prior-conversation summary
// merged into the system context, never into the message list. In tool mode
// all expected failures degrade to a textual answer; in plain mode a model
// call failure propagates because there is nothing to fall back to.
func (o *Orchestrator) Run(ctx context.Context, query, history string) (string, []domain.Source, error) {
	system := SystemPrompt
	if history != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", SystemPrompt, history)
	}

	if o.registry == nil || o.registry.Len() == 0 {
		answer, err := o.runPlain(ctx, system, query)
		return answer, nil, err
	}

	st := &runState{
		state:    StateRoundActive,
		round:    1,
		messages: []llm.Message{llm.UserText(query)},
	}
	for st.state != StateDone {
		o.step(ctx, st, system)
	}
	return st.answer, st.sources, nil
}

// runPlain executes the single-call mode used when no tools are registered.
func (o *Orchestrator) runPlain(ctx context.Context, system, query string) (string, error) {
	resp, err := o.provider.Generate(ctx, llm.Request{
		System:   system,
		Messages: []llm.Message{llm.UserText(query)},
	})
	observability.RecordModelCall(err == nil)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Blocks) == 0 {
		fault := &Fault{Kind: FaultEmptyResponse}
		return "Error: " + fault.Error(), nil
	}
	return resp.Text(), nil
}

// step advances the state machine by one transition.
func (o *Orchestrator) step(ctx context.Context, st *runState, system string) {
	switch st.state {
	case StateRoundActive:
		o.stepRound(ctx, st, system)
	case StateFinalSynthesis:
		o.stepSynthesis(ctx, st, system)
	case StateDone:
	}
}

// stepRound runs one tool round: model call with tools offered, then
// sequential execution of any requested tools in request order.
func (o *Orchestrator) stepRound(ctx context.Context, st *runState, system string) {
	resp, err := o.provider.Generate(ctx, llm.Request{
		System:       system,
		Messages:     st.messages,
		Tools:        o.registry.Schemas(),
		AllowToolUse: true,
	})
	observability.RecordModelCall(err == nil)
	if err != nil {
		// The failed round contributes nothing to history.
		fault := &Fault{Kind: FaultAPI, Detail: err.Error()}
		o.log.Warn().Int("round", st.round).Str("fault", fault.Error()).
			Msg("model call failed, falling back to final synthesis")
		st.state = StateFinalSynthesis
		return
	}
	if len(resp.Blocks) == 0 {
		fault := &Fault{Kind: FaultEmptyResponse}
		o.log.Warn().Int("round", st.round).Str("fault", fault.Error()).
			Msg("empty model response, falling back to final synthesis")
		st.state = StateFinalSynthesis
		return
	}

	requests := resp.ToolUses()
	if len(requests) == 0 {
		// The model answered directly; its text becomes context for the
		// synthesis call rather than the literal returned answer.
		st.state = StateFinalSynthesis
		return
	}

	st.messages = append(st.messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Blocks})

	var results []llm.ContentBlock
	faulted := false
	for i, req := range requests {
		outcome := o.registry.Execute(ctx, req.Name, req.Input)
		observability.RecordToolExecution(req.Name, !outcome.Faulted)
		results = append(results, llm.ToolResultBlock(req.ID, outcome.Text))
		st.sources = append(st.sources, outcome.Sources...)
		if outcome.Faulted {
			// A tool fault is a signal to stop compounding errors: record
			// the error result, skip the rest of the batch, go synthesize.
			fault := &Fault{Kind: FaultTool, Detail: outcome.Text}
			o.log.Warn().Int("round", st.round).Str("tool", req.Name).
				Str("fault", fault.Error()).Msg("tool execution fault, stopping round loop")
			// Every tool_use still needs a matching tool_result or the
			// synthesis request is rejected by the API.
			for _, skipped := range requests[i+1:] {
				results = append(results, llm.ToolResultBlock(skipped.ID,
					"Not executed due to a prior tool error"))
			}
			faulted = true
			break
		}
	}
	st.messages = append(st.messages, llm.Message{Role: llm.RoleUser, Content: results})

	if faulted || st.round >= o.maxRounds {
		st.state = StateFinalSynthesis
		return
	}
	st.round++
}

// stepSynthesis issues the mandatory final call without tools, forcing a
// plain-text answer that ties together everything gathered so far.
func (o *Orchestrator) stepSynthesis(ctx context.Context, st *runState, system string) {
	st.state = StateDone
	resp, err := o.provider.Generate(ctx, llm.Request{
		System:   system,
		Messages: st.messages,
	})
	observability.RecordModelCall(err == nil)
	if err != nil {
		fault := &Fault{Kind: FaultAPI, Detail: err.Error()}
		o.log.Error().Str("fault", fault.Error()).Msg("final synthesis failed")
		st.answer = fmt.Sprintf("Error generating final response: %v", err)
		return
	}
	if len(resp.Blocks) == 0 {
		fault := &Fault{Kind: FaultEmptyResponse}
		o.log.Error().Str("fault", fault.Error()).Msg("final synthesis returned no content")
		st.answer = "Error: " + fault.Error()
		return
	}
	st.answer = resp.Text()
}
