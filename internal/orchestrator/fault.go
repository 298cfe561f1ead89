package orchestrator

import "fmt"

// FaultKind classifies the expected failure modes of a run. Internal logic
// branches on kind; faults are stringified only at the display boundary.
type FaultKind int

const (
	// FaultTool marks a tool execution that raised instead of returning.
	FaultTool FaultKind = iota
	// FaultAPI marks a transport or API-level model call failure.
	FaultAPI
	// FaultEmptyResponse marks a model reply with zero content blocks.
	FaultEmptyResponse
)

// Fault is a tagged, non-fatal failure observed during a run.
type Fault struct {
	Kind   FaultKind
	Detail string
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultTool:
		return fmt.Sprintf("tool fault: %s", f.Detail)
	case FaultAPI:
		return fmt.Sprintf("model call fault: %s", f.Detail)
	case FaultEmptyResponse:
		return "model returned an empty response"
	}
	return f.Detail
}
