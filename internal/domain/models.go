// Package domain contains the core domain types for the Lambda warmer.
package domain

// Fixed propagation fields set on every fanned-out invocation.
// These names are not configurable.
const (
	InvocationField    = "__WARMER_INVOCATION__"
	ConcurrencyField   = "__WARMER_CONCURRENCY__"
	CorrelationIDField = "__WARMER_CORRELATIONID__"
)

// Metadata is carried from the root ping to every fanned-out invocation so
// that all siblings share one correlation ID and know their position.
type Metadata struct {
	InvocationIndex  int    `json:"invocationIndex"`
	TotalConcurrency int    `json:"totalConcurrency"`
	CorrelationID    string `json:"correlationId"`
}

// Ping is the typed form of a warmer ping event.
type Ping struct {
	Metadata

	// Concurrency is the requested fan-out width. It is only ever read from
	// the configured concurrency field, never from the propagated fields.
	Concurrency int `json:"concurrency"`

	// Test suppresses fan-out dispatch.
	Test bool `json:"test"`
}

// Record is the log record emitted for every handled ping.
type Record struct {
	Action              string   `json:"action"`
	Function            string   `json:"function"`
	InstanceID          string   `json:"instanceId"`
	CorrelationID       string   `json:"correlationId"`
	InvocationIndex     int      `json:"invocationIndex"`
	TotalConcurrency    int      `json:"totalConcurrency"`
	Warm                bool     `json:"warm"`
	LastAccessed        *int64   `json:"lastAccessed"`
	LastAccessedSeconds *float64 `json:"lastAccessedSeconds"`
}

// InvocationMode selects how a remote invocation is dispatched.
type InvocationMode int

const (
	// FireAndForget returns once the platform has accepted the invocation.
	FireAndForget InvocationMode = iota

	// WaitForCompletion blocks until the invoked function has finished.
	WaitForCompletion
)

func (m InvocationMode) String() string {
	switch m {
	case FireAndForget:
		return "fire-and-forget"
	case WaitForCompletion:
		return "wait-for-completion"
	default:
		return "unknown"
	}
}
