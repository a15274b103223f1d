package query

import (
	"time"
)

// Status is the lifecycle state of a synchronized resource
type Status int

const (
	// StatusIdle means the controller is disabled and holds no data
	StatusIdle Status = iota
	// StatusLoading means the first fetch of an enabled session is in flight and no data exists yet
	StatusLoading
	// StatusFetching means a fetch is in flight while data (or a previous outcome) exists
	StatusFetching
	// StatusSuccess means the last fetch succeeded
	StatusSuccess
	// StatusError means the last fetch failed; data from earlier fetches is kept
	StatusError
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Trigger identifies what caused a fetch
type Trigger int

const (
	TriggerEnable Trigger = iota
	TriggerInterval
	TriggerFocus
	TriggerManual
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	switch t {
	case TriggerEnable:
		return "enable"
	case TriggerInterval:
		return "interval"
	case TriggerFocus:
		return "focus"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the controller state.
// Data is shared with the cache, callers must treat it as immutable.
type Snapshot[T any] struct {
	Key           string
	Status        Status
	Data          T
	HasData       bool
	IsLoading     bool
	IsFetching    bool
	Err           error
	ConnectionKey string
	Enabled       bool
	UpdatedAt     time.Time
	FetchCount    uint64
}
