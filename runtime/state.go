package runtime

// State describes where a Loader is in its lifecycle.
type State int32

// Loader states. Transitions only move forward, except that an explicit
// Retry moves StateLoadFailed back to StateUninitialized.
const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateLoadFailed
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name so it reads well in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
