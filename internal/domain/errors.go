package domain

// ValidationError reports criteria that are malformed despite normalizer
// leniency. It is a caller error: surfaced as a 400, never retried, never
// routed through the fallback.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid search criteria: " + e.Reason
}

// TransientEngineError wraps a full-text engine failure (unreachable,
// timeout, engine-side error). It marks the result as eligible for the
// one-shot structured fallback and is never surfaced to the caller.
type TransientEngineError struct {
	Err error
}

func (e *TransientEngineError) Error() string {
	return "full-text engine: " + e.Err.Error()
}

func (e *TransientEngineError) Unwrap() error { return e.Err }

// BackendSchemaError reports that the target relation does not exist yet,
// e.g. a backend mid-provisioning. The router degrades it to an empty
// result set.
type BackendSchemaError struct {
	Relation string
	Err      error
}

func (e *BackendSchemaError) Error() string {
	return "relation " + e.Relation + " not available: " + e.Err.Error()
}

func (e *BackendSchemaError) Unwrap() error { return e.Err }
