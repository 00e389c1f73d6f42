package core

// Error codes for domain errors reported to clients.
const (
	ErrCodeUserNotFound = "user_not_found"
	ErrCodeBadRequest   = "bad_request"
)

// EngineError wraps a code and human-readable message.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}
