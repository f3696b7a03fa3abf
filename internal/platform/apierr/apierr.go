package apierr

import "fmt"

// Error carries an HTTP status and a stable business error code alongside
// the wrapped cause. Handlers translate it into the API error envelope.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Msg builds an Error whose cause is just a message string.
func Msg(status int, code, msg string) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf("%s", msg)}
}

// Common pipeline error codes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeQueryFailed    = "QUERY_FAILED"
	CodeDraftFailed    = "DRAFT_FAILED"
	CodeNoConversation = "NO_CONVERSATION"
	CodeNoQuestion     = "NO_QUESTION"
	CodeLLMFailed      = "LLM_FAILED"
	CodeEmbedFailed    = "EMBED_FAILED"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)
