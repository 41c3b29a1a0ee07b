package i18n

import (
	"errors"
	"maps"
	"net/http"
)

// ErrorCode represents an HTTP status code
type ErrorCode int

const (
	ErrorBadRequest         ErrorCode = http.StatusBadRequest
	ErrorUnauthorized       ErrorCode = http.StatusUnauthorized
	ErrorForbidden          ErrorCode = http.StatusForbidden
	ErrorNotFound           ErrorCode = http.StatusNotFound
	ErrorConflict           ErrorCode = http.StatusConflict
	ErrorInternalServer     ErrorCode = http.StatusInternalServerError
	ErrorBadGateway         ErrorCode = http.StatusBadGateway
	ErrorServiceUnavailable ErrorCode = http.StatusServiceUnavailable
)

// ErrorWithCode is a translatable error carrying the HTTP status to answer with.
// Predefined values are shared, so the With* helpers return copies.
type ErrorWithCode struct {
	MessageID string
	Data      map[string]any
	Code      ErrorCode
}

// NewErrorWithCode creates a new error with a code
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{MessageID: messageID, Code: code}
}

func (e *ErrorWithCode) clone() *ErrorWithCode {
	return &ErrorWithCode{MessageID: e.MessageID, Data: maps.Clone(e.Data), Code: e.Code}
}

// WithParam returns a copy carrying one more template parameter
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	out := e.clone()
	if out.Data == nil {
		out.Data = make(map[string]any)
	}
	out.Data[key] = value
	return out
}

// WithHttpCode returns a copy answering with a different status
func (e *ErrorWithCode) WithHttpCode(code ErrorCode) *ErrorWithCode {
	out := e.clone()
	out.Code = code
	return out
}

// Error translates the message in the default language
func (e *ErrorWithCode) Error() string {
	if t := GetTranslator(); t != nil {
		return t.Translate(e.MessageID, getDefaultLang(), e.Data)
	}
	return e.MessageID
}

// Is matches errors sharing the same message id
func (e *ErrorWithCode) Is(target error) bool {
	var other *ErrorWithCode
	if errors.As(target, &other) {
		return other.MessageID == e.MessageID
	}
	return false
}
