package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey is returned when no API key could be resolved
	ErrMissingAPIKey = errors.New("missing AI API key")
	// ErrConfiguration is returned for an unusable gateway configuration
	ErrConfiguration = errors.New("invalid AI configuration")
	// ErrInvalidOutput is returned when the model output does not parse
	ErrInvalidOutput = errors.New("model returned invalid output")
)

// ProviderError is a failed call normalised across backends
type ProviderError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Provider, e.StatusCode, e.Message)
}

// PermissionDenied reports a key, billing or quota refusal
func (e *ProviderError) PermissionDenied() bool {
	return e.StatusCode == http.StatusForbidden || strings.EqualFold(e.Status, "PERMISSION_DENIED")
}

// wrapProviderError converts SDK errors into *ProviderError
func wrapProviderError(err error) error {
	if err == nil {
		return nil
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return &ProviderError{Provider: "gemini", StatusCode: gErr.Code, Status: gErr.Status, Message: gErr.Message}
	}

	var oErr *openai.Error
	if errors.As(err, &oErr) {
		return &ProviderError{Provider: "openai", StatusCode: oErr.StatusCode, Status: oErr.Code, Message: oErr.Message}
	}
	return err
}

// Classify maps an error onto the outcome reported to callers
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrConfiguration) {
		return OutcomeConfiguration
	}
	var pErr *ProviderError
	if errors.As(err, &pErr) && pErr.PermissionDenied() {
		return OutcomePermissionDenied
	}
	return OutcomeFailed
}
