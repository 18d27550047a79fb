package cli

import (
	"errors"
	"fmt"
	"strings"

	"bidcheck/internal/audit"
	"bidcheck/internal/domain"
)

// CLIError wraps an error with a user-facing message and an actionable hint.
type CLIError struct {
	Message string
	Hint    string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{Message: msg, Hint: hint, Err: err}
}

// MapError converts known errors into CLIErrors with hints. Unmapped errors
// are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrEntitlementExhausted):
		return NewCLIError("free audit limit reached", "run 'bidcheck subscribe' to start a subscription", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewCLIError("not signed in", "check that your identity token is valid and not expired", err)
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return NewCLIError("unsupported document type", "use one of: "+supportedTypes(), err)
	case errors.Is(err, audit.ErrSchemaMismatch):
		return NewCLIError("the analysis could not be read", "try again; the model returned an unexpected format", err)
	case errors.Is(err, domain.ErrUpstream):
		return NewCLIError("the analysis service is unavailable", "try again in a few minutes", err)
	}
	return err
}

func supportedTypes() string {
	return strings.Join(audit.SupportedExtensions(), ", ")
}

// Hint returns the hint attached to err, if any.
func Hint(err error) string {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Hint
	}
	return ""
}
