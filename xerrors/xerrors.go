// Package xerrors is Structive's structured error taxonomy. Every failure
// the engine signals internally carries a stable code, a context record,
// and (where relevant) a wrapped cause, so callers can use errors.Is/As
// instead of matching message strings.
package xerrors

import (
	"fmt"
)

// Code is a stable failure identifier, safe to match on.
type Code string

const (
	STC001 Code = "STC-001" // property missing on state target
	STATE202 Code = "STATE-202" // illegal write or argument to a read-only proxy / reserved word
	STATE303 Code = "STATE-303" // duplicate parent<->child path mapping
	LIST201 Code = "LIST-201" // list index missing where required
	LIST202 Code = "LIST-202" // partial wildcard resolution unsupported
	LIST203 Code = "LIST-203" // list state missing
	BIND101 Code = "BIND-101" // template not found
	BIND102 Code = "BIND-102" // binding creator not found
	BIND103 Code = "BIND-103" // binding node/state construction failed
	BIND104 Code = "BIND-104" // declared child node missing
	BIND201 Code = "BIND-201" // type/contract violation at bind time
	BIND301 Code = "BIND-301" // not implemented (base class)
	TMP101  Code = "TMP-101"  // template loading failure
	TMP102  Code = "TMP-102"  // template syntax error
	PATH101 Code = "PATH-101" // missing path tree node
	UPD001  Code = "UPD-001"  // renderer precondition: unknown ref
	UPD002  Code = "UPD-002"  // renderer precondition: no path manager
	UPD003  Code = "UPD-003"  // renderer precondition: already rendering
	UPD004  Code = "UPD-004"  // renderer precondition: stale version
	UPD005  Code = "UPD-005"  // renderer precondition: queue corruption
	UPD006  Code = "UPD-006"  // renderer precondition: missing updater session
	COMP401 Code = "COMP-401" // custom element identification failure
	COMP402 Code = "COMP-402" // custom element never defined
	FLT201  Code = "FLT-201"  // filter not found
	FLT202  Code = "FLT-202"  // filter argument mismatch
	CSO101  Code = "CSO-101"  // parent/child mapping missing at runtime
	CSO102  Code = "CSO-102"  // parent/child mapping conflict at runtime
)

// Severity grades how a failure should surface.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// DocsBaseURL is prefixed to a Code to build a docs link.
const DocsBaseURL = "https://structive.dev/errors/"

// Error is Structive's structured error type: a stable code, a message,
// a context record for diagnostics, a severity, a docs link, and an
// optional wrapped cause.
type Error struct {
	Code     Code
	Message  string
	Context  map[string]any
	Severity Severity
	DocsURL  string
	Cause    error
}

// New builds an Error at SeverityError with an empty context.
func New(code Code, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Context:  map[string]any{},
		Severity: SeverityError,
		DocsURL:  DocsBaseURL + string(code),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// With adds a context key/value pair and returns the same error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithCause attaches an underlying cause and returns the same error for chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithSeverity overrides the default severity and returns the same error for chaining.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is reports whether target is an *Error with the same Code, so callers
// can write errors.Is(err, xerrors.New(xerrors.STC001, "")) or, more
// idiomatically, use IsCode.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsCode reports whether err is (or wraps) a Structive *Error with the given code.
func IsCode(err error, code Code) bool {
	for err != nil {
		if se, ok := err.(*Error); ok {
			if se.Code == code {
				return true
			}
			err = se.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
