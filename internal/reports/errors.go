package reports

import (
	"errors"
	"fmt"
)

// Kind classifies a report generation failure. No kind is fatal to the process.
type Kind string

const (
	KindNoInput            Kind = "no_input"
	KindNoDataForSelection Kind = "no_data_for_selection"
	KindTransportFailure   Kind = "transport_failure"
	KindMalformedEnvelope  Kind = "malformed_envelope"
	KindUnextractableJSON  Kind = "unextractable_json"
	KindInvalidJSON        Kind = "invalid_json"
	KindSchemaMismatch     Kind = "schema_mismatch"
	KindInProgress         Kind = "in_progress"
)

// Error is the single failure type of the report path
type Error struct {
	Kind    Kind
	Message string
	// Raw keeps the model text that failed to parse
	Raw string
	Err error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidJSON) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// UserMessage is the one line shown to the user for this failure
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNoInput:
		return "No tickers selected or price data not loaded"
	case KindNoDataForSelection:
		return "No data available for the selected tickers and timeframe"
	case KindInProgress:
		return "A report is already being generated"
	case KindTransportFailure:
		return "The forecasting service could not be reached"
	default:
		return "Report generation failed: the forecasting service returned an unusable response"
	}
}

// Sentinels for errors.Is
var (
	ErrNoInput            = &Error{Kind: KindNoInput}
	ErrNoDataForSelection = &Error{Kind: KindNoDataForSelection}
	ErrTransportFailure   = &Error{Kind: KindTransportFailure}
	ErrMalformedEnvelope  = &Error{Kind: KindMalformedEnvelope}
	ErrUnextractableJSON  = &Error{Kind: KindUnextractableJSON}
	ErrInvalidJSON        = &Error{Kind: KindInvalidJSON}
	ErrSchemaMismatch     = &Error{Kind: KindSchemaMismatch}
	ErrInProgress         = &Error{Kind: KindInProgress}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a report error, or "" for any other error
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsKind reports whether err is a report error of kind k
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
