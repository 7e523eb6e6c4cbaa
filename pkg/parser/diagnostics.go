package parser

import "fmt"

// Diagnostic codes for recoverable parse anomalies.
const (
	CodeUnterminatedFence  = "unterminated-fence"
	CodeMalformedFenceInfo = "malformed-fence-info"
	CodeUnknownLanguage    = "unknown-language"
	CodeUnmatchedDelimiter = "unmatched-delimiter"
	CodeMalformedLink      = "malformed-link"
	CodeNestingTooDeep     = "nesting-too-deep"
)

// Diagnostic describes a recoverable anomaly found while parsing.
// Diagnostics are never fatal: the parser degrades the offending construct
// to literal text and continues.
type Diagnostic struct {
	// Code identifies the anomaly class (e.g. "unterminated-fence").
	Code string

	// Message is a human-readable description.
	Message string

	// Line and Column are the 1-based position where the anomaly starts.
	Line   int
	Column int
}

// String formats the diagnostic as "line:col: message [code]".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s [%s]", d.Line, d.Column, d.Message, d.Code)
}
