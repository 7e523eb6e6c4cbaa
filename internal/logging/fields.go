package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Render fields.
	FieldTarget = "target"
	FieldWrite  = "write"
	FieldBytes  = "bytes"

	// Parse fields.
	FieldBlocks      = "blocks"
	FieldDiagnostics = "diagnostics"
	FieldStrict      = "strict"
	FieldViolations  = "violations"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
