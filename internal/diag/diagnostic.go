package diag

import (
	"desugar/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Pass     string // pass that produced the diagnostic; empty for the driver
	Message  string
	Primary  source.Span
	Notes    []Note
}
