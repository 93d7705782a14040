package logger

import "fmt"

type ErrorKind uint8

const (
	// ParseError means the source text violated the grammar and no AST was
	// produced at all.
	ParseError ErrorKind = iota

	// TransformError means a pipeline stage could not apply to the parsed
	// tree (for example a decorator on an unsupported target). The whole
	// compilation is abandoned; there is no partial output.
	TransformError
)

func (kind ErrorKind) String() string {
	if kind == TransformError {
		return "TransformError"
	}
	return "ParseError"
}

// CompileError is the single error type surfaced by a compilation. It always
// carries the module specifier and a precise source position so a failure is
// attributable to a line in the original module.
type CompileError struct {
	Kind      ErrorKind
	Specifier string
	Line      int // 1-based
	Column    int // 0-based, in bytes
	Text      string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s:%d:%d: %s", e.Kind, e.Specifier, e.Line, e.Column, e.Text)
}

// CompileErrorFromLog converts the first error message recorded during a
// compilation into a CompileError. It returns nil if no errors were logged.
func CompileErrorFromLog(kind ErrorKind, specifier string, log *Log) *CompileError {
	for _, msg := range log.Msgs {
		if msg.Kind != Error {
			continue
		}
		err := &CompileError{Kind: kind, Specifier: specifier, Text: msg.Text}
		if msg.Location != nil {
			err.Line = msg.Location.Line
			err.Column = msg.Location.Column
		}
		return err
	}
	return nil
}
