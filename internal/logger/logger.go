package logger

// Diagnostics are designed to look and feel like clang's error format. The
// core packages never log; they collect messages against a Source and the
// caller decides how to render them. Positions are byte offsets into the
// original source text and are only converted to line/column pairs when a
// message is materialized.

import (
	"fmt"
	"strings"
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
)

func (kind MsgKind) String() string {
	if kind == Warning {
		return "warning"
	}
	return "error"
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

// A Source is one input module: its specifier plus its contents. The
// specifier may be a file path or a URL; it is treated as an opaque string
// everywhere except error rendering.
type Source struct {
	Specifier string
	Contents  string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start:r.End()]
}

// LineAndColumnForLoc converts a byte offset into a 1-based line and a
// 0-based byte column, scanning from the start of the file. Compilations are
// short-lived and error paths are cold, so no line offset table is cached.
func (s *Source) LineAndColumnForLoc(loc Loc) (line int, column int) {
	line = 1
	lineStart := 0
	end := int(loc.Start)
	if end > len(s.Contents) {
		end = len(s.Contents)
	}
	for i := 0; i < end; i++ {
		if s.Contents[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, end - lineStart
}

func (s *Source) LocationForRange(r Range) *MsgLocation {
	line, column := s.LineAndColumnForLoc(r.Loc)
	lineText := s.Contents[int(r.Loc.Start)-column:]
	if i := strings.IndexByte(lineText, '\n'); i >= 0 {
		lineText = lineText[:i]
	}
	return &MsgLocation{
		File:     s.Specifier,
		Line:     line,
		Column:   column,
		Length:   int(r.Len),
		LineText: lineText,
	}
}

// A Log accumulates diagnostics during one compilation. It is not safe for
// concurrent use; each compilation owns its own Log.
type Log struct {
	Msgs      []Msg
	hasErrors bool
}

func (log *Log) AddError(source *Source, loc Loc, text string) {
	log.AddRangeError(source, Range{Loc: loc}, text)
}

func (log *Log) AddRangeError(source *Source, r Range, text string) {
	log.hasErrors = true
	log.Msgs = append(log.Msgs, Msg{
		Kind:     Error,
		Text:     text,
		Location: source.LocationForRange(r),
	})
}

func (log *Log) HasErrors() bool {
	return log.hasErrors
}

// LogState supports the parser's speculative parsing: messages recorded
// during a failed speculation are rolled back so they aren't reported twice.
type LogState struct {
	numMsgs   int
	hasErrors bool
}

func (log *Log) State() LogState {
	return LogState{numMsgs: len(log.Msgs), hasErrors: log.hasErrors}
}

func (log *Log) Reset(state LogState) {
	log.Msgs = log.Msgs[:state.numMsgs]
	log.hasErrors = state.hasErrors
}

func (msg Msg) String() string {
	if loc := msg.Location; loc != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %s", loc.File, loc.Line, loc.Column, msg.Kind, msg.Text)
	}
	return fmt.Sprintf("%s: %s", msg.Kind, msg.Text)
}
