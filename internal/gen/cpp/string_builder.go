package cpp

import (
	"fmt"
	"strings"
)

// stringBuilder accumulates emitted C++ source with two-space indentation.
type stringBuilder struct {
	strings.Builder
	newLine bool
	indent  int
}

func (s *stringBuilder) Indent() {
	s.indent += 1
}

func (s *stringBuilder) DeIndent() {
	s.indent -= 1
}

func (s *stringBuilder) WriteNewLine() {
	_ = s.Builder.WriteByte('\n')
	s.newLine = true
}

func (s *stringBuilder) WriteString(str string) {
	s.checkNewline()
	_, _ = s.Builder.WriteString(str)
}

// Line writes one formatted line at the current indentation.
func (s *stringBuilder) Line(format string, args ...any) {
	s.WriteString(fmt.Sprintf(format, args...))
	s.WriteNewLine()
}

// Open writes a line ending a block opener and indents what follows.
func (s *stringBuilder) Open(format string, args ...any) {
	s.Line(format, args...)
	s.Indent()
}

// Close de-indents and writes the closing line of a block.
func (s *stringBuilder) Close(format string, args ...any) {
	s.DeIndent()
	s.Line(format, args...)
}

func (s *stringBuilder) checkNewline() {
	if s.newLine {
		s.newLine = false
		for i := 0; i < s.indent; i += 1 {
			_, _ = s.Builder.WriteString("  ")
		}
	}
}
