package format

import "desugar/internal/token"

// Writer accumulates printed output.
type Writer struct {
	buf []byte
	// открытый однострочный комментарий: следующий разделитель обязан быть переводом строки
	inLineComment bool
}

// NewWriter creates a writer with an initial capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

// WriteString appends s verbatim.
func (w *Writer) WriteString(s string) {
	w.breakComment()
	w.buf = append(w.buf, s...)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.breakComment()
	w.buf = append(w.buf, b)
	return nil
}

func (w *Writer) breakComment() {
	if w.inLineComment {
		w.buf = append(w.buf, '\n')
		w.inLineComment = false
	}
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if w.inLineComment {
		w.breakComment()
		return
	}
	if len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Trivia copies a trivia run verbatim.
func (w *Writer) Trivia(run []token.Trivia) {
	for _, tv := range run {
		switch tv.Kind {
		case token.TriviaNewline:
			w.inLineComment = false
		case token.TriviaLineComment, token.TriviaDocLine:
			w.breakComment()
			w.buf = append(w.buf, tv.Text...)
			w.inLineComment = true
			continue
		case token.TriviaSpace:
		default:
			w.breakComment()
		}
		w.buf = append(w.buf, tv.Text...)
	}
}

// Gap writes run when it is non-empty and a separating space otherwise.
func (w *Writer) Gap(run []token.Trivia) {
	if len(run) == 0 {
		w.Space()
		return
	}
	w.Trivia(run)
}
