package token

//go:generate stringer -type=TriviaKind -trimprefix=Trivia
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
	TriviaDocBlock
)

// Trivia is a run of non-semantic source text attached to a node boundary.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// IsComment reports whether the trivia carries a comment of any flavor.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLine, TriviaDocBlock:
		return true
	default:
		return false
	}
}

// Space returns a single-space trivia.
func Space() Trivia { return Trivia{Kind: TriviaSpace, Text: " "} }

// Newline returns a line-feed trivia.
func Newline() Trivia { return Trivia{Kind: TriviaNewline, Text: "\n"} }

// LineComment returns a line comment trivia; text must include the leading //.
func LineComment(text string) Trivia { return Trivia{Kind: TriviaLineComment, Text: text} }

// BlockComment returns a block comment trivia; text must include the delimiters.
func BlockComment(text string) Trivia { return Trivia{Kind: TriviaBlockComment, Text: text} }

// Indentation returns the trailing line indentation of a trivia run: the last
// newline and the whitespace after it. It returns nil when the run never breaks
// the line. Comments are never part of the result.
func Indentation(run []Trivia) []Trivia {
	last := -1
	for i, tv := range run {
		if tv.Kind == TriviaNewline {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	out := []Trivia{Newline()}
	for _, tv := range run[last+1:] {
		if tv.Kind != TriviaSpace {
			break
		}
		out = append(out, tv)
	}
	return out
}

// Comments returns the comment trivia of a run, in order.
func Comments(run []Trivia) []Trivia {
	var out []Trivia
	for _, tv := range run {
		if tv.IsComment() {
			out = append(out, tv)
		}
	}
	return out
}
