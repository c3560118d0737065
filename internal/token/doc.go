// Package token defines operator kinds and trivia for the object language.
// Invariants:
//   - Trivia is formatting metadata only; passes relocate it, never drop it.
//   - Trivia.Text is the verbatim source text (including comment markers).
//   - Operator kinds render through Kind.String() exactly as written in source.
package token
