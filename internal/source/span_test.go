package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "zero receiver adopts other",
			a:        Span{},
			b:        Span{File: 3, Start: 4, End: 8},
			expected: Span{File: 3, Start: 4, End: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 100}
	if !outer.Contains(Span{File: 1, Start: 10, End: 20}) {
		t.Fatalf("expected containment")
	}
	if outer.Contains(Span{File: 2, Start: 10, End: 20}) {
		t.Fatalf("spans of different files must not contain each other")
	}
	if outer.Contains(Span{File: 1, Start: 90, End: 110}) {
		t.Fatalf("overlapping span is not contained")
	}
}

func TestNormalizeIdent(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	if NormalizeIdent(decomposed) != composed {
		t.Fatalf("expected NFC form %q, got %q", composed, NormalizeIdent(decomposed))
	}
	if !SameIdent(composed, decomposed) {
		t.Fatalf("composed and decomposed identifiers must compare equal")
	}
	if NormalizeIdent("plain") != "plain" {
		t.Fatalf("ASCII identifiers must be returned unchanged")
	}
}
