package source

import "golang.org/x/text/unicode/norm"

// NormalizeIdent returns the NFC form of an identifier. Identifiers are
// compared after normalization, so every name entering the tree passes here.
func NormalizeIdent(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// SameIdent reports whether two identifiers denote the same name.
func SameIdent(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}
